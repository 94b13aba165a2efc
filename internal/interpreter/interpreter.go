// Package interpreter turns free-text generation requests into
// structured parameters. It is a pure, best-effort keyword extractor:
// no provider call is ever made here, and ambiguous text resolves to
// the first match rather than an error.
package interpreter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"car-expert-api/internal/model"
)

var (
	// "2005-2010", "2005 to 2010", "2005 through 2010"
	yearRangeRegex = regexp.MustCompile(`\b((?:19|20)\d{2})\s*(?:-|–|to|through|until)\s*((?:19|20)\d{2})\b`)

	// "from 2005", "since 2005", "after 2005"
	yearStartRegex = regexp.MustCompile(`\b(?:from|since|after)\s+((?:19|20)\d{2})\b`)

	// "until 2010", "before 2010", "up to 2010"
	yearEndRegex = regexp.MustCompile(`\b(?:until|before|up to)\s+((?:19|20)\d{2})\b`)

	// "90s", "1990s", "2000s"
	decadeRegex = regexp.MustCompile(`\b(19|20)?(\d)0s\b`)

	// Standalone small number, candidate for the record count.
	countRegex = regexp.MustCompile(`\b(\d{1,3})\b`)
)

var drivetrains = map[string]string{
	"rwd": "RWD", "rear wheel drive": "RWD", "rear-wheel drive": "RWD",
	"fwd": "FWD", "front wheel drive": "FWD", "front-wheel drive": "FWD",
	"awd": "AWD", "all wheel drive": "AWD", "all-wheel drive": "AWD",
	"4wd": "4WD", "four wheel drive": "4WD",
}

var origins = map[string]string{
	"jdm":      "Japan",
	"japanese": "Japan",
	"german":   "Germany",
	"american": "USA",
	"italian":  "Italy",
	"british":  "UK",
	"korean":   "South Korea",
	"french":   "France",
	"swedish":  "Sweden",
	"european": "Europe",
}

var bodyStyles = []string{
	"coupe", "sedan", "hatchback", "suv", "convertible",
	"wagon", "pickup", "minivan", "roadster", "liftback",
}

var transmissions = map[string]string{
	"manual":    "manual",
	"stick":     "manual",
	"automatic": "automatic",
	"auto":      "automatic",
}

// Descriptive words worth carrying into the generation prompt verbatim.
var modifierWords = []string{
	"sports", "sport", "luxury", "drift", "classic", "muscle",
	"rally", "economy", "family", "offroad", "off-road", "tuner",
	"turbo", "hybrid", "electric", "diesel", "supercharged", "v8",
	"v6", "v12",
}

// Interpret extracts generation parameters from a free-text request
// like "10 JDM sports cars from 2005-2010 with RWD". Count defaults
// to 1; year bounds stay unbounded unless mentioned. When the text
// names several year ranges, the first mention wins.
func Interpret(text string) (model.GenerationRequest, error) {
	normalized := Normalize(text)

	req := model.GenerationRequest{Count: 1}

	remaining := extractYears(normalized, &req)
	extractCount(remaining, &req)
	extractKeywords(normalized, &req)

	if err := req.Validate(); err != nil {
		return model.GenerationRequest{}, err
	}
	return req, nil
}

// Normalize lowercases, strips accents and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)

	return strings.Join(strings.Fields(s), " ")
}

// extractYears pulls year bounds out of the text and returns the text
// with the consumed spans blanked so they cannot be re-read as counts.
func extractYears(text string, req *model.GenerationRequest) string {
	if m := yearRangeRegex.FindStringSubmatchIndex(text); m != nil {
		req.YearStart, _ = strconv.Atoi(text[m[2]:m[3]])
		req.YearEnd, _ = strconv.Atoi(text[m[4]:m[5]])
		return blank(text, m[0], m[1])
	}

	if m := decadeRegex.FindStringSubmatch(text); m != nil {
		century := m[1]
		if century == "" {
			century = "19"
		}
		start, _ := strconv.Atoi(century + m[2] + "0")
		req.YearStart = start
		req.YearEnd = start + 9
		loc := decadeRegex.FindStringIndex(text)
		return blank(text, loc[0], loc[1])
	}

	out := text
	if m := yearStartRegex.FindStringSubmatchIndex(out); m != nil {
		req.YearStart, _ = strconv.Atoi(out[m[2]:m[3]])
		out = blank(out, m[0], m[1])
	}
	if m := yearEndRegex.FindStringSubmatchIndex(out); m != nil {
		req.YearEnd, _ = strconv.Atoi(out[m[2]:m[3]])
		out = blank(out, m[0], m[1])
	}
	return out
}

func extractCount(text string, req *model.GenerationRequest) {
	if m := countRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			req.Count = n
		}
	}
}

func extractKeywords(text string, req *model.GenerationRequest) {
	for keyword, value := range drivetrains {
		if containsWord(text, keyword) {
			req.Drivetrain = value
			break
		}
	}
	for keyword, value := range origins {
		if containsWord(text, keyword) {
			req.Origin = value
			break
		}
	}
	for _, style := range bodyStyles {
		if containsWord(text, style) || containsWord(text, style+"s") {
			req.BodyStyle = style
			break
		}
	}
	for keyword, value := range transmissions {
		if containsWord(text, keyword) {
			req.Transmission = value
			break
		}
	}
	for _, word := range modifierWords {
		if containsWord(text, word) {
			req.Modifiers = append(req.Modifiers, word)
		}
	}
}

// containsWord reports whether text contains the phrase on word
// boundaries, so "auto" does not match inside "automotive".
func containsWord(text, phrase string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], phrase)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(phrase)
		beforeOK := start == 0 || !isWordChar(rune(text[start-1]))
		afterOK := end == len(text) || !isWordChar(rune(text[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func blank(s string, start, end int) string {
	return s[:start] + strings.Repeat(" ", end-start) + s[end:]
}
