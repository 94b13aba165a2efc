package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"car-expert-api/internal/model"
)

var (
	headerColor  = color.New(color.FgBlue, color.Bold)
	titleColor   = color.New(color.FgGreen)
	promptColor  = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed)
	insightColor = color.New(color.FgMagenta)
)

// formatCar renders one record with its notable attributes, in the
// style of a classifieds listing.
func formatCar(w io.Writer, car model.CarRecord) {
	titleColor.Fprintf(w, "%d %s %s\n", car.Year, car.Brand, car.Model)

	if cost, ok := car.Attr("cost").(float64); ok {
		fmt.Fprintf(w, "  Price: $%s\n", formatThousands(cost))
	}
	if mileage, ok := car.Attr("mileage").(float64); ok {
		fmt.Fprintf(w, "  Mileage: %s miles\n", formatThousands(mileage))
	}

	details := []struct{ label, attr string }{
		{"Category", "category"},
		{"Origin", "origin"},
		{"Drivetrain", "drivetrain"},
		{"Transmission", "transmission"},
		{"Engine", "engine_type"},
		{"Body", "body_style"},
	}
	for _, d := range details {
		if value, ok := car.Attr(d.attr).(string); ok && value != "" {
			fmt.Fprintf(w, "  %s: %s\n", d.label, value)
		}
	}
	if hp, ok := car.Attr("horsepower").(float64); ok {
		fmt.Fprintf(w, "  Horsepower: %d hp\n", int(hp))
	}
	if car.ID != "" {
		fmt.Fprintf(w, "  ID: %s\n", car.ID)
	}
}

// formatCarTable renders records as a compact table for list output.
func formatCarTable(w io.Writer, cars []model.CarRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tBRAND\tMODEL\tORIGIN\tCOST\tID")
	for _, car := range cars {
		origin, _ := car.Attr("origin").(string)
		cost := ""
		if c, ok := car.Attr("cost").(float64); ok {
			cost = "$" + formatThousands(c)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", car.Year, car.Brand, car.Model, origin, cost, car.ID)
	}
	tw.Flush()
}

// formatThousands renders 18500 as "18,500".
func formatThousands(value float64) string {
	whole := fmt.Sprintf("%.0f", value)

	negative := strings.HasPrefix(whole, "-")
	if negative {
		whole = whole[1:]
	}

	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)

	out := strings.Join(parts, ",")
	if negative {
		out = "-" + out
	}
	return out
}
