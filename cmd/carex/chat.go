package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/interpreter"
	"car-expert-api/internal/service"
)

// Words that mark a REPL line as a generation request rather than a
// catalog question, matching the original interactive behavior.
var generationVerbs = []string{"generate", "create", "make"}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive car expert session",
		Long: `Starts an interactive session. Ask free-text questions about the
catalog, or start a line with "generate", "create" or "make" to add cars.
Commands: help, clear, exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			runREPL(cmd, svc)
			return nil
		},
	}
}

func runREPL(cmd *cobra.Command, svc *service.CarService) {
	out := cmd.OutOrStdout()
	printHeader(out)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		promptColor.Fprint(out, "\nWhat would you like to know about cars? > ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit":
			warnColor.Fprintln(out, "\nGoodbye! Happy car hunting!")
			return
		case "help":
			printHelp(out)
			continue
		case "clear":
			clearScreen(out)
			printHeader(out)
			continue
		}

		if isGenerationRequest(input) {
			handleGenerate(cmd, svc, input)
			continue
		}

		handleQuestion(cmd, svc, input)
	}
}

func isGenerationRequest(input string) bool {
	lower := strings.ToLower(input)
	for _, verb := range generationVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return false
}

func handleGenerate(cmd *cobra.Command, svc *service.CarService, input string) {
	out := cmd.OutOrStdout()

	req, err := interpreter.Interpret(input)
	if err != nil {
		errColor.Fprintf(out, "\n%s\n", err)
		return
	}

	warnColor.Fprintln(out, "\nGenerating cars based on your request...")

	cars, err := svc.GenerateAndStore(cmd.Context(), req)
	if err != nil {
		errColor.Fprintf(out, "\nError generating cars: %s\n", err)
		return
	}

	titleColor.Fprintf(out, "\nGenerated %d cars:\n\n", len(cars))
	for _, car := range cars {
		formatCar(out, car)
		fmt.Fprintln(out)
	}
}

func handleQuestion(cmd *cobra.Command, svc *service.CarService, input string) {
	out := cmd.OutOrStdout()

	warnColor.Fprintln(out, "\nThinking...")

	resp, err := svc.Chat(cmd.Context(), input)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindGenerationFailed {
			errColor.Fprintln(out, "\nOops! Something went wrong. Please try rephrasing your question.")
		} else {
			errColor.Fprintf(out, "\n%s\n", err)
		}
		return
	}

	headerColor.Fprint(out, "\nUnderstanding: ")
	fmt.Fprintln(out, resp.Interpretation)
	headerColor.Fprint(out, "Analysis: ")
	fmt.Fprintln(out, resp.Explanation)

	if len(resp.MatchingCars) > 0 {
		titleColor.Fprintf(out, "\nFound %d matching cars:\n\n", len(resp.MatchingCars))
		shown := resp.MatchingCars
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, car := range shown {
			formatCar(out, car)
			fmt.Fprintln(out)
		}
		if extra := len(resp.MatchingCars) - len(shown); extra > 0 {
			warnColor.Fprintf(out, "...and %d more matches\n", extra)
		}
	}

	if resp.Statistics != nil {
		insightColor.Fprintln(out, "Price range:")
		fmt.Fprintf(out, "  Average: $%s\n", formatThousands(resp.Statistics.AverageCost))
		fmt.Fprintf(out, "  Lowest: $%s\n", formatThousands(resp.Statistics.LowestCost))
		fmt.Fprintf(out, "  Highest: $%s\n", formatThousands(resp.Statistics.HighestCost))
	}
}

func printHeader(out io.Writer) {
	headerColor.Fprintln(out, "Car Expert")
	promptColor.Fprintln(out, "Welcome to your personal car expert! Ask me anything about cars.")
	promptColor.Fprintln(out, "You can ask me to generate cars or ask questions about existing ones.")
	warnColor.Fprintln(out, "\nExample generation commands:")
	fmt.Fprintln(out, "- generate 10 JDM sports cars from 2005-2010 with RWD and manual transmission")
	fmt.Fprintln(out, "- create 5 German luxury sedans from 2015-2020 with AWD")
	fmt.Fprintln(out, "- make some 90s Japanese drift cars with turbo engines")
	warnColor.Fprintln(out, "\nType 'exit' to quit or 'help' for more examples")
}

func printHelp(out io.Writer) {
	warnColor.Fprintln(out, "\nCar Generation Examples:")
	fmt.Fprintln(out, "- generate 10 JDM sports cars from 2005-2010 with RWD")
	fmt.Fprintln(out, "- create 5 German luxury cars with AWD")
	fmt.Fprintln(out, "- make some Japanese drift cars with turbo")

	warnColor.Fprintln(out, "\nCar Query Examples:")
	fmt.Fprintln(out, "- Show me sports cars under 50000")
	fmt.Fprintln(out, "- What's a good family SUV?")
	fmt.Fprintln(out, "- Find me some German luxury cars")

	warnColor.Fprintln(out, "\nCommands:")
	fmt.Fprintln(out, "- help: Show this help message")
	fmt.Fprintln(out, "- clear: Clear the screen")
	fmt.Fprintln(out, "- exit: Exit the program")
}

// clearScreen uses the ANSI escape rather than shelling out.
func clearScreen(out io.Writer) {
	fmt.Fprint(out, "\033[2J\033[H")
}
