package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"car-expert-api/internal/interpreter"
	"car-expert-api/internal/model"
)

func newGenerateCmd() *cobra.Command {
	var (
		count     int
		yearStart int
		yearEnd   int
	)

	cmd := &cobra.Command{
		Use:   "generate [free text request]",
		Short: "Generate cars and store them in the catalog",
		Long: `Generates car records from a free-text request, e.g.:

  carex generate 10 JDM sports cars from 2005-2010 with RWD

Flags override whatever the free text says.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.GenerationRequest{Count: 1}

			if len(args) > 0 {
				var err error
				req, err = interpreter.Interpret(strings.Join(args, " "))
				if err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("count") {
				req.Count = count
			}
			if cmd.Flags().Changed("year-start") {
				req.YearStart = yearStart
			}
			if cmd.Flags().Changed("year-end") {
				req.YearEnd = yearEnd
			}

			svc, cleanup, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cars, err := svc.GenerateAndStore(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			titleColor.Fprintf(out, "Generated %d cars:\n\n", len(cars))
			for _, car := range cars {
				formatCar(out, car)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of cars to generate")
	cmd.Flags().IntVar(&yearStart, "year-start", 0, "earliest model year")
	cmd.Flags().IntVar(&yearEnd, "year-end", 0, "latest model year")
	return cmd
}
