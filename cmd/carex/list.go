package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"car-expert-api/internal/model"
)

func newListCmd() *cobra.Command {
	var (
		brand      string
		yearMin    int
		yearMax    int
		origin     string
		drivetrain string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored cars, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := model.FilterQuery{Brand: brand}
			if cmd.Flags().Changed("year-min") {
				filter.YearMin = &yearMin
			}
			if cmd.Flags().Changed("year-max") {
				filter.YearMax = &yearMax
			}
			if origin != "" || drivetrain != "" {
				filter.Attributes = map[string]string{}
				if origin != "" {
					filter.Attributes["origin"] = origin
				}
				if drivetrain != "" {
					filter.Attributes["drivetrain"] = drivetrain
				}
			}

			svc, cleanup, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cars, err := svc.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(cars) == 0 {
				fmt.Fprintln(out, "No cars found.")
				return nil
			}
			formatCarTable(out, cars)
			return nil
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "exact brand match (case-insensitive)")
	cmd.Flags().IntVar(&yearMin, "year-min", 0, "minimum model year")
	cmd.Flags().IntVar(&yearMax, "year-max", 0, "maximum model year")
	cmd.Flags().StringVar(&origin, "origin", "", "origin/market attribute")
	cmd.Flags().StringVar(&drivetrain, "drivetrain", "", "drivetrain attribute")
	return cmd
}
