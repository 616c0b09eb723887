package main

import (
	"context"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"companyscan/internal/config"
)

// companiesCommand lists the companies mirrored to PostgreSQL by earlier runs.
func companiesCommand(cfg *config.Config) *cobra.Command {
	var limit uint

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Lists the companies stored in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			rows, err := strg.Companies(ctx, limit)
			if err != nil {
				return err
			}

			for _, row := range rows {
				color.Printf("<cyan>%s</>  %s  <bold>%s</>  %s, %s %s\n",
					row.Number, row.Name, row.Director, row.Address, row.City, row.PostalCode)
			}
			color.Printf("%d companies\n", len(rows))

			return nil
		},
	}

	cmd.Flags().UintVarP(&limit, "limit", "n", 100, "maximum number of companies to list")

	return cmd
}
