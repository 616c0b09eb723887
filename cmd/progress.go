package main

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"companyscan/internal/config"
	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
	"companyscan/pkg/serrors"
	"companyscan/pkg/storage/jsonfile"
)

// progressCommand shows the stored progress and optionally overrides it.
func progressCommand(cfg *config.Config) *cobra.Command {
	var british, scottish int64

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Shows or sets the last confirmed number of every range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			fs, path, err := rootFS(cfg.Scan.LastFile)
			if err != nil {
				return err
			}
			store := jsonfile.New(fs, path)

			progress, err := store.Load(ctx)
			if err != nil && !errors.Is(err, serrors.ErrNotFound) {
				return err
			}

			changed := false
			if cmd.Flags().Changed("set-british") {
				progress.Set(domain.RangeBritish, british)
				changed = true
			}
			if cmd.Flags().Changed("set-scottish") {
				progress.Set(domain.RangeScottish, scottish)
				changed = true
			}
			if changed {
				if err := store.Save(ctx, progress); err != nil {
					return err
				}
				logger.Info(ctx, "progress updated", zap.String("path", path))
			}

			color.Printf("<bold>%s</>\n", path)
			for _, kind := range domain.Ranges {
				last := progress.Last(kind)
				color.Printf("  %-8s %d (next <cyan>%s</>)\n", kind, last, kind.Identifier(last+1))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.Scan.LastFile, "last", "l", cfg.Scan.LastFile, "progress file holding the last numbers")
	cmd.Flags().Int64Var(&british, "set-british", 0, "store this British number as the last confirmed one")
	cmd.Flags().Int64Var(&scottish, "set-scottish", 0, "store this Scottish number as the last confirmed one")

	return cmd
}
