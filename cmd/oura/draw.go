package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randomtoy/oura/internal/adapters/locale"
	"github.com/randomtoy/oura/internal/adapters/report"
	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/config"
	"github.com/randomtoy/oura/internal/domain"
)

func NewDrawCmd() *cobra.Command {
	var (
		spread string
		format string
		lang   string
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw a spread without the ritual and print the reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			st := cfg.DefaultSpread
			if spread != "" {
				if st, err = domain.ParseSpreadType(spread); err != nil {
					return err
				}
			}
			if lang == "" {
				lang = cfg.Locale
			}

			w, err := report.ForFormat(format)
			if err != nil {
				return err
			}
			loc, err := locale.NewCatalog().Localizer(lang)
			if err != nil {
				return fmt.Errorf("load string tables: %w", err)
			}

			reading, err := drawReading(st, stdRNG{})
			if err != nil {
				return err
			}
			return w.Write(cmd.OutOrStdout(), app.RenderReading(loc, reading))
		},
	}

	cmd.Flags().StringVarP(&spread, "spread", "s", "", "spread type (single, three_card, relationship, celtic_cross, yearly_reading)")
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "output format: text|markdown|json")
	cmd.Flags().StringVar(&lang, "lang", "", "output language (zh-Hans or en)")
	return cmd
}

// drawReading runs a controller through every phase with no ritual drivers,
// completing the driven phases directly, and reveals the cards in position
// order.
func drawReading(st domain.SpreadType, rng domain.RNG) (domain.Reading, error) {
	ctrl, err := app.NewController(rng, st)
	if err != nil {
		return domain.Reading{}, err
	}
	if _, err := ctrl.StartReading(st); err != nil {
		return domain.Reading{}, err
	}
	for ctrl.Phase() != domain.PhaseCardSelection {
		if !ctrl.Advance() && !ctrl.Complete(ctrl.Phase()) {
			return domain.Reading{}, fmt.Errorf("ritual stuck in %s", ctrl.Phase())
		}
	}
	for i := 0; i < domain.CardCount(st); i++ {
		ctrl.RevealCard(i)
	}
	r, ok := ctrl.Reading()
	if !ok {
		return domain.Reading{}, domain.ErrNoReading
	}
	return r, nil
}
