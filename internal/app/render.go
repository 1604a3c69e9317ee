package app

import (
	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ports"
)

// RenderReading turns a reading into display text in loc's locale.
func RenderReading(loc ports.Localizer, r domain.Reading) ports.ReadingDocument {
	def, _ := domain.Definition(r.SpreadType)

	cards := make([]ports.CardDocument, len(r.CardReadings))
	for i, cr := range r.CardReadings {
		cards[i] = ports.CardDocument{
			Index:          cr.Position.Index,
			Position:       loc.Text(cr.Position.Label()),
			CardID:         cr.Card.ID(),
			Card:           loc.Text(cr.Card.Name()),
			Category:       loc.Text(domain.Msg("category." + string(cr.Card.Category()))),
			Image:          cr.Card.ImageRef(),
			Interpretation: loc.Text(cr.Interpretation),
		}
	}

	return ports.ReadingDocument{
		Locale:  loc.Locale(),
		Title:   loc.Text(r.Title),
		Spread:  loc.Text(def.Title()),
		Cards:   cards,
		Summary: loc.Text(r.Summary),
		Advice:  loc.Text(r.Advice),
		Headings: ports.Headings{
			Position:       loc.Text(domain.Msg("reading.position")),
			Card:           loc.Text(domain.Msg("reading.card")),
			Category:       loc.Text(domain.Msg("reading.category")),
			Interpretation: loc.Text(domain.Msg("reading.interpretation")),
			Summary:        loc.Text(domain.Msg("reading.summary")),
			Advice:         loc.Text(domain.Msg("reading.advice")),
		},
	}
}
