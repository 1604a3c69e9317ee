package http

import (
	"github.com/randomtoy/oura/internal/app"
	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ports"
	"github.com/randomtoy/oura/internal/ritual"
)

// SpreadRequest is the body of create, start, spread and reset calls.
type SpreadRequest struct {
	Spread string `json:"spread"`
}

type BoundsRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type InputRequest struct {
	Event string `json:"event"`
}

type SpreadResponse struct {
	Type        domain.SpreadType  `json:"type"`
	CardCount   int                `json:"card_count"`
	Title       string             `json:"title"`
	Subtitle    string             `json:"subtitle"`
	Instruction string             `json:"instruction"`
	Info        string             `json:"info"`
	Positions   []PositionResponse `json:"positions,omitempty"`
}

type PositionResponse struct {
	Index      int           `json:"index"`
	Key        string        `json:"key"`
	Label      string        `json:"label"`
	Revealed   bool          `json:"revealed"`
	Revealable bool          `json:"revealable"`
	Card       *CardResponse `json:"card,omitempty"`
}

type CardResponse struct {
	ID       string          `json:"id"`
	Arcana   domain.Arcana   `json:"arcana"`
	Category domain.Category `json:"category"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
}

type SessionResponse struct {
	ID            string                 `json:"id"`
	Locale        string                 `json:"locale"`
	Phase         domain.Phase           `json:"phase"`
	PhaseIndex    int                    `json:"phase_index"`
	PhaseTitle    string                 `json:"phase_title"`
	Spread        SpreadResponse         `json:"spread"`
	NextCardIndex int                    `json:"next_card_index"`
	RevealedCount int                    `json:"revealed_count"`
	Magnified     *int                   `json:"magnified,omitempty"`
	Reading       *ports.ReadingDocument `json:"reading,omitempty"`
	Breathing     ritual.BreathingState  `json:"breathing"`
	Connection    ritual.ConnectionState `json:"connection"`
	Shuffle       app.ShuffleView        `json:"shuffle"`
}

type ResultResponse struct {
	Applied bool            `json:"applied"`
	Session SessionResponse `json:"session"`
	Meta    MetaResp        `json:"meta"`
}

type MetaResp struct {
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toCardResponse(loc ports.Localizer, c domain.CardIdentity) CardResponse {
	return CardResponse{
		ID:       c.ID(),
		Arcana:   c.Arcana,
		Category: c.Category(),
		Name:     loc.Text(c.Name()),
		Image:    c.ImageRef(),
	}
}

func toSpreadResponse(loc ports.Localizer, v app.SpreadView) SpreadResponse {
	return SpreadResponse{
		Type:        v.Type,
		CardCount:   v.CardCount,
		Title:       loc.Text(v.Title),
		Subtitle:    loc.Text(v.Subtitle),
		Instruction: loc.Text(v.Instruction),
		Info:        loc.Text(v.Info),
	}
}

func toSessionResponse(loc ports.Localizer, s app.Snapshot) SessionResponse {
	spread := toSpreadResponse(loc, s.Spread)
	spread.Positions = make([]PositionResponse, len(s.Positions))
	for i, p := range s.Positions {
		pr := PositionResponse{
			Index:      p.Index,
			Key:        string(p.Key),
			Label:      loc.Text(p.Label),
			Revealed:   p.Revealed,
			Revealable: p.Revealable,
		}
		if p.Card != nil {
			card := toCardResponse(loc, *p.Card)
			pr.Card = &card
		}
		spread.Positions[i] = pr
	}

	resp := SessionResponse{
		ID:            s.ID,
		Locale:        loc.Locale(),
		Phase:         s.Phase,
		PhaseIndex:    s.PhaseIndex,
		PhaseTitle:    loc.Text(s.PhaseTitle),
		Spread:        spread,
		NextCardIndex: s.NextCardIndex,
		RevealedCount: s.RevealedCount,
		Magnified:     s.Magnified,
		Breathing:     s.Breathing,
		Connection:    s.Connection,
		Shuffle:       s.Shuffle,
	}
	if s.Reading != nil {
		doc := app.RenderReading(loc, *s.Reading)
		resp.Reading = &doc
	}
	return resp
}
