package app

import (
	"time"

	"github.com/randomtoy/oura/internal/domain"
	"github.com/randomtoy/oura/internal/ritual"
)

// Snapshot is the render boundary of a session. Face-down cards are never
// exposed.
type Snapshot struct {
	ID            string                 `json:"id"`
	Phase         domain.Phase           `json:"phase"`
	PhaseIndex    int                    `json:"phase_index"`
	PhaseTitle    domain.Message         `json:"phase_title"`
	Spread        SpreadView             `json:"spread"`
	Positions     []PositionView         `json:"positions"`
	NextCardIndex int                    `json:"next_card_index"`
	RevealedCount int                    `json:"revealed_count"`
	Magnified     *int                   `json:"magnified,omitempty"`
	Reading       *domain.Reading        `json:"reading,omitempty"`
	Breathing     ritual.BreathingState  `json:"breathing"`
	Connection    ritual.ConnectionState `json:"connection"`
	Shuffle       ShuffleView            `json:"shuffle"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type SpreadView struct {
	Type        domain.SpreadType `json:"type"`
	CardCount   int               `json:"card_count"`
	Title       domain.Message    `json:"title"`
	Subtitle    domain.Message    `json:"subtitle"`
	Instruction domain.Message    `json:"instruction"`
	Info        domain.Message    `json:"info"`
}

type PositionView struct {
	Index      int                  `json:"index"`
	Key        domain.PositionKey   `json:"key"`
	Label      domain.Message       `json:"label"`
	Revealed   bool                 `json:"revealed"`
	Revealable bool                 `json:"revealable"`
	Card       *domain.CardIdentity `json:"card,omitempty"`
}

// ShuffleView leaves out the placeholder pool unless a run is in progress.
type ShuffleView struct {
	Stage  ritual.ShuffleStage  `json:"stage"`
	Ticks  int                  `json:"ticks"`
	Width  float64              `json:"width"`
	Height float64              `json:"height"`
	Cards  []ritual.Placeholder `json:"cards,omitempty"`
}

// NewSpreadView describes a spread definition for presentation.
func NewSpreadView(def domain.SpreadDefinition) SpreadView {
	return SpreadView{
		Type:        def.Type,
		CardCount:   def.CardCount(),
		Title:       def.Title(),
		Subtitle:    def.Subtitle(),
		Instruction: def.Instruction(),
		Info:        def.Info(),
	}
}

func newSnapshot(s *Session) Snapshot {
	ctrl := s.ctrl
	spread := ctrl.Spread()

	positions := make([]PositionView, len(spread.Positions))
	for i, p := range spread.Positions {
		pv := PositionView{
			Index:      p.Index,
			Key:        p.Key,
			Label:      p.Label(),
			Revealed:   spread.Cards[i].Revealed,
			Revealable: ctrl.CanReveal(i),
		}
		if pv.Revealed {
			card := spread.Cards[i].Card
			pv.Card = &card
		}
		positions[i] = pv
	}

	snap := Snapshot{
		ID:            s.id,
		Phase:         ctrl.Phase(),
		PhaseIndex:    ctrl.Phase().Index(),
		PhaseTitle:    ctrl.Phase().Title(),
		Spread:        NewSpreadView(spread.Definition),
		Positions:     positions,
		NextCardIndex: ctrl.NextCardIndex(),
		RevealedCount: ctrl.RevealedCount(),
		Breathing:     s.breathing.State(),
		Connection:    s.connection.State(),
		CreatedAt:     s.created,
		UpdatedAt:     s.active,
	}
	if i, ok := ctrl.Magnified(); ok {
		snap.Magnified = &i
	}
	if r, ok := ctrl.Reading(); ok {
		snap.Reading = &r
	}

	sh := s.shuffle.State()
	snap.Shuffle = ShuffleView{Stage: sh.Stage, Ticks: sh.Ticks, Width: sh.Width, Height: sh.Height}
	if sh.Stage != ritual.ShuffleIdle && sh.Stage != ritual.ShuffleFinished {
		snap.Shuffle.Cards = sh.Cards
	}
	return snap
}
