package domain

import (
	"fmt"
	"strings"
)

// SpreadType identifies a named spread layout.
type SpreadType string

const (
	SpreadSingle       SpreadType = "single"
	SpreadThreeCard    SpreadType = "three_card"
	SpreadRelationship SpreadType = "relationship"
	SpreadCelticCross  SpreadType = "celtic_cross"
	SpreadYearly       SpreadType = "yearly_reading"
)

// PositionKey is the stable identifier of a position within a spread.
// Display labels are looked up as "position.<key>".
type PositionKey string

// SpreadDefinition is the immutable layout of a spread type.
type SpreadDefinition struct {
	Type      SpreadType
	Positions []PositionKey
}

func (d SpreadDefinition) CardCount() int { return len(d.Positions) }

func (d SpreadDefinition) Title() Message       { return Msg("spread." + string(d.Type) + ".title") }
func (d SpreadDefinition) Subtitle() Message    { return Msg("spread." + string(d.Type) + ".subtitle") }
func (d SpreadDefinition) Instruction() Message { return Msg("spread." + string(d.Type) + ".instruction") }
func (d SpreadDefinition) Info() Message        { return Msg("spread." + string(d.Type) + ".info") }

var spreadOrder = []SpreadType{
	SpreadSingle, SpreadThreeCard, SpreadRelationship, SpreadCelticCross, SpreadYearly,
}

var definitions = map[SpreadType][]PositionKey{
	SpreadSingle:    {"current"},
	SpreadThreeCard: {"past", "present", "future"},
	SpreadRelationship: {
		"self", "partner", "relationship_status", "potential_issue", "future_direction",
	},
	SpreadCelticCross: {
		"situation", "challenge", "distant_past", "recent_past", "possible_future",
		"near_future", "inner_attitude", "external_influence", "hopes_fears", "final_outcome",
	},
	SpreadYearly: {
		"month_1", "month_2", "month_3", "month_4", "month_5", "month_6",
		"month_7", "month_8", "month_9", "month_10", "month_11", "month_12",
	},
}

// SpreadTypes lists every spread type in menu order.
func SpreadTypes() []SpreadType {
	out := make([]SpreadType, len(spreadOrder))
	copy(out, spreadOrder)
	return out
}

// ParseSpreadType accepts the stable identifier of a spread type.
func ParseSpreadType(s string) (SpreadType, error) {
	t := SpreadType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := definitions[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSpread, s)
	}
	return t, nil
}

// Definition returns the layout for t.
func Definition(t SpreadType) (SpreadDefinition, error) {
	positions, ok := definitions[t]
	if !ok {
		return SpreadDefinition{}, fmt.Errorf("%w: %q", ErrUnknownSpread, string(t))
	}
	out := make([]PositionKey, len(positions))
	copy(out, positions)
	return SpreadDefinition{Type: t, Positions: out}, nil
}

// PositionsFor returns the ordered position keys of t, or nil if t is unknown.
func PositionsFor(t SpreadType) []PositionKey {
	d, err := Definition(t)
	if err != nil {
		return nil
	}
	return d.Positions
}

// CardCount returns the number of positions in t, or 0 if t is unknown.
func CardCount(t SpreadType) int {
	return len(definitions[t])
}

// Position is one slot of a drawn spread.
type Position struct {
	Index int         `json:"index"`
	Key   PositionKey `json:"key"`
}

func (p Position) Label() Message {
	return Msg("position." + string(p.Key))
}
