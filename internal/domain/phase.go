package domain

// Phase is one stage of the guided reading ritual.
type Phase string

const (
	PhasePreparation   Phase = "preparation"
	PhaseBreathing     Phase = "breathing"
	PhaseConnection    Phase = "connection"
	PhaseShuffling     Phase = "shuffling"
	PhaseCardSelection Phase = "card_selection"
	PhaseCompleted     Phase = "completed"
)

var phaseOrder = []Phase{
	PhasePreparation, PhaseBreathing, PhaseConnection,
	PhaseShuffling, PhaseCardSelection, PhaseCompleted,
}

// Phases returns the ritual sequence.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// Index is the position of p in the sequence, or -1.
func (p Phase) Index() int {
	for i, q := range phaseOrder {
		if q == p {
			return i
		}
	}
	return -1
}

// Next returns the phase that follows p. Completed has no successor.
func (p Phase) Next() (Phase, bool) {
	i := p.Index()
	if i < 0 || i+1 >= len(phaseOrder) {
		return p, false
	}
	return phaseOrder[i+1], true
}

func (p Phase) Title() Message {
	return Msg("phase." + string(p))
}
