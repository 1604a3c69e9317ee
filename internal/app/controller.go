package app

import (
	"fmt"

	"github.com/randomtoy/oura/internal/domain"
)

// Hooks are called synchronously after a mutation has been applied.
type Hooks struct {
	// OnPhase fires on every phase transition, including reset.
	OnPhase func(from, to domain.Phase)
	// OnChange fires after any applied state change.
	OnChange func()
}

// Controller is the phase state machine of one reading session. It is the
// only writer of the drawn spread, the reveal bookkeeping and the reading.
// Controller is not safe for concurrent use; callers serialize access on a
// single execution context.
//
// Phase-guarded operations return false and leave the state untouched when
// called out of turn.
type Controller struct {
	rng   domain.RNG
	hooks Hooks

	phase     domain.Phase
	spread    domain.DrawnSpread
	revealed  int
	magnified int
	reading   *domain.Reading
	generated int
}

// NewController draws the first spread of type t and starts in Preparation.
func NewController(rng domain.RNG, t domain.SpreadType) (*Controller, error) {
	c := &Controller{
		rng:       rng,
		phase:     domain.PhasePreparation,
		magnified: -1,
	}
	if err := c.draw(t); err != nil {
		return nil, err
	}
	return c, nil
}

// SetHooks replaces the change callbacks.
func (c *Controller) SetHooks(h Hooks) { c.hooks = h }

// StartReading draws a fresh spread of type t. Only valid in Preparation.
func (c *Controller) StartReading(t domain.SpreadType) (bool, error) {
	if c.phase != domain.PhasePreparation {
		return false, nil
	}
	if err := c.draw(t); err != nil {
		return false, err
	}
	c.changed()
	return true, nil
}

// SwitchSpread discards the current draw and re-initializes the session for
// type t. Only valid in Preparation.
func (c *Controller) SwitchSpread(t domain.SpreadType) (bool, error) {
	return c.StartReading(t)
}

// Advance moves to the next phase on user request. Only Preparation and
// Breathing can be left this way. Connection and Shuffling end when their
// driver calls Complete, card selection when the last card is revealed and
// Completed only by Reset.
func (c *Controller) Advance() bool {
	switch c.phase {
	case domain.PhasePreparation, domain.PhaseBreathing:
		return c.next()
	}
	return false
}

// Complete finishes the driven phase p. It is ignored unless p is the
// current phase.
func (c *Controller) Complete(p domain.Phase) bool {
	if c.phase != p {
		return false
	}
	switch p {
	case domain.PhaseBreathing, domain.PhaseConnection, domain.PhaseShuffling:
		return c.next()
	}
	return false
}

func (c *Controller) next() bool {
	next, ok := c.phase.Next()
	if !ok {
		return false
	}
	c.transition(next)
	c.changed()
	return true
}

// CanReveal reports whether RevealCard(index) would be applied.
func (c *Controller) CanReveal(index int) bool {
	return c.phase == domain.PhaseCardSelection &&
		c.revealed < len(c.spread.Cards) &&
		index == c.revealed
}

// RevealCard turns the card at index face up. Cards are revealed strictly in
// position order; any other index is ignored. Revealing the last card
// completes the session and generates the reading.
func (c *Controller) RevealCard(index int) bool {
	if !c.CanReveal(index) {
		return false
	}
	c.spread.Cards[index].Revealed = true
	c.revealed++
	c.magnified = index

	if c.revealed == len(c.spread.Cards) {
		r := domain.GenerateReading(c.spread.Type(), c.spread.RevealedCards())
		c.reading = &r
		c.generated++
		c.transition(domain.PhaseCompleted)
	}
	c.changed()
	return true
}

// Magnify selects a revealed card for the detail view.
func (c *Controller) Magnify(index int) bool {
	if index < 0 || index >= len(c.spread.Cards) || !c.spread.Cards[index].Revealed {
		return false
	}
	if c.magnified == index {
		return true
	}
	c.magnified = index
	c.changed()
	return true
}

// DismissMagnify closes the detail view.
func (c *Controller) DismissMagnify() bool {
	if c.magnified < 0 {
		return false
	}
	c.magnified = -1
	c.changed()
	return true
}

// Reset returns to Preparation with a fresh draw of the same spread type.
// It is valid from every phase.
func (c *Controller) Reset() {
	// The current type always has a definition.
	_ = c.ResetWith(c.spread.Type())
}

// ResetWith returns to Preparation with a fresh draw of type t.
func (c *Controller) ResetWith(t domain.SpreadType) error {
	if err := c.draw(t); err != nil {
		return err
	}
	c.transition(domain.PhasePreparation)
	c.changed()
	return nil
}

// Phase is the current ritual phase.
func (c *Controller) Phase() domain.Phase { return c.phase }

// SpreadType is the type of the current draw.
func (c *Controller) SpreadType() domain.SpreadType { return c.spread.Type() }

// RevealedCount is the number of cards turned face up.
func (c *Controller) RevealedCount() int { return c.revealed }

// Spread returns a copy of the drawn spread.
func (c *Controller) Spread() domain.DrawnSpread { return c.spread.Clone() }

// NextCardIndex is the only position eligible for reveal. Once every card is
// face up it equals the card count.
func (c *Controller) NextCardIndex() int { return c.revealed }

// Magnified returns the card selected for the detail view.
func (c *Controller) Magnified() (int, bool) { return c.magnified, c.magnified >= 0 }

// Reading returns the generated reading once the spread is complete.
func (c *Controller) Reading() (domain.Reading, bool) {
	if c.reading == nil {
		return domain.Reading{}, false
	}
	return *c.reading, true
}

// ReadingsGenerated counts readings produced since the controller was built.
func (c *Controller) ReadingsGenerated() int { return c.generated }

func (c *Controller) draw(t domain.SpreadType) error {
	spread, err := domain.DrawSpread(t, c.rng)
	if err != nil {
		return fmt.Errorf("draw %s: %w", t, err)
	}
	c.spread = spread
	c.revealed = 0
	c.magnified = -1
	c.reading = nil
	return nil
}

func (c *Controller) transition(to domain.Phase) {
	from := c.phase
	c.phase = to
	if c.hooks.OnPhase != nil {
		c.hooks.OnPhase(from, to)
	}
}

func (c *Controller) changed() {
	if c.hooks.OnChange != nil {
		c.hooks.OnChange()
	}
}
