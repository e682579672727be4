package rules

import "github.com/mitchelldurbincs/tank2/internal/game/core"

// ActionValidator answers legality queries without mutating state
type ActionValidator interface {
	ActionLegal(side, slot int, action core.Action) bool
}

// LegalActionCalculator computes legal actions for tanks
type LegalActionCalculator struct{}

// NewLegalActionCalculator creates a new legal action calculator
func NewLegalActionCalculator() *LegalActionCalculator {
	return &LegalActionCalculator{}
}

// Mask returns a boolean mask over core.AllActions, indexed by Action.Index().
// Invalid is never legal.
func (lac *LegalActionCalculator) Mask(v ActionValidator, side, slot int) [core.ActionCount]bool {
	var mask [core.ActionCount]bool
	for _, a := range core.AllActions {
		mask[a.Index()] = v.ActionLegal(side, slot, a)
	}
	return mask
}

// Legal lists the legal actions of a tank in enumeration order
func (lac *LegalActionCalculator) Legal(v ActionValidator, side, slot int) []core.Action {
	mask := lac.Mask(v, side, slot)
	out := make([]core.Action, 0, core.ActionCount)
	for _, a := range core.AllActions {
		if mask[a.Index()] {
			out = append(out, a)
		}
	}
	return out
}

// HasNonStay reports whether the tank can do anything other than stay
func (lac *LegalActionCalculator) HasNonStay(v ActionValidator, side, slot int) bool {
	for _, a := range core.AllActions {
		if a == core.Stay || a == core.Invalid {
			continue
		}
		if v.ActionLegal(side, slot, a) {
			return true
		}
	}
	return false
}
