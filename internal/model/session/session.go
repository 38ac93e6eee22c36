package session

import (
	"max.ks1230/finance-dashboard/internal/entity/budget"
	"max.ks1230/finance-dashboard/internal/entity/goals"
	"max.ks1230/finance-dashboard/internal/entity/ledger"
)

// State is everything one session owns: the extracted paystub text, the
// active ledger, the category limits and the user's role. It is replaced as
// a whole on every mutation; storages hand out copies so concurrent requests
// for the same session never share slices or maps.
type State struct {
	PaystubText string
	Ledger      ledger.Ledger
	Limits      budget.Limits
	Role        goals.Role
}

// NewState is the state of a session before any upload: default limits,
// student role, nothing ingested.
func NewState() State {
	return State{
		Limits: budget.DefaultLimits(),
		Role:   goals.Student,
	}
}

func (s State) clone() State {
	res := s
	res.Ledger = make(ledger.Ledger, len(s.Ledger))
	copy(res.Ledger, s.Ledger)
	res.Limits = make(budget.Limits, len(s.Limits))
	for cat, lim := range s.Limits {
		res.Limits[cat] = lim
	}
	return res
}
