package server

import (
	"fmt"
	"time"

	"max.ks1230/finance-dashboard/internal/entity/budget"
	"max.ks1230/finance-dashboard/internal/entity/goals"
	"max.ks1230/finance-dashboard/internal/entity/ledger"
)

type paystubResponse struct {
	Text string `json:"text"`
}

type transactionPreview struct {
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Month    time.Time `json:"month"`
	Category string    `json:"category,omitempty"`
}

type transactionsResponse struct {
	Records int                  `json:"records"`
	Preview []transactionPreview `json:"preview"`
}

func preview(l ledger.Ledger) []transactionPreview {
	n := len(l)
	if n > previewRows {
		n = previewRows
	}
	res := make([]transactionPreview, 0, n)
	for _, rec := range l[:n] {
		res = append(res, transactionPreview{
			Amount:   rec.Amount,
			Date:     rec.Date,
			Month:    rec.Month,
			Category: rec.Category,
		})
	}
	return res
}

type limitsResponse struct {
	Limits budget.Limits `json:"limits"`
}

type roleRequest struct {
	Role goals.Role `json:"role"`
}

// goalsRequest carries the union of every role's goal fields; only the
// fields for the session's role apply, the rest are ignored. Omitted fields
// keep the role's default amounts.
type goalsRequest struct {
	TuitionSavings       *float64 `json:"tuition-savings"`
	BooksMaterials       *float64 `json:"books-materials"`
	Retirement           *float64 `json:"retirement"`
	EmergencyFund        *float64 `json:"emergency-fund"`
	ChildEducationFund   *float64 `json:"child-education-fund"`
	DedicatedSavingsGoal *float64 `json:"dedicated-savings-goal"`
	CustomLabel          string   `json:"custom-label"`
	CustomAmount         float64  `json:"custom-amount"`
}

func (req goalsRequest) hasNegative() bool {
	for _, v := range []*float64{
		req.TuitionSavings, req.BooksMaterials,
		req.Retirement, req.EmergencyFund,
		req.ChildEducationFund, req.DedicatedSavingsGoal,
	} {
		if v != nil && *v < 0 {
			return true
		}
	}
	return req.CustomAmount < 0
}

func (req goalsRequest) plan(role goals.Role) (goals.Plan, error) {
	base, err := goals.DefaultPlan(role)
	if err != nil {
		return nil, err
	}
	custom := goals.CustomGoal{Label: req.CustomLabel, Amount: req.CustomAmount}
	switch p := base.(type) {
	case goals.StudentPlan:
		override(&p.TuitionSavings, req.TuitionSavings)
		override(&p.BooksMaterials, req.BooksMaterials)
		p.Custom = custom
		return p, nil
	case goals.ProfessionalPlan:
		override(&p.Retirement, req.Retirement)
		override(&p.EmergencyFund, req.EmergencyFund)
		p.Custom = custom
		return p, nil
	case goals.ParentPlan:
		override(&p.ChildEducationFund, req.ChildEducationFund)
		override(&p.DedicatedSavings, req.DedicatedSavingsGoal)
		p.Custom = custom
		return p, nil
	}
	return nil, fmt.Errorf("unsupported plan for role %q", role)
}

func override(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

type goalsResponse struct {
	Role    goals.Role `json:"role"`
	Total   float64    `json:"total"`
	Summary string     `json:"summary"`
}
