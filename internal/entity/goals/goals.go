package goals

import "fmt"

type Role string

const (
	Student      Role = "student"
	Professional Role = "professional"
	Parent       Role = "parent"
)

var Roles = []Role{Student, Professional, Parent}

func IsKnownRole(role Role) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CustomGoal is the free-form goal every role carries in addition to its
// named goals.
type CustomGoal struct {
	Label  string
	Amount float64
}

// Plan is a role-tagged savings plan. Exactly one concrete plan type exists
// per role, so consumers switch on the concrete type rather than branching
// on role strings.
type Plan interface {
	Role() Role
	Total() float64
	Summary() string
}

type StudentPlan struct {
	TuitionSavings float64
	BooksMaterials float64
	Custom         CustomGoal
}

func DefaultStudentPlan() StudentPlan {
	return StudentPlan{TuitionSavings: 500, BooksMaterials: 100}
}

func (p StudentPlan) Role() Role { return Student }

func (p StudentPlan) Total() float64 {
	return p.TuitionSavings + p.BooksMaterials + p.Custom.Amount
}

func (p StudentPlan) Summary() string {
	return fmt.Sprintf("You aim to save $%.2f monthly to graduate debt-free.", p.Total())
}

type ProfessionalPlan struct {
	Retirement    float64
	EmergencyFund float64
	Custom        CustomGoal
}

func DefaultProfessionalPlan() ProfessionalPlan {
	return ProfessionalPlan{Retirement: 700, EmergencyFund: 300}
}

func (p ProfessionalPlan) Role() Role { return Professional }

func (p ProfessionalPlan) Total() float64 {
	return p.Retirement + p.EmergencyFund + p.Custom.Amount
}

func (p ProfessionalPlan) Summary() string {
	return fmt.Sprintf("You aim to save $%.2f monthly for your financial runway.", p.Total())
}

type ParentPlan struct {
	ChildEducationFund float64
	DedicatedSavings   float64
	Custom             CustomGoal
}

func DefaultParentPlan() ParentPlan {
	return ParentPlan{ChildEducationFund: 400, DedicatedSavings: 200}
}

func (p ParentPlan) Role() Role { return Parent }

func (p ParentPlan) Total() float64 {
	return p.ChildEducationFund + p.DedicatedSavings + p.Custom.Amount
}

func (p ParentPlan) Summary() string {
	return fmt.Sprintf("You aim to save $%.2f monthly for your family's legacy.", p.Total())
}

// DefaultPlan returns the plan with the role's default goal amounts.
func DefaultPlan(role Role) (Plan, error) {
	switch role {
	case Student:
		return DefaultStudentPlan(), nil
	case Professional:
		return DefaultProfessionalPlan(), nil
	case Parent:
		return DefaultParentPlan(), nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}
