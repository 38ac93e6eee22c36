package goals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OnStudentDefaults_ShouldTotalWithCustomAmount(t *testing.T) {
	plan := DefaultStudentPlan()
	plan.Custom = CustomGoal{Label: "Laptop", Amount: 50}

	assert.Equal(t, 650.0, plan.Total())
	assert.Contains(t, plan.Summary(), "$650.00")
}

func Test_OnDefaultPlan_ShouldMatchRoleDefaults(t *testing.T) {
	cases := []struct {
		role  Role
		total float64
	}{
		{Student, 600},
		{Professional, 1000},
		{Parent, 600},
	}

	for _, tc := range cases {
		plan, err := DefaultPlan(tc.role)
		require.NoError(t, err)
		assert.Equal(t, tc.role, plan.Role())
		assert.Equal(t, tc.total, plan.Total())
	}
}

func Test_OnDefaultPlan_ShouldRejectUnknownRole(t *testing.T) {
	_, err := DefaultPlan(Role("landlord"))

	assert.Error(t, err)
}
