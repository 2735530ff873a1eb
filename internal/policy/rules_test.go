package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soyeahso/telcoassist/internal/domain"
)

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorNotFound, ClassifyError("plan not found: Gold"))
	assert.Equal(t, ErrorNotFound, ClassifyError("no such user"))
	assert.Equal(t, ErrorInvalidInput, ClassifyError("invalid phone number format"))
	assert.Equal(t, ErrorSystem, ClassifyError("database error: locked"))
	assert.Equal(t, ErrorSystem, ClassifyError("sql: connection refused"))
	assert.Equal(t, ErrorSystem, ClassifyError("request timeout"))
	assert.Equal(t, ErrorUnknown, ClassifyError("something odd happened"))
}

func TestShouldRecommend(t *testing.T) {
	state := domain.NewDialogState("s1")

	assert.False(t, ShouldRecommend(state, &domain.ExecutionResult{Success: true, Count: 3}))
	assert.True(t, ShouldRecommend(state, &domain.ExecutionResult{Success: true, Count: 4}))

	state.Slots["price_max"] = 80.0
	assert.True(t, ShouldRecommend(state, &domain.ExecutionResult{Success: true, Count: 2}),
		"a low price ceiling marks the user price sensitive")

	state.Slots["price_max"] = 150.0
	assert.False(t, ShouldRecommend(state, &domain.ExecutionResult{Success: true, Count: 2}))
}

func TestGuidanceZeroResults(t *testing.T) {
	state := domain.NewDialogState("s1")
	state.CurrentIntent = domain.IntentQueryPlans

	g := Guidance(state, &domain.ExecutionResult{Success: true, Count: 0})
	assert.Contains(t, g, "relax the filters")

	state.CurrentIntent = domain.IntentQueryUsage
	assert.Empty(t, Guidance(state, &domain.ExecutionResult{Success: true, Count: 0}))
}

func TestGuidanceStudentCampusNudge(t *testing.T) {
	state := domain.NewDialogState("s1")
	state.CurrentIntent = domain.IntentQueryPlans
	state.UserProfile["is_student"] = true

	noCampus := &domain.ExecutionResult{
		Success: true,
		Count:   2,
		Data: []map[string]any{
			{"name": "Economy"},
			{"name": "Voyager"},
		},
	}
	assert.Contains(t, Guidance(state, noCampus), "Campus")

	withCampus := &domain.ExecutionResult{
		Success: true,
		Count:   2,
		Data: []map[string]any{
			{"name": "Economy"},
			{"name": "Campus"},
		},
	}
	assert.Empty(t, Guidance(state, withCampus))
}
