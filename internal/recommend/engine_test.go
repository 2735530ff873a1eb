package recommend

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

func newTestEngine() *Engine {
	return NewEngine(logging.NewWriter(io.Discard, "error"))
}

func catalog() []map[string]any {
	return []map[string]any{
		{"name": "Economy", "price": 50.0, "data_gb": 10.0, "target_user": "everyone"},
		{"name": "Voyager", "price": 180.0, "data_gb": 100.0, "target_user": "everyone"},
		{"name": "Unlimited", "price": 300.0, "data_gb": 1000.0, "target_user": "everyone"},
		{"name": "Campus", "price": 30.0, "data_gb": 30.0, "target_user": "student"},
	}
}

func resultWith(plans []map[string]any) *domain.ExecutionResult {
	return &domain.ExecutionResult{Success: true, Count: len(plans), Data: plans}
}

func TestRecommendGateOnResultSize(t *testing.T) {
	e := newTestEngine()
	state := domain.NewDialogState("s1")

	assert.Nil(t, e.Recommend(state, resultWith(catalog()[:1])), "single result needs no ranking")
	assert.Nil(t, e.Recommend(state, &domain.ExecutionResult{Success: true, Data: "not a list"}))

	big := make([]map[string]any, 11)
	for i := range big {
		big[i] = map[string]any{"name": "P", "price": 10.0, "data_gb": 1.0}
	}
	assert.Nil(t, e.Recommend(state, resultWith(big)), "too many results to rank meaningfully")
}

func TestRecommendBudgetFit(t *testing.T) {
	e := newTestEngine()
	state := domain.NewDialogState("s1")
	state.Slots["price_max"] = 170.0

	rec := e.Recommend(state, resultWith(catalog()))
	require.NotNil(t, rec)
	assert.Equal(t, "Voyager", rec.Plan["name"])
	assert.Contains(t, rec.Reason, "budget")
	assert.LessOrEqual(t, len(rec.Alternatives), 2)
	assert.Greater(t, rec.Confidence, 0.0)
	assert.LessOrEqual(t, rec.Confidence, 1.0)
}

func TestRecommendDataNeed(t *testing.T) {
	e := newTestEngine()
	state := domain.NewDialogState("s1")
	state.Slots["price_max"] = 200.0
	state.Slots["data_min"] = 80.0

	rec := e.Recommend(state, resultWith(catalog()))
	require.NotNil(t, rec)
	assert.Equal(t, "Voyager", rec.Plan["name"])
	assert.Contains(t, rec.Reason, "data")
}

func TestRecommendStudentPrefersCampus(t *testing.T) {
	e := newTestEngine()
	state := domain.NewDialogState("s1")
	state.Slots["price_max"] = 40.0
	state.UserProfile["is_student"] = true

	rec := e.Recommend(state, resultWith(catalog()))
	require.NotNil(t, rec)
	assert.Equal(t, "Campus", rec.Plan["name"])
	assert.Contains(t, rec.Reason, "student")
}

func TestRecommendWithoutSignalsStillPicks(t *testing.T) {
	e := newTestEngine()
	state := domain.NewDialogState("s1")

	rec := e.Recommend(state, resultWith(catalog()))
	require.NotNil(t, rec)
	// With no preferences only value-for-money counts.
	assert.NotEmpty(t, rec.Plan["name"])
}
