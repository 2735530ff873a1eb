package executor

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

func newTestExecutor(t *testing.T) *SQLExecutor {
	t.Helper()
	log := logging.NewWriter(io.Discard, "error")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLExecutor(db, log)
}

func plansOf(t *testing.T, result *domain.ExecutionResult) []map[string]any {
	t.Helper()
	plans, ok := result.Data.([]map[string]any)
	require.True(t, ok, "expected plan list, got %T", result.Data)
	return plans
}

func TestQueryPlansSeededCatalog(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentQueryPlans, nil)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, 4, result.Count)

	plans := plansOf(t, result)
	// Default ordering is cheapest first.
	assert.Equal(t, "Campus", plans[0]["name"])
	assert.Equal(t, "Unlimited", plans[3]["name"])
}

func TestQueryPlansPriceFilter(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentQueryPlans,
		map[string]any{"price_max": 100.0})

	require.True(t, result.Success)
	assert.Equal(t, 2, result.Count)
	for _, p := range plansOf(t, result) {
		assert.LessOrEqual(t, p["price"].(float64), 100.0)
	}
}

func TestQueryPlansDataFilterAndSort(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentQueryPlans,
		map[string]any{"data_min": 50.0, "sort_by": "data_desc"})

	require.True(t, result.Success)
	plans := plansOf(t, result)
	require.Equal(t, 2, len(plans))
	assert.Equal(t, "Unlimited", plans[0]["name"])
	assert.Equal(t, "Voyager", plans[1]["name"])
}

func TestQueryPlansStudentSeesSharedCatalog(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentQueryPlans,
		map[string]any{"target_user": "student"})

	require.True(t, result.Success)
	// Student targeting includes the everyone plans too.
	assert.Equal(t, 4, result.Count)
}

func TestQueryPlansNoMatch(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentQueryPlans,
		map[string]any{"price_max": 10.0})

	require.True(t, result.Success)
	assert.Equal(t, 0, result.Count)
}

func TestChangePlanCreatesSubscriber(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	result := e.Execute(ctx, domain.IntentChangePlan,
		map[string]any{"phone": "13812345678", "new_package_name": "Voyager"})

	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.Message, "Voyager")
	assert.Contains(t, result.Message, "13812345678")
	assert.Equal(t, "Voyager", result.Extra["new_package_name"])
	assert.Equal(t, 180.0, result.Extra["price"])

	current := e.Execute(ctx, domain.IntentQueryCurrentPlan, map[string]any{"phone": "13812345678"})
	require.True(t, current.Success, current.Error)
	data := current.Data.(map[string]any)
	assert.Equal(t, "Voyager", data["package_name"])
}

func TestChangePlanFallsBackToPlanNameSlot(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentChangePlan,
		map[string]any{"phone": "13812345678", "package_name": "Economy"})

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "Economy", result.Extra["new_package_name"])
}

func TestChangePlanUnknownPlan(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentChangePlan,
		map[string]any{"phone": "13812345678", "new_package_name": "Gold"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
}

func TestChangePlanInvalidPhone(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentChangePlan,
		map[string]any{"phone": "12345", "new_package_name": "Economy"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid phone")
}

func TestQueryCurrentPlanUnknownUser(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentQueryCurrentPlan,
		map[string]any{"phone": "13899999999"})

	assert.False(t, result.Success)
	assert.Equal(t, "user not found", result.Error)
}

func TestQueryUsageFilters(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	// Create the subscriber via a plan change first.
	change := e.Execute(ctx, domain.IntentChangePlan,
		map[string]any{"phone": "13812345678", "new_package_name": "Economy"})
	require.True(t, change.Success)

	all := e.Execute(ctx, domain.IntentQueryUsage, map[string]any{"phone": "13812345678"})
	require.True(t, all.Success)
	data := all.Data.(map[string]any)
	assert.Contains(t, data, "monthly_usage_gb")
	assert.Contains(t, data, "balance")

	balanceOnly := e.Execute(ctx, domain.IntentQueryUsage,
		map[string]any{"phone": "13812345678", "query_type": "balance"})
	require.True(t, balanceOnly.Success)
	data = balanceOnly.Data.(map[string]any)
	assert.Contains(t, data, "balance")
	assert.NotContains(t, data, "monthly_usage_gb")
}

func TestQueryPlanDetail(t *testing.T) {
	e := newTestExecutor(t)

	found := e.Execute(context.Background(), domain.IntentQueryPlanDetail,
		map[string]any{"package_name": "Campus"})
	require.True(t, found.Success)
	data := found.Data.(map[string]any)
	assert.Equal(t, "Campus", data["name"])
	assert.Equal(t, "student", data["target_user"])

	missing := e.Execute(context.Background(), domain.IntentQueryPlanDetail,
		map[string]any{"package_name": "Gold"})
	assert.False(t, missing.Success)
	assert.Contains(t, missing.Error, "not found")
}

func TestConsultationAlwaysAnswers(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), domain.IntentConsultation,
		map[string]any{"question": "how do I port my number?"})

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestUnknownIntent(t *testing.T) {
	e := newTestExecutor(t)
	result := e.Execute(context.Background(), "teleport", nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unknown operation")
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("13812345678"))
	assert.True(t, ValidPhone("19912345678"))
	assert.False(t, ValidPhone("12812345678"))
	assert.False(t, ValidPhone("1381234567"))
	assert.False(t, ValidPhone("138123456789"))
	assert.False(t, ValidPhone("not a phone"))
	assert.False(t, ValidPhone(""))
}
