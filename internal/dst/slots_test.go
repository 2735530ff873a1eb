package dst

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soyeahso/telcoassist/internal/domain"
)

func TestMergeSlotsSameIntent(t *testing.T) {
	current := map[string]any{"price_max": 100.0, "phone": "13812345678"}
	extracted := map[string]any{"price_max": 150.0, "data_min": 20.0}

	merged := MergeSlots(current, extracted, domain.IntentQueryPlans, domain.IntentQueryPlans)

	// Union, new values win.
	assert.Equal(t, 150.0, merged["price_max"])
	assert.Equal(t, 20.0, merged["data_min"])
	assert.Equal(t, "13812345678", merged["phone"])
}

func TestMergeSlotsSameDomainKeepsCarryOver(t *testing.T) {
	current := map[string]any{
		"phone":        "13812345678",
		"package_name": "Economy",
		"sort_by":      "price_asc",
	}
	merged := MergeSlots(current, nil, domain.IntentQueryPlanDetail, domain.IntentChangePlan)

	// Identity plus the carry-over whitelist for the destination intent.
	assert.Equal(t, "13812345678", merged["phone"])
	assert.Equal(t, "Economy", merged["package_name"])
	assert.NotContains(t, merged, "sort_by")
}

func TestMergeSlotsUnrelatedKeepsIdentityOnly(t *testing.T) {
	current := map[string]any{
		"phone":     "13812345678",
		"name":      "Li",
		"price_max": 100.0,
	}
	merged := MergeSlots(current, map[string]any{"query_type": "balance"},
		domain.IntentQueryPlans, domain.IntentQueryUsage)

	assert.Equal(t, "13812345678", merged["phone"])
	assert.Equal(t, "Li", merged["name"])
	assert.Equal(t, "balance", merged["query_type"])
	assert.NotContains(t, merged, "price_max")
}

func TestMergeSlotsDoesNotMutateInputs(t *testing.T) {
	current := map[string]any{"phone": "13812345678"}
	extracted := map[string]any{"price_max": 80.0}
	MergeSlots(current, extracted, "", domain.IntentQueryPlans)

	assert.Len(t, current, 1)
	assert.Len(t, extracted, 1)
}

func TestValidateSlots(t *testing.T) {
	slots := map[string]any{
		"phone":            "13812345678",
		"new_package_name": "",
		"data_min":         nil,
	}

	missing := ValidateSlots(slots, []string{"phone", "new_package_name", "data_min", "question"})
	assert.Equal(t, []string{"new_package_name", "data_min", "question"}, missing)

	assert.Nil(t, ValidateSlots(slots, nil))
	assert.Nil(t, ValidateSlots(slots, []string{"phone"}))
}

func TestClearSlots(t *testing.T) {
	slots := map[string]any{"phone": "13812345678", "price_max": 100.0}

	kept := ClearSlots(slots, true)
	assert.Equal(t, map[string]any{"phone": "13812345678"}, kept)

	assert.Empty(t, ClearSlots(slots, false))
}
