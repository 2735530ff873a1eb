package domain

// Intent names produced by the understanding layer.
const (
	IntentQueryPlans       = "query_packages"
	IntentQueryCurrentPlan = "query_current_package"
	IntentQueryPlanDetail  = "query_package_detail"
	IntentChangePlan       = "change_package"
	IntentQueryUsage       = "query_usage"
	IntentConsultation     = "business_consultation"
	IntentSmallTalk        = "chat"
)

// Slot names shared across intents.
const (
	SlotPhone       = "phone"
	SlotName        = "name"
	SlotUserID      = "user_id"
	SlotPriceMin    = "price_min"
	SlotPriceMax    = "price_max"
	SlotDataMin     = "data_min"
	SlotPlanName    = "package_name"
	SlotNewPlanName = "new_package_name"
	SlotSortBy      = "sort_by"
	SlotQueryType   = "query_type"
	SlotTargetUser  = "target_user"
	SlotQuestion    = "question"
)

// identitySlots carry user identity and survive every intent switch.
var identitySlots = map[string]bool{
	SlotPhone:  true,
	SlotName:   true,
	SlotUserID: true,
}

// IsIdentitySlot reports whether a slot holds user identity.
func IsIdentitySlot(name string) bool { return identitySlots[name] }

// sameDomain groups intents related enough to share carry-over slots.
// Adjacency is checked symmetrically.
var sameDomain = map[string][]string{
	IntentQueryPlans:       {IntentQueryPlanDetail, IntentChangePlan},
	IntentQueryCurrentPlan: {IntentQueryUsage, IntentChangePlan},
	IntentQueryPlanDetail:  {IntentQueryPlans, IntentChangePlan},
}

// SameDomain reports whether two intents belong to the same domain group.
func SameDomain(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	for _, x := range sameDomain[a] {
		if x == b {
			return true
		}
	}
	for _, x := range sameDomain[b] {
		if x == a {
			return true
		}
	}
	return false
}

// carryOver lists business slots worth keeping when switching to the keyed
// intent from a same-domain intent.
var carryOver = map[string][]string{
	IntentQueryPlans: {SlotPriceMax, SlotPriceMin, SlotDataMin},
	IntentChangePlan: {SlotPlanName},
}

// CarriesOver reports whether a slot is whitelisted for carry-over into
// the destination intent.
func CarriesOver(slot, destIntent string) bool {
	for _, s := range carryOver[destIntent] {
		if s == slot {
			return true
		}
	}
	return false
}

// requiredSlots drives clarification: a turn with any of these missing for
// the current intent asks the user for the first one.
var requiredSlots = map[string][]string{
	IntentQueryPlans:       {},
	IntentQueryCurrentPlan: {SlotPhone},
	IntentQueryPlanDetail:  {SlotPlanName},
	IntentChangePlan:       {SlotPhone, SlotNewPlanName},
	IntentQueryUsage:       {SlotPhone},
	IntentConsultation:     {SlotQuestion},
}

// RequiredSlots returns the required parameter names for an intent, in
// declaration order. Unknown intents have no requirements.
func RequiredSlots(intent string) []string {
	return requiredSlots[intent]
}

// riskyIntents always require explicit confirmation before execution.
var riskyIntents = map[string]bool{
	IntentChangePlan: true,
	"cancel_service": true,
}

// IsRiskyIntent reports whether an intent is in the static risky set.
func IsRiskyIntent(intent string) bool { return riskyIntents[intent] }

// smallTalkIntents never disturb a pending confirmation.
var smallTalkIntents = map[string]bool{
	IntentSmallTalk:    true,
	IntentConsultation: true,
}

// IsSmallTalk reports whether an intent is a small-talk category.
func IsSmallTalk(intent string) bool { return smallTalkIntents[intent] }

// PlanNames is the static plan catalog used by the confirmation classifier
// and seeded into the business database.
var PlanNames = []string{"Economy", "Voyager", "Unlimited", "Campus"}
