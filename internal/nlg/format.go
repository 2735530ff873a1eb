package nlg

import (
	"fmt"
	"strings"

	"github.com/soyeahso/telcoassist/internal/recommend"
)

// formatPlanList renders a query_packages result.
func formatPlanList(plans []map[string]any, rec *recommend.Recommendation) string {
	if len(plans) == 0 {
		return "Sorry, no plans match those filters. Would you like to loosen them a little?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d matching plan(s):\n\n", len(plans))
	for _, p := range plans {
		writePlanSummary(&b, p)
		b.WriteString("\n")
	}
	b.WriteString("To sign up or hear more, tell me the plan name and your phone number.")

	if rec != nil {
		name, _ := rec.Plan["name"].(string)
		fmt.Fprintf(&b, "\n\nMy pick for you would be the %s plan. %s", name, rec.Reason)
	}
	return b.String()
}

func writePlanSummary(b *strings.Builder, p map[string]any) {
	fmt.Fprintf(b, "%s — %v/month\n", p["name"], p["price"])
	fmt.Fprintf(b, "  data: %vGB/month, calls: %v min/month, for: %v\n", p["data_gb"], p["voice_minutes"], p["target_user"])
	if dsc, _ := p["description"].(string); dsc != "" {
		fmt.Fprintf(b, "  %s\n", dsc)
	}
}

// formatCurrentPlan renders a query_current_package result.
func formatCurrentPlan(data map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are currently on the %v plan.\n\n", data["package_name"])
	fmt.Fprintf(&b, "Number: %v\n", data["phone"])
	fmt.Fprintf(&b, "Plan: %vGB data, %v call minutes, %v/month\n\n", data["data_gb"], data["voice_minutes"], data["price"])
	fmt.Fprintf(&b, "This month: %vGB data used, %v minutes used, balance %v", data["monthly_usage_gb"], data["monthly_usage_minutes"], data["balance"])
	return b.String()
}

// formatPlanDetail renders a query_package_detail result.
func formatPlanDetail(data map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v plan details:\n\n", data["name"])
	fmt.Fprintf(&b, "Monthly fee: %v\nData: %vGB/month\nCalls: %v min/month\nFor: %v\n", data["price"], data["data_gb"], data["voice_minutes"], data["target_user"])
	if dsc, _ := data["description"].(string); dsc != "" {
		fmt.Fprintf(&b, "\n%s\n", dsc)
	}
	b.WriteString("\nTo sign up, just tell me your phone number.")
	return b.String()
}

// formatUsage renders a query_usage result.
func formatUsage(data map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage for %v:\n\n", data["phone"])
	if v, ok := data["monthly_usage_gb"]; ok {
		fmt.Fprintf(&b, "Data used this month: %vGB\n", v)
	}
	if v, ok := data["monthly_usage_minutes"]; ok {
		fmt.Fprintf(&b, "Call minutes this month: %v\n", v)
	}
	if v, ok := data["balance"]; ok {
		fmt.Fprintf(&b, "Account balance: %v\n", v)
	}
	return strings.TrimRight(b.String(), "\n")
}
