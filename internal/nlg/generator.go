// Package nlg renders the chosen system action into user-facing text,
// through fixed templates or an optional generative rewrite.
package nlg

import (
	"context"
	"fmt"
	"strings"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
	"github.com/soyeahso/telcoassist/internal/recommend"
)

// TextWriter is the optional generative path. A nil writer means all
// responses come from templates.
type TextWriter interface {
	Rewrite(ctx context.Context, system, draft string) (string, error)
}

// Generator renders actions to text.
type Generator struct {
	writer TextWriter
	log    *logging.Logger
}

// NewGenerator creates a renderer. writer may be nil.
func NewGenerator(writer TextWriter, log *logging.Logger) *Generator {
	return &Generator{writer: writer, log: log.Sub("nlg")}
}

const rewritePrompt = `You are a telecom customer-service assistant. Rewrite the draft reply
to sound natural and friendly. Keep every fact and number unchanged, stay
under 120 words, and output only the reply text.`

// Generate renders one action. It never fails: template output is the
// floor, the generative path only ever replaces it on success.
func (g *Generator) Generate(ctx context.Context, action domain.Action, state *domain.DialogState) string {
	text := g.render(action, state)

	if action.UseLLM && g.writer != nil {
		if rewritten, err := g.writer.Rewrite(ctx, rewritePrompt, text); err == nil && rewritten != "" {
			text = rewritten
		} else if err != nil {
			g.log.Warn().Err(err).Msg("generative rewrite failed, keeping template output")
		}
	}

	// Surface a surviving pending confirmation so the user does not forget
	// about it mid-detour.
	if state != nil && state.PendingConfirmation && action.Type == domain.ActionInform {
		text += "\n\n" + pendingReminder
	}

	return text
}

func (g *Generator) render(action domain.Action, state *domain.DialogState) string {
	switch action.Type {
	case domain.ActionRequest:
		return g.renderRequest(action)
	case domain.ActionConfirm:
		return g.renderConfirm(action)
	case domain.ActionInform, domain.ActionRecommend:
		return g.renderInform(action)
	case domain.ActionApologize:
		return g.renderApologize(action)
	case domain.ActionClose:
		return closeReply
	case domain.ActionClarify:
		return "Sorry, I didn't quite catch that. Could you rephrase?"
	default:
		return smallTalkReply
	}
}

func (g *Generator) renderRequest(action domain.Action) string {
	slot, _ := action.Parameters["slot"].(string)
	if q, ok := requestTemplates[slot]; ok {
		return q
	}
	return fmt.Sprintf(requestDefault, strings.ReplaceAll(slot, "_", " "))
}

func (g *Generator) renderConfirm(action domain.Action) string {
	phone, _ := action.Parameters["phone"].(string)
	plan, _ := action.Parameters["new_package_name"].(string)
	if plan == "" {
		plan, _ = action.Parameters["package_name"].(string)
	}

	switch action.Intent {
	case domain.IntentChangePlan:
		return fmt.Sprintf(confirmTemplates["change_package"], phone, plan)
	case "cancel_service":
		return fmt.Sprintf(confirmTemplates["cancel_service"], phone)
	default:
		return fmt.Sprintf(confirmDefault, action.Intent)
	}
}

func (g *Generator) renderInform(action domain.Action) string {
	params := action.Parameters

	var body string
	switch action.Intent {
	case domain.IntentQueryPlans:
		plans, _ := params["data"].([]map[string]any)
		rec, _ := params["recommendation"].(*recommend.Recommendation)
		body = formatPlanList(plans, rec)
	case domain.IntentQueryCurrentPlan:
		if data, ok := params["data"].(map[string]any); ok {
			body = formatCurrentPlan(data)
		}
	case domain.IntentQueryPlanDetail:
		if data, ok := params["data"].(map[string]any); ok {
			body = formatPlanDetail(data)
		}
	case domain.IntentQueryUsage:
		if data, ok := params["data"].(map[string]any); ok {
			body = formatUsage(data)
		}
	case domain.IntentChangePlan:
		if msg, _ := params["message"].(string); msg != "" {
			body = msg
		} else {
			body = "All done, the change takes effect next billing cycle."
		}
	case domain.IntentConsultation:
		body, _ = params["message"].(string)
	case domain.IntentSmallTalk:
		body = smallTalkReply
	}

	if body == "" {
		body = "Done."
	}
	if guidance, _ := params["guidance"].(string); guidance != "" {
		body += "\n\n" + guidance
	}
	return body
}

func (g *Generator) renderApologize(action domain.Action) string {
	category, _ := action.Parameters["error_type"].(string)
	errText, _ := action.Parameters["error"].(string)

	tmpl, ok := apologizeTemplates[category]
	if !ok {
		tmpl = apologizeTemplates["unknown_error"]
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, errText)
	}
	return tmpl
}

// CancelNotice is the fixed reply after a cancelled confirmation.
func CancelNotice() string { return cancelNotice }

// ExpiryNotice is the dedicated reply for an expired confirmation,
// distinct from the generic apology.
func ExpiryNotice() string { return expiryNotice }
