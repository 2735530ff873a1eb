package nlu

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// toolDefinitions describes one callable function per business intent.
// Required parameter lists must stay in sync with domain.RequiredSlots.
var toolDefinitions = buildTools()

func buildTools() []openai.Tool {
	specs := []struct {
		name        string
		description string
		schema      string
	}{
		{
			name:        "query_packages",
			description: "Search the plan catalog with optional filters.",
			schema: `{
				"type": "object",
				"properties": {
					"price_min":   {"type": "number", "description": "minimum monthly price"},
					"price_max":   {"type": "number", "description": "maximum monthly price"},
					"data_min":    {"type": "number", "description": "minimum data allowance in GB per month"},
					"target_user": {"type": "string", "enum": ["everyone", "student"], "description": "intended audience"},
					"sort_by":     {"type": "string", "enum": ["price_asc", "price_desc", "data_desc"], "description": "result order"}
				},
				"required": []
			}`,
		},
		{
			name:        "query_current_package",
			description: "Look up the plan currently active for a subscriber.",
			schema: `{
				"type": "object",
				"properties": {
					"phone": {"type": "string", "description": "11-digit subscriber number"}
				},
				"required": ["phone"]
			}`,
		},
		{
			name:        "query_package_detail",
			description: "Show the full details of one named plan. Use when the user asks about a specific plan.",
			schema: `{
				"type": "object",
				"properties": {
					"package_name": {"type": "string", "enum": ["Economy", "Voyager", "Unlimited", "Campus"], "description": "plan name"}
				},
				"required": ["package_name"]
			}`,
		},
		{
			name:        "change_package",
			description: "Switch a subscriber to a different plan. Use only when the user explicitly asks to change or sign up.",
			schema: `{
				"type": "object",
				"properties": {
					"phone":            {"type": "string", "description": "11-digit subscriber number"},
					"new_package_name": {"type": "string", "enum": ["Economy", "Voyager", "Unlimited", "Campus"], "description": "plan to switch to"}
				},
				"required": ["phone", "new_package_name"]
			}`,
		},
		{
			name:        "query_usage",
			description: "Report data, minutes, and balance usage for a subscriber.",
			schema: `{
				"type": "object",
				"properties": {
					"phone":      {"type": "string", "description": "11-digit subscriber number"},
					"query_type": {"type": "string", "enum": ["data", "balance", "all"], "description": "what to report"}
				},
				"required": ["phone"]
			}`,
		},
		{
			name:        "business_consultation",
			description: "Answer questions about procedures, eligibility, and policy. Not for performing an actual plan change.",
			schema: `{
				"type": "object",
				"properties": {
					"question":      {"type": "string", "description": "the user's question"},
					"business_type": {"type": "string", "enum": ["plans", "procedures", "pricing", "promotions", "other"], "description": "question category"}
				},
				"required": ["question"]
			}`,
		},
	}

	tools := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.name,
				Description: s.description,
				Parameters:  json.RawMessage(s.schema),
			},
		})
	}
	return tools
}
