package nlg

// Fixed response templates. Wording is deliberately plain; the generative
// path rewrites INFORM responses when the action asks for it.

var requestTemplates = map[string]string{
	"phone":            "Could you share your phone number so I can look that up?",
	"package_name":     "Which plan would you like to know about? We have Economy, Voyager, Unlimited, and Campus.",
	"new_package_name": "Which plan would you like to switch to?",
	"query_type":       "Would you like to check data usage or your balance?",
	"question":         "What would you like to know?",
}

const requestDefault = "Could you provide the %s, please?"

var confirmTemplates = map[string]string{
	"change_package": "Please confirm: switch %s to the %s plan?",
	"cancel_service": "Please confirm: cancel service for %s? This cannot be undone.",
}

const confirmDefault = "Please confirm the %s operation."

var apologizeTemplates = map[string]string{
	"not_found":     "Sorry, I couldn't find that: %s.",
	"invalid_input": "Sorry, that doesn't look right: %s. Could you check and try again?",
	"system_error":  "Sorry, the system ran into a problem. Please try again in a moment.",
	"unknown_error": "Sorry, something went wrong while handling that.",
}

const (
	cancelNotice = "No problem, the operation has been cancelled. Anything else I can help with?"
	expiryNotice = "Sorry, that confirmation has expired. Please start the operation again if you still want it."

	pendingReminder = "By the way, you still have a pending plan change awaiting confirmation. Reply \"confirm\" to proceed or \"cancel\" to drop it."

	smallTalkReply = "How can I help you today? I can look up plans, check your usage, or switch your plan."
	closeReply     = "Thanks for visiting. Have a great day!"
)
