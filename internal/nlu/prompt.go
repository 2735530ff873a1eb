package nlu

import (
	"strings"

	"github.com/soyeahso/telcoassist/internal/domain"
)

const basePrompt = `You are the understanding layer of a telecom self-service assistant.
Classify each user message by calling exactly one of the provided functions
and extracting its parameters from the message. Rules:
- Extract only values the user actually stated; never invent a phone number.
- A question about how to do something is business_consultation, not the operation itself.
- If no function fits, reply conversationally without calling a function.`

// systemPrompt assembles the classification prompt, folding in identity
// facts already tracked so the model does not re-ask for them.
func systemPrompt(state *domain.DialogState) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if state != nil {
		if state.UserPhone != "" {
			b.WriteString("\nKnown subscriber number: " + state.UserPhone)
		}
		if state.CurrentIntent != "" {
			b.WriteString("\nPrevious topic: " + state.CurrentIntent)
		}
	}
	return b.String()
}
