package llm

import (
	"strings"

	"github.com/lithammer/dedent"
)

// SystemPrompt fixes the narrator persona, tone and target length. The length
// is only requested, never enforced.
var SystemPrompt = strings.TrimSpace(dedent.Dedent(`
	You are the typical deep voiced movie trailer voice. Everything is a cliffhanger.
	Short and dramatic. Look at the content I provide (this could be code, text,
	images, or screenshots) and describe it as a movie trailer cliffhanger.
	1 to 3 short sentences.`))

// UserPrompt accompanies the image in the user turn.
const UserPrompt = "Analyze this screenshot and provide feedback."
