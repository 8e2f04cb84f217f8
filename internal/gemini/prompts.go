package gemini

import (
	"fmt"
	"strings"
)

// groundedPromptHeader instructs the model to answer from the matched
// knowledge passage only.
const groundedPromptHeader = "Kamu adalah asisten customer service. Jawab singkat, sopan, dan ramah berdasarkan informasi berikut: %s"

// fallbackPromptHeader is used when no knowledge entry matches. It tells
// the model not to invent facts and to point the user at the admin when
// it cannot answer.
const fallbackPromptHeader = "Kamu adalah asisten customer service. Jawab singkat, sopan, dan ramah. " +
	"Jangan mengarang fakta atau membuat janji. Jika kamu tidak yakin dengan jawabannya, " +
	"sarankan pengguna untuk menghubungi admin dengan mengetik *admin*."

// GroundedPrompt builds the prompt for a keyword-matched question: the
// matched passage, the rolling conversation memory, and the question.
func GroundedPrompt(info, contextBlock, question string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(groundedPromptHeader, info))
	writeTail(&sb, contextBlock, question)
	return sb.String()
}

// FallbackPrompt builds the constrained prompt used when nothing in the
// knowledge table matches.
func FallbackPrompt(contextBlock, question string) string {
	var sb strings.Builder
	sb.WriteString(fallbackPromptHeader)
	writeTail(&sb, contextBlock, question)
	return sb.String()
}

func writeTail(sb *strings.Builder, contextBlock, question string) {
	if contextBlock != "" {
		sb.WriteString("\n\nRiwayat percakapan:\n")
		sb.WriteString(contextBlock)
	}
	sb.WriteString("\nPertanyaan: ")
	sb.WriteString(question)
}
