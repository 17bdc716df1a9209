package chat

import "fmt"

const truncationMarker = "...[document truncated]"

// truncateDocument keeps the prompt inside the model's practical context
// budget and marks the cut so the model knows the text is incomplete.
func truncateDocument(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit] + truncationMarker
}

func buildAskPrompt(documentText, question string, limit int) string {
	return fmt.Sprintf(`You are a helpful assistant answering questions about a document.
Answer using only the information in the document below. If the document does
not contain the answer, say explicitly that the document does not cover it.

Document:
%s

Question: %s`, truncateDocument(documentText, limit), question)
}

func buildSummaryPrompt(documentText string, limit int) string {
	return fmt.Sprintf(`Summarize the following document in a few short sentences.
Mention only what the document itself says.

Document:
%s`, truncateDocument(documentText, limit))
}
