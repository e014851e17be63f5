package llm

// SystemInstruction is sent verbatim ahead of every document. Changing it
// changes the evidence contract the answers are held to.
const SystemInstruction = "You are a strict Compliance Auditor. Answer the question ONLY using the facts from the document provided below. If the answer is not in the text, say 'EVIDENCE NOT FOUND'. Quote the specific sentence from the text as proof."

// DefaultQuestion is used when the caller supplies no question.
const DefaultQuestion = "What are the password complexity requirements?"

// BuildPrompt concatenates the fixed instruction, the document text, and the
// question into a single payload. No truncation is applied; an oversized
// payload is the transport's failure to report.
func BuildPrompt(text, question string) string {
	return SystemInstruction + "\n\n" + text + "\n\nQuestion: " + question
}
