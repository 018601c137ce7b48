package rag

import (
	"fmt"
	"strings"
)

const (
	noIndexPreamble = "You are a helpful assistant for answering questions about code. " +
		"No repository index is available, so rely only on the question.\n\n"
	noMatchPreamble = "You are a helpful assistant for answering questions about this codebase. " +
		"No specific files matched the question keywords; answer based only on the question.\n\n"
	contextPreamble = "You are a helpful assistant for answering questions about this codebase.\n" +
		"You are given a set of file snippets as context. Use them when relevant, " +
		"but do not hallucinate details that are not supported by the snippets.\n\n"
	closingInstruction = "Answer in a concise way and, when useful, mention which files you are using."
)

// AssemblePrompt renders the prompt for question from a retrieval.
func AssemblePrompt(question string, r Retrieval) string {
	if r.Strategy == StrategyNoIndex {
		return noIndexPreamble + "Question: " + question
	}
	if len(r.Snippets) == 0 {
		return noMatchPreamble + "Question: " + question
	}

	var b strings.Builder
	b.WriteString(contextPreamble)
	b.WriteString("Context:\n")
	b.WriteString(FormatSnippets(r.Snippets))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(closingInstruction)
	return b.String()
}

// FormatSnippets renders each snippet as a delimited FILE block, separated by
// blank lines.
func FormatSnippets(snippets []Snippet) string {
	blocks := make([]string, 0, len(snippets))
	for _, s := range snippets {
		header := "FILE: " + s.File
		if s.Semantic {
			header += fmt.Sprintf(" [%d-%d]", s.Start, s.End)
		}
		blocks = append(blocks, header+"\n-----\n"+s.Text+"\n-----")
	}
	return strings.Join(blocks, "\n\n")
}
