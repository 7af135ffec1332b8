// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import "fmt"

// extractionInstruction is the system instruction for metadata
// extraction. The model must return empty fields rather than guesses,
// and must stay within the leading pages of the document.
func extractionInstruction(isBook bool, pages int) string {
	journalMeaning := "Journal is the publication venue."
	if isBook {
		journalMeaning = "This document is a book: Journal should be the Publisher."
	}
	return fmt.Sprintf(
		"You are an academic document manager. "+
			"From the first %d pages of the provided PDF, extract ONLY these fields: "+
			"Authors, Year, Journal, Title. %s "+
			"If a field is NOT clearly present, return it EMPTY (\"\" or []); DO NOT GUESS or fabricate. "+
			"Return strict JSON with keys: authors (array), year (string), journal (string), title (string).",
		pages, journalMeaning)
}

// validatorInstruction is the system instruction for the remote
// already-formatted check.
const validatorInstruction = "You are a strict filename validator. Given a filename and an expected pattern with placeholders " +
	"{journal}, {year}, {authors}, {title}, answer whether the filename already conforms to the pattern and style. " +
	`Return ONLY JSON as {"ok": true} or {"ok": false}.`

// validatorPrompt builds the per-file validation prompt.
func validatorPrompt(name string, isBook bool, filenameTmpl, authorTmpl string) string {
	mode := "paper"
	if isBook {
		mode = "book"
	}
	return fmt.Sprintf(
		"Filename: %s\nMode: %s\nExpected pattern: %s\nAuthor format: %s\n"+
			"Rules: authors must follow the author format, joined by \", \". "+
			"Use the pattern as the canonical order and separators. "+
			"For books, {journal} stands for the publisher. "+
			"Ignore directory paths; check only the base filename.\n"+
			"Decide if the filename is already correctly formatted.",
		name, mode, filenameTmpl, authorTmpl)
}
