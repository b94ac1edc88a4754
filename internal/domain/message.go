package domain

import "strings"

// ComposeMessage builds the chatbox payload: every successful translation
// in configured target-language order, then the source-language text, one
// line each. Empty entries are dropped. If every translation failed the
// source text still goes out alone; if that too is empty there is nothing
// to send and the result is "".
func ComposeMessage(translations TranslationSet, sourceText string) string {
	lines := make([]string, 0, translations.Len()+1)
	for _, lang := range translations.Order {
		if text := translations.Texts[lang]; text != "" {
			lines = append(lines, text)
		}
	}
	if sourceText != "" {
		lines = append(lines, sourceText)
	}
	return strings.Join(lines, "\n")
}
