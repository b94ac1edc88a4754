package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CodeInLemonDD/LemonVRCT/internal/domain"
	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
)

const translateSystemPrompt = "You are a professional translation assistant."

// Fanout issues one independent translation request per target language
// and aggregates the successes. A failed language is logged and omitted;
// it never aborts the siblings.
type Fanout struct {
	completer  ports.Completer
	sourceLang string
	log        *slog.Logger
}

// NewFanout creates the fan-out for the configured source language.
func NewFanout(completer ports.Completer, sourceLang string, log *slog.Logger) *Fanout {
	return &Fanout{completer: completer, sourceLang: sourceLang, log: log}
}

// TranslateAll translates text into every target language in configured
// order. No retries.
func (f *Fanout) TranslateAll(ctx context.Context, text string, targets []string) domain.TranslationSet {
	set := domain.NewTranslationSet(targets)
	if text == "" {
		return set
	}

	for _, lang := range targets {
		translated, err := f.translate(ctx, text, lang)
		if err != nil {
			f.log.Error("translation failed", "target", lang, "error", err)
			continue
		}
		if translated == "" {
			f.log.Warn("translation returned no text", "target", lang)
			continue
		}
		set.Put(lang, translated)
	}
	return set
}

func (f *Fanout) translate(ctx context.Context, text, target string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following %s text into %s. Return only the translation, without any explanation:\n\n%s",
		f.sourceLang, target, text,
	)
	return f.completer.Complete(ctx, translateSystemPrompt, prompt)
}
