package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CodeInLemonDD/LemonVRCT/internal/ports"
)

const refineSystemPrompt = "You are a professional text correction assistant specialized in fixing speech recognition errors."

const refinePromptTemplate = `Please correct the following speech recognition result. Fix likely
recognition errors so it reads as natural language. The context is in-game
VRChat chat. If the text is already fine, return it unchanged.
Requirements:
1. Preserve the original meaning.
2. Fix grammar mistakes and wrong characters.
3. Make the text flow naturally.
4. Return only the corrected text, without any explanation.

Text to correct: %s`

// Refiner applies a best-effort semantic correction pass to transcribed
// text before translation. It never fails the pipeline: any service error
// falls back to the original text.
type Refiner struct {
	completer ports.Completer
	log       *slog.Logger
}

// NewRefiner creates a refiner on top of the chat completer.
func NewRefiner(completer ports.Completer, log *slog.Logger) *Refiner {
	return &Refiner{completer: completer, log: log}
}

// Refine returns the corrected text, or the input unchanged when the text
// is too short to correct, the service fails, or the correction is empty
// or identical to the input.
func (r *Refiner) Refine(ctx context.Context, text string) string {
	if len([]rune(strings.TrimSpace(text))) < 2 {
		return text
	}

	corrected, err := r.completer.Complete(ctx, refineSystemPrompt, fmt.Sprintf(refinePromptTemplate, text))
	if err != nil {
		r.log.Error("semantic correction failed, using original text", "error", err)
		return text
	}
	if corrected == "" || corrected == text {
		r.log.Debug("semantic correction made no change")
		return text
	}

	r.log.Info("semantic correction applied", "from", text, "to", corrected)
	return corrected
}
