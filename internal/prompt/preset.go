package prompt

import (
	"context"
	"log/slog"

	"github.com/sknups/pkginit/internal/logging"
)

// Preset answers questions whose ID has a preset value and delegates the rest.
type Preset struct {
	answers map[string]string
	next    Prompter
	log     *slog.Logger
}

// NewPreset returns a Preset. Values in answers must already be validated with
// Question.Validate. next may be nil when every question is preset.
func NewPreset(answers map[string]string, next Prompter) *Preset {
	return &Preset{
		answers: answers,
		next:    next,
		log:     logging.New("prompt"),
	}
}

// Ask implements Prompter.
func (p *Preset) Ask(ctx context.Context, q Question) (string, error) {
	if v, ok := p.answers[q.ID]; ok {
		p.log.Debug("answered from preset", slog.String("question", q.ID), slog.String("answer", v))
		return v, nil
	}
	if p.next == nil {
		return "", ErrAborted
	}
	return p.next.Ask(ctx, q)
}
