// Package assistant answers general disaster-preparedness questions through
// an LLM completion provider.
package assistant

import (
	"context"
	"log/slog"

	"DisasterChat/internal/backend"
	"DisasterChat/internal/config"
	"DisasterChat/internal/session"
)

// SystemPrompt sets the assistant's persona and scope.
const SystemPrompt = `You are a smart assistant for a disaster response platform designed to provide crucial information and solve queries related to natural and human-made disasters. Your task is to assist users with information about disaster preparedness, response, recovery, risk assessment, and mitigation strategies.

You also provide weather updates for specific locations when requested.

Your responses should be concise, actionable, and based on reliable data.`

// FailureReply is returned whenever the completion call fails.
const FailureReply = "An error occurred while generating the response."

// Responder issues one completion per turn.
type Responder struct {
	completer backend.Completer
	logger    *slog.Logger
}

func NewResponder(c backend.Completer, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{completer: c, logger: logger}
}

// Respond folds history and text into a single context string and returns
// the provider's completion verbatim, or FailureReply on any error.
func (r *Responder) Respond(ctx context.Context, history []session.Message, text string) string {
	req := backend.Request{
		System:      SystemPrompt,
		User:        session.BuildContext(history, text),
		Temperature: config.Temperature,
	}

	reply, err := r.completer.Complete(ctx, req)
	if err != nil {
		r.logger.Error("failed to generate completion", "backend", r.completer.Name(), "error", err)
		return FailureReply
	}
	return reply
}
