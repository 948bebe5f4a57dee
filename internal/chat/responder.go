package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/infrastructure/inference"
	"swadesh-intern/internal/logging"
)

var ErrEmptyMessage = errors.New("message is required")

// Outcome labels a reply for metrics.
type Outcome string

const (
	OutcomeName     Outcome = "name"
	OutcomeAnswered Outcome = "answered"
	OutcomeRefused  Outcome = "refused"
	OutcomeEmpty    Outcome = "empty"
	OutcomeFailed   Outcome = "failed"
)

type Responder struct {
	gen    inference.Generator
	logger logrus.FieldLogger
}

func NewResponder(gen inference.Generator, logger logrus.FieldLogger) *Responder {
	return &Responder{gen: gen, logger: logging.OrDiscard(logger)}
}

// Answer asks the model a single question. The returned error is non-nil
// only when no reply could be produced at all.
func (r *Responder) Answer(ctx context.Context, question string) (string, Outcome, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return MsgMissingMessage, OutcomeFailed, ErrEmptyMessage
	}
	if r == nil || r.gen == nil {
		return MsgFailure, OutcomeFailed, inference.ErrMissingAPIKey
	}

	reply, err := r.gen.Generate(ctx, BuildPrompt(question))
	if err != nil {
		r.logger.WithError(err).Warn("chat inference failed")
		return MsgFailure, OutcomeFailed, err
	}
	switch {
	case reply.Text != "":
		return reply.Text, OutcomeAnswered, nil
	case reply.BlockReason != "":
		return MsgRefused, OutcomeRefused, nil
	default:
		return MsgNoResponse, OutcomeEmpty, nil
	}
}

// Respond advances conv by one user turn and returns the bot's reply. conv
// is modified in place when a name is accepted.
func (r *Responder) Respond(ctx context.Context, conv *Conversation, input string) (string, Outcome, error) {
	if strings.TrimSpace(input) == "" {
		return MsgMissingMessage, OutcomeFailed, ErrEmptyMessage
	}
	if conv.Stage != StageChat {
		return conv.AcceptName(input), OutcomeName, nil
	}
	return r.Answer(ctx, input)
}
