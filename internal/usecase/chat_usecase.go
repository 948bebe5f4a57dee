package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/chat"
	"swadesh-intern/internal/infrastructure/cache"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/metrics"
)

const conversationTTL = time.Hour

var ErrConversationNotFound = errors.New("conversation not found")

type ChatTurn struct {
	Conversation chat.Conversation
	Reply        string
}

// Chat serves both the stateless question endpoint and the two-stage
// widget conversations. Conversations live in redis; a process-local copy
// keeps them working while redis is down.
type Chat struct {
	responder *chat.Responder
	cache     Cache
	logger    logrus.FieldLogger
	now       func() time.Time

	mu    sync.Mutex
	local map[uuid.UUID]chat.Conversation
}

func NewChat(responder *chat.Responder, c Cache, logger logrus.FieldLogger) *Chat {
	return &Chat{
		responder: responder,
		cache:     cacheOrNone(c),
		logger:    logging.OrDiscard(logger),
		now:       time.Now,
		local:     map[uuid.UUID]chat.Conversation{},
	}
}

// Ask answers one question without any conversation state.
func (u *Chat) Ask(ctx context.Context, message string) (string, error) {
	start := u.now()
	reply, outcome, err := u.responder.Answer(ctx, message)
	metrics.RecordChatReply(string(outcome), u.now().Sub(start))
	return reply, err
}

// Start opens a conversation at the name stage and returns the greeting.
func (u *Chat) Start(ctx context.Context) (ChatTurn, error) {
	conv := chat.NewConversation(u.now().UTC())
	if err := u.save(ctx, conv); err != nil {
		u.logger.WithError(err).WithField("conversation_id", conv.ID).Warn("conversation save failed")
	}
	return ChatTurn{Conversation: conv, Reply: chat.Greeting}, nil
}

func (u *Chat) Send(ctx context.Context, id uuid.UUID, message string) (ChatTurn, error) {
	conv, err := u.load(ctx, id)
	if err != nil {
		return ChatTurn{}, err
	}

	start := u.now()
	reply, outcome, err := u.responder.Respond(ctx, &conv, message)
	if outcome != chat.OutcomeName {
		metrics.RecordChatReply(string(outcome), u.now().Sub(start))
	}
	if errors.Is(err, chat.ErrEmptyMessage) {
		return ChatTurn{Conversation: conv, Reply: reply}, err
	}

	conv.UpdatedAt = u.now().UTC()
	if saveErr := u.save(ctx, conv); saveErr != nil {
		u.logger.WithError(saveErr).WithField("conversation_id", id).Warn("conversation save failed")
	}
	// Model failures still produce a user-facing reply.
	return ChatTurn{Conversation: conv, Reply: reply}, nil
}

// Sweep drops local conversations idle for longer than their TTL.
func (u *Chat) Sweep() int {
	cutoff := u.now().UTC().Add(-conversationTTL)
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for id, c := range u.local {
		if c.UpdatedAt.Before(cutoff) {
			delete(u.local, id)
			n++
		}
	}
	return n
}

func (u *Chat) load(ctx context.Context, id uuid.UUID) (chat.Conversation, error) {
	var conv chat.Conversation
	if hit, err := u.cache.GetJSON(ctx, cache.ChatConversationKey(id.String()), &conv); err == nil && hit {
		return conv, nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	conv, ok := u.local[id]
	if !ok || conv.UpdatedAt.Before(u.now().UTC().Add(-conversationTTL)) {
		return chat.Conversation{}, ErrConversationNotFound
	}
	return conv, nil
}

func (u *Chat) save(ctx context.Context, conv chat.Conversation) error {
	u.mu.Lock()
	u.local[conv.ID] = conv
	u.mu.Unlock()
	return u.cache.SetJSON(ctx, cache.ChatConversationKey(conv.ID.String()), conv, conversationTTL)
}
