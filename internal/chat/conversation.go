// Package chat implements the two-stage FAQ assistant: collect a plausible
// name first, then forward questions to the language model.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageName Stage = "NAME"
	StageChat Stage = "CHAT"
)

const (
	Greeting          = "Hello! 👋 Welcome to SwadeshIntern. To get started, please enter your Name."
	MsgNotAName       = "That doesn't look like a real name. Please enter your actual name."
	MsgMissingMessage = "Message is required."
	MsgFailure        = "Something went wrong. Please try again."
	MsgRefused        = "I can only help with SwadeshIntern-related queries."
	MsgNoResponse     = "No response from model."
)

var blockedNames = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "yes": {}, "no": {}, "ok": {},
	"bye": {}, "bot": {}, "help": {}, "swadesh": {}, "admin": {},
}

// Conversation is the persisted state of one chat window.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	Stage     Stage     `json:"stage"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewConversation(now time.Time) Conversation {
	return Conversation{ID: uuid.New(), Stage: StageName, CreatedAt: now, UpdatedAt: now}
}

// PlausibleName rejects greetings and other throwaway words people type
// instead of their name.
func PlausibleName(input string) bool {
	name := strings.TrimSpace(input)
	if len([]rune(name)) < 2 {
		return false
	}
	_, blocked := blockedNames[strings.ToLower(name)]
	return !blocked
}

// AcceptName handles input while the conversation is in the NAME stage. The
// conversation moves to CHAT only when the name is plausible.
func (c *Conversation) AcceptName(input string) string {
	if !PlausibleName(input) {
		return MsgNotAName
	}
	c.Name = strings.TrimSpace(input)
	c.Stage = StageChat
	return Welcome(c.Name)
}

func Welcome(name string) string {
	return "Welcome, " + name + "! 🚀 \n\nHow can I help you? (Internships, Domains, Certificates)"
}
