// Package chat drives the assistant conversation: it routes each user input
// to a typed stock lookup or the free-form chat backend, shapes the answer
// into a reply document, and maintains the on-screen transcript.
package chat

import (
	"sync"

	"github.com/google/uuid"

	"stockwatch/internal/domain"
)

// Transcript is the ordered message list shown in the chat screen. A bot
// reply enters as a typing placeholder and is resolved in place, keeping its
// ID stable so the UI can update rather than reflow.
type Transcript struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
	index    map[string]int
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{index: map[string]int{}}
}

// AddUser appends a user message and returns it.
func (t *Transcript) AddUser(text string) domain.ChatMessage {
	return t.add(domain.ChatMessage{
		ID:     uuid.NewString(),
		Sender: domain.SenderUser,
		Text:   text,
	})
}

// AddTyping appends a bot typing placeholder and returns it. Resolve the
// returned ID once the final text is known.
func (t *Transcript) AddTyping() domain.ChatMessage {
	return t.add(domain.ChatMessage{
		ID:     uuid.NewString(),
		Sender: domain.SenderBot,
		Typing: true,
	})
}

// AddBot appends a finished bot message and returns it.
func (t *Transcript) AddBot(text string) domain.ChatMessage {
	return t.add(domain.ChatMessage{
		ID:     uuid.NewString(),
		Sender: domain.SenderBot,
		Text:   text,
	})
}

func (t *Transcript) add(msg domain.ChatMessage) domain.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.index[msg.ID] = len(t.messages)
	t.messages = append(t.messages, msg)
	return msg
}

// Resolve replaces a typing placeholder's text and clears its typing flag.
// Resolving an unknown ID is a no-op.
func (t *Transcript) Resolve(id, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[id]
	if !ok {
		return
	}
	t.messages[i].Text = text
	t.messages[i].Typing = false
}

// Messages returns a snapshot of the transcript in order.
func (t *Transcript) Messages() []domain.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}
