// Package chatbot wires configuration, memory, conversation history and the
// completion client into a single conversational session.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/supportdesk/alexa/archive"
	"github.com/supportdesk/alexa/config"
	"github.com/supportdesk/alexa/conversation"
	"github.com/supportdesk/alexa/memory"
)

// ErrEmptyMessage is returned for empty or whitespace-only input. No request
// is made and no state changes.
var ErrEmptyMessage = errors.New("empty message")

// Completer is the minimal contract the chatbot needs from a language-model
// provider.
type Completer interface {
	Complete(ctx context.Context, history []conversation.Message) (string, error)
}

// Chatbot owns one conversational session: the message history, the user
// memory behind it, and the optional turn archive.
type Chatbot struct {
	mem       *memory.Store
	conv      *conversation.Conversation
	completer Completer
	archive   archive.Archive
	sessionID string
	logger    *slog.Logger
}

// New builds a Chatbot from the configuration, loading the memory store and
// opening the turn archive when one is configured.
func New(cfg *config.Config, completer Completer) (*Chatbot, error) {
	sessionID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	mem := memory.Open(cfg.MemoryFile)
	b := &Chatbot{
		mem:       mem,
		conv:      conversation.New(mem),
		completer: completer,
		sessionID: sessionID,
		logger:    slog.Default(),
	}

	if cfg.ArchiveFile != "" {
		arch, err := archive.NewSQLite(cfg.ArchiveFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open turn archive: %w", err)
		}
		b.archive = arch
	}
	return b, nil
}

// SetLogger replaces the logger on the chatbot and its owned components.
func (b *Chatbot) SetLogger(logger *slog.Logger) {
	b.logger = logger
	b.mem.SetLogger(logger)
	b.conv.SetLogger(logger)
}

// SessionID identifies this session in the turn archive.
func (b *Chatbot) SessionID() string {
	return b.sessionID
}

// SendMessage relays the user text to the completion endpoint and returns the
// assistant reply. Append, send and maybe-rollback form one logical step: a
// failed send leaves the history exactly as it was before the call, so the
// history only ever contains completed turns.
func (b *Chatbot) SendMessage(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	b.conv.AddUserMessage(text)
	reply, err := b.completer.Complete(ctx, b.conv.Messages())
	if err != nil {
		b.conv.DropLast(1)
		return "", err
	}
	b.conv.AddAssistantMessage(reply)

	if b.archive != nil {
		if err := b.archive.RecordTurn(b.sessionID, text, reply); err != nil {
			b.logger.Error("failed to archive turn", "error", err)
		}
	}
	return reply, nil
}

// History exposes the current message sequence.
func (b *Chatbot) History() []conversation.Message {
	return b.conv.Messages()
}

// ResetConversation discards all non-system messages. User memory is
// retained, so the regenerated system prompt still carries a remembered name.
func (b *Chatbot) ResetConversation() {
	b.conv.Reset()
}

// ExportConversation writes the transcript as JSON and returns the resolved
// path. An empty path generates a timestamped file.
func (b *Chatbot) ExportConversation(path string) (string, error) {
	return b.conv.Export(path)
}

// ForgetMe clears all user memory and resets the conversation.
func (b *Chatbot) ForgetMe() error {
	if err := b.mem.Clear(); err != nil {
		return err
	}
	b.conv.Reset()
	return nil
}

// RememberedName reports the currently stored user name, if any.
func (b *Chatbot) RememberedName() (string, bool) {
	return b.mem.UserName()
}

// Close releases the turn archive, if one is open.
func (b *Chatbot) Close() error {
	if b.archive == nil {
		return nil
	}
	return b.archive.Close()
}
