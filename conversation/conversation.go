// Package conversation manages the ordered, role-tagged message history for a
// single chat session, including system-prompt derivation and JSON export.
package conversation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/supportdesk/alexa/memory"
)

// Role tags a message with its speaker.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. The sequence order is semantically
// significant: it is replayed verbatim to the completion endpoint.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

const basePrompt = `You are Alexa, a helpful and professional customer support assistant.
Your role is to:
- Answer customer questions clearly and concisely
- Be polite, patient, and empathetic
- Provide accurate information
- Remember and use the user's name when appropriate
- Maintain a friendly and professional tone

IMPORTANT:
- Your name is Alexa
- If the user tells you their name, acknowledge it warmly and remember it
- Always use the user's name naturally in conversation when you know it`

// Conversation owns the message sequence. The first element is always the
// system message, derived from the memory store at construction and again on
// every Reset.
type Conversation struct {
	mem      *memory.Store
	messages []Message
	logger   *slog.Logger
}

// New builds a conversation seeded with the system prompt.
func New(mem *memory.Store) *Conversation {
	c := &Conversation{mem: mem, logger: slog.Default()}
	c.messages = []Message{{Role: RoleSystem, Content: c.systemPrompt()}}
	return c
}

// SetLogger replaces the logger used for memory-update reporting.
func (c *Conversation) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// systemPrompt derives the system message from the fixed template plus any
// remembered facts. Recomputed on every reset so memory changes take effect.
func (c *Conversation) systemPrompt() string {
	prompt := basePrompt
	if summary := c.mem.Summary(); summary != "" {
		prompt += "\n\nREMEMBERED INFORMATION:\n" + summary
	}
	return prompt
}

// AddUserMessage appends a user message unconditionally, then scans it for a
// name introduction and updates the memory store on a match. Extraction
// misses are an expected outcome, not an error.
func (c *Conversation) AddUserMessage(content string) {
	c.messages = append(c.messages, Message{Role: RoleUser, Content: content})
	if name, ok := ExtractName(content); ok {
		// A persistence failure must not lose the turn itself.
		if err := c.mem.SetUserName(name); err != nil {
			c.logger.Warn("failed to persist remembered name", "name", name, "error", err)
		} else {
			c.logger.Info("memory updated", "user_name", name)
		}
	}
}

// AddAssistantMessage appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) {
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: content})
}

// Messages exposes the full ordered history. Callers must not reorder it.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// Len reports the number of messages, including the system message.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// DropLast removes the n most recently appended messages, restoring the
// pre-call history after a failed send. The system message is never dropped.
func (c *Conversation) DropLast(n int) {
	keep := len(c.messages) - n
	if keep < 1 {
		keep = 1
	}
	c.messages = c.messages[:keep]
}

// Reset rebuilds the system prompt from the current memory store contents and
// truncates the history to that single message. A remembered name therefore
// persists across resets.
func (c *Conversation) Reset() {
	c.messages = []Message{{Role: RoleSystem, Content: c.systemPrompt()}}
}

// Export serializes the full message sequence as JSON. When path is empty a
// timestamped file under conversations/ is generated. Returns the resolved
// path.
func (c *Conversation) Export(path string) (string, error) {
	if path == "" {
		timestamp := time.Now().Format("20060102_150405")
		path = filepath.Join("conversations", fmt.Sprintf("conversation_%s.json", timestamp))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(c.messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
