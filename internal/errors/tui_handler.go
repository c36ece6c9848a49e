package errors

import (
	"sync"
	"time"
)

// DefaultMessageTTL is how long a status message stays visible.
const DefaultMessageTTL = 5 * time.Second

// TUIHandler handles errors by storing them for display in the TUI status line.
// Messages expire after their TTL; errors stay until cleared or replaced.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	ttl      time.Duration
	now      func() time.Time
	onError  func(msg Message)
}

type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// String returns the status line prefix of the type.
func (t MessageType) String() string {
	switch t {
	case MessageTypeError:
		return "error"
	case MessageTypeWarning:
		return "warning"
	case MessageTypeSuccess:
		return "success"
	default:
		return "info"
	}
}

// NewTUIHandler returns a handler. onError, when set, is called for every message.
func NewTUIHandler(onError func(msg Message)) *TUIHandler {
	return &TUIHandler{
		messages: make([]Message, 0),
		ttl:      DefaultMessageTTL,
		now:      time.Now,
		onError:  onError,
	}
}

// SetClock replaces the time source. Used by tests.
func (h *TUIHandler) SetClock(now func() time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = now
}

func (h *TUIHandler) Error(msg string) {
	h.addMessage(msg, MessageTypeError)
}

func (h *TUIHandler) Warning(msg string) {
	h.addMessage(msg, MessageTypeWarning)
}

func (h *TUIHandler) Info(msg string) {
	h.addMessage(msg, MessageTypeInfo)
}

func (h *TUIHandler) Success(msg string) {
	h.addMessage(msg, MessageTypeSuccess)
}

func (h *TUIHandler) addMessage(msg string, msgType MessageType) {
	h.mu.Lock()
	message := Message{
		Text:      msg,
		Type:      msgType,
		Timestamp: h.now(),
	}
	h.messages = append(h.messages, message)
	cb := h.onError
	h.mu.Unlock()

	if cb != nil {
		cb(message)
	}
}

// Current returns the latest message still visible.
func (h *TUIHandler) Current() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.messages) == 0 {
		return Message{}, false
	}
	latest := h.messages[len(h.messages)-1]
	if latest.Type != MessageTypeError && h.now().Sub(latest.Timestamp) >= h.ttl {
		return Message{}, false
	}
	return latest, true
}

// ClearErrors drops error messages, keeping the others.
func (h *TUIHandler) ClearErrors() {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.messages[:0]
	for _, m := range h.messages {
		if m.Type != MessageTypeError {
			kept = append(kept, m)
		}
	}
	h.messages = kept
}
