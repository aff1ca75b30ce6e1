package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultReplyDelay is how long the assistant "thinks" before answering
const DefaultReplyDelay = time.Second

// Session is one client's conversation. It is safe for concurrent use.
type Session struct {
	assistant Assistant
	delay     time.Duration
	onMessage func(Message)
	now       func() time.Time

	mu       sync.Mutex
	messages []Message
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Session
type Option func(*Session)

// WithReplyDelay overrides DefaultReplyDelay; zero replies immediately
func WithReplyDelay(d time.Duration) Option {
	return func(s *Session) { s.delay = d }
}

// WithOnMessage registers a callback invoked with every assistant reply
func WithOnMessage(fn func(Message)) Option {
	return func(s *Session) { s.onMessage = fn }
}

// WithInitialMessages seeds the conversation history
func WithInitialMessages(messages []Message) Option {
	return func(s *Session) {
		s.messages = append([]Message(nil), messages...)
	}
}

// NewSession starts a conversation answered by assistant
func NewSession(assistant Assistant, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		assistant: assistant,
		delay:     DefaultReplyDelay,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send records a user message and schedules the assistant's reply.
// Blank content is ignored and reported with ok == false, as is any send
// after Close.
func (s *Session) Send(content string) (msg Message, ok bool) {
	if strings.TrimSpace(content) == "" {
		return Message{}, false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Message{}, false
	}
	msg = s.newMessage(RoleUser, content)
	s.messages = append(s.messages, msg)
	s.wg.Add(1)
	s.mu.Unlock()

	go s.reply(content)
	return msg, true
}

func (s *Session) reply(prompt string) {
	defer s.wg.Done()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
		}
	}

	content := s.assistant.Reply(s.ctx, prompt)
	if s.ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	msg := s.newMessage(RoleAssistant, content)
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	if s.onMessage != nil {
		s.onMessage(msg)
	}
}

// newMessage must be called with mu held
func (s *Session) newMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
}

// Messages returns a copy of the conversation so far
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Close drops pending replies and waits for their goroutines to exit
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
