// Package chat implements the portal assistant conversation: a per-client
// session that records user messages and answers them after a short delay.
package chat

import (
	"context"
	"time"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Assistant produces replies to user prompts
type Assistant interface {
	Reply(ctx context.Context, prompt string) string
}

// CannedReply is the answer CannedAssistant gives to every prompt
const CannedReply = "Based on the available data, I can help analyze this situation. " +
	"The transfer portal activity shows significant movement in key positions, " +
	"which could impact team dynamics for the upcoming season."

// CannedAssistant answers every prompt with CannedReply
type CannedAssistant struct{}

func (CannedAssistant) Reply(context.Context, string) string {
	return CannedReply
}
