package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoAssistant struct{}

func (echoAssistant) Reply(_ context.Context, prompt string) string {
	return "re: " + prompt
}

func TestSession_SendIgnoresBlankInput(t *testing.T) {
	s := NewSession(CannedAssistant{}, WithReplyDelay(0))
	defer s.Close()

	for _, in := range []string{"", "   ", "\n\t"} {
		_, ok := s.Send(in)
		assert.False(t, ok, "input %q", in)
	}
	assert.Empty(t, s.Messages())
}

func TestSession_UserMessageAppendedImmediately(t *testing.T) {
	s := NewSession(CannedAssistant{}, WithReplyDelay(time.Hour))
	defer s.Close()

	msg, ok := s.Send("Who are the biggest winners this week?")
	require.True(t, ok)

	assert.Equal(t, RoleUser, msg.Role)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, []Message{msg}, s.Messages())
}

func TestSession_DelayedReply(t *testing.T) {
	replies := make(chan Message, 1)
	s := NewSession(echoAssistant{},
		WithReplyDelay(10*time.Millisecond),
		WithOnMessage(func(m Message) { replies <- m }),
	)
	defer s.Close()

	_, ok := s.Send("hello")
	require.True(t, ok)

	select {
	case reply := <-replies:
		assert.Equal(t, RoleAssistant, reply.Role)
		assert.Equal(t, "re: hello", reply.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply delivered")
	}

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
}

func TestSession_CloseCancelsPendingReplies(t *testing.T) {
	called := make(chan struct{}, 1)
	s := NewSession(CannedAssistant{},
		WithReplyDelay(time.Hour),
		WithOnMessage(func(Message) { called <- struct{}{} }),
	)

	_, ok := s.Send("anyone there?")
	require.True(t, ok)
	s.Close()

	assert.Len(t, s.Messages(), 1)
	assert.Empty(t, called)

	_, ok = s.Send("after close")
	assert.False(t, ok)
}

func TestSession_MessagesReturnsCopy(t *testing.T) {
	s := NewSession(CannedAssistant{}, WithReplyDelay(time.Hour))
	defer s.Close()

	s.Send("first")
	msgs := s.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, "first", s.Messages()[0].Content)
}

func TestCannedAssistant(t *testing.T) {
	assert.Equal(t, CannedReply, CannedAssistant{}.Reply(context.Background(), "anything"))
}

func TestSuggestedPrompts(t *testing.T) {
	team := SuggestedPrompts(PromptsTeam)
	require.Len(t, team, 4)
	assert.Equal(t, "How will this affect their starting lineup?", team[0])

	player := SuggestedPrompts(PromptsPlayer)
	require.Len(t, player, 4)
	assert.Equal(t, "What's their projected impact?", player[3])

	team[0] = "mutated"
	assert.Equal(t, "How will this affect their starting lineup?", SuggestedPrompts(PromptsTeam)[0])

	assert.Empty(t, SuggestedPrompts("unknown"))
}
