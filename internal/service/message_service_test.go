package service

import (
	"testing"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_DirectNotifiesRecipient(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	msg, err := svc.SendMessage(alice.ID, &SendMessageRequest{Content: "hi", RecipientID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageText, msg.Type)
	assert.Equal(t, domain.MessageSent, msg.Status)
	assert.Nil(t, msg.ExpiresAt)

	env.notifier.AssertCalled(t, "Notify", bob.ID, domain.EventMessage, mock.Anything)
	env.notifier.AssertNotCalled(t, "Notify", alice.ID, domain.EventMessage, mock.Anything)
}

func TestSendMessage_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	tests := []struct {
		name string
		req  SendMessageRequest
		want error
	}{
		{"no destination", SendMessageRequest{Content: "x"}, common.ErrInvalidInput},
		{"both destinations", SendMessageRequest{Content: "x", RecipientID: bob.ID, GroupID: "g"}, common.ErrInvalidInput},
		{"empty text", SendMessageRequest{Content: "  ", RecipientID: bob.ID}, common.ErrInvalidInput},
		{"unknown type", SendMessageRequest{Content: "x", Type: "sticker", RecipientID: bob.ID}, common.ErrInvalidInput},
		{"negative ttl", SendMessageRequest{Content: "x", RecipientID: bob.ID, TTLMinutes: -1}, common.ErrInvalidInput},
		{"unknown recipient", SendMessageRequest{Content: "x", RecipientID: "ghost"}, common.ErrUserNotFound},
		{"unknown group", SendMessageRequest{Content: "x", GroupID: "ghost"}, common.ErrGroupNotFound},
		{"unknown reply target", SendMessageRequest{Content: "x", RecipientID: bob.ID, ReplyTo: ptr("nope")}, common.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.SendMessage(alice.ID, &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSendMessage_TTLVisibilityWindow(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	_, err := svc.SendMessage(alice.ID, &SendMessageRequest{Content: "poof", RecipientID: bob.ID, TTLMinutes: 5})
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{Content: "stays", RecipientID: bob.ID})
	require.NoError(t, err)

	env.advance(5*time.Minute - time.Second)
	msgs, err := svc.GetDirectMessages(bob.ID, alice.ID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	env.advance(time.Second)
	msgs, err = svc.GetDirectMessages(bob.ID, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "stays", msgs[0].Content)

	env.advance(365 * 24 * time.Hour)
	msgs, err = svc.GetDirectMessages(alice.ID, bob.ID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestSendMessage_BlockedSenderForbidden(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")
	require.NoError(t, env.contacts.SetBlocked(bob.ID, alice.ID, true, env.now))

	_, err := svc.SendMessage(alice.ID, &SendMessageRequest{Content: "hello?", RecipientID: bob.ID})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.SendMessage(bob.ID, &SendMessageRequest{Content: "I can still talk", RecipientID: alice.ID})
	assert.NoError(t, err)
}

func TestGroupMessages_MembersOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	groups := env.groupService()
	alice, bob, mallory := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "mallory")

	g, err := groups.CreateGroup(alice.ID, &CreateGroupRequest{Name: "team", MemberIDs: []string{bob.ID}})
	require.NoError(t, err)

	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{Content: "standup", GroupID: g.ID})
	require.NoError(t, err)
	env.notifier.AssertCalled(t, "Notify", bob.ID, domain.EventMessage, mock.Anything)

	_, err = svc.SendMessage(mallory.ID, &SendMessageRequest{Content: "let me in", GroupID: g.ID})
	assert.ErrorIs(t, err, common.ErrForbidden)

	msgs, err := svc.GetGroupMessages(bob.ID, g.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "standup", msgs[0].Content)

	_, err = svc.GetGroupMessages(mallory.ID, g.ID, 10)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestToggleReaction_IsItsOwnInverse(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice, bob, charlie := env.user(t, "alice"), env.user(t, "bob"), env.user(t, "charlie")
	msg, err := svc.SendMessage(alice.ID, &SendMessageRequest{Content: "hi", RecipientID: bob.ID})
	require.NoError(t, err)

	r, err := svc.ToggleReaction(msg.ID, "👍", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Reactions{"👍": {bob.ID}}, r)
	env.notifier.AssertCalled(t, "Notify", alice.ID, domain.EventReaction, mock.Anything)

	r, err = svc.ToggleReaction(msg.ID, "👍", bob.ID)
	require.NoError(t, err)
	assert.Empty(t, r)

	_, err = svc.ToggleReaction(msg.ID, "👍", charlie.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.ToggleReaction(msg.ID, " ", bob.ID)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestEditAndDelete_OnlySender(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")
	msg, err := svc.SendMessage(alice.ID, &SendMessageRequest{Content: "helo", RecipientID: bob.ID})
	require.NoError(t, err)

	_, err = svc.EditMessage(msg.ID, bob.ID, "hijacked")
	assert.ErrorIs(t, err, common.ErrForbidden)

	env.advance(time.Minute)
	edited, err := svc.EditMessage(msg.ID, alice.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", edited.Content)
	require.NotNil(t, edited.EditedAt)
	assert.True(t, edited.EditedAt.Equal(env.now))

	assert.ErrorIs(t, svc.SoftDeleteMessage(msg.ID, bob.ID), common.ErrForbidden)
	require.NoError(t, svc.SoftDeleteMessage(msg.ID, alice.ID))
	require.NoError(t, svc.SoftDeleteMessage(msg.ID, alice.ID), "second delete is a no-op")

	_, err = svc.EditMessage(msg.ID, alice.ID, "back from the dead")
	assert.ErrorIs(t, err, common.ErrMessageNotFound)
	_, err = svc.ToggleReaction(msg.ID, "👍", bob.ID)
	assert.ErrorIs(t, err, common.ErrMessageNotFound)
}

func TestMarkRead_ForwardOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")
	m1, err := svc.SendMessage(alice.ID, &SendMessageRequest{Content: "one", RecipientID: bob.ID})
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{Content: "two", RecipientID: bob.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkRead(m1.ID, alice.ID), common.ErrForbidden)
	require.NoError(t, svc.MarkRead(m1.ID, bob.ID))
	require.NoError(t, svc.MarkDelivered(m1.ID, bob.ID))

	stored, err := env.messages.FindByID(m1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageRead, stored.Status)

	n, err := svc.MarkConversationRead(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	env.notifier.AssertCalled(t, "Notify", alice.ID, domain.EventMessageUpdated, mock.Anything)
}

func TestGetDirectMessages_LimitClamp(t *testing.T) {
	assert.Equal(t, DefaultMessageLimit, clampLimit(0))
	assert.Equal(t, DefaultMessageLimit, clampLimit(-5))
	assert.Equal(t, 20, clampLimit(20))
	assert.Equal(t, MaxMessageLimit, clampLimit(10000))
}

func ptr[T any](v T) *T { return &v }
