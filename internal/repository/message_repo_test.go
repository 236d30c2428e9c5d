package repository

import (
	"testing"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type messageFixture struct {
	db       *gorm.DB
	users    UserRepository
	messages MessageRepository
	alice    *domain.User
	bob      *domain.User
	charlie  *domain.User
}

func newMessageFixture(t *testing.T) *messageFixture {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	return &messageFixture{
		db:       db,
		users:    users,
		messages: NewMessageRepository(db),
		alice:    seedUser(t, users, "alice"),
		bob:      seedUser(t, users, "bob"),
		charlie:  seedUser(t, users, "charlie"),
	}
}

func (f *messageFixture) direct(t *testing.T, from, to *domain.User, content string, at time.Time, expires *time.Time) *domain.Message {
	t.Helper()
	m := &domain.Message{
		SenderID:    from.ID,
		RecipientID: ptr(to.ID),
		Content:     content,
		Type:        domain.MessageText,
		Status:      domain.MessageSent,
		Timestamp:   at,
		ExpiresAt:   expires,
	}
	require.NoError(t, f.messages.Create(m))
	return m
}

func contents(msgs []*domain.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Content)
	}
	return out
}

func TestMessageRepository_FindDirectBothDirectionsAscending(t *testing.T) {
	f := newMessageFixture(t)
	f.direct(t, f.alice, f.bob, "hi bob", base, nil)
	f.direct(t, f.bob, f.alice, "hi alice", base.Add(time.Second), nil)
	f.direct(t, f.alice, f.charlie, "not for bob", base.Add(2*time.Second), nil)

	msgs, err := f.messages.FindDirect(f.bob.ID, f.alice.ID, 50, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"hi bob", "hi alice"}, contents(msgs))
}

func TestMessageRepository_LimitKeepsNewest(t *testing.T) {
	f := newMessageFixture(t)
	for i, c := range []string{"m1", "m2", "m3", "m4"} {
		f.direct(t, f.alice, f.bob, c, base.Add(time.Duration(i)*time.Second), nil)
	}

	msgs, err := f.messages.FindDirect(f.alice.ID, f.bob.ID, 2, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m4"}, contents(msgs))
}

func TestMessageRepository_ExpiryBoundary(t *testing.T) {
	f := newMessageFixture(t)
	expires := base.Add(time.Minute)
	f.direct(t, f.alice, f.bob, "ephemeral", base, &expires)

	visibleBefore, err := f.messages.FindDirect(f.alice.ID, f.bob.ID, 50, expires.Add(-time.Second))
	require.NoError(t, err)
	assert.Len(t, visibleBefore, 1)

	atExpiry, err := f.messages.FindDirect(f.alice.ID, f.bob.ID, 50, expires)
	require.NoError(t, err)
	assert.Empty(t, atExpiry, "expires_at == now is already expired")
}

func TestMessageRepository_SoftDeletedHiddenButKept(t *testing.T) {
	f := newMessageFixture(t)
	m := f.direct(t, f.alice, f.bob, "oops", base, nil)

	require.NoError(t, f.messages.UpdateFields(m.ID, map[string]interface{}{"is_deleted": true}))

	msgs, err := f.messages.FindDirect(f.alice.ID, f.bob.ID, 50, base)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	stored, err := f.messages.FindByID(m.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, "oops", stored.Content)
}

func TestMessageRepository_ToggleReactionPrunes(t *testing.T) {
	f := newMessageFixture(t)
	m := f.direct(t, f.alice, f.bob, "react", base, nil)

	r, err := f.messages.ToggleReaction(m.ID, "👍", f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Reactions{"👍": {f.bob.ID}}, r)

	r, err = f.messages.ToggleReaction(m.ID, "👍", f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, r)

	stored, err := f.messages.FindByID(m.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ReactionMap())

	_, err = f.messages.ToggleReaction("missing", "👍", f.bob.ID)
	assert.ErrorIs(t, err, common.ErrMessageNotFound)
}

func TestMessageRepository_DestinationCheckConstraint(t *testing.T) {
	f := newMessageFixture(t)

	err := f.messages.Create(&domain.Message{
		SenderID:  f.alice.ID,
		Content:   "nowhere",
		Type:      domain.MessageText,
		Status:    domain.MessageSent,
		Timestamp: base,
	})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	err = f.messages.Create(&domain.Message{
		SenderID:    f.alice.ID,
		RecipientID: ptr(f.bob.ID),
		GroupID:     ptr("g1"),
		Content:     "everywhere",
		Type:        domain.MessageText,
		Status:      domain.MessageSent,
		Timestamp:   base,
	})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestMessageRepository_AdvanceStatusNeverMovesBack(t *testing.T) {
	f := newMessageFixture(t)
	m1 := f.direct(t, f.alice, f.bob, "one", base, nil)
	m2 := f.direct(t, f.alice, f.bob, "two", base.Add(time.Second), nil)

	n, err := f.messages.AdvanceStatus([]string{m1.ID}, domain.MessageRead)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.messages.AdvanceStatus([]string{m1.ID, m2.ID}, domain.MessageDelivered)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got1, _ := f.messages.FindByID(m1.ID)
	got2, _ := f.messages.FindByID(m2.ID)
	assert.Equal(t, domain.MessageRead, got1.Status)
	assert.Equal(t, domain.MessageDelivered, got2.Status)

	unread, err := f.messages.FindUnreadFrom(f.alice.ID, f.bob.ID, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{m2.ID}, unread)
}

func TestMessageRepository_FindGroup(t *testing.T) {
	f := newMessageFixture(t)
	for i, c := range []string{"g-a", "g-b"} {
		require.NoError(t, f.messages.Create(&domain.Message{
			SenderID:  f.alice.ID,
			GroupID:   ptr("group-1"),
			Content:   c,
			Type:      domain.MessageText,
			Status:    domain.MessageSent,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}
	f.direct(t, f.alice, f.bob, "direct", base, nil)

	msgs, err := f.messages.FindGroup("group-1", 50, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"g-a", "g-b"}, contents(msgs))
}
