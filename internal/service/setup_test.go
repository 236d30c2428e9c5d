package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/migration"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- Mock Notifier ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(userID, eventType string, payload interface{}) {
	m.Called(userID, eventType, payload)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, migration.Run(db))
	return db
}

// testEnv real repositories over a temp sqlite file and a controllable clock
type testEnv struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	contacts repository.ContactRepository
	requests repository.FriendRequestRepository
	groups   repository.GroupRepository
	stories  repository.StoryRepository
	channels repository.ChannelRepository
	notifier *mockNotifier
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.Anything, mock.Anything).Maybe()
	return &testEnv{
		users:    repository.NewUserRepository(db),
		messages: repository.NewMessageRepository(db),
		contacts: repository.NewContactRepository(db),
		requests: repository.NewFriendRequestRepository(db),
		groups:   repository.NewGroupRepository(db),
		stories:  repository.NewStoryRepository(db),
		channels: repository.NewChannelRepository(db),
		notifier: n,
		now:      time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func (e *testEnv) user(t *testing.T, name string) *domain.User {
	t.Helper()
	return e.userWithID(t, "", name)
}

func (e *testEnv) userWithID(t *testing.T, id, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:            id,
		Username:      name,
		Email:         name + "@example.com",
		PasswordHash:  "unused",
		StatusMessage: domain.DefaultStatusMessage,
		OnlineStatus:  domain.StatusOffline,
		LastSeen:      e.now,
		CreatedAt:     e.now,
	}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) messageService() *messageService {
	s := newMessageService(e.messages, e.users, e.groups, e.contacts, e.notifier)
	s.now = e.clock
	return s
}

func (e *testEnv) contactService() *contactService {
	s := newContactService(e.contacts, e.requests, e.users, e.notifier)
	s.now = e.clock
	return s
}

func (e *testEnv) groupService() *groupService {
	s := newGroupService(e.groups, e.users)
	s.now = e.clock
	return s
}

func (e *testEnv) storyService() *storyService {
	s := newStoryService(e.stories)
	s.now = e.clock
	return s
}

func (e *testEnv) channelService() *channelService {
	s := newChannelService(e.channels)
	s.now = e.clock
	return s
}
