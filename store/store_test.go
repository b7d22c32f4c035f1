package store

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "chats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveChatRoundTrip(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(RoleUser, "What is a monad?")
	chat.Append(RoleLog, "Title: Monads\nContent: ...\nSource: https://example.com\n\n")
	chat.Append(RoleAssistant, "A monoid in the category of endofunctors.")

	require.NoError(t, s.SaveChat(chat))
	require.NotZero(t, chat.ID)

	loaded, err := s.GetChat(chat.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 3)
	for i, message := range loaded.Messages {
		assert.Equal(t, chat.Messages[i].Role, message.Role)
		assert.Equal(t, chat.Messages[i].Content, message.Content)
		assert.Equal(t, i, message.Sequence)
		assert.True(t, message.Persisted())
	}
	assert.Equal(t, chat.Title, loaded.Title)
	assert.Equal(t, chat.CreationTimestamp, loaded.CreationTimestamp)
}

func TestSaveChatRejectsEmptyChat(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	require.Error(t, s.SaveChat(chat))
	assert.False(t, chat.Saved())

	chats, err := s.ListChats()
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestSaveChatRejectsInvalidRole(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(Role("narrator"), "once upon a time")
	require.Error(t, s.SaveChat(chat))
	assert.False(t, chat.Saved())
}

func TestSaveChatIncrementalIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(RoleUser, "Hello")
	require.NoError(t, s.SaveChat(chat))
	id := chat.ID

	// Simulate a streaming exchange: the assistant message grows across
	// repeated saves of the same chat.
	assistant := chat.Append(RoleAssistant, "Hi")
	require.NoError(t, s.SaveChat(chat))
	assistant.Content += " there!"
	require.NoError(t, s.SaveChat(chat))
	require.NoError(t, s.SaveChat(chat))

	assert.Equal(t, id, chat.ID)

	loaded, err := s.GetChat(id)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "Hello", loaded.Messages[0].Content)
	assert.Equal(t, "Hi there!", loaded.Messages[1].Content)

	chats, err := s.ListChats()
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, id, chats[0].ID)
}

func TestSaveChatTitleIsStable(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(RoleUser, "  how   do I\nexit vim?  ")
	require.NoError(t, s.SaveChat(chat))
	assert.Equal(t, "how do I exit vim?", chat.Title)

	chat.Append(RoleAssistant, ":q!")
	require.NoError(t, s.SaveChat(chat))

	loaded, err := s.GetChat(chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "how do I exit vim?", loaded.Title)
}

func TestSaveChatTitleTruncation(t *testing.T) {
	s := newTestStore(t)

	long := ""
	for i := 0; i < 40; i++ {
		long += "word "
	}
	chat := NewChat()
	chat.Append(RoleUser, long)
	require.NoError(t, s.SaveChat(chat))
	assert.Len(t, chat.Title, titleMaxLength)
	assert.Contains(t, chat.Title, "...")
}

func TestSaveChatTitleTruncatesOnRuneBoundary(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(RoleUser, strings.Repeat("héllo wörld ", 20))
	require.NoError(t, s.SaveChat(chat))
	assert.True(t, utf8.ValidString(chat.Title))
	assert.Len(t, []rune(chat.Title), titleMaxLength)

	loaded, err := s.GetChat(chat.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.Title, loaded.Title)
}

func TestSaveChatUpdatesTimestamp(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(RoleUser, "ping")
	require.NoError(t, s.SaveChat(chat))
	created := chat.CreationTimestamp
	first := chat.UpdateTimestamp

	chat.Append(RoleAssistant, "pong")
	require.NoError(t, s.SaveChat(chat))

	assert.Equal(t, created, chat.CreationTimestamp)
	assert.GreaterOrEqual(t, chat.UpdateTimestamp, first)
}

func TestSaveChatNotFoundAfterDelete(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(RoleUser, "hello")
	require.NoError(t, s.SaveChat(chat))
	require.NoError(t, s.DeleteChat(chat.ID))

	chat.Append(RoleAssistant, "hi")
	err := s.SaveChat(chat)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetChatNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetChat(42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteChat(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(RoleUser, "delete me")
	chat.Append(RoleAssistant, "ok")
	require.NoError(t, s.SaveChat(chat))

	require.NoError(t, s.DeleteChat(chat.ID))

	_, err := s.GetChat(chat.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Messages must be gone with the chat.
	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*) FROM messages WHERE chat_id = ?`, chat.ID).Scan(&count))
	assert.Zero(t, count)
}

func TestForeignKeysEnforcedOnEveryConnection(t *testing.T) {
	s := newTestStore(t)

	chat := NewChat()
	chat.Append(RoleUser, "cascade me")
	chat.Append(RoleAssistant, "ok")
	require.NoError(t, s.SaveChat(chat))

	// Deleting the chat row directly must cascade to its messages, whichever
	// pooled connection runs the statement.
	_, err := s.db.Exec(`DELETE FROM chats WHERE id = ?`, chat.ID)
	require.NoError(t, err)

	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*) FROM messages WHERE chat_id = ?`, chat.ID).Scan(&count))
	assert.Zero(t, count)
}

func TestDeleteChatNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteChat(7)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListChatsOrdering(t *testing.T) {
	s := newTestStore(t)

	first := NewChat()
	first.Append(RoleUser, "first")
	require.NoError(t, s.SaveChat(first))

	second := NewChat()
	second.Append(RoleUser, "second")
	require.NoError(t, s.SaveChat(second))

	// Touch the first chat so it becomes the most recently updated.
	first.Append(RoleAssistant, "reply")
	require.NoError(t, s.SaveChat(first))

	chats, err := s.ListChats()
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, first.ID, chats[0].ID)
	assert.Equal(t, second.ID, chats[1].ID)
	assert.GreaterOrEqual(t, chats[0].UpdateTimestamp, chats[1].UpdateTimestamp)
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chats.db")

	s, err := New(path)
	require.NoError(t, err)
	chat := NewChat()
	chat.Append(RoleUser, "persist me")
	require.NoError(t, s.SaveChat(chat))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.GetChat(chat.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "persist me", loaded.Messages[0].Content)
}
