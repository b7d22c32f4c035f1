package store

import (
	"time"

	"github.com/pkg/errors"
)

// SaveChat persists a chat. A chat without an id is inserted along with all of
// its messages; a chat with an id gets only its unpersisted messages inserted,
// plus an in-place content update of the last persisted message (the growing
// assistant message of a streaming exchange). Calling it repeatedly with a
// monotonically growing message list is safe: already-persisted messages are
// never duplicated. The chat is mutated (id, title, timestamps, persisted
// markers) only once the transaction has committed, so a failed save leaves it
// retryable.
func (s *Store) SaveChat(chat *Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if len(chat.Messages) == 0 {
		return errors.New("refusing to save a chat with no messages")
	}
	for _, message := range chat.Messages {
		if !message.Role.Valid() {
			return errors.Errorf("invalid message role %q", message.Role)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMicro()

	tx, err := s.db.Begin()
	if err != nil {
		return storageUnavailable(err, "beginning transaction")
	}
	defer tx.Rollback()

	id := chat.ID
	title := chat.Title
	if !chat.Saved() {
		title = deriveTitle(chat.Messages)

		result, err := tx.Exec(`
			INSERT INTO chats (title, creation_timestamp, update_timestamp)
			VALUES (?, ?, ?)
		`, title, now, now)
		if err != nil {
			return storageUnavailable(err, "inserting chat")
		}
		id, err = result.LastInsertId()
		if err != nil {
			return storageUnavailable(err, "reading chat id")
		}
	} else {
		result, err := tx.Exec(`
			UPDATE chats SET update_timestamp = ? WHERE id = ?
		`, now, id)
		if err != nil {
			return storageUnavailable(err, "updating chat")
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return storageUnavailable(err, "checking rows affected")
		}
		if affected == 0 {
			return errors.Wrapf(ErrNotFound, "chat %d", id)
		}

		// The last persisted message may have grown since it was written.
		var lastPersisted *Message
		for _, message := range chat.Messages {
			if message.persisted {
				lastPersisted = message
			}
		}
		if lastPersisted != nil {
			_, err := tx.Exec(`
				UPDATE messages SET content = ? WHERE chat_id = ? AND sequence = ?
			`, lastPersisted.Content, id, lastPersisted.Sequence)
			if err != nil {
				return storageUnavailable(err, "updating message")
			}
		}
	}

	for _, message := range chat.Messages {
		if message.persisted {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO messages (chat_id, sequence, role, content)
			VALUES (?, ?, ?, ?)
		`, id, message.Sequence, string(message.Role), message.Content)
		if err != nil {
			return storageUnavailable(err, "inserting message")
		}
	}

	if err := tx.Commit(); err != nil {
		return storageUnavailable(err, "committing transaction")
	}

	if !chat.Saved() {
		chat.ID = id
		chat.Title = title
		chat.CreationTimestamp = now
	}
	chat.UpdateTimestamp = now
	for _, message := range chat.Messages {
		message.persisted = true
	}
	return nil
}
