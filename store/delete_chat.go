package store

import (
	"github.com/pkg/errors"
)

// DeleteChat removes a chat and all of its messages transactionally: either
// both disappear or neither does.
func (s *Store) DeleteChat(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return storageUnavailable(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE chat_id = ?`, id); err != nil {
		return storageUnavailable(err, "deleting messages")
	}

	result, err := tx.Exec(`DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return storageUnavailable(err, "deleting chat")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageUnavailable(err, "checking rows affected")
	}
	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "chat %d", id)
	}

	if err := tx.Commit(); err != nil {
		return storageUnavailable(err, "committing transaction")
	}
	return nil
}
