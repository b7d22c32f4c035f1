package store

import (
	"database/sql"

	"github.com/pkg/errors"
)

// GetChat loads a chat and all of its messages, log messages included, in
// sequence order. Filtering by role is a presentation concern.
func (s *Store) GetChat(id int64) (*Chat, error) {
	chat := &Chat{}
	err := s.db.QueryRow(`
		SELECT id, title, creation_timestamp, update_timestamp
		FROM chats
		WHERE id = ?
	`, id).Scan(&chat.ID, &chat.Title, &chat.CreationTimestamp, &chat.UpdateTimestamp)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "chat %d", id)
	}
	if err != nil {
		return nil, storageUnavailable(err, "querying chat")
	}

	rows, err := s.db.Query(`
		SELECT sequence, role, content
		FROM messages
		WHERE chat_id = ?
		ORDER BY sequence ASC
	`, id)
	if err != nil {
		return nil, storageUnavailable(err, "querying messages")
	}
	defer rows.Close()

	for rows.Next() {
		message := &Message{persisted: true}
		var role string
		if err := rows.Scan(&message.Sequence, &role, &message.Content); err != nil {
			return nil, storageUnavailable(err, "scanning message row")
		}
		message.Role = Role(role)
		chat.Messages = append(chat.Messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, storageUnavailable(err, "iterating message rows")
	}

	return chat, nil
}
