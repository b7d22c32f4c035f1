package store

// ChatSummary is the sidebar view of a chat: no messages attached.
type ChatSummary struct {
	ID              int64
	Title           string
	UpdateTimestamp int64
}

// ListChats returns a summary of every stored chat, most recently updated
// first.
func (s *Store) ListChats() ([]*ChatSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, title, update_timestamp
		FROM chats
		ORDER BY update_timestamp DESC
	`)
	if err != nil {
		return nil, storageUnavailable(err, "querying chats")
	}
	defer rows.Close()

	var chats []*ChatSummary
	for rows.Next() {
		chat := &ChatSummary{}
		if err := rows.Scan(&chat.ID, &chat.Title, &chat.UpdateTimestamp); err != nil {
			return nil, storageUnavailable(err, "scanning chat row")
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, storageUnavailable(err, "iterating chat rows")
	}

	return chats, nil
}
