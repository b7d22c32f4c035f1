// Package history manages persisted input history for the chat textarea.
package history

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

const maxEntries = 500

// History holds past inputs and a navigation cursor. An index of -1 means no
// navigation is in progress.
type History struct {
	mu      sync.Mutex
	entries []string
	index   int
	current string
	path    string
}

// New loads history from the given file, creating it lazily on first Add.
func New(path string) *History {
	h := &History{index: -1, path: path}
	h.load()
	return h
}

func (h *History) load() {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		line = strings.ReplaceAll(line, `\n`, "\n")
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
}

func (h *History) save() {
	h.mu.Lock()
	entries := make([]string, len(h.entries))
	copy(entries, h.entries)
	path := h.path
	h.mu.Unlock()

	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(strings.ReplaceAll(entry, "\n", `\n`))
		b.WriteString("\n")
	}
	_ = os.WriteFile(path, []byte(b.String()), 0644)
}

// Add records an entry and resets navigation. Consecutive duplicates are
// dropped.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}

	h.mu.Lock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		h.index = -1
		h.current = ""
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
	h.index = -1
	h.current = ""
	h.mu.Unlock()

	h.save()
}

// Previous moves one entry back, stashing the in-progress input on first use.
func (h *History) Previous(currentInput string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}
	if h.index == -1 {
		h.current = currentInput
		h.index = len(h.entries) - 1
	} else if h.index > 0 {
		h.index--
	} else {
		return h.entries[0], false
	}
	return h.entries[h.index], true
}

// Next moves one entry forward, restoring the stashed input past the newest
// entry.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == -1 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		h.index = -1
		return h.current, true
	}
	return h.entries[h.index], true
}

// Reset abandons navigation; call when the input is edited.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.index = -1
	h.current = ""
}
