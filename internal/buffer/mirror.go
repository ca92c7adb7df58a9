// Package buffer implements the Buffer Mirror (spec §2 item 9, §5): the
// editor-authoritative latest text for each open file, consulted for completion
// context. Writes come from the (non-blocking) request thread on every
// updateFileContent call; reads come from the worker. It lives for the server's
// lifetime and is preserved, not cleared, across rebuilds (spec §4.9).
package buffer

import "sync"

// Mirror is a concurrent map from absolute path to its latest editor-side text.
type Mirror struct {
	mu    sync.RWMutex
	texts map[string]string
}

// New builds an empty Mirror.
func New() *Mirror {
	return &Mirror{texts: make(map[string]string)}
}

// Update records the latest text for path. Never fails (spec §7: "buffer-edit
// loss never occurs; updates to the buffer mirror are unconditional").
func (m *Mirror) Update(path, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[path] = text
}

// Get returns the mirrored text for path, if the file is open.
func (m *Mirror) Get(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.texts[path]
	return t, ok
}

// Forget drops the mirrored text for path, on editor-side close.
func (m *Mirror) Forget(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.texts, path)
}
