package game

import "sync"

// Mailbox is a single-slot, latest-wins delivery channel for one player's views.
// Update overwrites any unread view; Read hands each view out at most once.
// Readers that poll slowly only ever see the newest state.
type Mailbox struct {
	mu      sync.Mutex
	view    PlayerView
	changed bool
}

// NewMailbox creates an empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Update replaces the pending view
func (m *Mailbox) Update(v PlayerView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = v
	m.changed = true
}

// Read returns the pending view and clears it. ok is false when nothing new
// arrived since the last read.
func (m *Mailbox) Read() (v PlayerView, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.changed {
		return PlayerView{}, false
	}
	m.changed = false
	return m.view, true
}

// Pending reports whether an unread view is waiting
func (m *Mailbox) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}
