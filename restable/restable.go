// Package restable stands in for the file/inode subsystem that spec.md
// treats as an external collaborator (file_dup, file_close, iput, idup,
// namei, begin_op, end_op). It models a process's open-resource table and
// its current-working-directory reference as reference-counted opaque
// handles, without touching any real filesystem.
package restable

import "sync"

// Handle is an opaque, reference-counted resource reference, standing in
// for a *file or an inode pointer.
type Handle struct {
	mu   sync.Mutex
	name string
	refs int
}

// NewHandle returns a Handle with one reference, standing in for namei
// (for a cwd reference) or opening a file.
func NewHandle(name string) *Handle {
	return &Handle{name: name, refs: 1}
}

// Name returns the handle's label.
func (h *Handle) Name() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.name
}

// Dup increments the reference count and returns the same handle, standing
// in for file_dup/idup.
func (h *Handle) Dup() *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refs++
	return h
}

// Close decrements the reference count, standing in for file_close/iput.
// It reports the remaining reference count.
func (h *Handle) Close() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refs > 0 {
		h.refs--
	}
	return h.refs
}

// Table is a process's open-resource table, standing in for xv6's
// ofile[NOFILE] array. Unlike xv6, it is unbounded; NOFILE-style exhaustion
// is out of scope for this teaching core.
type Table struct {
	mu      sync.Mutex
	entries []*Handle
}

// NewTable returns an empty resource table.
func NewTable() *Table {
	return &Table{}
}

// Open installs h into the table and returns its index, standing in for
// assigning a new ofile[] slot.
func (t *Table) Open(h *Handle) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, h)
	return len(t.entries) - 1
}

// CloseAll closes every entry, standing in for exit()'s fileclose loop over
// ofile[]. It returns the number of entries closed.
func (t *Table) CloseAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.entries)
	for _, h := range t.entries {
		h.Close()
	}
	t.entries = nil
	return n
}

// Dup returns a new Table referencing the same underlying handles with
// their reference counts bumped, standing in for fork()'s per-fd filedup
// loop.
func (t *Table) Dup() *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	nt := &Table{entries: make([]*Handle, len(t.entries))}
	for i, h := range t.entries {
		nt.entries[i] = h.Dup()
	}
	return nt
}

// Len reports how many resources are currently open.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
