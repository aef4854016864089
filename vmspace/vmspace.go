// Package vmspace stands in for the virtual-memory allocator that spec.md
// treats as an external collaborator (alloc_vm, dealloc_vm, copy_vm,
// setup_kvm, switch_uvm, switch_kvm). It tracks an address-space size and
// page count in memory rather than manipulating real page tables.
package vmspace

import (
	"fmt"
	"sync"
)

// PageSize matches xv6's PGSIZE.
const PageSize = 4096

// Space is a shared address space, analogous to a pgdir handle. A
// heavyweight process owns one; its LWPs share the same pointer (see
// spec.md invariant 3).
type Space struct {
	mu    sync.Mutex
	sz    int
	pages int
}

// New returns a freshly "set up" address space of the given byte size,
// standing in for setup_kvm + init_uvm.
func New(initialSize int) *Space {
	return &Space{sz: initialSize, pages: pageRoundUp(initialSize) / PageSize}
}

// Copy returns a new, independent Space with the same size, standing in
// for copy_uvm. Real xv6 copies physical pages; here only the size and
// page count are duplicated since no process workload reads or writes
// simulated memory contents.
func (s *Space) Copy() (*Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Space{sz: s.sz, pages: s.pages}, nil
}

// Size returns the current address-space size in bytes.
func (s *Space) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sz
}

// Pages returns the number of pages currently backing the address space.
func (s *Space) Pages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

// Grow changes the address space size by n bytes (n may be negative),
// standing in for alloc_uvm/dealloc_uvm, and returns the new size. An
// attempt to shrink below zero fails, standing in for allocation failure.
func (s *Space) Grow(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	newSz := s.sz + n
	if newSz < 0 {
		return 0, fmt.Errorf("vmspace: cannot shrink address space of size %d by %d", s.sz, n)
	}
	s.sz = newSz
	s.pages = pageRoundUp(newSz) / PageSize
	return s.sz, nil
}

// GrowPages grows the address space by exactly n pages, returning the new
// size in bytes. Used by thread_create for the two-page (guard+stack)
// per-thread allocation described in spec.md invariant 4.
func (s *Space) GrowPages(n int) (int, error) {
	return s.Grow(n * PageSize)
}

// PageRoundUp rounds sz up to the nearest page boundary, standing in for
// xv6's PGROUNDUP macro.
func PageRoundUp(sz int) int { return pageRoundUp(sz) }

func pageRoundUp(sz int) int {
	if sz%PageSize == 0 {
		return sz
	}
	return (sz/PageSize + 1) * PageSize
}
