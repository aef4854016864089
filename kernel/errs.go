package kernel

import "errors"

// Sentinel errors returned by exported Table and RunContext methods. Callers
// compare against these with errors.Is rather than inspecting formatted
// strings.
var (
	// ErrNoFreeSlot is returned when the process table has no UNUSED slot
	// left for allocproc to claim.
	ErrNoFreeSlot = errors.New("kernel: no free process slot")
	// ErrAddrSpace is returned when growing or copying a process's address
	// space fails, and by Fork when the caller is an LWP.
	ErrAddrSpace = errors.New("kernel: address space operation failed")
	// ErrNoChildren is returned by Wait/ThreadJoin when the caller has no
	// children (or no matching thread) to reap, or the caller has been
	// killed.
	ErrNoChildren = errors.New("kernel: no children")
	// ErrBadShare is returned by SetCPUShare when share is zero or negative
	// or would drive mlfq_share to 20 or below.
	ErrBadShare = errors.New("kernel: invalid cpu share request")
	// ErrNotFound names a failed pid/tid lookup. No function in this
	// package returns it: Kill and Lookup report an unknown pid with a
	// false result, and ThreadJoin reports an unknown tid with
	// ErrNoChildren.
	ErrNotFound = errors.New("kernel: not found")
	// ErrWouldBlock is returned by Wait/ThreadJoin when the caller has live
	// children but none are ZOMBIE yet. The caller has been parked SLEEPING
	// on itself and will be woken by the next matching Exit/ThreadExit; a
	// caller driving its own event loop should retry after that wakeup
	// rather than busy-polling.
	ErrWouldBlock = errors.New("kernel: would block")
)
