package kernel

import (
	"sync"

	"github.com/arctir/xvcore/restable"
	"github.com/arctir/xvcore/vmspace"
)

// Table is the fixed-size process table (ptable) plus the scheduling state
// that spans every slot: the MLFQ's three level queues and the Stride
// scheduler's aggregate pass/share/stride. One coarse lock protects all of
// it, matching proc.c's single ptable.lock (spec.md §5).
type Table struct {
	mu sync.Mutex

	procs   [NPROC]Proc
	nextpid int

	mlfq   *mlfq
	stride *stride

	initproc *Proc
}

// NewTable returns an empty, ready-to-use process table.
func NewTable() *Table {
	t := &Table{
		nextpid: 1,
		mlfq:    newMLFQ(),
		stride:  newStride(),
	}
	for i := range t.procs {
		t.procs[i].TID = -1
		t.procs[i].WTID = -1
	}
	return t
}

// Lock/Unlock expose the table's coarse lock to Scheduler, RunContext, and
// tests that need to hold it across several operations, analogous to
// acquire(&ptable.lock)/release(&ptable.lock) bracketing a whole code path in
// proc.c rather than a single call.
func (t *Table) Lock()   { t.mu.Lock() }
func (t *Table) Unlock() { t.mu.Unlock() }

// Tick returns the MLFQ's ticks-since-last-boost counter, a coarse progress
// metric for snapshot callers.
func (t *Table) Tick() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mlfq.totalTicks
}

// allocproc scans for an UNUSED slot, assigns it a pid, and marks it EMBRYO.
// It does not set up the slot's Workload or AddrSpace and does not enqueue
// it; callers (userinit, Fork, ThreadCreate) finish construction and admit
// it to the MLFQ level 0 tail (or, for a Stride thread, give it a pass)
// before making the new proc Runnable. Must be called with the lock held. Returns nil if
// the table is full (ErrNoFreeSlot), mirroring allocproc's "return 0"
// (proc.c ~ line 90).
func (t *Table) allocproc() *Proc {
	for i := range t.procs {
		p := &t.procs[i]
		if p.State == Unused {
			p.PID = t.nextpid
			t.nextpid++
			p.State = Embryo
			p.Killed = false
			p.TID = -1
			p.WTID = -1
			return p
		}
	}
	return nil
}

// Dump returns a read-only snapshot of every live (non-UNUSED) slot, the
// procdump equivalent described in SPEC_FULL.md §9.
func (t *Table) Dump() []ProcView {
	t.mu.Lock()
	defer t.mu.Unlock()
	views := make([]ProcView, 0, NPROC)
	for i := range t.procs {
		p := &t.procs[i]
		if p.State == Unused {
			continue
		}
		views = append(views, p.view())
	}
	return views
}

// Lookup returns a snapshot of the process with the given pid, and whether
// it was found.
func (t *Table) Lookup(pid int) (ProcView, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.procs {
		p := &t.procs[i]
		if p.State != Unused && p.PID == pid {
			return p.view(), true
		}
	}
	return ProcView{}, false
}

// children returns every direct child (by Parent pointer) of p, heavyweight
// and LWP alike. Must be called with the lock held.
func (t *Table) children(p *Proc) []*Proc {
	var kids []*Proc
	for i := range t.procs {
		c := &t.procs[i]
		if c.State != Unused && c.Parent == p {
			kids = append(kids, c)
		}
	}
	return kids
}

// reparentChildren moves every child of from to initproc, waking initproc
// whenever a reparented child is already ZOMBIE so a Wait parked inside
// initproc notices it instead of sleeping forever, standing in for exit()'s
// "pass abandoned children to init" loop (proc.c ~ lines 303-309/336-399,
// including their "if(p->state == ZOMBIE) wakeup1(initproc)" check). Must be
// called with the lock held.
func (t *Table) reparentChildren(from *Proc) {
	for i := range t.procs {
		c := &t.procs[i]
		if c.State != Unused && c.Parent == from {
			c.Parent = t.initproc
			if c.State == Zombie {
				t.wakeup1Locked(t.initproc)
			}
		}
	}
}

// newResources allocates a fresh, empty resource table and a root cwd
// handle, used by Userinit to populate a brand-new heavyweight process
// (Fork duplicates its parent's instead).
func newResources(cwdName string) (*restable.Table, *restable.Handle) {
	return restable.NewTable(), restable.NewHandle(cwdName)
}

// newAddrSpace allocates a fresh address space of the given size, standing
// in for init_uvm.
func newAddrSpace(sz int) *vmspace.Space {
	return vmspace.New(sz)
}
