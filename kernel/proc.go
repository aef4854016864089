// Package kernel implements the CORE scheduling and lightweight-process
// (LWP) subsystem of a teaching kernel: a hybrid MLFQ/Stride scheduler, the
// process lifecycle state machine, and in-process threads sharing an
// address space with their parent.
package kernel

import (
	"fmt"

	"github.com/arctir/xvcore/restable"
	"github.com/arctir/xvcore/vmspace"
)

// State is the run state of a process-table slot.
type State int

const (
	Unused State = iota
	Embryo
	Sleeping
	Runnable
	Running
	Zombie
)

// String renders the state the way procdump would (see SPEC_FULL.md §9).
func (s State) String() string {
	switch s {
	case Unused:
		return "unused"
	case Embryo:
		return "embryo"
	case Sleeping:
		return "sleep"
	case Runnable:
		return "runble"
	case Running:
		return "run"
	case Zombie:
		return "zombie"
	default:
		return "???"
	}
}

const (
	// NPROC is the fixed capacity of the process table.
	NPROC = 64
	// nLevels is the number of MLFQ priority levels.
	nLevels = 3
	// mlfqShareFloor is the minimum percentage the MLFQ must retain; see
	// spec.md invariant 2 and Table.SetCPUShare.
	mlfqShareFloor = 20
	// shareBase is the numerator used to derive a stride from a share
	// percentage: stride = shareBase / cpu_share.
	shareBase = 10000
)

// Workload stands in for "the user program" a Proc executes. Run is invoked
// synchronously by the scheduler loop, once per scheduling quantum, with
// ptable.lock held (see SPEC_FULL.md §1 and §5). A Workload traps back into
// the kernel by calling RunContext.Yield, Sleep, Exit, or ThreadExit; those
// calls unwind back to the loop via an internal control-transfer signal and
// never return to the caller. RunContext.Tick records elapsed ticks and
// returns.
type Workload interface {
	Run(rt *RunContext)
}

// WorkloadFunc adapts a plain function to a Workload.
type WorkloadFunc func(rt *RunContext)

func (f WorkloadFunc) Run(rt *RunContext) { f(rt) }

// Proc is one process-table slot. Every field is only safe to read or
// mutate while the owning Table's lock is held, except Workload, which is
// set once at allocation and never mutated afterward.
type Proc struct {
	// PID is the stable numeric process id. Zero means the slot has never
	// held, or no longer holds, a live process.
	PID int
	// State is the slot's current run state.
	State State
	// Name is a short human-readable label, analogous to xv6's p->name.
	Name string
	// Parent is a back-reference to the allocating (or re-adopting) process.
	Parent *Proc
	// Killed is set by Kill and observed lazily by the next trap the target
	// makes into RunContext.
	Killed bool
	// Chan is the wait-channel a SLEEPING proc is parked on.
	Chan any

	// AddrSpace is the shared address-space handle. LWPs share their
	// parent's pointer; see spec.md invariant 3.
	AddrSpace *vmspace.Space
	// Files is the open-resource table, analogous to xv6's ofile[].
	Files *restable.Table
	// Cwd is the current-working-directory handle, analogous to xv6's cwd.
	Cwd *restable.Handle

	// Level is the current MLFQ level (0-2), meaningful only when
	// CPUShare == 0.
	Level int
	// Ticks is ticks consumed at the current level since the last
	// promotion/demotion/entry.
	Ticks int
	// CPUShare is the reserved share percentage; zero means "in the MLFQ".
	CPUShare int
	// Stride is floor(shareBase / CPUShare) when CPUShare > 0.
	Stride int
	// Pass is this entity's virtual time for Stride comparisons.
	Pass int

	// IsLWP is false for a heavyweight process, true for a thread.
	IsLWP bool
	// NumLWP is the live child-thread count, meaningful on a heavyweight
	// process.
	NumLWP int
	// AllLWP is the cumulative thread count ever created, used to size the
	// stack-page reclaim on group teardown.
	AllLWP int
	// TID is this proc's thread id within its process group, or -1.
	TID int
	// WTID is the tid this proc is currently joining, or -1.
	WTID int
	// RetVal is the value captured at ThreadExit, returned by ThreadJoin.
	RetVal any

	// Workload is the code this proc executes when chosen to run.
	Workload Workload
}

// ProcView is a read-only value copy of one Proc's fields, safe to hold
// outside of Table's lock. Packages outside kernel (snapshot, ui, the CLI)
// only ever see ProcViews, never a live *Proc.
type ProcView struct {
	PID        int
	State      State
	Name       string
	ParentPID  int
	Killed     bool
	Level      int
	Ticks      int
	CPUShare   int
	Stride     int
	Pass       int
	IsLWP      bool
	NumLWP     int
	AllLWP     int
	TID        int
	WTID       int
	AddrSpace  int // page count, 0 if no address space attached
}

func (p *Proc) view() ProcView {
	v := ProcView{
		PID:      p.PID,
		State:    p.State,
		Name:     p.Name,
		Killed:   p.Killed,
		Level:    p.Level,
		Ticks:    p.Ticks,
		CPUShare: p.CPUShare,
		Stride:   p.Stride,
		Pass:     p.Pass,
		IsLWP:    p.IsLWP,
		NumLWP:   p.NumLWP,
		AllLWP:   p.AllLWP,
		TID:      p.TID,
		WTID:     p.WTID,
	}
	if p.Parent != nil {
		v.ParentPID = p.Parent.PID
	}
	if p.AddrSpace != nil {
		v.AddrSpace = p.AddrSpace.Pages()
	}
	return v
}

// reset scrubs a slot back to its UNUSED zero value, matching spec.md
// invariant 6 and proc.c's UNUSED-scrub sequence repeated across exit/wait/
// thread_join.
func (p *Proc) reset() {
	p.PID = 0
	p.State = Unused
	p.Name = ""
	p.Parent = nil
	p.Killed = false
	p.Chan = nil
	p.AddrSpace = nil
	p.Files = nil
	p.Cwd = nil
	p.Level = 0
	p.Ticks = 0
	p.CPUShare = 0
	p.Stride = 0
	p.Pass = 0
	p.IsLWP = false
	p.NumLWP = 0
	p.AllLWP = 0
	p.TID = -1
	p.WTID = -1
	p.RetVal = nil
	p.Workload = nil
}

// inStride reports whether p currently participates in the Stride
// scheduler rather than the MLFQ.
func (p *Proc) inStride() bool { return p.CPUShare != 0 }

// controlTransfer is the internal signal a RunContext method panics with to
// unwind back to the scheduler loop. It must never escape Scheduler.runProc.
type controlTransfer struct {
	kind string
}

func (c controlTransfer) String() string { return fmt.Sprintf("kernel: control transfer (%s) escaped runProc", c.kind) }
