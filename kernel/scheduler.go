package kernel

// Scheduler runs one per-CPU loop over a shared Table, picking the next
// process to run by comparing the Stride scheduler's minimum pass against
// the MLFQ's own pass, then running exactly one process for one quantum via
// a direct, synchronous call to its Workload (spec.md §5). Multiple
// Schedulers may run their Loop concurrently over the same Table; they
// contend for Table's single lock exactly as per-CPU scheduler() calls
// contend for ptable.lock in proc.c. Real hardware parallelism across
// Workload.Run bodies is out of scope (spec.md Non-goals); the lock is held
// for the Run call itself, so at most one Workload executes at a time.
type Scheduler struct {
	id int
	t  *Table
}

// NewScheduler returns a Scheduler bound to t, identified by id (analogous
// to cpuid()). Launch one goroutine per simulated CPU, each calling Loop.
func NewScheduler(id int, t *Table) *Scheduler {
	return &Scheduler{id: id, t: t}
}

// Loop repeatedly selects and runs one process until stop is closed. Each
// iteration picks a single victim, runs it for one quantum, and applies the
// bookkeeping (demotion, pass advance) that follows a return from Run.
func (s *Scheduler) Loop(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		s.t.mu.Lock()
		p, fromStride := s.t.pickNext()
		if p == nil {
			s.t.mu.Unlock()
			continue
		}
		s.runTurn(p, fromStride)
		s.t.mu.Unlock()
	}
}

// pickNext chooses the next RUNNABLE process to run, and reports whether the
// choice came from the Stride scheduler. It implements the hybrid rule from
// spec.md §4.D: compare the minimum pass among RUNNABLE Stride entries
// against the MLFQ's own pass; Stride wins ties. If no Stride entry is
// RUNNABLE, or the MLFQ's pass is strictly smaller, fall through to the
// MLFQ's own turn-selection (boost, then the head of the first level whose
// head is RUNNABLE; a non-RUNNABLE head is rotated to its level's tail and
// the scan moves on to the next level). Every call scans from level 0.
// Must be called with the lock held.
func (t *Table) pickNext() (*Proc, bool) {
	minPass := t.stride.mlfqPass
	var victim *Proc
	for i := range t.procs {
		p := &t.procs[i]
		if p.State == Runnable && p.inStride() {
			if p.Pass <= minPass {
				minPass = p.Pass
				victim = p
			}
		}
	}
	if victim != nil {
		return victim, true
	}

	t.mlfq.boost()
	for level := 0; level < nLevels; level++ {
		q := t.mlfq.levels[level]
		if len(q) == 0 {
			continue
		}
		p := q[0]
		if p.State != Runnable {
			t.mlfq.levels[level] = append(q[1:], p)
			continue
		}
		return p, false
	}
	return nil, false
}

// runTurn runs p for one quantum via its Workload, then applies the
// bookkeeping appropriate to the scheduling class p belonged to when chosen.
// Must be called with the lock held; Run itself executes with the lock held
// throughout, matching proc.c's "swtch performed with ptable.lock held"
// framing (spec.md §5) translated to a synchronous call instead of a context
// switch.
func (s *Scheduler) runTurn(p *Proc, fromStride bool) {
	p.State = Running
	rt := &RunContext{t: s.t, p: p, cpu: s.id}

	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(controlTransfer); !ok {
					panic(r)
				}
			}
		}()
		p.Workload.Run(rt)
	}()

	// Sleep/Exit/ThreadExit/Wait/ThreadJoin already moved p to Sleeping,
	// Zombie, or Unused (on full teardown) before unwinding; none of those
	// transitions consume a further quantum of scheduling bookkeeping. Only
	// a process still eligible to run again (Yield left it Runnable, or the
	// Workload fell through without trapping at all, leaving it Running)
	// gets charged for the quantum it just used.
	switch p.State {
	case Sleeping, Zombie, Unused:
		return
	case Running:
		p.State = Runnable
	}

	if fromStride {
		p.Pass += p.Stride
		return
	}
	s.t.advanceMLFQTurn(p)
}

// advanceMLFQTurn records the one tick p just consumed on its MLFQ turn,
// advances the MLFQ's own Stride-comparable pass, and demotes p if it has
// now exhausted its level's allotment (spec.md §4.B/§4.D).
func (t *Table) advanceMLFQTurn(p *Proc) {
	p.Ticks++
	t.mlfq.totalTicks++
	t.stride.mlfqPass += t.stride.mlfqStride
	t.mlfq.demote(p)
}
