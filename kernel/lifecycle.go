package kernel

// Userinit creates the first process in the table, admits it to the MLFQ,
// and marks it RUNNABLE, analogous to userinit() (proc.c ~ line 150). It
// must be called exactly once, before any Scheduler.Loop starts.
func (t *Table) Userinit(name string, w Workload) *Proc {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.allocproc()
	if p == nil {
		panic("kernel: no free slot for init process")
	}
	files, cwd := newResources("/")
	p.Name = name
	p.AddrSpace = newAddrSpace(0)
	p.Files = files
	p.Cwd = cwd
	p.Workload = w
	p.State = Runnable
	t.mlfq.enqueueTail(p)
	t.initproc = p
	return p
}

// Fork creates a new heavyweight process that is a copy of parent: a fresh
// address space copied from parent's, a duplicated resource table, and the
// same cwd (ref-counted), analogous to fork() (proc.c ~ line 182). Fork is
// only valid on a heavyweight caller; forking from an LWP is a caller error
// in this teaching core and is rejected.
func (t *Table) Fork(parent *Proc, name string, w Workload) (*Proc, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.forkLocked(parent, name, w)
}

// forkLocked is Fork's body, factored out so RunContext.Fork can call it
// while the table lock is already held. Must be called with the lock held.
func (t *Table) forkLocked(parent *Proc, name string, w Workload) (*Proc, error) {
	if parent.IsLWP {
		return nil, ErrAddrSpace
	}

	np := t.allocproc()
	if np == nil {
		return nil, ErrNoFreeSlot
	}

	space, err := parent.AddrSpace.Copy()
	if err != nil {
		np.reset()
		return nil, ErrAddrSpace
	}

	np.Name = name
	np.Parent = parent
	np.AddrSpace = space
	np.Files = parent.Files.Dup()
	np.Cwd = parent.Cwd.Dup()
	np.Workload = w
	np.State = Runnable
	t.mlfq.enqueueTail(np)
	return np, nil
}

// GrowProc changes the size of the calling process's address space by n
// bytes, analogous to growproc() (proc.c ~ line 162). Growing an LWP's
// address space grows the whole thread group's shared space, matching
// invariant 3.
func (t *Table) GrowProc(p *Proc, n int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return growProcLocked(p, n)
}

func growProcLocked(p *Proc, n int) (int, error) {
	sz, err := p.AddrSpace.Grow(n)
	if err != nil {
		return 0, ErrAddrSpace
	}
	return sz, nil
}

// Kill marks target for termination: it sets Killed and, if target is
// currently SLEEPING, promotes it straight to RUNNABLE so it observes the
// kill at its next trap, analogous to kill() (proc.c ~ line 992). It does
// not remove target from whatever scheduling class it already belongs to;
// a sleeping process promoted to RUNNABLE here re-enters the MLFQ/Stride
// bookkeeping exactly where Wakeup would have left it: the front of MLFQ
// level 0, or the current minimum Stride pass.
func (t *Table) Kill(pid int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.procs {
		p := &t.procs[i]
		if p.PID != pid || p.State == Unused {
			continue
		}
		p.Killed = true
		if p.State == Sleeping {
			p.State = Runnable
			if p.inStride() {
				p.Pass = t.minRunnableStridePass(p)
			} else {
				t.mlfq.enqueueFront(p)
			}
		}
		return true
	}
	return false
}

// sleepLocked removes p from its current scheduling class and parks it on
// chanKey. Must be called with the lock held.
func (t *Table) sleepLocked(p *Proc, chanKey any) {
	p.Chan = chanKey
	p.State = Sleeping
	if p.inStride() {
		return
	}
	t.mlfq.remove(p)
}

// Wakeup wakes every process sleeping on chanKey: it clears Chan, sets
// RUNNABLE, and reinserts it into its scheduling class — the front of MLFQ
// level 0 for an MLFQ process (spec.md scenario 6: a just-woken process runs
// promptly), or the current table-wide minimum Stride pass for a Stride
// process so it is not left stranded behind a stale pass, analogous to
// wakeup()/wakeup1() (proc.c ~ line 952).
func (t *Table) Wakeup(chanKey any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wakeup1Locked(chanKey)
}

func (t *Table) wakeup1Locked(chanKey any) {
	for i := range t.procs {
		p := &t.procs[i]
		if p.State == Sleeping && p.Chan == chanKey {
			p.Chan = nil
			p.State = Runnable
			if p.inStride() {
				p.Pass = t.minRunnableStridePass(p)
				continue
			}
			t.mlfq.enqueueFront(p)
		}
	}
}

// Wait reclaims the first ZOMBIE direct child of parent it finds: dequeuing
// it from whatever scheduling class it occupied, crediting back any
// reserved cpu_share, and scrubbing the slot to UNUSED, analogous to the
// reclaim half of wait() (proc.c ~ line 581). If parent has no children at
// all, or parent has been Killed, it returns ErrNoChildren (a killed process
// must not block waiting for children it will never get to reap). If parent
// has live children, none ZOMBIE yet, and parent is not killed, it parks
// parent SLEEPING on itself and returns ErrWouldBlock; the next Exit/
// ThreadExit among parent's children wakes it via Wakeup(parent), and the
// caller should call Wait again.
func (t *Table) Wait(parent *Proc) (int, any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.waitLocked(parent)
}

// waitLocked is Wait's body, factored out so RunContext.Wait can call it
// while the table lock is already held by the enclosing Run call. Must be
// called with the lock held.
func (t *Table) waitLocked(parent *Proc) (int, any, error) {
	kids := t.children(parent)
	for _, c := range kids {
		if c.State == Zombie {
			pid := c.PID
			ret := c.RetVal
			t.reclaim(c)
			return pid, ret, nil
		}
	}
	if len(kids) == 0 || parent.Killed {
		return 0, nil, ErrNoChildren
	}
	t.sleepLocked(parent, parent)
	return 0, nil, ErrWouldBlock
}

// reclaim dequeues a ZOMBIE slot from scheduling, credits any reserved
// cpu_share back to the MLFQ, and scrubs it to UNUSED. Must be called with
// the lock held.
func (t *Table) reclaim(c *Proc) {
	if c.inStride() {
		t.stride.mlfqShare += c.CPUShare
		t.stride.recomputeStride()
	} else {
		t.mlfq.remove(c)
	}
	c.reset()
}

// dismantleThread removes lwp from scheduling (crediting any reserved
// cpu_share back to the MLFQ), closes its resources, and scrubs its slot to
// UNUSED. It does not touch the shared AddrSpace, since ownership of that
// pointer belongs to the thread group as a whole, reclaimed once by the
// caller. Must be called with the lock held.
func (t *Table) dismantleThread(lwp *Proc) {
	if lwp.inStride() {
		t.stride.mlfqShare += lwp.CPUShare
		t.stride.recomputeStride()
	} else {
		t.mlfq.remove(lwp)
	}
	lwp.Files.CloseAll()
	lwp.Cwd.Close()
	lwp.reset()
}

// exitLocked implements the three termination cases described in spec.md
// §4.E and the Open Question decision to preserve LWP-exit-terminates-group
// semantics (DESIGN.md, "Open Question decisions"), analogous to exit()
// (proc.c ~ line 259).
// Must be called with the lock held.
func (t *Table) exitLocked(p *Proc, status any) {
	if p.IsLWP {
		t.exitThreadGroup(p, status)
		return
	}
	if p.NumLWP > 0 {
		t.dismantleAllThreads(p)
	}
	p.RetVal = status
	t.finishHeavyweightExit(p)
}

// dismantleAllThreads tears down every live LWP owned by owner and shrinks
// the shared address space by (AllLWP-1)*2 pages, two pages fewer than the
// threads' creation grew it, analogous to the thread-walking loop inside
// exit()'s "heavyweight with live threads" branch.
func (t *Table) dismantleAllThreads(owner *Proc) {
	threads := t.children(owner)
	n := 0
	for _, lwp := range threads {
		if !lwp.IsLWP {
			continue
		}
		t.dismantleThread(lwp)
		n++
	}
	owner.NumLWP = 0
	if n > 0 {
		owner.AddrSpace.GrowPages(-(owner.AllLWP - 1) * 2)
	}
}

// finishHeavyweightExit performs the common tail of exiting a heavyweight
// process once any threads it owned are gone: reparent its children to
// initproc, wake whoever is waiting on it, and mark it ZOMBIE.
func (t *Table) finishHeavyweightExit(p *Proc) {
	p.Files.CloseAll()
	p.Cwd.Close()
	t.reparentChildren(p)
	if !p.inStride() {
		t.mlfq.remove(p)
	} else {
		t.stride.mlfqShare += p.CPUShare
		t.stride.recomputeStride()
	}
	p.State = Zombie
	t.wakeup1Locked(p.Parent)
}

// exitThreadGroup implements the Exit-called-from-an-LWP case: every peer
// thread is dismantled, the owning heavyweight process's stack pages are
// reclaimed, and the owner itself is marked ZOMBIE with its RetVal set from
// the triggering thread's status. The owner's real parent link is then
// overwritten to point at the owner itself, a preserved cyclic
// detachment wart from the original lifecycle (SPEC_FULL.md §9 Open
// Question decisions); the old parent is still woken so a pending Wait sees
// the transition, even though it will no longer find this child listed.
func (t *Table) exitThreadGroup(trigger *Proc, status any) {
	owner := trigger.Parent
	threads := t.children(owner)
	for _, lwp := range threads {
		if !lwp.IsLWP || lwp == trigger {
			continue
		}
		t.dismantleThread(lwp)
	}
	t.dismantleThread(trigger)
	owner.NumLWP = 0
	if owner.AllLWP > 1 {
		owner.AddrSpace.GrowPages(-(owner.AllLWP - 1) * 2)
	}

	owner.Files.CloseAll()
	owner.Cwd.Close()
	t.reparentChildren(owner)
	if !owner.inStride() {
		t.mlfq.remove(owner)
	} else {
		t.stride.mlfqShare += owner.CPUShare
		t.stride.recomputeStride()
	}
	owner.RetVal = status
	owner.State = Zombie

	oldParent := owner.Parent
	owner.Parent = owner
	t.wakeup1Locked(oldParent)
}
