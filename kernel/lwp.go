package kernel

// ThreadCreate spawns a new LWP sharing caller's thread group: if caller is
// itself an LWP, the new thread joins caller's owning heavyweight process;
// otherwise caller becomes the owner. The new thread shares the owner's
// AddrSpace pointer, grows it by two pages (guard + stack, spec.md
// invariant 4), and duplicates the owner's resource table and cwd,
// analogous to thread_create() (proc.c ~ line 1052).
func (t *Table) ThreadCreate(caller *Proc, name string, w Workload) (*Proc, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.threadCreateLocked(caller, name, w)
}

// threadCreateLocked is ThreadCreate's body, factored out so
// RunContext.ThreadCreate can call it while the table lock is already held.
// Must be called with the lock held.
func (t *Table) threadCreateLocked(caller *Proc, name string, w Workload) (*Proc, error) {
	owner := caller
	if caller.IsLWP {
		owner = caller.Parent
	}

	np := t.allocproc()
	if np == nil {
		return nil, ErrNoFreeSlot
	}
	if _, err := owner.AddrSpace.GrowPages(2); err != nil {
		np.reset()
		return nil, ErrAddrSpace
	}

	np.Name = name
	np.IsLWP = true
	np.Parent = owner
	np.AddrSpace = owner.AddrSpace
	np.Files = owner.Files.Dup()
	np.Cwd = owner.Cwd.Dup()
	np.Workload = w

	owner.NumLWP++
	owner.AllLWP++
	np.TID = owner.AllLWP

	if owner.inStride() {
		share := threadShare(owner.CPUShare, owner.NumLWP)
		np.CPUShare = share
		np.Stride = strideFor(share)
		np.Pass = t.minRunnableStridePass(np)
	} else {
		t.mlfq.enqueueTail(np)
	}
	np.State = Runnable
	return np, nil
}

// threadExitLocked implements an LWP exiting on its own: it terminates only
// the calling thread, analogous to thread_exit() (proc.c ~ line 1138). The
// owning heavyweight process keeps running — whatever its current state —
// until it calls Exit itself; group teardown is only triggered by Exit
// called from an LWP (exitThreadGroup), a distinct case (spec.md §4.E case
// (c)). Must be called with the lock held.
func (t *Table) threadExitLocked(p *Proc, retval any) {
	owner := p.Parent
	if !p.inStride() {
		t.mlfq.remove(p)
	}
	p.RetVal = retval
	p.State = Zombie
	owner.NumLWP--
	t.wakeup1Locked(owner)
}

// ThreadJoin waits for the thread identified by tid (or, if tid is 0, any
// ZOMBIE thread) owned by caller to exit, reclaims its slot, and returns its
// stored return value, analogous to thread_join() (proc.c ~ line 1208). If
// caller owns no live or zombie threads, or caller has been Killed, it
// returns ErrNoChildren. If none are ZOMBIE yet and caller is not killed, it
// returns ErrWouldBlock after parking caller SLEEPING on itself; the caller
// should retry after the next matching ThreadExit wakes it via
// Wakeup(caller).
func (t *Table) ThreadJoin(caller *Proc, tid int) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.threadJoinLocked(caller, tid)
}

// threadJoinLocked is ThreadJoin's body, factored out so RunContext.ThreadJoin
// can call it while the table lock is already held. Must be called with the
// lock held.
func (t *Table) threadJoinLocked(caller *Proc, tid int) (any, error) {
	threads := t.children(caller)
	live := 0
	for _, c := range threads {
		if !c.IsLWP {
			continue
		}
		if tid != 0 && c.TID != tid {
			continue
		}
		live++
		if c.State == Zombie {
			ret := c.RetVal
			t.dismantleThread(c)
			return ret, nil
		}
	}
	if live == 0 || caller.Killed {
		return nil, ErrNoChildren
	}
	t.sleepLocked(caller, caller)
	return nil, ErrWouldBlock
}
