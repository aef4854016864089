package kernel

// SetCPUShare moves the calling process from the MLFQ into the Stride
// scheduler with a reserved percentage of the CPU, analogous to
// set_cpu_share() (proc.c ~ line 651). It fails if share is not positive or
// would drive the MLFQ's own retained share at or below mlfqShareFloor
// (spec.md invariant 2). If caller owns live LWPs, each existing thread's
// share is recomputed with the same over-allocation rule ThreadCreate uses,
// so the group's reservation stays internally consistent (spec.md §4.F).
func (t *Table) SetCPUShare(caller *Proc, share int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.setCPUShareLocked(caller, share)
}

// SetCPUShare is the RunContext equivalent of Table.SetCPUShare, callable
// from within a running Workload since the table lock is already held.
func (rt *RunContext) SetCPUShare(share int) (int, error) {
	return rt.t.setCPUShareLocked(rt.p, share)
}

func (t *Table) setCPUShareLocked(caller *Proc, share int) (int, error) {
	if share <= 0 {
		return 0, ErrBadShare
	}
	if caller.inStride() {
		// Releasing and re-requesting in one call: credit the old
		// reservation back before checking the new one fits.
		t.stride.mlfqShare += caller.CPUShare
	}
	if t.stride.mlfqShare-share <= mlfqShareFloor {
		if caller.inStride() {
			t.stride.mlfqShare -= caller.CPUShare
		}
		return 0, ErrBadShare
	}

	if !caller.inStride() {
		t.mlfq.remove(caller)
	}
	t.stride.mlfqShare -= share
	t.stride.recomputeStride()

	caller.CPUShare = share
	caller.Stride = strideFor(share)
	caller.Pass = t.minRunnableStridePass(caller)

	if caller.NumLWP > 0 {
		for _, c := range t.children(caller) {
			if !c.IsLWP {
				continue
			}
			s := threadShare(share, caller.NumLWP)
			c.CPUShare = s
			c.Stride = strideFor(s)
		}
	}
	return t.stride.mlfqShare, nil
}
