package kernel

// RunContext is the only handle a Workload holds during its Run call. Its
// methods act on scheduling state under the already-held Table lock. Yield,
// Sleep, Exit and ThreadExit then unwind control back to the Scheduler loop
// via a controlTransfer panic and never return to their caller; Wait and
// ThreadJoin do the same only when they would block. The other methods
// return normally.
type RunContext struct {
	t   *Table
	p   *Proc
	cpu int
}

// Proc returns a read-only snapshot of the calling process.
func (rt *RunContext) Proc() ProcView { return rt.p.view() }

// CPU returns the id of the Scheduler currently running this Workload,
// analogous to cpuid()/mycpu().
func (rt *RunContext) CPU() int { return rt.cpu }

// Killed reports whether Kill has been called on this process since it last
// checked, the trap-time analogue of testing p->killed at a syscall
// boundary.
func (rt *RunContext) Killed() bool { return rt.p.Killed }

// Tick records one scheduling tick elapsing for the calling process without
// yielding control back to the scheduler loop: it advances the same
// per-class pass/tick bookkeeping a returned quantum would (advanceMLFQTurn
// for an MLFQ process, a Stride pass advance for a Stride one), but does not
// suspend the caller or unwind via controlTransfer. A Workload calls Tick
// however many times it wants to represent ticks elapsing between traps, so
// a test can drive an exact tick count deterministically in one Run call
// instead of yielding once per tick.
func (rt *RunContext) Tick() {
	if rt.p.inStride() {
		rt.p.Pass += rt.p.Stride
		return
	}
	rt.t.advanceMLFQTurn(rt.p)
}

// Yield voluntarily gives up the remainder of the current quantum,
// analogous to yield() (proc.c ~ line 860). It never returns.
func (rt *RunContext) Yield() {
	rt.p.State = Runnable
	panic(controlTransfer{kind: "yield"})
}

// Sleep parks the calling process on chan until a matching Wakeup, analogous
// to sleep() (proc.c ~ line 892). It removes the process from whatever
// scheduling class it currently belongs to; Wakeup reinserts it. It never
// returns.
func (rt *RunContext) Sleep(chanKey any) {
	rt.t.sleepLocked(rt.p, chanKey)
	panic(controlTransfer{kind: "sleep"})
}

// Fork creates a copy of the calling process as a new heavyweight process,
// admits it to the MLFQ, and returns it without suspending the caller,
// analogous to a process calling fork() from its own kernel-mode code path
// (proc.c ~ line 182).
func (rt *RunContext) Fork(name string, w Workload) (*Proc, error) {
	return rt.t.forkLocked(rt.p, name, w)
}

// GrowProc changes the size of the calling process's (or, if it is an LWP,
// its whole thread group's) address space by n bytes, analogous to
// growproc() (proc.c ~ line 162).
func (rt *RunContext) GrowProc(n int) (int, error) {
	return growProcLocked(rt.p, n)
}

// Wait blocks the calling process until one of its direct children exits,
// analogous to a process calling wait() from its own kernel-mode code path
// (proc.c ~ line 581). If a child is already ZOMBIE, Wait reclaims it and
// returns its pid and exit value without unwinding the quantum. Otherwise
// it parks the caller SLEEPING and never returns; the caller resumes this
// same logical wait by being scheduled again and calling Wait once more
// after an Exit among its children wakes it.
func (rt *RunContext) Wait() (int, any, error) {
	pid, ret, err := rt.t.waitLocked(rt.p)
	if err == ErrWouldBlock {
		panic(controlTransfer{kind: "wait"})
	}
	return pid, ret, err
}

// Exit terminates the calling heavyweight process (or, if it is an LWP,
// tears down its whole thread group), analogous to exit() (proc.c ~ line
// 259). It never returns.
func (rt *RunContext) Exit(status any) {
	rt.t.exitLocked(rt.p, status)
	panic(controlTransfer{kind: "exit"})
}

// ThreadCreate spawns a new LWP in the caller's thread group, analogous to a
// process calling thread_create() from its own kernel-mode code path
// (proc.c ~ line 1052).
func (rt *RunContext) ThreadCreate(name string, w Workload) (*Proc, error) {
	return rt.t.threadCreateLocked(rt.p, name, w)
}

// ThreadJoin blocks the calling process until the identified (or, if tid is
// 0, any) owned thread exits, analogous to a process calling thread_join()
// from its own kernel-mode code path (proc.c ~ line 1208). Behaves like
// Wait: returns immediately if a thread is already ZOMBIE, otherwise never
// returns, parking the caller SLEEPING until the next matching ThreadExit.
func (rt *RunContext) ThreadJoin(tid int) (any, error) {
	ret, err := rt.t.threadJoinLocked(rt.p, tid)
	if err == ErrWouldBlock {
		panic(controlTransfer{kind: "thread_join"})
	}
	return ret, err
}

// ThreadExit terminates the calling LWP alone while the thread group lives
// on, analogous to thread_exit() (proc.c ~ line 1138). It is a programming
// error to call this on a heavyweight (non-LWP) process. It never returns.
func (rt *RunContext) ThreadExit(retval any) {
	rt.t.threadExitLocked(rt.p, retval)
	panic(controlTransfer{kind: "thread_exit"})
}
