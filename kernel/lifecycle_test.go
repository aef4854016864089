package kernel

import "testing"

func TestForkRejectsLWPCaller(t *testing.T) {
	tbl := NewTable()
	parent := tbl.Userinit("parent", yieldForever())
	lwp, err := tbl.ThreadCreate(parent, "thread", yieldForever())
	if err != nil {
		t.Fatalf("ThreadCreate: %v", err)
	}
	if _, err := tbl.Fork(lwp, "child", yieldForever()); err != ErrAddrSpace {
		t.Fatalf("Fork from LWP: got err %v, want ErrAddrSpace", err)
	}
}

func TestForkCopiesAddrSpaceIndependently(t *testing.T) {
	tbl := NewTable()
	parent := tbl.Userinit("parent", yieldForever())
	parent.AddrSpace.Grow(4096)

	child, err := tbl.Fork(parent, "child", yieldForever())
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	if child.AddrSpace.Size() != parent.AddrSpace.Size() {
		t.Fatalf("child size %d != parent size %d", child.AddrSpace.Size(), parent.AddrSpace.Size())
	}
	child.AddrSpace.Grow(4096)
	if child.AddrSpace.Size() == parent.AddrSpace.Size() {
		t.Fatalf("child and parent share the same AddrSpace, want independent copies")
	}
	if child.Parent != parent {
		t.Fatalf("child.Parent not set to forking parent")
	}
}

func TestWaitReturnsErrNoChildren(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("solo", yieldForever())
	if _, _, err := tbl.Wait(p); err != ErrNoChildren {
		t.Fatalf("got err %v, want ErrNoChildren", err)
	}
}

func TestWaitBlocksThenReclaimsAfterExit(t *testing.T) {
	tbl := NewTable()
	parent := tbl.Userinit("parent", yieldForever())
	child, err := tbl.Fork(parent, "child", exitImmediately(7))
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}

	childPID := child.PID // Wait scrubs the slot, zeroing child.PID
	if _, _, err := tbl.Wait(parent); err != ErrWouldBlock {
		t.Fatalf("got err %v, want ErrWouldBlock before child exits", err)
	}
	if parent.State != Sleeping {
		t.Fatalf("parent not parked Sleeping: %v", parent.State)
	}

	tbl.mu.Lock()
	s := &Scheduler{id: 0, t: tbl}
	s.runTurn(child, false)
	tbl.mu.Unlock()

	if child.State != Zombie {
		t.Fatalf("child not Zombie after exit: %v", child.State)
	}
	if parent.State != Runnable {
		t.Fatalf("parent not woken by child exit: %v", parent.State)
	}

	pid, ret, err := tbl.Wait(parent)
	if err != nil {
		t.Fatalf("Wait after exit: %v", err)
	}
	if pid != childPID {
		t.Fatalf("got pid %d, want %d", pid, childPID)
	}
	if ret != 7 {
		t.Fatalf("got retval %v, want 7", ret)
	}
	if child.State != Unused {
		t.Fatalf("reclaimed child slot not scrubbed: %v", child.State)
	}
}

func TestWaitOnKilledParentWithLiveChildReturnsErrNoChildren(t *testing.T) {
	tbl := NewTable()
	parent := tbl.Userinit("parent", yieldForever())
	if _, err := tbl.Fork(parent, "child", yieldForever()); err != nil {
		t.Fatalf("Fork: %v", err)
	}
	parent.Killed = true

	if _, _, err := tbl.Wait(parent); err != ErrNoChildren {
		t.Fatalf("got err %v, want ErrNoChildren for a killed parent", err)
	}
	if parent.State == Sleeping {
		t.Fatalf("killed parent parked Sleeping instead of returning immediately")
	}
}

func TestWaitReapsZombieChildEvenWhenKilled(t *testing.T) {
	tbl := NewTable()
	parent := tbl.Userinit("parent", yieldForever())
	child, err := tbl.Fork(parent, "child", exitImmediately(5))
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	tbl.mu.Lock()
	s := &Scheduler{id: 0, t: tbl}
	s.runTurn(child, false)
	tbl.mu.Unlock()
	parent.Killed = true

	childPID := child.PID // Wait scrubs the slot, zeroing child.PID
	pid, ret, err := tbl.Wait(parent)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if pid != childPID || ret != 5 {
		t.Fatalf("got pid %d ret %v, want %d 5", pid, ret, childPID)
	}
}

// TestReparentChildrenWakesInitOnAlreadyZombieChild isolates the
// reparent-then-wake fix: grandchild's exit only wakes its own parent
// (intermediate), never init, so init's wakeup can only come from
// reparentChildren noticing the reparented grandchild is already Zombie.
func TestReparentChildrenWakesInitOnAlreadyZombieChild(t *testing.T) {
	tbl := NewTable()
	init := tbl.Userinit("init", yieldForever())
	middleAncestor, err := tbl.Fork(init, "middle-ancestor", yieldForever())
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	intermediate, err := tbl.Fork(middleAncestor, "intermediate", exitImmediately(0))
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	grandchild, err := tbl.Fork(intermediate, "grandchild", exitImmediately(0))
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}

	tbl.mu.Lock()
	s := &Scheduler{id: 0, t: tbl}
	s.runTurn(grandchild, false)
	tbl.mu.Unlock()
	if grandchild.State != Zombie {
		t.Fatalf("grandchild not Zombie after exit: %v", grandchild.State)
	}
	if intermediate.State != Runnable {
		t.Fatalf("intermediate not woken by its own child's exit: %v", intermediate.State)
	}

	if _, _, err := tbl.Wait(init); err != ErrWouldBlock {
		t.Fatalf("got err %v, want ErrWouldBlock before intermediate exits", err)
	}
	if init.State != Sleeping {
		t.Fatalf("init not parked Sleeping: %v", init.State)
	}

	tbl.mu.Lock()
	s.runTurn(intermediate, false)
	tbl.mu.Unlock()

	if grandchild.Parent != init {
		t.Fatalf("zombie grandchild not reparented to init")
	}
	if init.State != Runnable {
		t.Fatalf("init not woken for the already-zombie grandchild reparented to it: %v", init.State)
	}
}

func TestKillPromotesSleepingToRunnable(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("sleeper", yieldForever())
	tbl.mu.Lock()
	tbl.sleepLocked(p, "some-chan")
	tbl.mu.Unlock()

	if !tbl.Kill(p.PID) {
		t.Fatalf("Kill returned false for a live pid")
	}
	if !p.Killed {
		t.Fatalf("Killed flag not set")
	}
	if p.State != Runnable {
		t.Fatalf("sleeping target not promoted to Runnable: %v", p.State)
	}
}

func TestKillUnknownPIDReturnsFalse(t *testing.T) {
	tbl := NewTable()
	tbl.Userinit("init", yieldForever())
	if tbl.Kill(9999) {
		t.Fatalf("Kill reported success for unknown pid")
	}
}

func TestWakeupInsertsAtFrontOfLevelZero(t *testing.T) {
	tbl := NewTable()
	running := tbl.Userinit("running", yieldForever())
	sleeper, err := tbl.Fork(running, "sleeper", yieldForever())
	if err != nil {
		t.Fatalf("Fork: %v", err)
	}
	tbl.mu.Lock()
	tbl.sleepLocked(sleeper, "chan")
	tbl.mu.Unlock()

	tbl.Wakeup("chan")

	if sleeper.State != Runnable {
		t.Fatalf("sleeper not woken: %v", sleeper.State)
	}
	if tbl.mlfq.levels[0][0] != sleeper {
		t.Fatalf("woken process not at front of level 0")
	}
}

func TestExitHeavyweightReparentsChildrenToInit(t *testing.T) {
	tbl := NewTable()
	parent := tbl.Userinit("parent", yieldForever())
	child, _ := tbl.Fork(parent, "child", exitImmediately(0))
	grandchild, _ := tbl.Fork(child, "grandchild", yieldForever())

	tbl.mu.Lock()
	s := &Scheduler{id: 0, t: tbl}
	s.runTurn(child, false)
	tbl.mu.Unlock()

	if grandchild.Parent != tbl.initproc {
		t.Fatalf("grandchild not reparented to init, got parent pid %d", grandchild.Parent.PID)
	}
	if parent.State != Runnable {
		t.Fatalf("parent not woken after child exit: %v", parent.State)
	}
}
