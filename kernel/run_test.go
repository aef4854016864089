package kernel

import "testing"

// forkWaitExit forks one child on its first turn, then blocks in Wait until
// the child is reaped, then exits itself. Each Workload.Run call restarts
// at the top of Run, so the step taken next is tracked in the forked field
// rather than with a loop.
type forkWaitExit struct {
	forked bool
}

func (w *forkWaitExit) Run(rt *RunContext) {
	if !w.forked {
		w.forked = true
		rt.Fork("child", exitImmediately(0))
		rt.Yield()
		return
	}
	rt.Wait() // panics via controlTransfer if the child isn't a zombie yet
	rt.Exit(0)
}

func TestRunDrainsForkWaitExitToQuiescence(t *testing.T) {
	tbl := NewTable()
	init := tbl.Userinit("init", &forkWaitExit{})

	tick := Run(tbl, 2, 1000)

	if init.State != Zombie {
		t.Fatalf("got init state %v, want Zombie", init.State)
	}
	if tick >= 1000 {
		t.Fatalf("run did not reach quiescence before the tick ceiling")
	}
}

func TestRunRespectsTickCeilingWhenNeverQuiescent(t *testing.T) {
	tbl := NewTable()
	tbl.Userinit("init", yieldForever())

	tick := Run(tbl, 1, 50)

	if tick < 50 {
		t.Fatalf("got tick %d, want at least the 50-tick ceiling", tick)
	}
}
