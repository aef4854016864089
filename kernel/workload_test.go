package kernel

// stepWorkload runs one step function per call, advancing through steps in
// order; calling Run after the last step is a no-op that returns
// immediately (simulating a process that keeps running quietly).
type stepWorkload struct {
	steps []func(rt *RunContext)
	i     int
}

func (w *stepWorkload) Run(rt *RunContext) {
	if w.i >= len(w.steps) {
		return
	}
	step := w.steps[w.i]
	w.i++
	step(rt)
}

func yieldForever() Workload {
	return WorkloadFunc(func(rt *RunContext) { rt.Yield() })
}

func exitImmediately(status any) Workload {
	return WorkloadFunc(func(rt *RunContext) { rt.Exit(status) })
}

// runOnce drives exactly one scheduling turn directly, bypassing
// Scheduler.Loop's stop-channel plumbing, for tests that want precise
// control over how many turns elapse.
func runOnce(t *Table) bool {
	t.mu.Lock()
	p, fromStride := t.pickNext()
	if p == nil {
		t.mu.Unlock()
		return false
	}
	s := &Scheduler{id: 0, t: t}
	s.runTurn(p, fromStride)
	t.mu.Unlock()
	return true
}
