package kernel

// stride holds the scheduler-wide Stride accounting described in spec.md
// §3/§4.C: the MLFQ's own aggregate pass/stride/share, alongside the set of
// Stride-reserved processes (tracked implicitly: any RUNNABLE/RUNNING proc
// with CPUShare > 0).
type stride struct {
	mlfqPass   int
	mlfqShare  int
	mlfqStride int
}

func newStride() *stride {
	s := &stride{mlfqShare: 100}
	s.recomputeStride()
	return s
}

func (s *stride) recomputeStride() {
	s.mlfqStride = shareBase / s.mlfqShare
}

// minRunnableStridePass scans every process in the table and returns the
// smallest Pass among RUNNABLE Stride entries, excluding skip if non-nil,
// falling back to the MLFQ's own pass when no Stride entry is RUNNABLE.
// Used when a Stride entry is admitted or re-admitted (ThreadCreate,
// SetCPUShare, Wakeup, Kill of a sleeper) so it is not instantly starved
// (spec.md §4.C); pickNext does its own scan.
func (t *Table) minRunnableStridePass(skip *Proc) int {
	minPass := t.stride.mlfqPass
	for i := range t.procs {
		p := &t.procs[i]
		if p == skip {
			continue
		}
		if p.State == Runnable && p.inStride() {
			if p.Pass < minPass {
				minPass = p.Pass
			}
		}
	}
	return minPass
}

// strideFor computes the stride value for a given share percentage,
// standing in for the repeated `(int)(10000/share)` expression in proc.c.
// Share must be > 0.
func strideFor(share int) int {
	return shareBase / share
}

// threadShare computes the over-allocated per-thread share described in
// spec.md §4.F/§9 ("The +1 in share splitting"): floor(share/numLWP) + 1.
// numLWP must be > 0.
func threadShare(share, numLWP int) int {
	return share/numLWP + 1
}
