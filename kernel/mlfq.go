package kernel

// mlfq holds the three level queues described in spec.md §3/§4.B. Each
// level is modeled as an ordered slice of *Proc rather than a fixed array
// plus a -1-means-empty counter; the slice's length plays the role of
// q_count[level]+1 and append/remove preserve the same relative ordering
// the array-plus-counter model does. Levels are selected as priority 0
// (highest) to 2 (lowest).
type mlfq struct {
	levels     [nLevels][]*Proc
	allotment  [nLevels]int
	totalTicks int
}

func newMLFQ() *mlfq {
	return &mlfq{allotment: [nLevels]int{5, 10, 1000}}
}

// enqueueTail appends p to the tail of level 0, used by allocproc's initial
// admission (spec.md §4.E).
func (m *mlfq) enqueueTail(p *Proc) {
	p.Level = 0
	m.levels[0] = append(m.levels[0], p)
}

// enqueueFront inserts p at the front of level 0, used by wakeup1 so a
// just-woken process runs promptly (spec.md §4.B, scenario 6).
func (m *mlfq) enqueueFront(p *Proc) {
	p.Level = 0
	p.Ticks = 0
	m.levels[0] = append([]*Proc{p}, m.levels[0]...)
}

// remove deletes p from whichever level it currently occupies, compacting
// the tail left by one position. It is a no-op if p is not present,
// matching every MLFQ removal call site in proc.c (exit, wait, sleep,
// thread_exit, thread_join, set_cpu_share) funneled through one helper so
// the queue count is always consistently updated (spec.md §9 Open
// Question: "an implementer should always decrement on removal").
func (m *mlfq) remove(p *Proc) {
	level := p.Level
	if level < 0 || level >= nLevels {
		return
	}
	q := m.levels[level]
	for i, qp := range q {
		if qp == p {
			m.levels[level] = append(q[:i], q[i+1:]...)
			return
		}
	}
}

// demote applies the allotment rule: if p has consumed its allotment at its
// current level and is not already at the lowest level, it moves to the
// tail of the next level down and its ticks reset. Called after a process
// returns control to the scheduler following an MLFQ turn (spec.md §4.B).
func (m *mlfq) demote(p *Proc) {
	level := p.Level
	if level >= nLevels-1 {
		return
	}
	if p.Ticks < m.allotment[level] {
		return
	}
	m.remove(p)
	p.Level = level + 1
	p.Ticks = 0
	m.levels[p.Level] = append(m.levels[p.Level], p)
}

// boost moves every process in levels 1 and 2 to the tail of level 0, in
// order, resetting level and ticks, and resets totalTicks. Called at the
// start of every MLFQ turn once totalTicks >= 100 (spec.md §4.B).
func (m *mlfq) boost() {
	if m.totalTicks < 100 {
		return
	}
	for level := 1; level < nLevels; level++ {
		for _, p := range m.levels[level] {
			p.Level = 0
			p.Ticks = 0
			m.levels[0] = append(m.levels[0], p)
		}
		m.levels[level] = nil
	}
	m.totalTicks = 0
}

// higherLevelsNonEmpty reports whether any level strictly above level has
// entries, the restart-from-level-0 condition of spec.md §4.D point 3.
// pickNext does not call it: it scans from level 0 on every call.
func (m *mlfq) higherLevelsNonEmpty(level int) bool {
	for l := 0; l < level; l++ {
		if len(m.levels[l]) > 0 {
			return true
		}
	}
	return false
}
