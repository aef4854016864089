package kernel

import "testing"

func TestDemotionAfterExhaustingAllotment(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("busy", yieldForever())

	for i := 0; i < tbl.mlfq.allotment[0]; i++ {
		if !runOnce(tbl) {
			t.Fatalf("runOnce returned false on iteration %d", i)
		}
	}
	if p.Level != 1 {
		t.Fatalf("got level %d after exhausting level-0 allotment, want 1", p.Level)
	}
	if p.Ticks != 0 {
		t.Fatalf("got ticks %d after demotion, want 0", p.Ticks)
	}
}

func TestPriorityBoostRestoresLevelZero(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("busy", yieldForever())

	total := tbl.mlfq.allotment[0] + tbl.mlfq.allotment[1] + 1
	for i := 0; i < total; i++ {
		runOnce(tbl)
	}
	if p.Level == 0 {
		t.Fatalf("p demoted all the way without ever leaving level 0")
	}

	for tbl.mlfq.totalTicks < 100 {
		runOnce(tbl)
	}
	runOnce(tbl)

	tbl.mu.Lock()
	level := p.Level
	tbl.mu.Unlock()
	if level != 0 {
		t.Fatalf("got level %d after boost threshold reached, want 0", level)
	}
}

func TestStrideWinsWhenPassIsLower(t *testing.T) {
	tbl := NewTable()
	mlfqProc := tbl.Userinit("mlfq-proc", yieldForever())

	tbl.mu.Lock()
	strideProc := tbl.allocproc()
	strideProc.Name = "stride-proc"
	strideProc.AddrSpace = newAddrSpace(0)
	files, cwd := newResources("/")
	strideProc.Files, strideProc.Cwd = files, cwd
	strideProc.Workload = yieldForever()
	strideProc.State = Runnable
	strideProc.CPUShare = 50
	strideProc.Stride = strideFor(50)
	strideProc.Pass = 0
	tbl.mu.Unlock()

	tbl.mu.Lock()
	victim, fromStride := tbl.pickNext()
	tbl.mu.Unlock()

	if !fromStride || victim != strideProc {
		t.Fatalf("got victim %+v fromStride=%v, want strideProc fromStride=true", victim, fromStride)
	}
	_ = mlfqProc
}

func TestStrideAdvancesPassByStride(t *testing.T) {
	tbl := NewTable()
	tbl.mu.Lock()
	p := tbl.allocproc()
	p.Name = "stride-proc"
	p.AddrSpace = newAddrSpace(0)
	files, cwd := newResources("/")
	p.Files, p.Cwd = files, cwd
	p.Workload = yieldForever()
	p.State = Runnable
	p.CPUShare = 25
	p.Stride = strideFor(25)
	tbl.mu.Unlock()

	runOnce(tbl)
	if p.Pass != strideFor(25) {
		t.Fatalf("got pass %d, want %d", p.Pass, strideFor(25))
	}
}
