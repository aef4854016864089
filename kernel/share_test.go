package kernel

import "testing"

func TestSetCPUShareMovesOutOfMLFQ(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("reserved", yieldForever())

	remaining, err := tbl.SetCPUShare(p, 30)
	if err != nil {
		t.Fatalf("SetCPUShare: %v", err)
	}
	if remaining != 70 {
		t.Fatalf("got remaining mlfq share %d, want 70", remaining)
	}
	if p.CPUShare != 30 {
		t.Fatalf("got CPUShare %d, want 30", p.CPUShare)
	}
	if p.Stride != strideFor(30) {
		t.Fatalf("got stride %d, want %d", p.Stride, strideFor(30))
	}
	if len(tbl.mlfq.levels[0]) != 0 {
		t.Fatalf("process not removed from MLFQ level 0 after reservation")
	}
}

func TestSetCPUShareRejectsBelowFloor(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("greedy", yieldForever())

	if _, err := tbl.SetCPUShare(p, 81); err != ErrBadShare {
		t.Fatalf("got err %v, want ErrBadShare for a share that breaches the floor", err)
	}
	if p.inStride() {
		t.Fatalf("process moved to Stride despite a rejected request")
	}
}

func TestSetCPUShareRejectsNonPositive(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("p", yieldForever())
	if _, err := tbl.SetCPUShare(p, 0); err != ErrBadShare {
		t.Fatalf("got err %v, want ErrBadShare for share=0", err)
	}
	if _, err := tbl.SetCPUShare(p, -5); err != ErrBadShare {
		t.Fatalf("got err %v, want ErrBadShare for share<0", err)
	}
}

func TestSetCPUShareExactlyAtFloorRejected(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("p", yieldForever())
	// mlfqShare starts at 100; requesting 80 leaves exactly mlfqShareFloor
	// (20), which invariant 2 treats as a breach, not a boundary pass.
	if _, err := tbl.SetCPUShare(p, 80); err != ErrBadShare {
		t.Fatalf("got err %v, want ErrBadShare at the exact floor", err)
	}
}

func TestSetCPUShareRedistributesToExistingThreads(t *testing.T) {
	tbl := NewTable()
	owner := tbl.Userinit("owner", yieldForever())
	t1, _ := tbl.ThreadCreate(owner, "t1", yieldForever())

	if _, err := tbl.SetCPUShare(owner, 40); err != nil {
		t.Fatalf("SetCPUShare: %v", err)
	}
	want := threadShare(40, owner.NumLWP)
	if t1.CPUShare != want {
		t.Fatalf("got t1.CPUShare %d, want %d", t1.CPUShare, want)
	}
	if t1.Stride != strideFor(want) {
		t.Fatalf("got t1.Stride %d, want %d", t1.Stride, strideFor(want))
	}
}
