package kernel

import "testing"

func TestUserinitInstallsRunnableAtLevelZero(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("init", yieldForever())
	if p.State != Runnable {
		t.Fatalf("got state %v, want Runnable", p.State)
	}
	if p.Level != 0 {
		t.Fatalf("got level %d, want 0", p.Level)
	}
	if tbl.initproc != p {
		t.Fatalf("initproc not recorded")
	}
}

func TestAllocprocExhaustion(t *testing.T) {
	tbl := NewTable()
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	for i := 0; i < NPROC; i++ {
		if tbl.allocproc() == nil {
			t.Fatalf("allocproc failed before table should be full (i=%d)", i)
		}
	}
	if p := tbl.allocproc(); p != nil {
		t.Fatalf("expected nil once table is full, got %+v", p)
	}
}

func TestDumpSkipsUnusedSlots(t *testing.T) {
	tbl := NewTable()
	tbl.Userinit("init", yieldForever())
	views := tbl.Dump()
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	if views[0].Name != "init" {
		t.Fatalf("got name %q, want init", views[0].Name)
	}
}

func TestLookupByPID(t *testing.T) {
	tbl := NewTable()
	p := tbl.Userinit("init", yieldForever())
	v, ok := tbl.Lookup(p.PID)
	if !ok || v.PID != p.PID {
		t.Fatalf("Lookup(%d) = %+v, %v", p.PID, v, ok)
	}
	if _, ok := tbl.Lookup(999); ok {
		t.Fatalf("Lookup(999) unexpectedly found a process")
	}
}
