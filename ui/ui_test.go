package ui

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/arctir/xvcore/kernel"
)

func idleWorkload() kernel.Workload {
	return kernel.WorkloadFunc(func(rt *kernel.RunContext) {
		rt.Yield()
	})
}

func newTestTable() *kernel.Table {
	tbl := kernel.NewTable()
	tbl.Userinit("init", idleWorkload())
	return tbl
}

func TestHandleAllProcsListsKnownProcess(t *testing.T) {
	d := New(newTestTable())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	d.handleAllProcs(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "init") {
		t.Fatalf("body missing process name: %s", rec.Body.String())
	}
}

func TestHandleProcDetailsUnknownPIDFails(t *testing.T) {
	d := New(newTestTable())
	req := httptest.NewRequest(http.MethodGet, "/process/999", nil)
	rec := httptest.NewRecorder()

	d.handleProcDetails(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500 for an unknown pid", rec.Code)
	}
}

func TestHandleProcDetailsKnownPIDSucceeds(t *testing.T) {
	tbl := newTestTable()
	d := New(tbl)
	views := tbl.Dump()
	if len(views) == 0 {
		t.Fatalf("expected at least one process in the table")
	}
	pid := views[0].PID

	req := httptest.NewRequest(http.MethodGet, "/process/"+strconv.Itoa(pid), nil)
	rec := httptest.NewRecorder()
	d.handleProcDetails(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "PID") {
		t.Fatalf("body missing reflected field name: %s", rec.Body.String())
	}
}

func TestAncestorChainStopsAtSelfParentedRoot(t *testing.T) {
	procs := map[int]kernel.ProcView{
		1: {PID: 1, Name: "init", ParentPID: 1},
		2: {PID: 2, Name: "child", ParentPID: 1},
	}
	chain := ancestorChain(procs, 2)
	if len(chain) != 2 {
		t.Fatalf("got chain length %d, want 2", len(chain))
	}
	if chain[0].PID != 2 || chain[1].PID != 1 {
		t.Fatalf("unexpected chain order: %+v", chain)
	}
}
