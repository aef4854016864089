package cliutil

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/arctir/xvcore/kernel"
)

func sampleView() kernel.ProcView {
	return kernel.ProcView{PID: 3, Name: "sh", ParentPID: 1, CPUShare: 30, Pass: 12}
}

func TestListTableIncludesHeaderAndRow(t *testing.T) {
	out := List([]kernel.ProcView{sampleView()}, Options{Format: Table})
	s := string(out)
	if !strings.Contains(s, "PID") {
		t.Fatalf("table output missing header: %s", s)
	}
	if !strings.Contains(s, "sh") {
		t.Fatalf("table output missing process name: %s", s)
	}
}

func TestListJSONRoundTrips(t *testing.T) {
	out := List([]kernel.ProcView{sampleView()}, Options{Format: JSON})
	var got []kernel.ProcView
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].Name != "sh" {
		t.Fatalf("unexpected JSON round trip: %+v", got)
	}
}

func TestSingleDebugUsesSpewRegardlessOfFormat(t *testing.T) {
	out := Single(sampleView(), Options{Format: JSON, Debug: true})
	if !strings.Contains(string(out), "Name") {
		t.Fatalf("expected spew dump of struct fields, got: %s", out)
	}
}
