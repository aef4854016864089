package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arctir/xvcore/kernel"
)

// Scenario is a small declarative workload description: a root process plus
// its children and any threads they spawn, each with a tick budget and an
// optional CPU share reservation. Scenario files are the unit of work
// `xvcore run` drives against a kernel.Table, and the unit of history
// `Manager`/`ghcorpus.Client` version and publish.
type Scenario struct {
	Name      string            `json:"name"`
	Processes []ScenarioProcess `json:"processes"`
}

// ScenarioProcess describes one forked process. Every entry of
// Scenario.Processes is forked as a child of the init process that runs
// Build's Workload.
type ScenarioProcess struct {
	Name     string            `json:"name"`
	Ticks    int               `json:"ticks"`
	CPUShare int               `json:"cpu_share,omitempty"`
	Threads  []ScenarioThread  `json:"threads,omitempty"`
	Children []ScenarioProcess `json:"children,omitempty"`
}

// ScenarioThread describes one thread_create call a ScenarioProcess issues
// against its own address space.
type ScenarioThread struct {
	Name  string `json:"name"`
	Ticks int    `json:"ticks"`
}

// LoadScenarioFile reads and decodes a Scenario from a local JSON file.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: opening scenario file: %w", err)
	}
	defer f.Close()

	var s Scenario
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("corpus: decoding scenario %s: %w", path, err)
	}
	return &s, nil
}

// Build compiles s into a root Workload suitable for kernel.Table.Userinit.
// Each ScenarioProcess becomes a forked child of the root (or of its own
// parent, recursively), counts down its tick budget by yielding, optionally
// reserves a CPU share on its first turn, spawns its threads the same way,
// and exits once its budget and its children have all been reaped.
func Build(s *Scenario) kernel.Workload {
	procs := make([]ScenarioProcess, len(s.Processes))
	copy(procs, s.Processes)
	return newScenarioRunner(procs)
}

// scenarioRunner drives a flat list of sibling ScenarioProcess definitions
// as children of whichever process owns it, one kernel.RunContext.Fork call
// per definition on its first turn, then waits for all of them before
// exiting itself.
type scenarioRunner struct {
	children []ScenarioProcess
	spawned  bool
	budget   int
}

func newScenarioRunner(children []ScenarioProcess) *scenarioRunner {
	return &scenarioRunner{children: children}
}

func (r *scenarioRunner) Run(rt *kernel.RunContext) {
	if !r.spawned {
		r.spawned = true
		for _, c := range r.children {
			rt.Fork(c.Name, leafWorkload(c))
		}
		rt.Yield()
		return
	}
	if _, _, err := rt.Wait(); err != nil {
		rt.Exit(0)
	}
}

// leafWorkload builds the Workload for one ScenarioProcess: optionally
// reserve a CPU share, spawn its threads, consume its tick budget by
// yielding, wait out any child scenario processes, then exit.
func leafWorkload(def ScenarioProcess) kernel.Workload {
	l := &leaf{def: def}
	return l
}

type leaf struct {
	def       ScenarioProcess
	setup     bool
	remaining int
	childRun  *scenarioRunner
}

func (l *leaf) Run(rt *kernel.RunContext) {
	if !l.setup {
		l.setup = true
		l.remaining = l.def.Ticks
		if l.def.CPUShare > 0 {
			rt.SetCPUShare(l.def.CPUShare)
		}
		for _, th := range l.def.Threads {
			rt.ThreadCreate(th.Name, threadWorkload(th))
		}
		if len(l.def.Children) > 0 {
			l.childRun = newScenarioRunner(l.def.Children)
		}
		rt.Yield()
		return
	}
	if l.remaining > 0 {
		l.remaining--
		rt.Yield()
		return
	}
	if l.childRun != nil {
		l.childRun.Run(rt)
		return
	}
	rt.Exit(0)
}

// threadWorkload builds the Workload a scenario's thread definition runs:
// yield ticks times, then thread_exit.
func threadWorkload(def ScenarioThread) kernel.Workload {
	remaining := def.Ticks
	return kernel.WorkloadFunc(func(rt *kernel.RunContext) {
		if remaining > 0 {
			remaining--
			rt.Yield()
			return
		}
		rt.ThreadExit(0)
	})
}
