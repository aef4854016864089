package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arctir/xvcore/corpus"
	"github.com/arctir/xvcore/corpus/ghcorpus"
	"github.com/arctir/xvcore/internal/cliutil"
	"github.com/arctir/xvcore/kernel"
	"github.com/arctir/xvcore/snapshot"
	"github.com/arctir/xvcore/ui"
)

func runRoot(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

func runPs(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

func runCorpus(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(0)
	}
}

func outputOpts(cmd *cobra.Command) cliutil.Options {
	out, _ := cmd.Flags().GetString(outputFlag)
	debug, _ := cmd.Flags().GetBool(debugFlag)
	format := cliutil.Table
	if out == "json" {
		format = cliutil.JSON
	}
	return cliutil.Options{Format: format, Debug: debug}
}

// runRun implements `xvcore run <scenario-file>`: load the scenario, build
// and drive a fresh process table to completion (or the --max-ticks
// ceiling), persist the resulting snapshot, and print it.
func runRun(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cliutil.Fail("usage: xvcore run <scenario-file>")
	}
	scn, err := corpus.LoadScenarioFile(args[0])
	if err != nil {
		cliutil.Fail(fmt.Sprintf("failed loading scenario: %s", err))
	}

	cpus, _ := cmd.Flags().GetInt(cpusFlag)
	maxTicks, _ := cmd.Flags().GetInt(maxTicksFlag)

	tbl := kernel.NewTable()
	tbl.Userinit(scn.Name, corpus.Build(scn))
	tick := kernel.Run(tbl, cpus, maxTicks)

	views := tbl.Dump()
	if err := snapshot.Save(snapshot.DefaultDir(), snapshot.Snapshot{Tick: tick, Procs: views}); err != nil {
		fmt.Fprintf(os.Stderr, "xvcore: warning: failed saving snapshot: %s\n", err)
	}

	cliutil.Print(cliutil.List(views, outputOpts(cmd)))
}

// runPsList implements `xvcore ps list`.
func runPsList(cmd *cobra.Command, args []string) {
	snap, err := snapshot.Load(snapshot.DefaultDir())
	if err != nil {
		cliutil.Fail(fmt.Sprintf("failed loading snapshot: %s", err))
	}
	cliutil.Print(cliutil.List(snap.Procs, outputOpts(cmd)))
}

// runPsGet implements `xvcore ps get --pid|--name`.
func runPsGet(cmd *cobra.Command, args []string) {
	snap, err := snapshot.Load(snapshot.DefaultDir())
	if err != nil {
		cliutil.Fail(fmt.Sprintf("failed loading snapshot: %s", err))
	}

	pid, _ := cmd.Flags().GetInt(pidFlag)
	name, _ := cmd.Flags().GetString(nameFlag)

	switch {
	case pid != 0:
		for _, p := range snap.Procs {
			if p.PID == pid {
				cliutil.Print(cliutil.Single(p, outputOpts(cmd)))
				return
			}
		}
		cliutil.Fail(fmt.Sprintf("no process with pid %d in the last snapshot", pid))
	case name != "":
		var matched []kernel.ProcView
		for _, p := range snap.Procs {
			if p.Name == name {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			cliutil.Fail(fmt.Sprintf("no process named %q in the last snapshot", name))
		}
		cliutil.Print(cliutil.List(matched, outputOpts(cmd)))
	default:
		cmd.Help()
	}
}

// runPsTree implements `xvcore ps tree <pid>`, walking ParentPID links the
// same way ui.ancestorChain does for the dashboard's /tree/{pid} route.
func runPsTree(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cliutil.Fail("usage: xvcore ps tree <pid>")
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		cliutil.Fail(fmt.Sprintf("invalid pid %q", args[0]))
	}

	snap, err := snapshot.Load(snapshot.DefaultDir())
	if err != nil {
		cliutil.Fail(fmt.Sprintf("failed loading snapshot: %s", err))
	}
	byPID := make(map[int]kernel.ProcView, len(snap.Procs))
	for _, p := range snap.Procs {
		byPID[p.PID] = p
	}
	if _, ok := byPID[pid]; !ok {
		cliutil.Fail(fmt.Sprintf("no process with pid %d in the last snapshot", pid))
	}

	var chain []kernel.ProcView
	current := byPID[pid]
	for {
		chain = append(chain, current)
		parent, ok := byPID[current.ParentPID]
		if !ok || parent.PID == current.PID {
			break
		}
		current = parent
	}
	cliutil.Print(cliutil.List(chain, outputOpts(cmd)))
}

// runCorpusCommits implements `xvcore corpus commits <repo-url>`, grounded
// on proctor/cmd/cmd.go's runChangesSource.
func runCorpusCommits(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cliutil.Fail("usage: xvcore corpus commits <repo-url>")
	}
	inMemory, _ := cmd.Flags().GetBool(inMemoryFlag)

	repo, err := corpus.Resolve(args[0], corpus.ResolveOpts{InMemory: inMemory})
	if err != nil {
		cliutil.Fail(fmt.Sprintf("failed resolving repository: %s", err))
	}
	commits, err := corpus.NewManager().GetCommits(*repo)
	if err != nil {
		cliutil.Fail(fmt.Sprintf("failed listing commits: %s", err))
	}
	for _, c := range commits {
		msg := strings.ReplaceAll(string(c.Message), "\n", " ")
		if len(msg) > 60 {
			msg = msg[:60]
		}
		fmt.Printf("%s: %s\n", c.Hash, msg)
	}
}

// runCorpusReleases implements `xvcore corpus releases <owner/repo>`.
func runCorpusReleases(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cliutil.Fail("usage: xvcore corpus releases <owner/repo>")
	}
	token, _ := cmd.Flags().GetString(tokenFlag)

	client := ghcorpus.NewClient(ghcorpus.Config{Token: token})
	releases, err := client.GetReleases(args[0])
	if err != nil {
		cliutil.Fail(fmt.Sprintf("failed listing releases: %s", err))
	}
	for _, r := range releases {
		fmt.Printf("%s (%s): %d artifacts\n", r.Name, r.Tag, len(r.Artifacts))
	}
}

// runServe implements `xvcore serve <scenario-file>`: load and build the
// scenario, drive it in the background to completion, and serve the
// dashboard over the same live table until the process is killed.
func runServe(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cliutil.Fail("usage: xvcore serve <scenario-file>")
	}
	scn, err := corpus.LoadScenarioFile(args[0])
	if err != nil {
		cliutil.Fail(fmt.Sprintf("failed loading scenario: %s", err))
	}
	cpus, _ := cmd.Flags().GetInt(cpusFlag)

	tbl := kernel.NewTable()
	tbl.Userinit(scn.Name, corpus.Build(scn))
	go kernel.Run(tbl, cpus, 0)

	ui.New(tbl).Run()
}
