// Package cliutil renders kernel.ProcView rows for cmd/xvcore's subcommands,
// as a table by default, JSON with --output json, and a full field dump with
// --debug.
package cliutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"

	"github.com/arctir/xvcore/kernel"
)

// Format selects how a view or slice of views is rendered.
type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
)

// Options controls rendering behavior for the List/Single helpers.
type Options struct {
	Format Format
	// Debug dumps the full Go value via go-spew instead of the requested
	// Format, for troubleshooting a scenario run.
	Debug bool
}

// List renders a slice of process views.
func List(ps []kernel.ProcView, opts Options) []byte {
	if opts.Debug {
		return []byte(spew.Sdump(ps))
	}
	switch opts.Format {
	case JSON:
		return jsonOutput(ps)
	default:
		return tableOutput(ps)
	}
}

// Single renders one process view.
func Single(p kernel.ProcView, opts Options) []byte {
	if opts.Debug {
		return []byte(spew.Sdump(p))
	}
	switch opts.Format {
	case JSON:
		return jsonOutput(p)
	default:
		return tableOutput([]kernel.ProcView{p})
	}
}

// Print writes out to stdout.
func Print(out []byte) {
	fmt.Printf("%s", out)
}

// Fail prints msg to stdout and exits with status 1.
func Fail(msg string) {
	fmt.Println(msg)
	os.Exit(1)
}

func jsonOutput(v any) []byte {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		Fail(fmt.Sprintf("cliutil: marshaling output: %s", err))
	}
	return out
}

func tableOutput(ps []kernel.ProcView) []byte {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{
			strconv.Itoa(p.PID),
			p.Name,
			p.State.String(),
			strconv.Itoa(p.ParentPID),
			strconv.Itoa(p.Level),
			strconv.Itoa(p.CPUShare),
			strconv.Itoa(p.Pass),
			fmt.Sprintf("%d/%d", p.NumLWP, p.AllLWP),
		})
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"PID", "name", "state", "parent", "level", "share", "pass", "lwps"})
	table.AppendBulk(rows)
	table.Render()
	return buf.Bytes()
}
