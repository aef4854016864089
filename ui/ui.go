// Package ui serves a small HTTP dashboard over a kernel.Table: a process
// list, a per-process detail view, and a parent-chain tree view, refreshed
// on demand.
package ui

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arctir/xvcore/kernel"
	"github.com/arctir/xvcore/snapshot"
)

const (
	port          = ":8080"
	refreshPath   = "/refresh"
	procPath      = "/process/"
	procTreePath  = "/tree/"
)

// Dashboard serves the process table snapshot views.
type Dashboard struct {
	table       *kernel.Table
	cacheDir    string
	data        Data
	refreshLock sync.Mutex
}

// Data is the cached snapshot rendered by the all-processes view.
type Data struct {
	LastRefresh time.Time
	Procs       map[int]kernel.ProcView
}

// DetailKV is one reflected field/value pair rendered in the detail view.
type DetailKV struct {
	Field string
	Value string
}

// New returns a Dashboard over t, persisting its /refresh snapshots to
// snapshot.DefaultDir().
func New(t *kernel.Table) *Dashboard {
	return &Dashboard{table: t, cacheDir: snapshot.DefaultDir()}
}

// Run registers the dashboard's routes and blocks serving them.
func (d *Dashboard) Run() {
	http.HandleFunc("/", d.handleAllProcs)
	http.HandleFunc(refreshPath, d.handleRefresh)
	http.HandleFunc(procPath, d.handleProcDetails)
	http.HandleFunc(procTreePath, d.handleProcTree)

	log.Printf("serving dashboard at %s", port)
	panic(http.ListenAndServe(port, nil))
}

func (d *Dashboard) refresh() {
	d.refreshLock.Lock()
	defer d.refreshLock.Unlock()
	views := d.table.Dump()
	byPID := make(map[int]kernel.ProcView, len(views))
	for _, v := range views {
		byPID[v.PID] = v
	}
	d.data = Data{LastRefresh: time.Now(), Procs: byPID}
}

// saveSnapshot persists the current process table to the snapshot cache,
// logging on failure rather than interrupting the request.
func (d *Dashboard) saveSnapshot() {
	snap := snapshot.Snapshot{Tick: d.table.Tick(), Procs: d.table.Dump()}
	if err := snapshot.Save(d.cacheDir, snap); err != nil {
		log.Printf("dashboard: saving snapshot: %s", err)
	}
}

func (d *Dashboard) handleAllProcs(w http.ResponseWriter, r *http.Request) {
	d.refresh()
	t, err := createTemplate(allProcsView)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, d.data); err != nil {
		writeFailure(w, err)
	}
}

func (d *Dashboard) handleRefresh(w http.ResponseWriter, r *http.Request) {
	d.refresh()
	d.saveSnapshot()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (d *Dashboard) handleProcDetails(w http.ResponseWriter, r *http.Request) {
	pid, err := pidFromPath(r.URL.Path, procPath)
	if err != nil {
		writeFailure(w, err)
		return
	}
	view, ok := d.table.Lookup(pid)
	if !ok {
		writeFailure(w, fmt.Errorf("process %d does not exist", pid))
		return
	}
	t, err := createTemplate(procDetailsView)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, view); err != nil {
		writeFailure(w, err)
	}
}

func (d *Dashboard) handleProcTree(w http.ResponseWriter, r *http.Request) {
	pid, err := pidFromPath(r.URL.Path, procTreePath)
	if err != nil {
		writeFailure(w, err)
		return
	}
	d.refresh()
	if _, ok := d.data.Procs[pid]; !ok {
		writeFailure(w, fmt.Errorf("process %d does not exist", pid))
		return
	}
	chain := ancestorChain(d.data.Procs, pid)
	t, err := createTemplate(procTreeView)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := t.Execute(w, chain); err != nil {
		writeFailure(w, err)
	}
}

func pidFromPath(path, prefix string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(path, prefix))
}

// procDetails reflects over a kernel.ProcView's exported fields for the
// detail template.
func procDetails(view kernel.ProcView) []DetailKV {
	var result []DetailKV
	t := reflect.TypeOf(view)
	v := reflect.ValueOf(view)
	for i := 0; i < t.NumField(); i++ {
		result = append(result, DetailKV{t.Field(i).Name, fmt.Sprintf("%v", v.Field(i).Interface())})
	}
	return result
}

// ancestorChain walks ParentPID links from pid up to the root, returning
// the chain from pid outward.
func ancestorChain(procs map[int]kernel.ProcView, pid int) []kernel.ProcView {
	var chain []kernel.ProcView
	current := procs[pid]
	for {
		chain = append(chain, current)
		parent, ok := procs[current.ParentPID]
		if !ok || parent.PID == current.PID {
			break
		}
		current = parent
	}
	return chain
}

func createTemplate(body string) (*template.Template, error) {
	return template.New("response").
		Funcs(template.FuncMap{"details": procDetails}).
		Parse(uiHeader + body + uiFooter)
}

func writeFailure(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	t, tmplErr := createTemplate(errorView)
	if tmplErr != nil {
		return
	}
	t.Execute(w, err.Error())
}
