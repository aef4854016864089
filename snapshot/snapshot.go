// Package snapshot persists kernel.ProcView rows to a local gob cache, so a
// driver can replay a previously captured scheduling scenario without
// re-running it, or diff two runs offline.
package snapshot

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/arctir/xvcore/kernel"
)

const (
	// CacheDirName is the subdirectory under the XDG data home used for
	// snapshot files.
	CacheDirName = "xvcore"
	// CacheFileName is the gob file written inside CacheDirName.
	CacheFileName = "snapshot.gob"
)

// Snapshot is one captured instant of a kernel.Table, as returned by
// kernel.Table.Dump, plus the tick at which it was taken.
type Snapshot struct {
	Tick  int
	Procs []kernel.ProcView
}

// DefaultDir returns the XDG-resolved directory snapshots are stored in by
// default.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, CacheDirName)
}

// Save persists snap to cacheDir, creating the directory if necessary and
// overwriting any existing snapshot file there.
func Save(cacheDir string, snap Snapshot) error {
	gob.Register(kernel.ProcView{})

	if _, err := os.Stat(cacheDir); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return fmt.Errorf("snapshot: creating cache dir %s: %w", cacheDir, err)
		}
	}

	f, err := os.Create(filepath.Join(cacheDir, CacheFileName))
	if err != nil {
		return fmt.Errorf("snapshot: creating cache file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("snapshot: encoding snapshot: %w", err)
	}
	return nil
}

// Load reads back the most recently Saved snapshot from cacheDir. It
// returns the zero Snapshot and a nil error if no cache file exists yet,
// mirroring plib's "missing cache is not an error" contract.
func Load(cacheDir string) (Snapshot, error) {
	gob.Register(kernel.ProcView{})

	f, err := os.Open(filepath.Join(cacheDir, CacheFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("snapshot: opening cache file: %w", err)
	}
	defer f.Close()

	var snap Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decoding snapshot: %w", err)
	}
	return snap, nil
}

// Clear removes any snapshot file in cacheDir. It is not an error for no
// file to be present.
func Clear(cacheDir string) error {
	err := os.Remove(filepath.Join(cacheDir, CacheFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("snapshot: clearing cache file: %w", err)
	}
	return nil
}
