// Package corpus retrieves and inspects scenario repositories: git repos
// whose commits and tags represent versions of a named scheduling scenario
// (a sequence of Fork/ThreadCreate/Exit/SetCPUShare calls) that
// cmd/xvcore's run subcommand can replay against a kernel.Table. It wraps
// go-git the same way the teacher's own source package does for generic
// source repositories.
package corpus

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

const (
	CacheDirName     = "xvcore"
	CacheScenarioDir = "scenarios"
)

// ResolveOpts controls how a scenario repository is retrieved.
type ResolveOpts struct {
	// InMemory retrieves the repo entirely in memory rather than caching it
	// to the filesystem. Significant memory use for large scenario corpora.
	InMemory bool
}

// Hash is a git object hash.
type Hash [20]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// Person identifies a commit's author or committer.
type Person struct {
	Name  string
	Email string
}

// Commit is one revision of a scenario file.
type Commit struct {
	Hash      Hash
	Date      time.Time
	Committer Person
	Author    Person
	Message   []byte
}

// ScenarioTag names a released scenario version.
type ScenarioTag struct {
	Name       string
	LastCommit Hash
}

// Repo is a resolved reference to a scenario repository, ready for
// Manager's lookup methods.
type Repo struct {
	URL  string
	Repo *git.Repository
}

// Manager retrieves commits and tags from scenario repositories.
type Manager struct{}

// NewManager returns a ready-to-use Manager.
func NewManager() Manager { return Manager{} }

// GetCommits returns every commit in r, most recent committer-time first.
func (m Manager) GetCommits(r Repo) ([]Commit, error) {
	if r.Repo == nil {
		return nil, fmt.Errorf("corpus: no repository reference to read commits from")
	}
	iter, err := r.Repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("corpus: listing commits: %w", err)
	}
	var commits []Commit
	iter.ForEach(func(o *object.Commit) error {
		commits = append(commits, Commit{
			Hash:      Hash(o.Hash),
			Date:      o.Committer.When,
			Committer: Person{Name: o.Committer.Name, Email: o.Committer.Email},
			Author:    Person{Name: o.Author.Name, Email: o.Author.Email},
			Message:   []byte(o.Message),
		})
		return nil
	})
	return commits, nil
}

// GetTags returns every tag in r, each resolved to its commit hash.
func (m Manager) GetTags(r Repo) ([]ScenarioTag, error) {
	if r.Repo == nil {
		return nil, fmt.Errorf("corpus: no repository reference to read tags from")
	}
	refs, err := r.Repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("corpus: listing tags: %w", err)
	}
	var tags []ScenarioTag
	refs.ForEach(func(ref *plumbing.Reference) error {
		rev := plumbing.Revision(ref.Name().String())
		hash, err := r.Repo.ResolveRevision(rev)
		if err != nil {
			return nil
		}
		tags = append(tags, ScenarioTag{Name: ref.Name().Short(), LastCommit: Hash(*hash)})
		return nil
	})
	return tags, nil
}

// LoadScenario reads a scenario file at path from a specific commit or
// branch/tag revision (ref) inside r, so a scenario replay can pin an exact
// version instead of always reading the working tree.
func (m Manager) LoadScenario(r Repo, ref, path string) (*Scenario, error) {
	if r.Repo == nil {
		return nil, fmt.Errorf("corpus: no repository reference to read %s from", path)
	}
	hash, err := r.Repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("corpus: resolving revision %s: %w", ref, err)
	}
	commit, err := r.Repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("corpus: loading commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("corpus: loading tree for %s: %w", hash, err)
	}
	f, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: finding %s in %s: %w", path, ref, err)
	}
	contents, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("corpus: reading %s: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal([]byte(contents), &s); err != nil {
		return nil, fmt.Errorf("corpus: decoding scenario %s@%s: %w", path, ref, err)
	}
	return &s, nil
}

// Resolve fetches a scenario repo's URL, consulting the on-disk cache
// first unless opts.InMemory is set.
func Resolve(url string, opts ...ResolveOpts) (*Repo, error) {
	conf := ResolveOpts{}
	if len(opts) > 0 {
		conf = opts[len(opts)-1]
	}
	if conf.InMemory {
		return resolveInMemory(url)
	}

	fp := filepath.Join(defaultCacheDir(), encodedCacheName(url))
	if _, err := os.Stat(fp); err != nil {
		return cloneToDisk(url)
	}

	ref, err := git.PlainOpen(fp)
	if err != nil {
		return nil, fmt.Errorf("corpus: opening cached repo: %w", err)
	}
	if err := ref.Fetch(&git.FetchOptions{RemoteURL: url}); err != nil && err != git.NoErrAlreadyUpToDate {
		return nil, fmt.Errorf("corpus: fetching updates: %w", err)
	}
	return &Repo{URL: url, Repo: ref}, nil
}

func cloneToDisk(url string) (*Repo, error) {
	if err := ensureCacheDir(); err != nil {
		return nil, fmt.Errorf("corpus: preparing cache dir: %w", err)
	}
	fp := filepath.Join(defaultCacheDir(), encodedCacheName(url))
	ref, err := git.PlainClone(fp, true, &git.CloneOptions{URL: url, NoCheckout: true})
	if err != nil {
		return nil, fmt.Errorf("corpus: cloning %s: %w", url, err)
	}
	return &Repo{URL: url, Repo: ref}, nil
}

func resolveInMemory(url string) (*Repo, error) {
	r, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{URL: url, NoCheckout: true})
	if err != nil {
		return nil, fmt.Errorf("corpus: in-memory clone of %s: %w", url, err)
	}
	remotes, err := r.Remotes()
	if err != nil {
		return nil, err
	}
	if len(remotes) < 1 {
		return nil, fmt.Errorf("corpus: %s resolved with no remotes", url)
	}
	return &Repo{URL: url, Repo: r}, nil
}

func ensureCacheDir() error {
	cacheFp := defaultCacheDir()
	if _, err := os.Stat(cacheFp); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		return os.MkdirAll(cacheFp, 0755)
	}
	return nil
}

func defaultCacheDir() string {
	return filepath.Join(xdg.DataHome, CacheDirName, CacheScenarioDir)
}

func encodedCacheName(url string) string {
	return base64.StdEncoding.EncodeToString([]byte(url))
}
