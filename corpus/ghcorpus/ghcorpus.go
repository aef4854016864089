// Package ghcorpus retrieves published scenario bundles from a GitHub
// repository's releases, for corpus repos that ship pre-recorded scenario
// files as release assets instead of (or in addition to) git tags.
package ghcorpus

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v48/github"
	"golang.org/x/oauth2"
)

// Release is one GitHub release of a scenario bundle.
type Release struct {
	Name      string
	Tag       string
	Artifacts []Artifact
}

// Artifact is one release asset: a scenario file, typically.
type Artifact struct {
	Name        string
	URL         string
	ContentType string
}

// Fetcher retrieves releases for a scenario repository.
type Fetcher interface {
	GetReleases(repoURL string) ([]Release, error)
}

// Config configures a Client.
type Config struct {
	// Token authenticates against GitHub; required for private corpora.
	Token string
}

// Client is the Fetcher implementation backed by go-github.
type Client struct {
	client *github.Client
}

// NewClient returns a ready-to-use Client. conf is optional; when omitted,
// or when conf.Token is empty, requests are made unauthenticated.
func NewClient(conf ...Config) Client {
	opts := Config{}
	if len(conf) > 0 {
		opts = conf[len(conf)-1]
	}

	var httpClient *http.Client
	if opts.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	return Client{client: github.NewClient(httpClient)}
}

// GetReleases lists every release of repoURL (given as "owner/name") and
// the artifacts attached to it.
func (c Client) GetReleases(repoURL string) ([]Release, error) {
	parts := strings.SplitN(repoURL, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("ghcorpus: repo %q must be given as owner/name", repoURL)
	}

	releases, _, err := c.client.Repositories.ListReleases(context.Background(), parts[0], parts[1], &github.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("ghcorpus: listing releases for %s: %w", repoURL, err)
	}

	out := make([]Release, 0, len(releases))
	for _, rel := range releases {
		artifacts := make([]Artifact, 0, len(rel.Assets))
		for _, asset := range rel.Assets {
			artifacts = append(artifacts, Artifact{
				Name:        asset.GetName(),
				URL:         asset.GetURL(),
				ContentType: asset.GetContentType(),
			})
		}
		out = append(out, Release{
			Name:      rel.GetName(),
			Tag:       rel.GetTagName(),
			Artifacts: artifacts,
		})
	}
	return out, nil
}
