package ghcorpus

import "testing"

func TestGetReleasesRejectsMalformedRepo(t *testing.T) {
	c := NewClient()
	if _, err := c.GetReleases("not-a-valid-repo-spec"); err == nil {
		t.Fatalf("expected error for a repoURL without an owner/name split")
	}
}

func TestNewClientUnauthenticatedByDefault(t *testing.T) {
	c := NewClient()
	if c.client == nil {
		t.Fatalf("NewClient returned a Client with a nil github.Client")
	}
}

func TestNewClientAuthenticatedWithToken(t *testing.T) {
	c := NewClient(Config{Token: "test-token"})
	if c.client == nil {
		t.Fatalf("NewClient returned a Client with a nil github.Client")
	}
}
