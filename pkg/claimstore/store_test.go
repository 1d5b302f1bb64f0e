package claimstore

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/chainsafe/claims-registry/pkg/claim"
	"github.com/chainsafe/claims-registry/pkg/claim/registry"
)

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed claimstore tests")
}

// runStoreContract exercises the behaviour every registry.Store must share.
func runStoreContract(t *testing.T, ctx context.Context, s registry.Store) {
	t.Helper()

	fp := claim.Fingerprint{0x00, 0x01}
	other := claim.Fingerprint{0x00, 0x01, 0x00}

	_, ok, err := s.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get() on empty store failed: %v", err)
	}
	if ok {
		t.Fatalf("expected no claim on empty store")
	}

	if err := s.Insert(ctx, &claim.Claim{Fingerprint: fp, Owner: "alice", RegisteredAt: 3}); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	got, ok, err := s.Get(ctx, fp)
	if err != nil || !ok {
		t.Fatalf("Get() after insert: ok=%v err=%v", ok, err)
	}
	if got.Owner != "alice" || got.RegisteredAt != 3 || got.Fingerprint.Key() != fp.Key() {
		t.Fatalf("unexpected claim: %+v", got)
	}

	exists, err := s.Contains(ctx, other)
	if err != nil {
		t.Fatalf("Contains() failed: %v", err)
	}
	if exists {
		t.Fatalf("lookup must use exact byte equality, %s matched %s", other, fp)
	}

	if err := s.Insert(ctx, &claim.Claim{Fingerprint: fp, Owner: "bob", RegisteredAt: 7}); err != nil {
		t.Fatalf("overwriting Insert() failed: %v", err)
	}
	got, _, err = s.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Owner != "bob" || got.RegisteredAt != 7 {
		t.Fatalf("expected overwrite to (bob, 7), got %+v", got)
	}

	if err := s.Remove(ctx, fp); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	exists, err = s.Contains(ctx, fp)
	if err != nil {
		t.Fatalf("Contains() failed: %v", err)
	}
	if exists {
		t.Fatalf("expected claim to be removed")
	}

	if err := s.Remove(ctx, fp); err != nil {
		t.Fatalf("Remove() of absent claim failed: %v", err)
	}
}
