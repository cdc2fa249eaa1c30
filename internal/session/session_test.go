package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestTokenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	ctx := context.Background()

	g := Open(path)
	if g.Authenticated() {
		t.Fatal("fresh gate must start unauthenticated")
	}
	if err := g.Store(ctx, "tok-123"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// A new gate over the same file picks the credential back up.
	g2 := Open(path)
	if g2.Token() != "tok-123" {
		t.Errorf("Token = %q, want tok-123", g2.Token())
	}
}

func TestClearRemovesPersistedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	ctx := context.Background()

	g := Open(path)
	if err := g.Store(ctx, "tok-456"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	g.Clear(ctx)

	if g.Authenticated() {
		t.Error("gate still authenticated after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file still present after Clear")
	}
	if Open(path).Authenticated() {
		t.Error("reopened gate recovered a cleared token")
	}
}

func TestBearerHeader(t *testing.T) {
	g := Open(filepath.Join(t.TempDir(), "token"))
	if h := g.BearerHeader(); h != nil {
		t.Errorf("BearerHeader = %v, want nil when unauthenticated", h)
	}

	if err := g.Store(context.Background(), "abc"); err != nil {
		t.Fatal(err)
	}
	h := g.BearerHeader()
	if h["Authorization"] != "Bearer abc" {
		t.Errorf("Authorization = %q, want Bearer abc", h["Authorization"])
	}
}
