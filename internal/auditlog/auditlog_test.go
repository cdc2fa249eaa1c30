package auditlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendWritesDailyJSONL(t *testing.T) {
	d := t.TempDir()
	t.Setenv("ADMIN_AUDIT_DIR", d)

	if err := Append(Entry{Action: "paid_toggle", Actor: "admin@trader.com", Target: "c1"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Append(Entry{Action: "client_delete", Target: "c2"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(d, "*.txt"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one daily file, got %v (%v)", files, err)
	}

	raw, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}

	var e Entry
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("entry is not valid JSON: %v", err)
	}
	if e.Action != "paid_toggle" || e.Target != "c1" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Time == "" {
		t.Error("entry missing timestamp")
	}
}

func TestCompressOlderDisabledByZeroRetention(t *testing.T) {
	d := t.TempDir()
	t.Setenv("ADMIN_AUDIT_DIR", d)

	if err := Append(Entry{Action: "login"}); err != nil {
		t.Fatal(err)
	}
	if err := CompressOlder(0); err != nil {
		t.Fatalf("CompressOlder: %v", err)
	}

	gz, _ := filepath.Glob(filepath.Join(d, "*.gz"))
	if len(gz) != 0 {
		t.Errorf("retention 0 must not compress, found %v", gz)
	}
}
