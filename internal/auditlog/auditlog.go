// Package auditlog keeps a local JSONL trail of admin actions, one file
// per IST day. It is diagnostics only; the server remains the source of
// truth for every mutation it records.
package auditlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	dir = "audit"
)

// Entry is one recorded admin action.
type Entry struct {
	Time   string         `json:"time"`
	Action string         `json:"action"`
	Actor  string         `json:"actor,omitempty"`
	Target string         `json:"target,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

var ist = time.FixedZone("IST", 19800)

// SetDir overrides the audit directory. Defaults to "audit", or the
// ADMIN_AUDIT_DIR environment variable when set.
func SetDir(d string) {
	mu.Lock()
	defer mu.Unlock()
	if d != "" {
		dir = d
	}
}

func auditDir() string {
	if v := os.Getenv("ADMIN_AUDIT_DIR"); v != "" {
		return v
	}
	return dir
}

func dailyFilepath(t time.Time) string {
	d := t.In(ist).Format("2006-01-02")
	return filepath.Join(auditDir(), d+".txt")
}

// Append records an action. Failures are returned, never fatal; auditing
// must not take the console down.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().In(ist)
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips audit files older than retentionDays and removes the
// originals. Zero or negative retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := auditDir()
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil {
			return nil
		}
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			// already compressed on an earlier pass
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
