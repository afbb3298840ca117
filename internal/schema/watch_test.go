package schema

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := NewRegistry(context.Background(), FileSource{Path: path})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan error, 8)
	if err := Watch(ctx, r, path, zap.NewNop(), func(err error) { reloaded <- err }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	renamed := strings.Replace(sampleYAML, "name: Seed Stock", "name: Seedlings", 1)
	if err := os.WriteFile(path, []byte(renamed), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-reloaded:
			if err != nil {
				continue
			}
			if tbl, _ := r.TableBySlug("seed-stock"); tbl.Name == "Seedlings" {
				return
			}
		case <-deadline:
			t.Fatal("catalog was not reloaded after write")
		}
	}
}
