package filestorage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPutGetDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ref, err := ls.Put([]byte("contrato"), "contracts", ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if ref == "" {
		t.Fatal("empty ref")
	}

	data, err := ls.Get(ref)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "contrato" {
		t.Errorf("Get() = %q, want %q", data, "contrato")
	}

	if err := ls.Delete(ref); err != nil {
		t.Fatal(err)
	}
	if _, err := ls.Get(ref); err == nil {
		t.Error("Get() after Delete() should fail")
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, ref := range []string{"../etc/passwd", "/etc/passwd", "."} {
		if _, err := ls.Get(ref); err == nil {
			t.Errorf("Get(%q) should fail", ref)
		}
	}
}

func TestSweepTemp(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base)
	if err != nil {
		t.Fatal(err)
	}

	old := filepath.Join(base, "tmp", "old.pdf")
	fresh := filepath.Join(base, "tmp", "fresh.pdf")
	for _, p := range []string{old, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	removed, err := ls.SweepTemp(time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("SweepTemp() removed = %d, want 1", removed)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh temp artifact should survive the sweep")
	}
}
