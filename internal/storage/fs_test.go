package storage

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFSStore(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := PaperKey(7, "pdf")
	if key != "papers/7.pdf" {
		t.Fatalf("key %q", key)
	}
	if _, err := s.Get(key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get before put: %v", err)
	}
	if _, err := s.Put(key, strings.NewReader("%PDF-1.3")); err != nil {
		t.Fatal(err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "%PDF-1.3" {
		t.Fatalf("content %q", b)
	}
	u, err := s.SignedURL(key)
	if err != nil || !strings.HasPrefix(u, "file://") || !strings.HasSuffix(u, "/papers/7.pdf") {
		t.Fatalf("url %q %v", u, err)
	}
	if err := s.Delete(key); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(key); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestFSStoreKeepsKeysInsideBase(t *testing.T) {
	base := t.TempDir()
	s, _ := NewFSStore(base)
	if got := s.path("../../etc/passwd"); !strings.HasPrefix(got, base) {
		t.Fatalf("escaped base: %s", got)
	}
}
