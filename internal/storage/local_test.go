package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFilename(t *testing.T) {
	tests := []struct {
		original string
		ext      string
	}{
		{"beach.jpg", ".jpg"},
		{"Wedding Shoot.JPG", ".jpg"},
		{"portrait.png", ".png"},
		{"animated.gif", ".gif"},
		{"noextension", ""},
	}
	for _, test := range tests {
		name := NewFilename(test.original)
		if !strings.HasPrefix(name, "photo-") {
			t.Errorf("%q: expected photo- prefix, got %q", test.original, name)
		}
		if !strings.HasSuffix(name, test.ext) {
			t.Errorf("%q: expected suffix %q, got %q", test.original, test.ext, name)
		}
		if name != filepath.Base(name) {
			t.Errorf("%q: generated name contains a path separator: %q", test.original, name)
		}
	}
}

func TestNewFilenameUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := NewFilename("same.jpg")
		if seen[name] {
			t.Fatalf("duplicate filename generated: %q", name)
		}
		seen[name] = true
	}
}

func TestLocalStoreAndRemove(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	filename, err := local.Store(ctx, strings.NewReader("fake image bytes"), "beach.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	path, err := local.Path(filename)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("stored blob unreadable: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored bytes differ: %q", data)
	}

	if got := local.URLFor(filename); got != "/uploads/"+filename {
		t.Errorf("URLFor = %q", got)
	}

	if err := local.Remove(ctx, filename); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("blob still present after Remove")
	}

	// Removing an absent blob is a success.
	if err := local.Remove(ctx, filename); err != nil {
		t.Errorf("repeat Remove: %v", err)
	}
}

func TestLocalPathRejectsTraversal(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	for _, name := range []string{"", "../etc/passwd", "a/b.jpg", "..", "./x.jpg"} {
		if _, err := local.Path(name); err == nil {
			t.Errorf("Path(%q) accepted", name)
		}
	}
}
