package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeTemp(t, `
jpCC: /data/jp/cc
enCC: /data/en/cc
decompressJPCC: /data/jp/dec
decompressENCC: /data/en/dec
jpTXT: /data/jp/txt
enTXT: /data/en/txt
hdiFile: /data/image.hdi
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.JPCC != "/data/jp/cc" || c.HDIFile != "/data/image.hdi" {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestLoadMissingField(t *testing.T) {
	path := writeTemp(t, `
jpCC: /data/jp/cc
enCC: /data/en/cc
decompressJPCC: /data/jp/dec
decompressENCC: /data/en/dec
jpTXT: /data/jp/txt
enTXT: /data/en/txt
`)

	_, err := Load(path)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
