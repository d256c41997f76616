package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evescript/evescript/internal/config"
	"github.com/evescript/evescript/internal/container"
)

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll %s: %v", dir, err)
	}
}

func buildSampleContainer(t *testing.T, body []byte) []byte {
	t.Helper()
	header := make([]byte, container.HeaderSize)
	c := &container.Container{Header: header, Body: body}
	c.SetDeclaredLength(len(body))
	return c.Rebuild()
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		JPCC:           filepath.Join(root, "jpCC"),
		ENCC:           filepath.Join(root, "enCC"),
		DecompressJPCC: filepath.Join(root, "decJP"),
		DecompressENCC: filepath.Join(root, "decEN"),
		JPTXT:          filepath.Join(root, "jpTXT"),
		ENTXT:          filepath.Join(root, "enTXT"),
		HDIFile:        filepath.Join(root, "image.hdi"),
	}
	for _, dir := range []string{cfg.JPCC, cfg.ENCC, cfg.DecompressJPCC, cfg.DecompressENCC, cfg.JPTXT, cfg.ENTXT} {
		mustMkdir(t, dir)
	}
	return cfg
}

func TestRunDecompress(t *testing.T) {
	cfg := newTestConfig(t)

	body := []byte{0xFD, 0x03, 0x41, 0x42, 0x43, 0x00}
	raw := buildSampleContainer(t, body)
	if err := os.WriteFile(filepath.Join(cfg.JPCC, "scene1.cc"), raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	counters, err := Run(cfg, OpDecompress, 2, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if counters.Failed != 0 || counters.Succeeded != 1 {
		t.Fatalf("unexpected counters: %+v", counters)
	}

	out, err := os.ReadFile(filepath.Join(cfg.DecompressJPCC, "scene1.cc"))
	if err != nil {
		t.Fatalf("ReadFile decompressed: %v", err)
	}
	if len(out) != container.HeaderSize+len(body) {
		t.Fatalf("unexpected decompressed length %d", len(out))
	}
}

func TestRunExtractThenInjectMissingTxt(t *testing.T) {
	cfg := newTestConfig(t)

	body := []byte{0xFD, 0x03, 0x41, 0x42, 0x43, 0x00}
	header := make([]byte, container.HeaderSize)
	c := &container.Container{Header: header, Body: body}
	c.SetDeclaredLength(len(body))
	if err := os.WriteFile(filepath.Join(cfg.DecompressJPCC, "scene1.cc"), c.Full(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	extractCounters, err := Run(cfg, OpExtract, 1, nil)
	if err != nil {
		t.Fatalf("Run extract: %v", err)
	}
	if extractCounters.Succeeded != 1 {
		t.Fatalf("unexpected extract counters: %+v", extractCounters)
	}
	if _, err := os.Stat(filepath.Join(cfg.JPTXT, "scene1.txt")); err != nil {
		t.Fatalf("expected translator text file: %v", err)
	}

	injectCounters, err := Run(cfg, OpInject, 1, nil)
	if err != nil {
		t.Fatalf("Run inject: %v", err)
	}
	if injectCounters.Skipped != 1 {
		t.Fatalf("expected missing-txt skip, got %+v", injectCounters)
	}
}

func TestRunInjectAndCompress(t *testing.T) {
	cfg := newTestConfig(t)

	body := []byte{0xFD, 0x03, 0x41, 0x42, 0x43, 0x00}
	header := make([]byte, container.HeaderSize)
	c := &container.Container{Header: header, Body: body}
	c.SetDeclaredLength(len(body))
	if err := os.WriteFile(filepath.Join(cfg.DecompressJPCC, "scene1.cc"), c.Full(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.ENTXT, "scene1.txt"), []byte("Hi\n"), 0o644); err != nil {
		t.Fatalf("WriteFile txt: %v", err)
	}

	injectCounters, err := Run(cfg, OpInject, 1, nil)
	if err != nil {
		t.Fatalf("Run inject: %v", err)
	}
	if injectCounters.Succeeded != 1 {
		t.Fatalf("unexpected inject counters: %+v", injectCounters)
	}

	compressCounters, err := Run(cfg, OpCompress, 1, nil)
	if err != nil {
		t.Fatalf("Run compress: %v", err)
	}
	if compressCounters.Succeeded != 1 {
		t.Fatalf("unexpected compress counters: %+v", compressCounters)
	}

	if _, err := os.Stat(filepath.Join(cfg.ENCC, "scene1.cc")); err != nil {
		t.Fatalf("expected compressed output: %v", err)
	}
}
