// Package batch implements the directory-level driver named in the codec
// pipeline's §A.5/§A.6: it fans the five single-file operations out over
// every file in a config's source directory, aggregates outcomes, and
// computes a run's exit status.
package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/evescript/evescript/internal/config"
	"github.com/evescript/evescript/internal/container"
	"github.com/evescript/evescript/internal/diag"
	"github.com/evescript/evescript/internal/extract"
	"github.com/evescript/evescript/internal/imagewriter"
	"github.com/evescript/evescript/internal/inject"
	"github.com/evescript/evescript/internal/script"
)

// Operation selects which single-file transform Run fans out over a
// config's directories.
type Operation int

const (
	OpDecompress Operation = iota
	OpCompress
	OpExtract
	OpInject
	OpImportToImage
	OpAll
)

func (op Operation) String() string {
	switch op {
	case OpDecompress:
		return "decompress"
	case OpCompress:
		return "compress"
	case OpExtract:
		return "extract"
	case OpInject:
		return "inject"
	case OpImportToImage:
		return "import-to-image"
	case OpAll:
		return "all"
	default:
		return "unknown"
	}
}

// ErrMissingTxt marks a batch-level skip: a source file has no matching
// translator text file. It never fails the run; affected files are
// counted as skipped.
var ErrMissingTxt = errors.New("batch: missing translator text file")

type fileOutcome struct {
	name   string
	kind   string
	err    error
	result inject.Result
}

// Run executes op across cfg's directories and returns aggregate counters.
// A nonzero Counters.Failed means the caller should exit nonzero, per
// §A.6.
func Run(cfg *config.Config, op Operation, numWorkers int, logger *slog.Logger) (diag.Counters, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch op {
	case OpDecompress:
		return runFanOut(cfg, numWorkers, logger, "decompress", cfg.JPCC, decompressJob(cfg))
	case OpCompress:
		return runFanOut(cfg, numWorkers, logger, "compress", cfg.DecompressENCC, compressJob(cfg))
	case OpExtract:
		return runFanOut(cfg, numWorkers, logger, "extract", cfg.DecompressJPCC, extractJob(cfg))
	case OpInject:
		return runFanOut(cfg, numWorkers, logger, "inject", cfg.DecompressJPCC, injectJob(cfg))
	case OpImportToImage:
		return runImportToImage(cfg, logger)
	case OpAll:
		return runAll(cfg, numWorkers, logger)
	default:
		return diag.Counters{}, fmt.Errorf("batch: unknown operation %d", op)
	}
}

func runAll(cfg *config.Config, numWorkers int, logger *slog.Logger) (diag.Counters, error) {
	var total diag.Counters

	steps := []struct {
		op Operation
		fn func(*config.Config, int, *slog.Logger) (diag.Counters, error)
	}{
		{OpInject, func(c *config.Config, n int, l *slog.Logger) (diag.Counters, error) {
			return runFanOut(c, n, l, "inject", c.DecompressJPCC, injectJob(c))
		}},
		{OpCompress, func(c *config.Config, n int, l *slog.Logger) (diag.Counters, error) {
			return runFanOut(c, n, l, "compress", c.DecompressENCC, compressJob(c))
		}},
	}

	for _, step := range steps {
		counters, err := step.fn(cfg, numWorkers, logger)
		if err != nil {
			return total, err
		}
		total.Succeeded += counters.Succeeded
		total.Partial += counters.Partial
		total.Failed += counters.Failed
		total.Skipped += counters.Skipped
		if total.AnyFailed() {
			return total, nil
		}
	}

	imgCounters, err := runImportToImage(cfg, logger)
	total.Succeeded += imgCounters.Succeeded
	total.Partial += imgCounters.Partial
	total.Failed += imgCounters.Failed
	total.Skipped += imgCounters.Skipped
	return total, err
}

// runFanOut lists every regular file in sourceDir and runs fn over each
// one concurrently, aggregating outcomes into Counters.
func runFanOut(cfg *config.Config, numWorkers int, logger *slog.Logger, kind, sourceDir string, fn func(name string) fileOutcome) (diag.Counters, error) {
	names, err := listFiles(sourceDir)
	if err != nil {
		return diag.Counters{}, fmt.Errorf("batch: listing %s: %w", sourceDir, err)
	}

	jobs := make([]fileJob, len(names))
	for i, name := range names {
		name := name
		jobs[i] = fileJob{name: name, run: func() fileOutcome { return fn(name) }}
	}

	outcomes := newDispatcher(numWorkers).run(jobs)

	var counters diag.Counters
	for _, oc := range outcomes {
		logOutcome(logger, kind, oc)
		switch {
		case errors.Is(oc.err, ErrMissingTxt):
			counters.Skipped++
		case oc.err != nil:
			counters.Failed++
		case oc.result.Outcome == inject.Partial:
			counters.Partial++
		default:
			counters.Succeeded++
		}
	}
	return counters, nil
}

func logOutcome(logger *slog.Logger, kind string, oc fileOutcome) {
	if oc.err != nil {
		logger.Warn("file outcome", "op", kind, "file", oc.name, "err", oc.err)
		return
	}
	logger.Info("file outcome", "op", kind, "file", oc.name,
		"outcome", oc.result.Outcome.String(),
		"skipped_records", oc.result.SkippedRecords,
		"overflow_bytes", oc.result.OverflowBytes)
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func decompressJob(cfg *config.Config) func(string) fileOutcome {
	return func(name string) fileOutcome {
		raw, err := os.ReadFile(filepath.Join(cfg.JPCC, name))
		if err != nil {
			return fileOutcome{name: name, err: err}
		}
		c, err := container.Parse(raw)
		if err != nil {
			return fileOutcome{name: name, err: err}
		}
		if err := os.WriteFile(filepath.Join(cfg.DecompressJPCC, name), c.Full(), 0o644); err != nil {
			return fileOutcome{name: name, err: err}
		}
		return fileOutcome{name: name}
	}
}

func compressJob(cfg *config.Config) func(string) fileOutcome {
	return func(name string) fileOutcome {
		full, err := os.ReadFile(filepath.Join(cfg.DecompressENCC, name))
		if err != nil {
			return fileOutcome{name: name, err: err}
		}
		if len(full) < container.HeaderSize {
			return fileOutcome{name: name, err: container.ErrFileTooSmall}
		}

		c := &container.Container{Header: append([]byte(nil), full[:container.HeaderSize]...)}
		c.SetFull(full)
		c.SetDeclaredLength(len(c.Body))

		if err := os.WriteFile(filepath.Join(cfg.ENCC, name), c.Rebuild(), 0o644); err != nil {
			return fileOutcome{name: name, err: err}
		}
		return fileOutcome{name: name}
	}
}

func extractJob(cfg *config.Config) func(string) fileOutcome {
	return func(name string) fileOutcome {
		full, err := os.ReadFile(filepath.Join(cfg.DecompressJPCC, name))
		if err != nil {
			return fileOutcome{name: name, err: err}
		}
		records := script.Scan(full, container.HeaderSize)
		text := extract.Render(records)

		txtName := stem(name) + ".txt"
		if err := os.WriteFile(filepath.Join(cfg.JPTXT, txtName), []byte(text), 0o644); err != nil {
			return fileOutcome{name: name, err: err}
		}
		return fileOutcome{name: name}
	}
}

func injectJob(cfg *config.Config) func(string) fileOutcome {
	return func(name string) fileOutcome {
		full, err := os.ReadFile(filepath.Join(cfg.DecompressJPCC, name))
		if err != nil {
			return fileOutcome{name: name, err: err}
		}
		if len(full) < container.HeaderSize {
			return fileOutcome{name: name, err: container.ErrFileTooSmall}
		}

		txtName := stem(name) + ".txt"
		txtPath := filepath.Join(cfg.ENTXT, txtName)
		txtRaw, err := os.ReadFile(txtPath)
		if errors.Is(err, os.ErrNotExist) {
			return fileOutcome{name: name, err: fmt.Errorf("%w: %s", ErrMissingTxt, txtName)}
		}
		if err != nil {
			return fileOutcome{name: name, err: err}
		}

		c := &container.Container{Header: append([]byte(nil), full[:container.HeaderSize]...)}
		c.SetFull(full)
		c.SetDeclaredLength(len(c.Body))

		lines := inject.ParseTranslatorText(string(txtRaw))
		out, result := inject.Inject(c, lines, inject.Options{})
		if result.Outcome == inject.Fail {
			return fileOutcome{name: name, err: result.Err, result: result}
		}

		if err := os.WriteFile(filepath.Join(cfg.DecompressENCC, name), out.Full(), 0o644); err != nil {
			return fileOutcome{name: name, err: err}
		}
		return fileOutcome{name: name, result: result}
	}
}

func runImportToImage(cfg *config.Config, logger *slog.Logger) (diag.Counters, error) {
	names, err := listFiles(cfg.ENCC)
	if err != nil {
		return diag.Counters{}, fmt.Errorf("batch: listing %s: %w", cfg.ENCC, err)
	}

	handle, err := imagewriter.Open(cfg.HDIFile)
	if err != nil {
		return diag.Counters{}, fmt.Errorf("batch: opening image: %w", err)
	}
	defer handle.Close()

	var counters diag.Counters
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(cfg.ENCC, name))
		if err != nil {
			logOutcome(logger, "import-to-image", fileOutcome{name: name, err: err})
			counters.Failed++
			continue
		}

		imagePath := imagewriter.JoinImagePath(imagewriter.ScriptDir, name)
		if err := handle.ReplaceFile(imagePath, data); err != nil {
			logOutcome(logger, "import-to-image", fileOutcome{name: name, err: err})
			counters.Failed++
			continue
		}

		logOutcome(logger, "import-to-image", fileOutcome{name: name})
		counters.Succeeded++
	}
	return counters, nil
}
