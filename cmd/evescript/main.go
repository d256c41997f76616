// evescript drives the translation-patching pipeline described in the
// codec's external interface: decompress, compress, extract, inject,
// import-to-image, and the composite all = inject -> compress ->
// import-to-image.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/evescript/evescript/internal/batch"
	"github.com/evescript/evescript/internal/config"
)

var (
	configPath  string
	numWorkers  int
	showVersion bool
)

func init() {
	flag.StringVar(&configPath, "config", "evescript.yaml", "path to the settings file")
	flag.IntVar(&numWorkers, "j", runtime.GOMAXPROCS(0), "number of worker goroutines for per-file operations")
	flag.BoolVar(&showVersion, "v", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "evescript\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  decompress       decompress every jpCC script into decompressJPCC\n")
		fmt.Fprintf(os.Stderr, "  compress         compress every decompressENCC script into enCC\n")
		fmt.Fprintf(os.Stderr, "  extract          extract translator text from decompressJPCC into jpTXT\n")
		fmt.Fprintf(os.Stderr, "  inject           inject enTXT translations into decompressJPCC, writing decompressENCC\n")
		fmt.Fprintf(os.Stderr, "  import-to-image  write every enCC script into hdiFile\n")
		fmt.Fprintf(os.Stderr, "  all              inject, then compress, then import-to-image\n\n")
		flag.PrintDefaults()
	}
}

var commands = map[string]batch.Operation{
	"decompress":      batch.OpDecompress,
	"compress":        batch.OpCompress,
	"extract":         batch.OpExtract,
	"inject":          batch.OpInject,
	"import-to-image": batch.OpImportToImage,
	"all":             batch.OpAll,
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Println("evescript v0.1")
		return 0
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}

	op, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "evescript: unknown command %q\n", flag.Arg(0))
		flag.Usage()
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evescript: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	counters, err := batch.Run(cfg, op, numWorkers, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evescript: %v\n", err)
		return 1
	}

	logger.Info("run complete",
		"op", op.String(),
		"succeeded", counters.Succeeded,
		"partial", counters.Partial,
		"failed", counters.Failed,
		"skipped", counters.Skipped)

	if counters.AnyFailed() {
		return 1
	}
	return 0
}
