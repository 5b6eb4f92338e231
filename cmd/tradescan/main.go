package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/common"
	"github.com/junwei-lu/tradescan/internal/export"
	"github.com/junwei-lu/tradescan/internal/importer"
	"github.com/junwei-lu/tradescan/internal/recognize"
	"github.com/junwei-lu/tradescan/internal/rules"
	"github.com/junwei-lu/tradescan/internal/session"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of trade-dialog screenshots (required)")
		kindStr = flag.String("kind", "out", "record kind: in|out|monitor")
		out     = flag.String("out", "", "output XLSX file path (optional)")
		submit  = flag.Bool("submit", false, "submit recognized records after the batch run")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	kind, ok := constants.ParseKind(*kindStr)
	if !ok {
		printError("Error: unknown --kind %q\n", *kindStr)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	images, err := listImages(*dir)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if len(images) == 0 {
		printError("Error: no images found in %s\n", *dir)
		os.Exit(1)
	}

	var source rules.Source
	if cfg.Rules.SourceURL != "" {
		source = rules.NewHTTPSource(cfg.Rules.SourceURL, cfg.Rules.FetchTimeout, logger)
	} else {
		source = &rules.FileSource{Path: cfg.Rules.LocalPath}
	}

	var svc importer.ImportService
	var closeStore func() error
	switch {
	case cfg.Importer.ServiceURL != "":
		svc = importer.NewClient(cfg.Importer.ServiceURL, cfg.Importer.Timeout, logger)
	case cfg.Importer.LocalDBPath != "":
		store, err := importer.OpenLocalStore(cfg.Importer.LocalDBPath, logger)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		svc = store
		closeStore = store.Close
	case *submit:
		printError("Error: --submit needs IMPORT_URL or IMPORT_LOCAL_DB\n")
		os.Exit(1)
	}
	if closeStore != nil {
		defer func() { _ = closeStore() }()
	}

	sess := session.New(session.Options{
		Source:        source,
		Recognizer:    recognize.NewClient(cfg.Recognize.ServiceURL, cfg.Recognize.Timeout, logger),
		ImportService: svc,
		Config:        cfg,
		Logger:        logger,
		OnProgress: func(completed, total, percent int) {
			logger.Info("progress", "completed", completed, "total", total, "percent", percent)
		},
	})

	ctx := context.Background()
	state := sess.RunBatch(ctx, kind, images)
	for _, e := range state.Errors {
		logger.Warn("image skipped", "reason", e)
	}
	logger.Info("batch finished", "recognized", len(state.Results), "errors", len(state.Errors))

	if *out != "" {
		data, err := export.NewService(logger).RecordsXLSX(state.Results)
		if err != nil {
			printError("Error: export: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			printError("Error: write %s: %v\n", *out, err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", *out)
	}

	if *submit {
		res, err := sess.SubmitRecords(ctx, kind, state.Results)
		if err != nil && !errors.Is(err, common.ErrSuperseded) {
			printError("Error: submit: %v (%s)\n", err, res)
			os.Exit(1)
		}
		if res.Warning != "" {
			logger.Warn("submit warning", "warning", res.Warning)
		}
		logger.Info("submit finished", "result", res.String())
	}
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".webp": true,
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}
