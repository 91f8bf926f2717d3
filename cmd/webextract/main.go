// Command webextract is the CLI wrapper around the extractor library:
// extract <url> [--raw]. It owns argument parsing, exit-code mapping,
// and JSON pretty-printing — the pieces spec.md calls out as external
// to the library itself (§1).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/webextract/extractor"
	"github.com/webextract/extractor/config"
)

func main() {
	cfg := config.Load()
	initLogger(cfg.Log)

	if len(os.Args) < 3 || os.Args[1] != "extract" {
		fmt.Fprintln(os.Stderr, "usage: webextract extract <url> [--raw]")
		os.Exit(1)
	}

	url := os.Args[2]
	raw := false
	for _, arg := range os.Args[3:] {
		if arg == "--raw" {
			raw = true
		}
	}

	pipeline := extractor.NewPipeline(extractor.PipelineConfig{
		LibraryWorkers:   cfg.LibraryPool.Workers,
		LibraryAdmitRate: cfg.LibraryPool.AdmitPerSecond,
		BrowserPermits:   cfg.Browser.MaxPermits,
		Headless:         cfg.Browser.Headless,
		NoSandbox:        cfg.Browser.NoSandbox,
		BrowserBin:       cfg.Browser.BrowserBin,
	})
	defer pipeline.Close()

	result, err := pipeline.Extract(context.Background(), url, cfg.Tier.MaxTier)
	if err != nil {
		// Only cooperative cancellation escapes Extract as a Go error.
		slog.Error("extraction cancelled", "url", url, "error", err)
		os.Exit(1)
	}

	if raw {
		printJSON(result)
	} else {
		printHuman(result)
	}

	if !result.Success() {
		os.Exit(1)
	}
}

func printHuman(r extractor.ExtractionResult) {
	title := "(none)"
	if r.Title() != nil {
		title = *r.Title()
	}
	method := "(none)"
	if r.FetchMethod() != nil {
		method = *r.FetchMethod()
	}

	if !r.Success() {
		msg := "unknown error"
		if r.Error() != nil {
			msg = *r.Error()
		}
		fmt.Printf("Error: %s\nMethod: %s\nTime: %dms\n", msg, method, r.ElapsedMS())
		return
	}

	fmt.Printf("Title: %s\n", title)
	fmt.Printf("Method: %s\n", method)
	fmt.Printf("Length: %d chars\n", r.ContentLength())
	fmt.Printf("Time: %dms\n\n", r.ElapsedMS())
	if r.Body() != nil {
		fmt.Println(*r.Body())
	}
}

func printJSON(r extractor.ExtractionResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(r)
}

// initLogger configures slog based on the LogConfig, following the
// teacher's cmd/purify/main.go initLogger.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
