package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytefixx/gridcalc/internal/adapters/csvio"
	natsadapter "github.com/bytefixx/gridcalc/internal/adapters/nats"
	projadapter "github.com/bytefixx/gridcalc/internal/adapters/proj"
	"github.com/bytefixx/gridcalc/internal/adapters/shapefile"
	"github.com/bytefixx/gridcalc/internal/core/ports"
	"github.com/bytefixx/gridcalc/internal/core/usecases"
	"github.com/bytefixx/gridcalc/internal/core/zones"
	"github.com/bytefixx/gridcalc/internal/pkg/config"
	"github.com/bytefixx/gridcalc/internal/pkg/logging"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	var (
		in          string
		out         string
		zone        string
		shpPath     string
		template    bool
		quiet       bool
		showVersion bool
	)

	flag.StringVar(&in, "in", "-", "Input CSV with easting,northing[,height][,point_id] (- for stdin)")
	flag.StringVar(&out, "out", "-", "Output CSV path (- for stdout)")
	flag.StringVar(&zone, "zone", "", "ESM zone of the input, e.g. \"Zone IIa\" (default: conversion.batch_zone)")
	flag.StringVar(&shpPath, "shp", "", "Also write successful rows to this point shapefile (.shp)")
	flag.BoolVar(&template, "template", false, "Print the input template and exit")
	flag.BoolVar(&quiet, "quiet", false, "Disable the progress bar")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gridcalc-batch [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Convert a CSV of ESM (Kalianpur) grid coordinates to WGS84.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("gridcalc-batch %s\n", version)
		return
	}
	if template {
		fmt.Println(csvio.Template())
		return
	}

	if err := run(in, out, zone, shpPath, quiet); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out, zone, shpPath string, quiet bool) error {
	cfg, err := config.Load("gridcalc-batch")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// stdout may carry the result table, so logs go to stderr.
	logger := logging.New(os.Stderr, cfg.Log.Level, "text")
	slog.SetDefault(logger)

	if zone == "" {
		zone = cfg.Conversion.BatchZone
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, closeIn, err := openInput(in)
	if err != nil {
		return err
	}
	rows, err := csvio.ReadRows(r)
	closeIn()
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}

	transformer := projadapter.New()
	defer transformer.Close()

	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warn("nats unavailable, completion event skipped", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	batch := usecases.NewBatchService(transformer, zones.NewCatalog(), publisher, cfg.Conversion.BatchZone, cfg.Conversion.MaxBatchRows)

	var progress func(done, total int)
	var bar *progressBar
	if !quiet {
		bar = newProgressBar(os.Stderr, zone)
		progress = bar.Update
	}
	results, summary, err := batch.ProcessESM(ctx, rows, zone, progress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(out)
	if err != nil {
		return err
	}
	if err := csvio.WriteResults(w, results); err != nil {
		closeOut()
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	if shpPath != "" {
		n, err := shapefile.WriteResults(shpPath, results)
		if err != nil {
			return fmt.Errorf("shapefile: %w", err)
		}
		logger.Info("shapefile written", "path", shpPath, "points", n)
	}

	logger.Info("batch complete",
		"batch_id", summary.ID,
		"zone", summary.Zone,
		"rows", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
