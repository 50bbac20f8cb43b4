// Command corresp matches the primitives of two independently fitted
// sets against each other (e.g. a reconstruction against ground truth)
// and writes the accepted correspondences as a CSV table, with optional
// SQLite persistence and inspection artifacts.
//
// Usage:
//
//	corresp [flags] primsA.csv pointsA.csv primsB.csv pointsB.csv cloud.csv
//
// The two association files bind each cloud point to its owning group in
// set A and set B respectively.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/primfit/internal/corresp"
	"github.com/banshee-data/primfit/internal/db"
	"github.com/banshee-data/primfit/internal/fsutil"
	"github.com/banshee-data/primfit/internal/primio"
	"github.com/banshee-data/primfit/internal/report"
)

// Config holds configuration for a matching run.
type Config struct {
	PrimsA  string
	AssocA  string
	PrimsB  string
	AssocB  string
	Cloud   string
	OutCSV  string
	SubsCSV string

	DBPath        string
	MigrationsDir string
	PlotPNG       string
	ChartHTML     string
	Threshold     float64
	Verbose       bool
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.OutCSV, "out", "corresp.csv", "output correspondence table")
	flag.StringVar(&cfg.SubsCSV, "subs", "subs.csv", "matched B primitives re-keyed under A group ids (empty to skip)")
	flag.StringVar(&cfg.DBPath, "db", "", "also persist the run to this SQLite database")
	flag.StringVar(&cfg.MigrationsDir, "migrations", "internal/db/migrations", "schema migrations directory for -db")
	flag.StringVar(&cfg.PlotPNG, "plot", "", "render matched segments to this PNG")
	flag.StringVar(&cfg.ChartHTML, "chart", "", "render assignment costs to this HTML chart")
	flag.Float64Var(&cfg.Threshold, "threshold", 0.01, "inlier distance for extent estimation in the segment plot")
	flag.BoolVar(&cfg.Verbose, "v", false, "log every accepted pair")
	flag.Parse()

	if flag.NArg() != 5 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] primsA.csv pointsA.csv primsB.csv pointsB.csv cloud.csv\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	cfg.PrimsA = flag.Arg(0)
	cfg.AssocA = flag.Arg(1)
	cfg.PrimsB = flag.Arg(2)
	cfg.AssocB = flag.Arg(3)
	cfg.Cloud = flag.Arg(4)
	return cfg
}

func main() {
	cfg := parseFlags()

	for _, path := range []string{cfg.PrimsA, cfg.AssocA, cfg.PrimsB, cfg.AssocB, cfg.Cloud} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Fatalf("required input file not found: %s", path)
		}
	}

	if err := run(cfg, fsutil.OSFileSystem{}); err != nil {
		log.Fatalf("matching failed: %v", err)
	}
}

func run(cfg Config, fsys fsutil.FileSystem) error {
	points, err := primio.LoadPoints(cfg.Cloud)
	if err != nil {
		return err
	}
	if err := primio.LoadAssociations(cfg.AssocA, points, primio.PrimaryTag); err != nil {
		return err
	}
	if err := primio.LoadAssociations(cfg.AssocB, points, primio.ReferenceTag); err != nil {
		return err
	}

	collA, err := primio.LoadPrimitives(cfg.PrimsA)
	if err != nil {
		return err
	}
	log.Printf("read %d primitives in %d groups from %s", collA.Len(), len(collA), cfg.PrimsA)

	collB, err := primio.LoadPrimitives(cfg.PrimsB)
	if err != nil {
		return err
	}
	log.Printf("read %d primitives in %d groups from %s", collB.Len(), len(collB), cfg.PrimsB)

	assignments := corresp.Match(collA, collB)
	log.Printf("accepted %d of %d possible pairs", len(assignments), collA.Len()*collB.Len())
	if cfg.Verbose {
		for _, a := range assignments {
			log.Printf("chose %.6f for %v - %v", a.Cost, a.Key.A, a.Key.B)
		}
	}

	if err := writeCorresp(cfg, fsys, assignments); err != nil {
		return err
	}

	if cfg.SubsCSV != "" {
		subs := corresp.Substitutes(collB, assignments)
		var buf bytes.Buffer
		if err := primio.WritePrimitives(&buf, subs); err != nil {
			return err
		}
		if err := backupAndWrite(fsys, cfg.SubsCSV, buf.Bytes()); err != nil {
			return err
		}
		log.Printf("wrote %d substitute primitives to %s", subs.Len(), cfg.SubsCSV)
	}

	if cfg.DBPath != "" {
		if err := persistRun(cfg, assignments); err != nil {
			return err
		}
	}

	if cfg.PlotPNG != "" {
		sp := report.NewSegmentPlot(points, cfg.Threshold)
		if err := sp.Render(cfg.PlotPNG, collA, collB, assignments); err != nil {
			return err
		}
		log.Printf("wrote segment plot to %s", cfg.PlotPNG)
	}

	if cfg.ChartHTML != "" {
		if err := report.RenderCostChartFile(cfg.ChartHTML, cfg.PrimsA, cfg.PrimsB, assignments); err != nil {
			return err
		}
		log.Printf("wrote cost chart to %s", cfg.ChartHTML)
	}

	return nil
}

func writeCorresp(cfg Config, fsys fsutil.FileSystem, assignments []corresp.Assignment) error {
	var buf bytes.Buffer
	if err := corresp.WriteCSV(&buf, cfg.PrimsA, cfg.PrimsB, assignments); err != nil {
		return err
	}
	if err := backupAndWrite(fsys, cfg.OutCSV, buf.Bytes()); err != nil {
		return err
	}
	log.Printf("wrote %d correspondences to %s", len(assignments), cfg.OutCSV)
	return nil
}

func backupAndWrite(fsys fsutil.FileSystem, path string, data []byte) error {
	backupPath, err := fsutil.BackupFile(fsys, path)
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	if backupPath != "" {
		log.Printf("moved previous %s to %s", path, backupPath)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func persistRun(cfg Config, assignments []corresp.Assignment) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.MigrateUp(cfg.MigrationsDir); err != nil {
		return err
	}

	store := db.NewCorrespStore(database)
	matchRun := &db.MatchRun{SourceA: cfg.PrimsA, SourceB: cfg.PrimsB}
	if err := store.InsertRun(matchRun, assignments); err != nil {
		return err
	}
	log.Printf("persisted run %s to %s", matchRun.RunID, cfg.DBPath)
	return nil
}
