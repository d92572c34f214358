package cmd

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pellicle-io/pellicle/log"
	"github.com/pellicle-io/pellicle/metrics"
	"github.com/pellicle-io/pellicle/raster"
	"github.com/pellicle-io/pellicle/scene"
	"github.com/pellicle-io/pellicle/sequence"
	"github.com/pellicle-io/pellicle/sink"
	"github.com/pellicle-io/pellicle/types"
)

// snapshotInches is the nominal canvas size; resolution is
// snapshotInches times --dpi per side.
const snapshotInches = 8

// SnapshotCommand returns the snapshot command: a single final-state
// PNG still. Unlike render there is no fallback chain; any failure is
// fatal.
func SnapshotCommand() *cli.Command {
	flags := InputFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:    "out-dir",
			Aliases: []string{"o"},
			Usage:   "Directory artifacts are written into",
			Value:   "output",
		},
		&cli.IntFlag{
			Name:  "dpi",
			Usage: "Snapshot resolution in dots per inch",
			Value: 300,
		},
		&cli.StringFlag{
			Name:  "background",
			Usage: "Canvas color as #rrggbb",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress the run summary",
		},
	)
	flags = append(flags, StorageFlags()...)

	return &cli.Command{
		Name:   "snapshot",
		Usage:  "Render the simulation's final state as a PNG",
		Flags:  flags,
		Action: snapshotAction,
	}
}

func snapshotAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	path, err := resolveInputPath(c, cfg)
	if err != nil {
		return exitForError(err)
	}

	runID := sequence.NewRunID()
	logger := log.NewLogger(log.DatasetMeta{Source: path, RunID: runID})

	ds, err := loadDataset(path, logger)
	if err != nil {
		return exitForError(err)
	}
	last, ok := ds.index.LastTick()
	if !ok {
		logger.Warn("empty dataset, writing placeholder final state", map[string]any{
			"path": path,
		})
	}

	outDir := resolveString(c, "out-dir", cfg.Output.Dir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return cli.Exit(fmt.Sprintf("cannot create output dir: %v", err), exitFailure)
	}

	palette := raster.DefaultPalette
	if bg := resolveString(c, "background", cfg.Image.Background); bg != "" {
		bgColor, err := parseHexColor(bg)
		if err != nil {
			return cli.Exit(err.Error(), exitFailure)
		}
		palette.Background = bgColor
	}

	side := snapshotInches * resolveInt(c, "dpi", cfg.Image.DPI)
	meta := sink.StreamMeta{
		RunID:  runID,
		Source: ds.source,
		Width:  side,
		Height: side,
		OutDir: outDir,
	}

	upload := resolveBool(c, "upload", cfg.Storage.Upload)
	backend := "none"
	if upload {
		backend = resolveString(c, "storage-backend", cfg.Storage.Backend)
		if backend == "" {
			backend = "fs"
		}
	}

	collector := metrics.NewCollector("final-state", "png", backend, runID, ds.source)
	collector.AbsorbIngestStats(
		ds.res.Stats.RowsRead,
		ds.res.Stats.RowsKept,
		ds.res.Stats.RowsDropped,
		ds.res.Stats.Unclassified,
		ds.res.Stats.DroppedByReason,
	)

	composer := scene.NewComposer(ds.index, logger)
	renderer := raster.NewRenderer(side, side, ds.viewport, palette)
	driver := sequence.NewDriver(composer, renderer, collector, logger, sequence.Config{})

	ctx, cancel := signalContext()
	defer cancel()

	var result *sequence.Result
	if ok {
		result, err = driver.RenderFinal(ctx, last, sink.NewPNGSink(logger), meta)
		if err != nil {
			return exitForError(err)
		}
	} else {
		// Placeholder still over the default viewport: background only.
		frame := &types.Frame{
			Caption: "Biofilm Simulation - Final State (Tick 0) - 0 cells, 0 EPS",
		}
		rendered := &sink.RenderedFrame{Caption: frame.Caption, Image: renderer.Render(frame)}
		artifact, werr := sink.NewPNGSink(logger).WriteStill(ctx, meta, rendered)
		if werr != nil {
			return exitForError(werr)
		}
		result = &sequence.Result{RunID: runID, Artifact: artifact, FramesWritten: 1}
	}

	location := ""
	if upload {
		location, err = uploadArtifact(ctx, c, cfg, collector, logger, runID, result.Artifact)
		if err != nil {
			return cli.Exit(fmt.Sprintf("upload failed: %v", err), exitFailure)
		}
	}

	if !c.Bool("quiet") {
		fmt.Printf("run_id=%s, tick=%d\n", result.RunID, last)
		fmt.Printf("artifact: %s\n", result.Artifact)
		if location != "" {
			fmt.Printf("uploaded: %s\n", location)
		}
	}
	return nil
}

// parseHexColor parses "#rrggbb" into an opaque color.
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %v", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
