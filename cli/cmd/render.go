package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pellicle-io/pellicle/cli/config"
	"github.com/pellicle-io/pellicle/cli/render"
	"github.com/pellicle-io/pellicle/cli/tui"
	"github.com/pellicle-io/pellicle/log"
	"github.com/pellicle-io/pellicle/metrics"
	"github.com/pellicle-io/pellicle/raster"
	"github.com/pellicle-io/pellicle/scene"
	"github.com/pellicle-io/pellicle/sequence"
	"github.com/pellicle-io/pellicle/sink"
)

// RenderCommand returns the render command: the full video pipeline
// from CSV input to an encoded artifact.
func RenderCommand() *cli.Command {
	flags := InputFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:    "out-dir",
			Aliases: []string{"o"},
			Usage:   "Directory artifacts are written into",
			Value:   "output",
		},
		&cli.IntFlag{
			Name:  "fps",
			Usage: "Playback frame rate",
			Value: 60,
		},
		&cli.IntFlag{
			Name:  "bitrate",
			Usage: "Target video bitrate in kbit/s",
			Value: 1800,
		},
		&cli.StringFlag{
			Name:  "codec",
			Usage: "Video codec for the encoder sink",
			Value: "h264",
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "Frame width in pixels",
			Value: 800,
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "Frame height in pixels",
			Value: 800,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent frame builders",
			Value: 4,
		},
		&cli.StringFlag{
			Name:  "sink",
			Usage: "Frame sink: auto, encoder, gif, display",
			Value: "auto",
		},
		&cli.StringFlag{
			Name:  "encoder",
			Usage: "External encoder binary name",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "Show run statistics after completion",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress the run summary",
		},
	)
	flags = append(flags, StorageFlags()...)
	flags = append(flags, ReadOnlyFlags()...)

	return &cli.Command{
		Name:   "render",
		Usage:  "Render the full simulation as a video",
		Flags:  flags,
		Action: renderAction,
	}
}

func renderAction(c *cli.Context) error {
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
	if ds.index.Empty() {
		logger.Warn("no renderable ticks, producing no frames", map[string]any{"path": path})
		if !c.Bool("quiet") {
			fmt.Println("no renderable ticks, nothing to do")
		}
		return nil
	}

	outDir := resolveString(c, "out-dir", cfg.Output.Dir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return cli.Exit(fmt.Sprintf("cannot create output dir: %v", err), exitFailure)
	}

	meta := sink.StreamMeta{
		RunID:   runID,
		Source:  ds.source,
		Width:   resolveInt(c, "width", cfg.Video.Width),
		Height:  resolveInt(c, "height", cfg.Video.Height),
		FPS:     resolveInt(c, "fps", cfg.Video.FPS),
		Bitrate: resolveInt(c, "bitrate", cfg.Video.Bitrate),
		Codec:   resolveString(c, "codec", cfg.Video.Codec),
		OutDir:  outDir,
	}

	ctx, cancel := signalContext()
	defer cancel()
	if d := cfg.Video.EncoderTimeout.Duration; d > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, d)
		defer timeoutCancel()
	}

	chain, err := buildSinkChain(c, cfg, logger)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	out, err := chain.Open(ctx, meta)
	if err != nil {
		return exitForError(err)
	}

	upload := resolveBool(c, "upload", cfg.Storage.Upload)
	backend := "none"
	if upload {
		backend = resolveString(c, "storage-backend", cfg.Storage.Backend)
		if backend == "" {
			backend = "fs"
		}
	}

	collector := metrics.NewCollector("video", chain.Selected, backend, runID, ds.source)
	collector.AbsorbIngestStats(
		ds.res.Stats.RowsRead,
		ds.res.Stats.RowsKept,
		ds.res.Stats.RowsDropped,
		ds.res.Stats.Unclassified,
		ds.res.Stats.DroppedByReason,
	)
	for i := 0; i < chain.Fallbacks; i++ {
		collector.IncSinkFallback()
	}

	composer := scene.NewComposer(ds.index, logger)
	renderer := raster.NewRenderer(meta.Width, meta.Height, ds.viewport, raster.DefaultPalette)
	driver := sequence.NewDriver(composer, renderer, collector, logger, sequence.Config{
		Workers: resolveInt(c, "workers", cfg.Video.Workers),
	})

	result, err := driver.RenderVideo(ctx, ds.index.Ticks(), sink.NewInstrumentedSink(out, collector), meta)
	if err != nil {
		return exitForError(err)
	}

	location := ""
	if upload && result.Artifact != "" {
		location, err = uploadArtifact(ctx, c, cfg, collector, logger, runID, result.Artifact)
		if err != nil {
			return cli.Exit(fmt.Sprintf("upload failed: %v", err), exitFailure)
		}
	}

	if !c.Bool("quiet") {
		printRunSummary(result, chain.Selected, location)
	}

	if c.Bool("stats") {
		if err := showStats(c, collector.Snapshot()); err != nil {
			return cli.Exit(err.Error(), exitFailure)
		}
	}
	return nil
}

// buildSinkChain assembles the fallback chain for the selected sink
// mode. "auto" tries the encoder first, then GIF, then the interactive
// display.
func buildSinkChain(c *cli.Context, cfg *config.Config, logger *log.Logger) (*sink.Chain, error) {
	encoderCand := sink.Candidate{Name: "encoder", New: func() sink.FrameSink {
		return sink.NewEncoderSink(resolveString(c, "encoder", cfg.Video.Encoder), logger)
	}}
	gifCand := sink.Candidate{Name: "gif", New: func() sink.FrameSink {
		return sink.NewGIFSink(logger)
	}}
	displayCand := sink.Candidate{Name: "display", New: func() sink.FrameSink {
		return sink.NewDisplaySink(tui.ShowFrames, logger)
	}}

	switch mode := resolveString(c, "sink", cfg.Output.Sink); mode {
	case "auto", "":
		return sink.NewChain(logger, encoderCand, gifCand, displayCand), nil
	case "encoder":
		return sink.NewChain(logger, encoderCand), nil
	case "gif":
		return sink.NewChain(logger, gifCand), nil
	case "display":
		return sink.NewChain(logger, displayCand), nil
	default:
		return nil, fmt.Errorf("unknown sink: %s (must be auto, encoder, gif or display)", mode)
	}
}

func printRunSummary(result *sequence.Result, selected, location string) {
	fmt.Printf("run_id=%s, sink=%s, frames=%d, skipped=%d\n",
		result.RunID, selected, result.FramesWritten, result.TicksSkipped)
	if result.Artifact != "" {
		fmt.Printf("artifact: %s\n", result.Artifact)
	}
	if location != "" {
		fmt.Printf("uploaded: %s\n", location)
	}
}

// showStats renders the run metrics snapshot, interactively when
// --tui is set.
func showStats(c *cli.Context, snap metrics.Snapshot) error {
	if c.Bool("tui") {
		return tui.Run("stats_run", &snap)
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(snap)
}
