package cmd

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/urfave/cli/v2"

	"github.com/pellicle-io/pellicle/cli/reader"
	"github.com/pellicle-io/pellicle/cli/render"
	"github.com/pellicle-io/pellicle/log"
)

// InspectCommand returns the inspect command: a read-only dataset
// summary. No frames are rendered and no artifacts are written.
func InspectCommand() *cli.Command {
	flags := InputFlags()
	flags = append(flags, ReadOnlyFlags()...)

	return &cli.Command{
		Name:   "inspect",
		Usage:  "Summarize a simulation dataset without rendering",
		Flags:  flags,
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	path, err := resolveInputPath(c, cfg)
	if err != nil {
		return exitForError(err)
	}

	logger := log.NewLogger(log.DatasetMeta{Source: path})
	ds, err := loadDataset(path, logger)
	if err != nil {
		return exitForError(err)
	}

	summary := reader.Summarize(ds.res, ds.index, ds.viewport)
	summary.Path = ds.path

	if c.Bool("tui") {
		return r.RenderTUI("inspect_dataset", summary)
	}

	if err := r.Render(summary); err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	// Table output gets the trend plot inline; structured formats
	// carry the raw trend points instead.
	if r.Format() == render.FormatTable && len(summary.Trend) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(summary.CellTrend(),
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("cell count by tick"),
		))
	}
	return nil
}
