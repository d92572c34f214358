// Package cmd implements the pellicle CLI commands.
package cmd

import "github.com/urfave/cli/v2"

// Exit codes shared by all commands.
const (
	exitSuccess   = 0
	exitIngestion = 1
	exitFailure   = 2
)

// Shared flags for read-only output surfaces.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode",
	}
)

// ReadOnlyFlags returns the shared flags for read-only output.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// InputFlags returns the flags every dataset-consuming command shares.
func InputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Input CSV file (default: highest part file under --input-dir)",
		},
		&cli.StringFlag{
			Name:  "input-dir",
			Usage: "Directory scanned for simulation part files",
			Value: "input",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to pellicle.yaml config file",
		},
	}
}

// StorageFlags returns the artifact store flags shared by render and
// snapshot.
func StorageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "upload",
			Usage: "Copy the finished artifact into the artifact store",
		},
		&cli.StringFlag{
			Name:  "storage-backend",
			Usage: "Artifact store backend: fs or s3",
		},
		&cli.StringFlag{
			Name:  "storage-path",
			Usage: "Artifact store path (fs: directory, s3: bucket/prefix)",
		},
		&cli.StringFlag{
			Name:  "s3-region",
			Usage: "AWS region for the s3 backend (optional, uses default chain)",
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "Custom S3 endpoint URL for S3-compatible providers",
		},
		&cli.BoolFlag{
			Name:  "s3-path-style",
			Usage: "Force path-style S3 addressing",
		},
	}
}
