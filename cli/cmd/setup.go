package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pellicle-io/pellicle/cli/config"
	"github.com/pellicle-io/pellicle/ingest"
	"github.com/pellicle-io/pellicle/log"
	"github.com/pellicle-io/pellicle/metrics"
	"github.com/pellicle-io/pellicle/store"
	"github.com/pellicle-io/pellicle/timeline"
	"github.com/pellicle-io/pellicle/types"
)

// defaultConfigFile is picked up from the working directory when
// --config is not given.
const defaultConfigFile = "pellicle.yaml"

// loadConfig reads the config file named by --config, or the default
// file if one exists. Config values act as flag defaults; an explicit
// flag always wins.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if c.IsSet("config") {
		return config.Load(c.String("config"))
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.Load(defaultConfigFile)
	}
	return &config.Config{}, nil
}

// resolveString returns the flag value if set, the config value if
// non-empty, or the flag's declared default.
func resolveString(c *cli.Context, name, fromConfig string) string {
	if !c.IsSet(name) && fromConfig != "" {
		return fromConfig
	}
	return c.String(name)
}

// resolveInt is resolveString for int flags. A zero config value is
// treated as unset.
func resolveInt(c *cli.Context, name string, fromConfig int) int {
	if !c.IsSet(name) && fromConfig != 0 {
		return fromConfig
	}
	return c.Int(name)
}

// resolveBool is resolveString for bool flags. A true config value can
// not be turned off by an unset flag; pass the flag explicitly to
// override.
func resolveBool(c *cli.Context, name string, fromConfig bool) bool {
	if !c.IsSet(name) && fromConfig {
		return true
	}
	return c.Bool(name)
}

// resolveInputPath picks the input CSV: an explicit --input or config
// path, otherwise the highest-numbered part file under the input dir.
func resolveInputPath(c *cli.Context, cfg *config.Config) (string, error) {
	if c.IsSet("input") {
		return c.String("input"), nil
	}
	if cfg.Input.Path != "" {
		return cfg.Input.Path, nil
	}
	return ingest.DiscoverInput(resolveString(c, "input-dir", cfg.Input.Dir))
}

// dataset bundles everything derived from one ingested input file.
type dataset struct {
	res      *ingest.Result
	index    *timeline.Index
	viewport types.Viewport
	path     string
	source   string
}

// loadDataset ingests the input file and derives the tick index and
// the fixed viewport from the last tick.
func loadDataset(path string, logger *log.Logger) (*dataset, error) {
	res, err := ingest.ReadFile(path, logger)
	if err != nil {
		return nil, err
	}

	ix := timeline.NewIndex(res.Records)
	last, _ := ix.LastTick()
	vp := timeline.ComputeViewport(ix.At(last), logger)

	return &dataset{
		res:      res,
		index:    ix,
		viewport: vp,
		path:     path,
		source:   ingest.SourceID(path),
	}, nil
}

// buildStore constructs the artifact store selected by flags/config
// and returns it with its backend name.
func buildStore(ctx context.Context, c *cli.Context, cfg *config.Config) (store.Store, string, error) {
	backend := resolveString(c, "storage-backend", cfg.Storage.Backend)
	path := resolveString(c, "storage-path", cfg.Storage.Path)

	switch backend {
	case "fs", "":
		if path == "" {
			path = "artifacts"
		}
		return store.NewFSStore(path), "fs", nil

	case "s3":
		bucket, prefix := store.ParseS3Path(path)
		s3cfg := store.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       resolveString(c, "s3-region", cfg.Storage.Region),
			Endpoint:     resolveString(c, "s3-endpoint", cfg.Storage.Endpoint),
			UsePathStyle: resolveBool(c, "s3-path-style", cfg.Storage.S3PathStyle),
		}
		s, err := store.NewS3Store(ctx, s3cfg)
		if err != nil {
			return nil, "", err
		}
		return s, "s3", nil

	default:
		return nil, "", fmt.Errorf("unknown storage-backend: %s (must be fs or s3)", backend)
	}
}

// uploadArtifact copies a finished artifact into the store under the
// run's key and records the outcome.
func uploadArtifact(ctx context.Context, c *cli.Context, cfg *config.Config, collector *metrics.Collector, logger *log.Logger, runID, artifact string) (string, error) {
	s, _, err := buildStore(ctx, c, cfg)
	if err != nil {
		return "", err
	}

	location, err := store.UploadFile(ctx, s, store.ArtifactKey(runID, artifact), artifact)
	if err != nil {
		collector.IncStoreWriteFailure()
		return "", err
	}
	collector.IncStoreWriteSuccess()
	logger.Info("artifact uploaded", map[string]any{
		"artifact": artifact,
		"location": location,
	})
	return location, nil
}

// exitForError maps an error onto the command exit code: unusable
// input exits 1, everything else exits 2.
func exitForError(err error) error {
	var ingErr *ingest.IngestionError
	if errors.As(err, &ingErr) {
		return cli.Exit(err.Error(), exitIngestion)
	}
	return cli.Exit(err.Error(), exitFailure)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}
