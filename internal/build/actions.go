package build

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/ragc/models"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func BuildAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	configPath := c.String("config")
	config, err := models.LoadConfig(configPath)
	if err != nil {
		logger.Error("failed to load config", "config", configPath, "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.IsSet("encoding") {
		config.Encoding = c.String("encoding")
	}
	if err := config.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	res, err := Run(c.Context, logger, config, Options{
		ConfigPath: configPath,
		OutDir:     c.String("out-dir"),
	})
	if err != nil {
		logger.Error("corpus build failed", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}

	fmt.Printf("RAG corpus built: pagesOk=%d, pagesSkipped=%d, totalChunks=%d\n",
		res.Meta.PagesOK, res.Meta.PagesSkipped, res.Meta.TotalChunks)
	for _, a := range res.Artifacts {
		fmt.Printf("Wrote: %s (%s)\n", a.Path, humanize.Bytes(uint64(a.SizeBytes)))
	}
	return nil
}
