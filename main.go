package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"coros-extract/internal/config"
	"coros-extract/internal/coros"
	"coros-extract/internal/logger"
	"coros-extract/internal/service"
	"coros-extract/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	exportFlag := flag.String("export", "", "export original activity files instead of extracting JSON (csv|gpx|kml|tcx|fit)")
	outFlag := flag.String("out", "", "override the output path (JSON file, or directory in export mode)")
	configFlag := flag.String("config", "", "path to the config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your COROS Training Hub account and password.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer zlog.Sync()

	client := coros.NewClient(
		cfg.HTTP.BaseURL,
		time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second,
		zlog.Named("coros"),
	)

	ctx := context.Background()

	if *exportFlag != "" {
		fileType, err := coros.ParseFileType(*exportFlag)
		if err != nil {
			return err
		}

		dir := cfg.Output.ExportDir
		if *outFlag != "" {
			dir = *outFlag
		}

		exporter := service.NewExporter(client, store.NewExportDir(dir, zlog.Named("store")), zlog.Named("export"))
		result, err := exporter.Run(ctx, cfg.Coros.Account, cfg.Coros.Password, fileType)
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d of %d activities to %s/ (%d skipped)\n",
			result.Processed, result.Listed, dir, result.Skipped)
		return nil
	}

	path := cfg.Output.ActivitiesPath
	if *outFlag != "" {
		path = *outFlag
	}

	extractor := service.NewExtractor(client, store.NewJSONStore(path, zlog.Named("store")), zlog.Named("extract"))
	result, err := extractor.Run(ctx, cfg.Coros.Account, cfg.Coros.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Extracted %d of %d activities to %s (%d skipped)\n",
		result.Processed, result.Listed, path, result.Skipped)
	return nil
}
