package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geolayers/config"
	"geolayers/logger"
	"geolayers/services"
	"geolayers/utils"

	"github.com/spf13/cobra"
)

var (
	configPath string
	filters    []string
	noTotals   bool
	verbose    bool
	exportPath string
)

var rootCmd = &cobra.Command{
	Use:   "geolayers",
	Short: "Report row counts for PostGIS layers",
	Long: `geolayers walks one or more PostGIS servers and reports the number of rows
in each geometry table, with per-connection subtotals and a grand total.
When the configuration document carries rasters or geoserver sections, it
also counts raster coverages on the GeoServer data host and named layers
in the GeoServer catalog.

Examples:
  geolayers -c metrics.yaml
  geolayers -c metrics.yaml -F '^ESRI' -F '_backup$'
  geolayers -c metrics.yaml -T --export layers.csv`,
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "The database configuration file")
	rootCmd.Flags().StringArrayVarP(&filters, "filter", "F", nil, "Don't get counts for databases or layers matching these. Can be given more than once")
	rootCmd.Flags().BoolVarP(&noTotals, "no-totals", "T", false, "Don't print totals")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Extra output")
	rootCmd.Flags().StringVar(&exportPath, "export", "", "Also write per-layer counts to this file (.csv, .json or .parquet)")

	rootCmd.MarkFlagRequired("config")
}

func run(cmd *cobra.Command, args []string) error {
	// Initialize the logger; --verbose turns on debug diagnostics
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		LogLevel: logLevel,
	})
	// Ensure logs are flushed on exit
	defer logger.Sync()
	startTime := time.Now()

	// Create a cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Sugar.Infof("Received signal %v, initiating graceful shutdown", sig)
		cancel()
	}()

	// Everything that can fail fast does so here, before any connection
	// is attempted
	if exportPath != "" {
		if err := utils.ValidateExportPath(exportPath); err != nil {
			logger.Sugar.Fatalf("Invalid export path: %v", err)
		}
	}

	filterSet, err := utils.CompileFilters(filters)
	if err != nil {
		logger.Sugar.Fatalf("Invalid filter: %v", err)
	}

	logger.Sugar.Infow("Initializing configuration from", "configPath", configPath)
	config.InitializeConfig(configPath)

	// Initialize services
	logger.Sugar.Info("Initializing PostGIS layer counter")
	services.NewPostgisMetrics(config.PostgisServers, filterSet)

	if config.RasterStore != nil {
		logger.Sugar.Info("Initializing raster coverage counter")
		services.NewRasterMetrics(config.RasterStore, filterSet)
	}

	if config.Geoserver != nil {
		logger.Sugar.Info("Initializing GeoServer catalog counter")
		services.NewGeoserverMetrics(config.Geoserver, filterSet)
	}

	logger.Sugar.Info("Initializing report runner")
	services.NewReportRunner(os.Stdout, noTotals, exportPath)

	if err := services.ReportRunner.Run(ctx); err != nil {
		logger.Sugar.Errorf("Metrics run failed: %v", err)
		os.Exit(1)
	}

	// Report completion
	logger.Sugar.Infof("Run completed in %s", time.Since(startTime))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
