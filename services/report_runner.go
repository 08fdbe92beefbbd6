package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"geolayers/dtos"
	"geolayers/logger"
	"geolayers/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var ReportRunner = &reportRunner{}

type reportRunner struct {
	out        io.Writer
	noTotals   bool
	exportPath string
	runID      string
	startTime  time.Time
}

// runResults carries what each collector produced for rendering.
type runResults struct {
	postgis      []dtos.ConnectionReport
	coverages    []dtos.CoverageCount
	rasterTotal  int
	rasterRan    bool
	namedLayers  int
	geoserverRan bool
}

// NewReportRunner initializes the report runner. Report lines go to out;
// the export path may be empty.
func NewReportRunner(out io.Writer, noTotals bool, exportPath string) {
	ReportRunner = &reportRunner{
		out:        out,
		noTotals:   noTotals,
		exportPath: exportPath,
		runID:      uuid.New().String(),
		startTime:  time.Now(),
	}
}

// Run drives the configured collectors in order and renders the report.
// Individual collector failures are contained; only a failed export is an
// error.
func (r *reportRunner) Run(ctx context.Context) error {
	logger.Sugar.Infow("Starting metrics run", "run_id", r.runID)

	results := runResults{
		postgis: PostgisMetrics.GetCounts(ctx),
	}

	if RasterMetrics != nil {
		results.rasterRan = true
		coverages, total, err := RasterMetrics.GetCounts()
		if err != nil {
			logger.Sugar.Errorf("Raster coverage count failed: %v", err)
		} else {
			results.coverages = coverages
			results.rasterTotal = total
		}
	}

	if GeoserverMetrics != nil {
		results.geoserverRan = true
		named, err := GeoserverMetrics.GetCounts(ctx)
		if err != nil {
			logger.Sugar.Errorf("GeoServer catalog count failed: %v", err)
		} else {
			results.namedLayers = named
		}
	}

	r.render(results)

	if r.exportPath != "" {
		records := lo.FlatMap(results.postgis, func(rep dtos.ConnectionReport, _ int) []dtos.LayerCount {
			return rep.Layers
		})
		if err := utils.ExportLayerCounts(r.exportPath, records); err != nil {
			return err
		}
	}

	logger.Sugar.Infow("Metrics run completed", "run_id", r.runID, "duration", time.Since(r.startTime).String())
	return nil
}

// render writes the report lines: per-layer and per-connection lines
// always, summary totals unless suppressed.
func (r *reportRunner) render(results runResults) {
	for _, report := range results.postgis {
		if report.Err != nil {
			// Already logged by the collector; a failed connection
			// contributes nothing to the report body
			continue
		}
		for _, layer := range report.Layers {
			fmt.Fprintf(r.out, "%s\t%s\t%d\n", layer.Host, layer.QualifiedName(), layer.Rows)
		}
		fmt.Fprintf(r.out, "%s\tsubtotal\t%d\n", report.Host, report.Subtotal())
	}

	for _, coverage := range results.coverages {
		fmt.Fprintf(r.out, "%s\t%d\n", coverage.Dir, coverage.Tiffs)
	}

	if r.noTotals {
		return
	}

	grandTotal := lo.SumBy(results.postgis, func(rep dtos.ConnectionReport) int64 { return rep.Subtotal() })
	titleCount := lo.SumBy(results.postgis, func(rep dtos.ConnectionReport) int { return rep.TitleCount() })

	fmt.Fprintf(r.out, "layers\t%d\n", grandTotal)
	if results.rasterRan {
		fmt.Fprintf(r.out, "rasters\t%d\n", results.rasterTotal)
		fmt.Fprintf(r.out, "titles\t%d\n", results.rasterTotal+titleCount)
	}
	if results.geoserverRan {
		fmt.Fprintf(r.out, "named layers\t%d\n", results.namedLayers)
	}
}
