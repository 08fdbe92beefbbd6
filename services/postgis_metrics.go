package services

import (
	"context"

	"geolayers/config"
	"geolayers/dtos"
	"geolayers/dtos/common"
	"geolayers/logger"
	"geolayers/repository"
	"geolayers/utils"
)

var PostgisMetrics = &postgisMetrics{}

// CatalogSource is the slice of the repository the counter walks: database
// and table enumeration, geometry detection, and row counts.
type CatalogSource interface {
	ListDatabases(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context) ([]dtos.TableRef, error)
	HasGeometryColumn(ctx context.Context, schema string, table string) (bool, error)
	CountRows(ctx context.Context, schema string, table string) (int64, error)
}

// connectFunc opens a catalog source for one database on one server and
// returns a close function for it.
type connectFunc func(ctx context.Context, details common.ConnectionDetails, database string) (CatalogSource, func(), error)

type postgisMetrics struct {
	servers []common.ConnectionDetails
	filters *utils.FilterSet
	connect connectFunc
}

// NewPostgisMetrics initializes the PostGIS layer counter with the
// configured servers and the compiled filter set.
func NewPostgisMetrics(servers []common.ConnectionDetails, filters *utils.FilterSet) {
	PostgisMetrics = &postgisMetrics{
		servers: servers,
		filters: filters,
		connect: connectCatalog,
	}
}

func connectCatalog(ctx context.Context, details common.ConnectionDetails, database string) (CatalogSource, func(), error) {
	conn, err := config.NewPostgresConnection(details, database)
	if err != nil {
		return nil, nil, err
	}
	if err := conn.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return repository.NewRepo(conn.Pool()), conn.Close, nil
}

// GetCounts walks the configured servers in document order, one at a time,
// and returns one report per connection descriptor. A server that fails to
// connect yields a failure report and does not stop its siblings.
func (p *postgisMetrics) GetCounts(ctx context.Context) []dtos.ConnectionReport {
	reports := make([]dtos.ConnectionReport, 0, len(p.servers))

	for _, server := range p.servers {
		if ctx.Err() != nil {
			logger.Sugar.Info("Layer counting stopped due to context cancellation")
			break
		}
		reports = append(reports, p.drainServer(ctx, server))
	}

	return reports
}

// drainServer enumerates the databases of one server and counts the layers
// of each before the next server is attempted.
func (p *postgisMetrics) drainServer(ctx context.Context, server common.ConnectionDetails) dtos.ConnectionReport {
	report := dtos.ConnectionReport{Host: server.Host}

	// Enumerate databases through the maintenance database
	src, closeSrc, err := p.connect(ctx, server, "postgres")
	if err != nil {
		logger.Sugar.Errorf("Failed to connect to %s: %v", server.Host, err)
		report.Err = err
		return report
	}

	databases, err := src.ListDatabases(ctx)
	closeSrc()
	if err != nil {
		logger.Sugar.Errorf("Failed to list databases on %s: %v", server.Host, err)
		report.Err = err
		return report
	}

	logger.Sugar.Debugf("Found %d databases on %s", len(databases), server.Host)

	for _, database := range databases {
		if p.filters.Matches(database) {
			logger.Sugar.Debugf("Skipping filtered database %s on %s", database, server.Host)
			continue
		}

		layers, failures := p.drainDatabase(ctx, server, database)
		report.Layers = append(report.Layers, layers...)
		report.CountFailures += failures
	}

	return report
}

// drainDatabase counts the geometry tables of one database. Per-layer
// failures are logged and skipped; the remaining tables are still counted.
func (p *postgisMetrics) drainDatabase(ctx context.Context, server common.ConnectionDetails, database string) ([]dtos.LayerCount, int) {
	src, closeSrc, err := p.connect(ctx, server, database)
	if err != nil {
		logger.Sugar.Errorf("Failed to connect to database %s on %s: %v", database, server.Host, err)
		return nil, 1
	}
	defer closeSrc()

	tables, err := src.ListTables(ctx)
	if err != nil {
		logger.Sugar.Errorf("Failed to list tables of %s on %s: %v", database, server.Host, err)
		return nil, 1
	}

	var layers []dtos.LayerCount
	failures := 0

	for _, table := range tables {
		if p.filters.Matches(table.Name) {
			logger.Sugar.Debugf("Skipping filtered table %s.%s in %s", table.Schema, table.Name, database)
			continue
		}

		isLayer, err := src.HasGeometryColumn(ctx, table.Schema, table.Name)
		if err != nil {
			logger.Sugar.Errorf("Failed to inspect %s.%s in %s on %s: %v", table.Schema, table.Name, database, server.Host, err)
			failures++
			continue
		}
		if !isLayer {
			continue
		}

		count, err := src.CountRows(ctx, table.Schema, table.Name)
		if err != nil {
			logger.Sugar.Errorf("Failed to count %s.%s in %s on %s: %v", table.Schema, table.Name, database, server.Host, err)
			failures++
			continue
		}

		logger.Sugar.Debugf("Counted %d rows in layer %s.%s.%s on %s", count, database, table.Schema, table.Name, server.Host)

		layers = append(layers, dtos.LayerCount{
			Host:     server.Host,
			Database: database,
			Schema:   table.Schema,
			Table:    table.Name,
			Rows:     count,
		})
	}

	return layers, failures
}
