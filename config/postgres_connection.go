package config

import (
	"context"
	"fmt"

	"geolayers/dtos/common"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConnection implements a connection to one database on one PostGIS
// server. The counter drains a connection fully before opening the next, so
// the pool stays tiny.
type PostgresConnection struct {
	connectionDetails common.ConnectionDetails
	database          string
	pool              *pgxpool.Pool
}

// NewPostgresConnection creates a new PostgreSQL connection for the given
// connection descriptor and database name
func NewPostgresConnection(connectionDetails common.ConnectionDetails, database string) (*PostgresConnection, error) {
	// Validate connection details
	if err := connectionDetails.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection details: %w", err)
	}

	if database == "" {
		return nil, fmt.Errorf("invalid connection details: database is required")
	}

	// Return a new PostgreSQL connection (not yet connected)
	return &PostgresConnection{
		connectionDetails: connectionDetails,
		database:          database,
	}, nil
}

// Connect establishes the database connection
func (p *PostgresConnection) Connect(ctx context.Context) error {
	// Always use 'prefer' as the default SSL mode since the ConnectionDetails doesn't have an SSLMode field
	const sslMode = "prefer"

	// Build connection string
	postgresDSN := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.connectionDetails.User,
		p.connectionDetails.Password,
		p.connectionDetails.Host,
		p.connectionDetails.Port,
		p.database,
		sslMode,
	)

	poolConfig, err := pgxpool.ParseConfig(postgresDSN)
	if err != nil {
		return fmt.Errorf("failed to parse PostgreSQL DSN: %w", err)
	}

	// Sequential walk, one statement in flight at a time
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 1

	// Application name for connection identification (optional)
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "geolayers"

	// Create connection pool
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Fail here rather than on the first catalog query so a bad host is
	// reported against the connection, not a layer
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping %s: %w", p.connectionDetails.Host, err)
	}

	p.pool = pool

	return nil
}

// Close closes the database connection
func (p *PostgresConnection) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// IsHealthy checks if the connection is healthy
func (p *PostgresConnection) IsHealthy(ctx context.Context) bool {
	if p.pool == nil {
		return false
	}
	return p.pool.Ping(ctx) == nil
}

// Pool returns the underlying connection pool
func (p *PostgresConnection) Pool() *pgxpool.Pool {
	return p.pool
}
