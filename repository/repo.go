package repository

import (
	"context"
	"fmt"

	"geolayers/dtos"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListDatabases lists the user databases on a server: non-template
// databases, excluding the maintenance database and databases named after
// their owner.
func (r Repo) ListDatabases(ctx context.Context) ([]string, error) {
	query := `
		SELECT d.datname
			FROM pg_catalog.pg_database d
				LEFT JOIN pg_catalog.pg_user u ON d.datdba = u.usesysid
			WHERE NOT d.datistemplate
			  AND d.datname != 'postgres'
			  AND d.datname != u.usename
			ORDER BY d.datname;
		`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	return names, nil
}

// ListTables lists the base tables of the connected database, ordered by
// schema then name so one run's output is reproducible.
func (r Repo) ListTables(ctx context.Context) ([]dtos.TableRef, error) {
	query := `
		SELECT table_schema, table_name
			FROM information_schema.tables
			WHERE table_type = 'BASE TABLE'
			  AND table_name NOT LIKE 'pg_%'
			  AND table_name NOT LIKE 'sql_%'
			ORDER BY table_schema, table_name;
		`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []dtos.TableRef
	for rows.Next() {
		var t dtos.TableRef
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	return tables, nil
}

// HasGeometryColumn reports whether a table carries a PostGIS geometry
// column, which is what makes it a layer.
func (r Repo) HasGeometryColumn(ctx context.Context, schema string, table string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
				FROM information_schema.columns
				WHERE table_schema = $1
				  AND table_name = $2
				  AND udt_name = 'geometry'
		);
		`

	var isLayer bool
	if err := r.db.QueryRow(ctx, query, schema, table).Scan(&isLayer); err != nil {
		return false, fmt.Errorf("failed to inspect columns of %s.%s: %w", schema, table, err)
	}

	return isLayer, nil
}

// CountRows returns the row count of one table.
func (r Repo) CountRows(ctx context.Context, schema string, table string) (int64, error) {
	// Identifiers can't be bound as parameters; quote them instead
	query := fmt.Sprintf("SELECT count(*) FROM %s;", pgx.Identifier{schema, table}.Sanitize())

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s.%s: %w", schema, table, err)
	}

	return count, nil
}
