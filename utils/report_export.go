package utils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"geolayers/dtos"
	"geolayers/logger"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetLayerCount mirrors dtos.LayerCount with a Parquet schema.
type parquetLayerCount struct {
	Host     string `parquet:"name=host, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Database string `parquet:"name=database, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Schema   string `parquet:"name=schema, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Table    string `parquet:"name=table, type=BYTE_ARRAY, convertedtype=UTF8"`
	Rows     int64  `parquet:"name=rows, type=INT64"`
}

// ValidateExportPath checks the export file extension up front, before any
// database work starts.
func ValidateExportPath(path string) error {
	switch filepath.Ext(path) {
	case ".csv", ".json", ".parquet":
		return nil
	default:
		return fmt.Errorf("unsupported export format %q: use .csv, .json or .parquet", filepath.Ext(path))
	}
}

// ExportLayerCounts writes one record per counted layer to path, choosing
// the format by file extension.
func ExportLayerCounts(path string, records []dtos.LayerCount) error {
	switch filepath.Ext(path) {
	case ".csv":
		return exportCSV(path, records)
	case ".json":
		return exportJSON(path, records)
	case ".parquet":
		return exportParquet(path, records)
	default:
		return fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}

func exportCSV(path string, records []dtos.LayerCount) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	header := []string{"host", "database", "schema", "table", "rows"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{rec.Host, rec.Database, rec.Schema, rec.Table, strconv.FormatInt(rec.Rows, 10)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	logger.Sugar.Infof("Exported %d layer counts to %s", len(records), path)
	return nil
}

func exportJSON(path string, records []dtos.LayerCount) error {
	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Sugar.Infof("Exported %d layer counts to %s", len(records), path)
	return nil
}

func exportParquet(path string, records []dtos.LayerCount) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	pw, err := writer.NewParquetWriterFromWriter(file, new(parquetLayerCount), 1)
	if err != nil {
		return fmt.Errorf("failed to create Parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		row := parquetLayerCount{
			Host:     rec.Host,
			Database: rec.Database,
			Schema:   rec.Schema,
			Table:    rec.Table,
			Rows:     rec.Rows,
		}
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("failed to write Parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish Parquet file: %w", err)
	}

	logger.Sugar.Infof("Exported %d layer counts to %s", len(records), path)
	return nil
}
