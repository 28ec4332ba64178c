// Package ingest loads sale and inventory records from CSV exports so the
// engines can run without a database.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type columns map[string]int

func readHeader(reader *csv.Reader, required ...string) (columns, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(columns, len(header))
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, name := range required {
		if _, ok := colMap[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return colMap, nil
}

func (c columns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadSales parses order lines. Only rows for productID are kept unless it
// is empty.
func ReadSales(r io.Reader, productID string) ([]domain.SaleRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colMap, err := readHeader(reader, "product_id", "created_at", "quantity")
	if err != nil {
		return nil, err
	}

	var records []domain.SaleRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading record on line %d: %w", line, err)
		}

		id := colMap.get(row, "product_id")
		if productID != "" && id != productID {
			continue
		}

		ts, err := parseTimestamp(colMap.get(row, "created_at"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		qty, err := strconv.Atoi(colMap.get(row, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity: %w", line, err)
		}
		if qty < 0 {
			return nil, fmt.Errorf("line %d: negative quantity %d", line, qty)
		}

		records = append(records, domain.SaleRecord{
			ProductID:   id,
			ProductName: colMap.get(row, "product_name"),
			Category:    colMap.get(row, "category"),
			Timestamp:   ts,
			Quantity:    qty,
		})
	}

	log.Debug().Int("records", len(records)).Str("product_id", productID).Msg("ingest: sales loaded")
	return records, nil
}

// ReadInventory parses a buyer's stock lines.
func ReadInventory(r io.Reader) ([]domain.InventoryItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colMap, err := readHeader(reader, "product_id", "current_stock", "min_stock_threshold", "price")
	if err != nil {
		return nil, err
	}

	var items []domain.InventoryItem
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading record on line %d: %w", line, err)
		}

		item := domain.InventoryItem{
			ProductID:   colMap.get(row, "product_id"),
			ProductName: colMap.get(row, "product_name"),
			Category:    colMap.get(row, "category"),
		}
		if item.CurrentStock, err = count(colMap, row, "current_stock"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if item.MinStockThreshold, err = count(colMap, row, "min_stock_threshold"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if item.LeadTimeDays, err = count(colMap, row, "lead_time_days"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if item.UnitPrice, err = strconv.ParseFloat(colMap.get(row, "price"), 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid price: %w", line, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func ReadSalesFile(path, productID string) ([]domain.SaleRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ReadSales(file, productID)
}

func ReadInventoryFile(path string) ([]domain.InventoryItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ReadInventory(file)
}

// count reads a non-negative integer column. An empty cell is zero.
func count(c columns, row []string, name string) (int, error) {
	s := c.get(row, name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative %s %d", name, n)
	}
	return n, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q", value)
}
