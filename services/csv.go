package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/shopspring/decimal"
)

// ProductCSVColumns is the export order. Import matches headers by name.
var ProductCSVColumns = []string{
	"name",
	"slug",
	"price",
	"compare_at_price",
	"category",
	"wood_type",
	"stock_quantity",
	"low_stock_threshold",
	"description",
	"care_instructions",
	"shipping_info",
	"is_active",
	"is_featured",
	"is_trending",
}

// ImportRow is one parsed product with the columns the file actually set.
type ImportRow struct {
	Line    int
	Product tables.Product
	Columns []string
}

func WriteProductsCSV(w io.Writer, products []tables.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ProductCSVColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range products {
		compareAt := ""
		if p.CompareAtPrice != nil {
			compareAt = p.CompareAtPrice.String()
		}
		record := []string{
			p.Name,
			p.Slug,
			p.Price.String(),
			compareAt,
			p.Category,
			p.WoodType,
			strconv.Itoa(p.StockQuantity),
			strconv.Itoa(p.LowStockThreshold),
			p.Description,
			p.CareInstructions,
			p.ShippingInfo,
			strconv.FormatBool(p.IsActive),
			strconv.FormatBool(p.IsFeatured),
			strconv.FormatBool(p.IsTrending),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", p.Slug, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseProductsCSV reads every row it can. Rows that fail validation are
// reported and skipped; a malformed file stops the read at that point.
func ParseProductsCSV(r io.Reader) ([]ImportRow, []structs.ImportRowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("csv file is empty")
		}
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if slices.Contains(ProductCSVColumns, name) {
			if _, dup := index[name]; !dup {
				index[name] = i
			}
		}
	}
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return nil, nil, fmt.Errorf("csv header is missing required column %q", required)
		}
	}

	var rows []ImportRow
	var rowErrors []structs.ImportRowError
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			line := 0
			if errors.As(err, &parseErr) {
				line = parseErr.StartLine
			}
			rowErrors = append(rowErrors, structs.ImportRowError{Line: line, Message: err.Error()})
			break
		}

		line, _ := cr.FieldPos(0)
		row, err := parseProductRecord(record, index)
		if err != nil {
			rowErrors = append(rowErrors, structs.ImportRowError{Line: line, Message: err.Error()})
			continue
		}
		row.Line = line
		rows = append(rows, *row)
	}

	return rows, rowErrors, nil
}

func parseProductRecord(record []string, index map[string]int) (*ImportRow, error) {
	get := func(col string) (string, bool) {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	row := &ImportRow{Product: tables.Product{IsActive: true, LowStockThreshold: 5, Images: []string{}}}
	p := &row.Product

	name, _ := get("name")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	p.Name = name

	rawPrice, _ := get("price")
	if rawPrice == "" {
		return nil, fmt.Errorf("price is required")
	}
	price, err := parseMoney(rawPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", rawPrice)
	}
	p.Price = price

	if slug, _ := get("slug"); slug != "" {
		p.Slug = lib.Slugify(slug)
	} else {
		p.Slug = lib.Slugify(name)
	}
	if p.Slug == "" {
		return nil, fmt.Errorf("cannot derive a slug from name %q", name)
	}
	row.Columns = append(row.Columns, "name", "slug", "price")

	for _, col := range ProductCSVColumns[3:] {
		val, present := get(col)
		if !present {
			continue
		}
		if err := setProductColumn(p, col, val); err != nil {
			return nil, err
		}
		row.Columns = append(row.Columns, col)
	}
	return row, nil
}

func setProductColumn(p *tables.Product, col, val string) error {
	switch col {
	case "compare_at_price":
		if val == "" {
			p.CompareAtPrice = nil
			return nil
		}
		d, err := parseMoney(val)
		if err != nil {
			return fmt.Errorf("invalid compare_at_price %q", val)
		}
		p.CompareAtPrice = &d
	case "category":
		p.Category = val
	case "wood_type":
		p.WoodType = val
	case "stock_quantity", "low_stock_threshold":
		n := 0
		if val != "" {
			var err error
			if n, err = strconv.Atoi(val); err != nil || n < 0 {
				return fmt.Errorf("invalid %s %q", col, val)
			}
		}
		if col == "stock_quantity" {
			p.StockQuantity = n
		} else {
			p.LowStockThreshold = n
		}
	case "description":
		p.Description = val
	case "care_instructions":
		p.CareInstructions = val
	case "shipping_info":
		p.ShippingInfo = val
	case "is_active", "is_featured", "is_trending":
		b, err := parseCSVBool(val, col == "is_active")
		if err != nil {
			return fmt.Errorf("invalid %s %q", col, val)
		}
		switch col {
		case "is_active":
			p.IsActive = b
		case "is_featured":
			p.IsFeatured = b
		default:
			p.IsTrending = b
		}
	}
	return nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer("₹", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount")
	}
	return d, nil
}

func parseCSVBool(s string, empty bool) (bool, error) {
	switch strings.ToLower(s) {
	case "":
		return empty, nil
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean")
}
