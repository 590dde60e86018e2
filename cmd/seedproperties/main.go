// Command seedproperties loads the property catalog from an Excel sheet.
// The first sheet must have a header row followed by one property per row:
// Name, Cleaning Cost, Check-in Fee, Commission %, Team Payment.
// Usage: go run ./cmd/seedproperties [-file properties.xlsx] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"staybook/internal/config"
	"staybook/internal/domain"
	"staybook/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := flag.String("file", "db/seeds/properties.xlsx", "catalog spreadsheet")
	dryRun := flag.Bool("dry-run", false, "parse and print without writing to the database")
	flag.Parse()

	f, err := excelize.OpenFile(*xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	props, skipped, err := parseCatalog(f)
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	log.Printf("catalog: %d properties, %d rows skipped", len(props), skipped)

	if *dryRun {
		for i := range props {
			p := &props[i]
			log.Printf("%s: cleaning %.2f, check-in %.2f, commission %.2f%%, team %.2f",
				p.Name, p.CleaningCost, p.CheckInFee, p.CommissionPct, p.TeamPayment)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := postgres.NewPropertyRepo(db)
	ctx := context.Background()
	for i := range props {
		if err := repo.UpsertProperty(ctx, &props[i]); err != nil {
			return fmt.Errorf("upsert %q: %w", props[i].Name, err)
		}
		log.Printf("upserted #%d %s", props[i].ID, props[i].Name)
	}
	return nil
}

// parseCatalog reads the first sheet. Rows without a name are skipped, as
// are rows whose numeric cells do not parse.
func parseCatalog(f *excelize.File) ([]domain.Property, int, error) {
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, 0, err
	}

	var props []domain.Property
	skipped := 0
	seen := make(map[string]bool)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		name := strings.TrimSpace(cell(row, 0))
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			log.Printf("WARN: row %d: duplicate property %q", i+1, name)
			skipped++
			continue
		}

		var nums [4]float64
		ok := true
		for j := range nums {
			v, err := parseAmount(cell(row, j+1))
			if err != nil {
				log.Printf("WARN: row %d: column %d: %v", i+1, j+2, err)
				ok = false
				break
			}
			nums[j] = v
		}
		if !ok {
			skipped++
			continue
		}
		if nums[2] < 0 || nums[2] > 100 {
			log.Printf("WARN: row %d: commission %.2f out of range", i+1, nums[2])
			skipped++
			continue
		}

		seen[key] = true
		props = append(props, domain.Property{
			Name:          name,
			CleaningCost:  nums[0],
			CheckInFee:    nums[1],
			CommissionPct: nums[2],
			TeamPayment:   nums[3],
		})
	}
	return props, skipped, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseAmount accepts blank cells as zero, plus "15%", "R$ 1.234,50" and "1,234.50".
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
