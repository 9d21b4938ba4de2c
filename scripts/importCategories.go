package main

import (
	"encoding/csv"
	"log"
	"os"
	"strings"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
)

// Seeds the category table from Categories.csv (columns: name[,slug]).
// Existing slugs are left untouched so the import can be re-run.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("Categories.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(strings.ToLower(h))] = i
	}
	nameIdx, ok := headerIndex["name"]
	if !ok {
		log.Fatal("CSV has no name column")
	}

	inserted := 0
	skipped := 0

	for _, row := range records[1:] {
		name := strings.TrimSpace(row[nameIdx])
		if name == "" {
			skipped++
			continue
		}

		slug := ""
		if idx, ok := headerIndex["slug"]; ok && idx < len(row) {
			slug = strings.TrimSpace(row[idx])
		}
		if slug == "" {
			slug = strings.ReplaceAll(strings.ToLower(name), " ", "-")
		}

		var existing courseModels.Category
		if err := database.Database.Db.Where("slug = ?", slug).First(&existing).Error; err == nil {
			skipped++
			continue
		}

		category := courseModels.Category{Name: name, Slug: slug}
		if err := database.Database.Db.Create(&category).Error; err != nil {
			log.Printf("Failed to insert category %q: %v", name, err)
			skipped++
			continue
		}
		inserted++
	}

	log.Printf("Import finished: %d inserted, %d skipped", inserted, skipped)
}
