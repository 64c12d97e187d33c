package main

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"worksafe/certificates"
	"worksafe/config"
	"worksafe/database"
	"worksafe/models"
	"worksafe/repository"
)

// Imports the subject registry from a CSV export. Usage: importSubjects [file.csv]
// Expected columns: codice_fiscale,cognome,nome,data_nascita,luogo_nascita,id_ente
func main() {
	path := "soggetti.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	subjects, skipped, err := parseSubjects(file)
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	log.Printf("Total rows to import: %d (%d skipped)", len(subjects), skipped)

	repo := repository.NewSubjectRepository(database.Database.Db)
	inserted, updated, failed := importSubjects(context.Background(), repo, subjects)

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Updated: %d", updated)
	log.Printf("Skipped: %d", skipped+failed)
	log.Printf("Total processed: %d", inserted+updated+skipped+failed)
}

// parseSubjects reads the CSV and returns the usable rows. Rows without a fiscal code
// or a surname are counted as skipped.
func parseSubjects(r io.Reader) ([]models.Subject, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) < 2 {
		return nil, 0, nil
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var subjects []models.Subject
	skipped := 0
	for _, row := range records[1:] {
		subject := models.Subject{
			FiscalCode: strings.ToUpper(getField(row, headerIndex, "codice_fiscale")),
			Surname:    getField(row, headerIndex, "cognome"),
			GivenName:  getField(row, headerIndex, "nome"),
			BirthPlace: getField(row, headerIndex, "luogo_nascita"),
		}
		if subject.FiscalCode == "" || subject.Surname == "" {
			skipped++
			continue
		}
		if dates := certificates.FindDates(getField(row, headerIndex, "data_nascita")); len(dates) > 0 {
			subject.DateOfBirth = &dates[0]
		}
		if id, err := strconv.ParseUint(getField(row, headerIndex, "id_ente"), 10, 32); err == nil && id > 0 {
			entityID := uint(id)
			subject.EntityID = &entityID
		}
		subjects = append(subjects, subject)
	}
	return subjects, skipped, nil
}

func importSubjects(ctx context.Context, repo *repository.SubjectRepository, subjects []models.Subject) (inserted, updated, failed int) {
	for i := range subjects {
		if i%1000 == 0 {
			log.Printf("Processing row %d...", i+1)
		}
		created, err := repo.Upsert(ctx, &subjects[i])
		if err != nil {
			log.Printf("Error importing subject %s: %v", subjects[i].FiscalCode, err)
			failed++
			continue
		}
		if created {
			inserted++
		} else {
			updated++
		}
	}
	return inserted, updated, failed
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
