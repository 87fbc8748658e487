package leads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var (
	ErrEmptyCSV  = errors.New("no columns to parse from file")
	ErrNoResults = errors.New("no results yet")
)

// Columns lists the recognized lead columns in export order.
var Columns = []string{"name", "role", "company", "industry", "location", "linkedin_bio"}

var exportHeader = append(append([]string{}, Columns...), "intent", "score", "reasoning")

// ParseCSV reads leads from a tabular payload. Headers are matched case-insensitively,
// missing recognized columns are filled with empty strings and unknown ones are ignored.
func ParseCSV(r io.Reader) ([]Lead, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(Columns))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var leads []Lead
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		row := make(map[string]string, len(Columns))
		for _, column := range Columns {
			i, ok := index[column]
			if !ok || i >= len(record) {
				row[column] = ""
				continue
			}
			row[column] = strings.TrimSpace(record[i])
		}

		lead, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", line, err)
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

func decodeRow(row map[string]string) (Lead, error) {
	var lead Lead
	cfg := &mapstructure.DecoderConfig{
		Result:  &lead,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return Lead{}, err
	}
	if err := decoder.Decode(row); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// WriteCSV serializes the result set with one row per scored lead in run order.
func WriteCSV(w io.Writer, results *ResultSet) error {
	if results.Len() == 0 {
		return ErrNoResults
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, item := range results.Items {
		record := []string{
			item.Name,
			item.Role,
			item.Company,
			item.Industry,
			item.Location,
			item.LinkedinBio,
			string(item.Intent),
			strconv.Itoa(item.Score),
			item.Reasoning,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadResultsCSV parses an export produced by WriteCSV back into scored leads.
func ReadResultsCSV(r io.Reader) ([]ScoredLead, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyCSV
	}

	items := make([]ScoredLead, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(exportHeader) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i+2, len(exportHeader), len(record))
		}
		score, err := strconv.Atoi(record[7])
		if err != nil {
			return nil, fmt.Errorf("row %d: score: %w", i+2, err)
		}
		items = append(items, ScoredLead{
			Lead: Lead{
				Name:        record[0],
				Role:        record[1],
				Company:     record[2],
				Industry:    record[3],
				Location:    record[4],
				LinkedinBio: record[5],
			},
			Intent:    Intent(record[6]),
			Score:     score,
			Reasoning: record[8],
		})
	}
	return items, nil
}
