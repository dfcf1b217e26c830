package questions

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmpty          = errors.New("CSV is empty")
	ErrMissingColumns = errors.New(`missing required columns: "target_string", "answer_regex", "time"`)
	ErrNoQuestions    = errors.New("no valid questions found in CSV")
)

// Entry is one question in upload order.
type Entry struct {
	TargetString     string `json:"target_string"`
	ReferencePattern string `json:"reference_pattern"`
	TimeSeconds      int    `json:"time_seconds"`
	Prompt           string `json:"prompt,omitempty"`
}

// ParseCSV reads a header row followed by question rows. Rows that are
// missing a target, a pattern or a usable time are skipped.
func ParseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := header[key]; !exists {
			header[key] = i
		}
	}
	idxTarget, okTarget := header["target_string"]
	idxAnswer, okAnswer := header["answer_regex"]
	idxTime, okTime := header["time"]
	idxPrompt, okPrompt := header["prompt"]
	if !okTarget || !okAnswer || !okTime {
		return nil, ErrMissingColumns
	}

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		target := decodeTargetString(cell(row, idxTarget))
		pattern := strings.ReplaceAll(cell(row, idxAnswer), `\\`, `\`)
		seconds, ok := parseSeconds(cell(row, idxTime))
		if target == "" || pattern == "" || !ok {
			continue
		}
		entry := Entry{
			TargetString:     target,
			ReferencePattern: pattern,
			TimeSeconds:      seconds,
		}
		if okPrompt {
			entry.Prompt = cell(row, idxPrompt)
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, ErrNoQuestions
	}
	return entries, nil
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func dropBlankRows(rows [][]string) [][]string {
	kept := rows[:0]
	for _, row := range rows {
		for _, value := range row {
			if strings.TrimSpace(value) != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}

func parseSeconds(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, false
	}
	// rounds to the nearest second, never below one
	if value < 0.5 {
		return 1, true
	}
	return int(math.Round(value)), true
}

func decodeTargetString(value string) string {
	replacements := []struct{ from, to string }{
		{`\\`, `\`},
		{`\n`, "\n"},
		{`\r`, "\r"},
		{`\t`, "\t"},
		{`\"`, `"`},
	}
	for _, r := range replacements {
		value = strings.ReplaceAll(value, r.from, r.to)
	}
	return value
}
