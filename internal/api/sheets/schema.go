package sheets

import (
	"strconv"
	"strings"
)

// row wraps one raw sheet row. Rows frequently come back shorter than the
// requested range because trailing empty cells are dropped, so every
// accessor takes a default and tolerates a missing index.
type row []string

func (r row) cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

func (r row) str(i int, def string) string {
	if v := r.cell(i); v != "" {
		return v
	}
	return def
}

func (r row) int(i, def int) int {
	v, err := strconv.Atoi(r.cell(i))
	if err != nil {
		return def
	}
	return v
}

func (r row) float(i int, def float64) float64 {
	v, err := strconv.ParseFloat(r.cell(i), 64)
	if err != nil {
		return def
	}
	return v
}

// parseBool recognizes the truthy tokens the sheet uses; anything else,
// including the empty string, is false.
func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// keyValues flattens a two-column key/value table into a map, normalizing
// keys the way the sheet labels them ("Current Week" -> "current_week").
func keyValues(rows [][]string) map[string]string {
	kv := make(map[string]string)
	for _, raw := range rows {
		r := row(raw)
		if len(raw) < 2 {
			continue
		}
		key := strings.ReplaceAll(strings.ToLower(r.cell(0)), " ", "_")
		kv[key] = r.cell(1)
	}
	return kv
}
