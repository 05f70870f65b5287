package graph6

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/psidex/graphview/internal/elements"
)

// GraphsColumn is the CSV column holding "-" separated graph6 strings.
const GraphsColumn = "graphs"

// ConvertCSV reads rows with a graphs column and decodes the first graph6 string of
// each row. Graphs are keyed by that string; a repeated key keeps the last row's graph.
func ConvertCSV(r io.Reader, logger *slog.Logger) (map[string]elements.Elements, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	column := -1
	for i, name := range head {
		if strings.TrimSpace(name) == GraphsColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("CSV has no %q column", GraphsColumn)
	}

	all := map[string]elements.Elements{}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", row, err)
		}
		if column >= len(record) {
			return nil, fmt.Errorf("row %d has no %q value", row, GraphsColumn)
		}

		name := strings.TrimSpace(strings.Split(record[column], "-")[0])
		g, err := Decode(name)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		all[name] = g.ToElements()

		logger.Debug("Converted graph", "row", row, "graph", name, "nodes", g.Order, "edges", len(g.Edges))
	}

	return all, nil
}

// WriteJSON writes the converted graphs as a single JSON object.
func WriteJSON(w io.Writer, all map[string]elements.Elements) error {
	return json.NewEncoder(w).Encode(all)
}
