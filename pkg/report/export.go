package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/Sherolroses/Transport/pkg/graph"
	"github.com/Sherolroses/Transport/pkg/routing"
)

// ExportItem is one adjacency entry with its congestion-adjusted weight.
type ExportItem struct {
	From       graph.NodeID `json:"from"`
	FromName   string       `json:"from_name"`
	To         graph.NodeID `json:"to"`
	ToName     string       `json:"to_name"`
	Distance   int          `json:"distance"`
	Adjusted   float64      `json:"adjusted"`
	Hour       int          `json:"hour"`
	Multiplier float64      `json:"multiplier"`
}

// Entries lists every adjacency entry in insertion order.
func Entries(snap *graph.Snapshot, hour int, multiplier float64) []ExportItem {
	var items []ExportItem
	for _, n := range snap.Nodes() {
		for _, e := range n.Edges {
			to, _ := snap.Node(e.To)
			items = append(items, ExportItem{
				From:       n.ID,
				FromName:   n.Name,
				To:         e.To,
				ToName:     to.Name,
				Distance:   e.Weight,
				Adjusted:   float64(e.Weight) * multiplier,
				Hour:       hour,
				Multiplier: multiplier,
			})
		}
	}
	return items
}

// WriteCSV writes items with a header row.
func WriteCSV(w io.Writer, items []ExportItem) error {
	cw := csv.NewWriter(w)

	header := []string{"From", "FromName", "To", "ToName", "Distance", "Adjusted", "Hour", "Multiplier"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, item := range items {
		record := []string{
			strconv.Itoa(int(item.From)),
			item.FromName,
			strconv.Itoa(int(item.To)),
			item.ToName,
			strconv.Itoa(item.Distance),
			FormatDistance(item.Adjusted),
			strconv.Itoa(item.Hour),
			FormatDistance(item.Multiplier),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes items as an indented array.
func WriteJSON(w io.Writer, items []ExportItem) error {
	if items == nil {
		items = []ExportItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// WritePathJSON writes a path result.
func WritePathJSON(w io.Writer, p *routing.Path) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
