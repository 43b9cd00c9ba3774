package activity

// HeatmapWindow is the number of days, today included, a heatmap covers.
const HeatmapWindow = 365

type Cell struct {
	Date  Date `json:"date"`
	Value int  `json:"value"`
}

// Heatmap returns one cell per day from today-(HeatmapWindow-1) to today in
// ascending order. Days without activity get 0; activity outside the window
// is ignored.
func Heatmap(counts Counts, today Date) []Cell {
	cells := make([]Cell, HeatmapWindow)
	start := today.AddDays(-(HeatmapWindow - 1))
	for i := range cells {
		d := start.AddDays(i)
		cells[i] = Cell{Date: d, Value: counts[d]}
	}
	return cells
}
