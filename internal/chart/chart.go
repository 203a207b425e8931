// Package chart renders the per-office occupancy bar chart served by the
// occupancy endpoint.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/iliyamo/office-seat-allocation/internal/repository"
)

// ErrNoOffices is returned when there is nothing to draw.
var ErrNoOffices = errors.New("no offices to chart")

// OccupancyPNG renders one bar per office showing its occupied seat count,
// annotated with the office total.
func OccupancyPNG(occupancy []repository.OfficeOccupancy) ([]byte, error) {
	if len(occupancy) == 0 {
		return nil, ErrNoOffices
	}

	bars := make([]chart.Value, 0, len(occupancy))
	max := 1.0
	for _, oc := range occupancy {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d/%d)", oc.OfficeName, oc.Occupied, oc.TotalSeats),
			Value: float64(oc.Occupied),
		})
		if float64(oc.TotalSeats) > max {
			max = float64(oc.TotalSeats)
		}
	}

	graph := chart.BarChart{
		Title:    "Seats occupied per office",
		Width:    120 * len(bars),
		Height:   400,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max},
		},
		Bars: bars,
	}
	if graph.Width < 400 {
		graph.Width = 400
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render occupancy chart: %w", err)
	}
	return buf.Bytes(), nil
}
