package stats

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const chartSize = 512

// RenderFinishChart draws the finish-type breakdown as a donut PNG. Slice
// colors come from the summary's palette assignment; slice labels are the
// rounded percentages because the default chart font has no CJK glyphs for
// the finish names themselves. An empty breakdown renders as a neutral gray
// ring so the endpoint always produces an image.
func RenderFinishChart(data []FinishSlice) ([]byte, error) {
	values := make([]chart.Value, 0, len(data))
	for _, slice := range data {
		values = append(values, chart.Value{
			Value: float64(slice.Count),
			Label: fmt.Sprintf("%d%%", int(math.Round(slice.Pct))),
			Style: chart.Style{
				FillColor: drawing.ColorFromHex(strings.TrimPrefix(slice.Color, "#")),
			},
		})
	}

	if len(values) == 0 {
		values = append(values, chart.Value{
			Value: 1,
			Label: "no wins yet",
			Style: chart.Style{
				FillColor: drawing.ColorFromHex("C9CBCF"),
			},
		})
	}

	graph := chart.DonutChart{
		Width:  chartSize,
		Height: chartSize,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
		},
		Canvas: chart.Style{
			FillColor: drawing.ColorWhite,
		},
		Values: values,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}
