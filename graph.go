// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autocrop

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const yticknum = 17 // one tick every 15 levels

// createLine creates a horizontal line with a particular y value for
// a graph
func createLine(xvalues []float64, y float64, c drawing.Color) chart.ContinuousSeries {
	var yvalues []float64
	for range xvalues {
		yvalues = append(yvalues, y)
	}
	return chart.ContinuousSeries{
		XValues: xvalues,
		YValues: yvalues,
		Style: chart.Style{
			StrokeColor:     c,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
}

// GraphSearch creates a graph of the thresholds tried while
// searching each image, keyed by image path, with a line marking
// the starting threshold
func GraphSearch(traces map[string][]int, start int, title string, w io.Writer) error {
	var names []string
	longest := 0
	for name, t := range traces {
		if len(t) == 0 {
			continue
		}
		names = append(names, name)
		longest = max(longest, len(t))
	}
	if len(names) == 0 {
		return errors.New("No search traces to graph")
	}
	sort.Strings(names)

	// leave room for the annotation on the final iteration
	maxx := float64(max(longest, 2)) + 1

	var xticks []chart.Tick
	for i := 1; i <= int(maxx); i++ {
		xticks = append(xticks, chart.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
	}
	var yticks []chart.Tick
	for i := 0; i <= yticknum; i++ {
		n := float64(i * 15)
		yticks = append(yticks, chart.Tick{Value: n, Label: fmt.Sprintf("%.0f", n)})
	}

	var series []chart.Series
	var annotations []chart.Value2
	for i, name := range names {
		t := traces[name]
		var xvalues, yvalues []float64
		for n, v := range t {
			xvalues = append(xvalues, float64(n+1))
			yvalues = append(yvalues, float64(v))
		}
		series = append(series, chart.ContinuousSeries{
			Name: filepath.Base(name),
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 3,
				DotColor:    chart.GetDefaultColor(i),
				DotWidth:    4,
			},
			XValues: xvalues,
			YValues: yvalues,
		})
		last := len(t) - 1
		annotations = append(annotations, chart.Value2{Label: filepath.Base(name), XValue: xvalues[last], YValue: yvalues[last]})
	}

	series = append(series, createLine([]float64{1, maxx}, float64(start), chart.ColorAlternateGray))
	series = append(series, chart.AnnotationSeries{Annotations: annotations})

	graph := chart.Chart{
		Title:  title,
		Width:  1920,
		Height: 1080,
		XAxis: chart.XAxis{
			Name: "Iteration",
			Range: &chart.ContinuousRange{
				Min: 1.0,
				Max: maxx,
			},
			Ticks: xticks,
		},
		YAxis: chart.YAxis{
			Name: "Threshold",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: 255.0,
			},
			Ticks: yticks,
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}
