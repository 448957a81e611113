// Package render draws normalized histograms in a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tbviz/histograms/internal/histogram"
)

var barStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("4")) // blue

var axisStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // gray

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("250")). // light gray
	Bold(true)

// Chart renders one histogram as vertical bars, one per bin.
//
// The width is widened to fit one column per bin.
func Chart(h histogram.Histogram, width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("step %d  total %.6g", h.Step, histogram.Total(h.Bins))))
	sb.WriteString("\n")

	if len(h.Bins) == 0 {
		sb.WriteString(axisStyle.Render("(no data)"))
		sb.WriteString("\n")
		return sb.String()
	}

	data := make([]barchart.BarData, len(h.Bins))
	for i, bin := range h.Bins {
		data[i] = barchart.BarData{
			Values: []barchart.BarValue{{
				Name:  fmt.Sprint(i),
				Value: bin.Y,
				Style: barStyle,
			}},
		}
	}

	chart := barchart.New(
		max(width, len(h.Bins)),
		height,
		barchart.WithNoAxis(),
		barchart.WithBarGap(0),
	)
	chart.PushAll(data)
	chart.Draw()

	sb.WriteString(chart.View())
	sb.WriteString("\n")
	sb.WriteString(axisStyle.Render(rangeLine(h.Bins)))
	sb.WriteString("\n")

	return sb.String()
}

// rangeLine describes the domain covered by bins.
func rangeLine(bins []histogram.Bin) string {
	left := bins[0].X
	right := bins[len(bins)-1].Right()
	return fmt.Sprintf("[%.6g, %.6g)  %d bins of width %.6g",
		left, right, len(bins), bins[0].DX)
}

// Step returns the histogram recorded at step.
func Step(histograms []histogram.Histogram, step int64) (histogram.Histogram, error) {
	for _, h := range histograms {
		if h.Step == step {
			return h, nil
		}
	}
	return histogram.Histogram{}, fmt.Errorf("render: no histogram at step %d", step)
}

// Last returns the histogram with the largest step.
func Last(histograms []histogram.Histogram) (histogram.Histogram, error) {
	if len(histograms) == 0 {
		return histogram.Histogram{}, fmt.Errorf("render: empty series")
	}

	last := histograms[0]
	for _, h := range histograms[1:] {
		if h.Step > last.Step {
			last = h
		}
	}
	return last, nil
}
