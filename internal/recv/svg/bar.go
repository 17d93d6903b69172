// Package svg renders the dashboard bucket chart as inline SVG, so the
// page needs no client-side charting library.
package svg

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	defaultWidth   = 720
	defaultHeight  = 240
	defaultPadding = 36.0
	defaultTicks   = 4
)

// BarOpts tunes chart rendering.
type BarOpts struct {
	Title       string
	Description string
	Padding     float64
	TickCount   int
	AxisColor   string
	GridColor   string
	BarColor    string
}

// Bars renders a single-series bar chart of bucket totals. Negative
// totals (credit-heavy buckets) draw below the zero line.
func Bars(width, height int, values []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("svg: values required")
	}
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: values length must match labels")
	}
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = defaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = defaultTicks
	}
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")
	barColor := fallback(opts.BarColor, "#0ea5e9")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	minVal, maxVal := bounds(values)
	if minVal > 0 {
		minVal = 0
	}
	if maxVal < 0 {
		maxVal = 0
	}
	if maxVal-minVal < 1e-9 {
		maxVal = minVal + 1
	}
	scale := chartHeight / (maxVal - minVal)
	zeroY := padding + chartHeight - (0-minVal)*scale

	groupWidth := chartWidth / float64(len(values))
	barWidth := groupWidth * 0.6

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-label=\"%s\">",
		width, height, template.HTMLEscapeString(fallback(opts.Title, "Aging buckets"))))
	b.WriteString(fmt.Sprintf("<desc>%s</desc>", template.HTMLEscapeString(fallback(opts.Description, "Open balance per aging bucket"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := minVal + (maxVal-minVal)*ratio
		y := padding + chartHeight - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\"></line>",
			padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" font-size=\"10\" fill=\"%s\" text-anchor=\"end\">%.0f</text>",
			padding-6, y+3, axisColor, value))
	}

	for i, v := range values {
		x := padding + float64(i)*groupWidth + (groupWidth-barWidth)/2
		barHeight := (v - 0) * scale
		y := zeroY - barHeight
		if barHeight < 0 {
			y = zeroY
			barHeight = -barHeight
		}
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"><title>%s</title></rect>",
			x, y, barWidth, barHeight, barColor, template.HTMLEscapeString(fmt.Sprintf("%s: %.2f", labels[i], v))))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" font-size=\"11\" fill=\"%s\" text-anchor=\"middle\">%s</text>",
			x+barWidth/2, float64(height)-padding+14, axisColor, template.HTMLEscapeString(labels[i])))
	}

	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\"></line>",
		padding, zeroY, padding+chartWidth, zeroY, axisColor))
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func bounds(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
