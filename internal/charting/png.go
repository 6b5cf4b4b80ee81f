package charting

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PNG raster dimensions. Fixed: chart exports are documents, not
// viewport-sized surfaces.
const (
	pngWidth  = 800
	pngHeight = 500

	marginLeft   = 90
	marginRight  = 30
	marginTop    = 60
	marginBottom = 70
)

var (
	pngBackground = color.RGBA{255, 255, 255, 255}
	pngAxis       = color.RGBA{120, 120, 120, 255}
	pngText       = color.RGBA{40, 40, 40, 255}
)

// ExportPNG rasterizes the chart in its current kind and writes it as a
// PNG. The export never mutates the chart; empty data is an error (the
// caller should have shown the no-data state instead of offering export).
func ExportPNG(c *Chart, w io.Writer) error {
	if c.Empty() {
		return fmt.Errorf("no chart data to export")
	}

	img := image.NewRGBA(image.Rect(0, 0, pngWidth, pngHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{pngBackground}, image.Point{}, draw.Src)

	drawText(img, c.Data.Title, marginLeft, 30, pngText)

	switch c.Kind {
	case KindPie:
		drawPiePNG(img, c)
	case KindLine:
		drawAxesPNG(img, c)
		drawLinePNG(img, c)
	default:
		drawAxesPNG(img, c)
		drawBarPNG(img, c)
	}

	return png.Encode(w, img)
}

// plotRect is the drawable area inside the axes.
func plotRect() image.Rectangle {
	return image.Rect(marginLeft, marginTop, pngWidth-marginRight, pngHeight-marginBottom)
}

// drawAxesPNG draws the x/y axis lines and the ₹-formatted y ticks.
// Pie charts suppress axes entirely and never come through here.
func drawAxesPNG(img *image.RGBA, c *Chart) {
	plot := plotRect()
	drawSegment(img, plot.Min.X, plot.Max.Y, plot.Max.X, plot.Max.Y, pngAxis)
	drawSegment(img, plot.Min.X, plot.Min.Y, plot.Min.X, plot.Max.Y, pngAxis)

	max := maxValue(c.Data)
	if max <= 0 {
		max = 1
	}
	const ticks = 4
	for i := 0; i <= ticks; i++ {
		v := max * float64(i) / ticks
		y := plot.Max.Y - int(float64(plot.Dy())*float64(i)/ticks)
		drawSegment(img, plot.Min.X-4, y, plot.Min.X, y, pngAxis)
		drawText(img, FormatTick(v), 8, y+4, pngText)
	}

	// X labels under the axis, one per label slot.
	slot := plot.Dx() / len(c.Data.Labels)
	for i, label := range c.Data.Labels {
		x := plot.Min.X + i*slot + slot/2 - textWidth(label)/2
		drawText(img, truncate(label, 14), x, plot.Max.Y+20, pngText)
	}
}

func drawBarPNG(img *image.RGBA, c *Chart) {
	plot := plotRect()
	max := maxValue(c.Data)
	if max <= 0 {
		max = 1
	}

	nLabels := len(c.Data.Labels)
	nSeries := len(c.Data.Datasets)
	slot := plot.Dx() / nLabels
	barWidth := slot * 2 / (3 * nSeries)
	if barWidth < 2 {
		barWidth = 2
	}

	for di, ds := range c.Data.Datasets {
		for i, v := range ds.Data {
			if v < 0 {
				v = 0
			}
			h := int(v / max * float64(plot.Dy()))
			x0 := plot.Min.X + i*slot + slot/6 + di*barWidth
			colorIdx := i
			if nSeries > 1 {
				colorIdx = di
			}
			fill := parseHexColor(colorAt(ds, colorIdx))
			rect := image.Rect(x0, plot.Max.Y-h, x0+barWidth, plot.Max.Y)
			draw.Draw(img, rect, &image.Uniform{fill}, image.Point{}, draw.Src)
		}
	}
}

func drawLinePNG(img *image.RGBA, c *Chart) {
	plot := plotRect()
	max := maxValue(c.Data)
	if max <= 0 {
		max = 1
	}

	slot := plot.Dx() / len(c.Data.Labels)
	for di, ds := range c.Data.Datasets {
		col := parseHexColor(colorAt(ds, di))
		prevX, prevY := 0, 0
		for i, v := range ds.Data {
			if v < 0 {
				v = 0
			}
			x := plot.Min.X + i*slot + slot/2
			y := plot.Max.Y - int(v/max*float64(plot.Dy()))
			if i > 0 {
				drawSegment(img, prevX, prevY, x, y, col)
			}
			drawMarker(img, x, y, col)
			prevX, prevY = x, y
		}
	}
}

func drawPiePNG(img *image.RGBA, c *Chart) {
	ds := c.Data.Datasets[0]
	total := 0.0
	for _, v := range ds.Data {
		total += v
	}
	if total <= 0 {
		return
	}

	cx, cy := pngWidth/2-80, pngHeight/2+20
	radius := 160.0

	// Cumulative share boundaries, starting at 12 o'clock.
	bounds := make([]float64, len(ds.Data)+1)
	acc := 0.0
	for i, v := range ds.Data {
		acc += v / total
		bounds[i+1] = acc
	}

	for y := cy - int(radius); y <= cy+int(radius); y++ {
		for x := cx - int(radius); x <= cx+int(radius); x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			frac := (math.Atan2(dx, -dy) + math.Pi) / (2 * math.Pi)
			frac = math.Mod(frac+0.5, 1) // rotate so slice 0 starts at the top
			for i := 0; i < len(ds.Data); i++ {
				if frac >= bounds[i] && frac < bounds[i+1] {
					img.Set(x, y, parseHexColor(colorAt(ds, i)))
					break
				}
			}
		}
	}

	// Legend with exact shares.
	lx, ly := pngWidth-280, marginTop+20
	for i, label := range c.Data.Labels {
		col := parseHexColor(colorAt(ds, i))
		draw.Draw(img, image.Rect(lx, ly-8, lx+12, ly+4), &image.Uniform{col}, image.Point{}, draw.Src)
		pct := ds.Data[i] / total * 100
		drawText(img, fmt.Sprintf("%s  %.1f%%", truncate(label, 20), pct), lx+18, ly+2, pngText)
		ly += 22
	}
}

// drawSegment draws a line with integer Bresenham stepping.
func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, col color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawMarker(img *image.RGBA, x, y int, col color.Color) {
	draw.Draw(img, image.Rect(x-2, y-2, x+3, y+3), &image.Uniform{col}, image.Point{}, draw.Src)
}

func drawText(img *image.RGBA, s string, x, y int, col color.Color) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{col},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return len(s) * basicfont.Face7x13.Advance
}

func parseHexColor(s string) color.RGBA {
	var r, g, b uint8
	if len(s) == 7 && s[0] == '#' {
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{r, g, b, 255}
		}
	}
	return color.RGBA{54, 162, 235, 255} // backend's default blue
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
