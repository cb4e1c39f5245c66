package course

import (
	"math"

	"github.com/fogleman/gg"

	"github.com/spheroball-team/go-controller/pkg/heading"
)

const (
	plotCell   = 60.0 // pixels per tile
	plotMargin = 1.0  // tiles of margin around the path
)

// Plot renders a top-down preview of the path a course will drive, one
// grid square per tile, and saves it as a PNG. Heading 0 points up the
// page and turns are clockwise, matching the toy's convention.
func Plot(c Course, path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	type point struct{ x, y float64 }

	// Walk the segments collecting corner points in tile units.
	pts := []point{{0, 0}}
	hdg := heading.FromInt(0)
	var cur point
	minX, minY, maxX, maxY := 0.0, 0.0, 0.0, 0.0
	for _, s := range c.Segments {
		hdg = hdg.Add(s.Turn)
		rad := float64(hdg.Int()) * math.Pi / 180
		cur.x += s.Tiles * math.Sin(rad)
		cur.y -= s.Tiles * math.Cos(rad)
		pts = append(pts, cur)
		minX = math.Min(minX, cur.x)
		minY = math.Min(minY, cur.y)
		maxX = math.Max(maxX, cur.x)
		maxY = math.Max(maxY, cur.y)
	}

	width := int((maxX - minX + 2*plotMargin) * plotCell)
	height := int((maxY - minY + 2*plotMargin) * plotCell)

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Tile grid.
	dc.SetRGBA(0, 0, 0, 0.15)
	dc.SetLineWidth(1)
	for x := 0.0; x <= float64(width); x += plotCell {
		dc.DrawLine(x, 0, x, float64(height))
	}
	for y := 0.0; y <= float64(height); y += plotCell {
		dc.DrawLine(0, y, float64(width), y)
	}
	dc.Stroke()

	toPx := func(p point) (float64, float64) {
		return (p.x - minX + plotMargin) * plotCell, (p.y - minY + plotMargin) * plotCell
	}

	// The path itself.
	dc.SetRGB(0.9, 0.2, 0)
	dc.SetLineWidth(3)
	for i := 1; i < len(pts); i++ {
		x0, y0 := toPx(pts[i-1])
		x1, y1 := toPx(pts[i])
		dc.DrawLine(x0, y0, x1, y1)
	}
	dc.Stroke()

	// Start marker and course name.
	x0, y0 := toPx(pts[0])
	dc.SetRGB(0, 0.5, 0)
	dc.DrawCircle(x0, y0, 6)
	dc.Fill()
	dc.SetRGB(0, 0, 0)
	dc.DrawString(c.Name, 8, 16)

	return dc.SavePNG(path)
}
