package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/meshmetric/pkg/lut"
)

// nearPlane is the smallest depth that is drawn.
const nearPlane = 0.01

// screenVertex is a projected vertex with its shaded color.
type screenVertex struct {
	X, Y, Z float64
	Color   lut.RGB
}

// fillTriangle rasterizes a triangle with depth testing, interpolating
// depth and color barycentrically.
func fillTriangle(img *image.RGBA, zbuffer []float64, v [3]screenVertex) {
	area := edge(v[0], v[1], v[2].X, v[2].Y)
	if area == 0 {
		return
	}

	bounds := img.Bounds()
	minX := int(math.Max(float64(bounds.Min.X), math.Floor(math.Min(v[0].X, math.Min(v[1].X, v[2].X)))))
	maxX := int(math.Min(float64(bounds.Max.X-1), math.Ceil(math.Max(v[0].X, math.Max(v[1].X, v[2].X)))))
	minY := int(math.Max(float64(bounds.Min.Y), math.Floor(math.Min(v[0].Y, math.Min(v[1].Y, v[2].Y)))))
	maxY := int(math.Min(float64(bounds.Max.Y-1), math.Ceil(math.Max(v[0].Y, math.Max(v[1].Y, v[2].Y)))))

	width := bounds.Dx()
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(v[1], v[2], px, py) / area
			w1 := edge(v[2], v[0], px, py) / area
			w2 := edge(v[0], v[1], px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*v[0].Z + w1*v[1].Z + w2*v[2].Z
			idx := (y-bounds.Min.Y)*width + (x - bounds.Min.X)
			if z >= zbuffer[idx] {
				continue
			}
			zbuffer[idx] = z
			img.SetRGBA(x, y, lut.RGB{
				R: w0*v[0].Color.R + w1*v[1].Color.R + w2*v[2].Color.R,
				G: w0*v[0].Color.G + w1*v[1].Color.G + w2*v[2].Color.G,
				B: w0*v[0].Color.B + w1*v[1].Color.B + w2*v[2].Color.B,
			}.RGBA())
		}
	}
}

// edge is twice the signed area of (a, b, p).
func edge(a, b screenVertex, px, py float64) float64 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy
	for {
		if (image.Point{X: x1, Y: y1}).In(bounds) {
			img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
