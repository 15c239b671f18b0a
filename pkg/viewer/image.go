package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/lut"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options control image rendering.
type Options struct {
	Background color.RGBA
	// Legend draws the color bar of the mapper's color map.
	Legend bool
	// Ambient is the light a surface receives when seen edge-on.
	Ambient float64
}

// DefaultOptions returns a dark background with a legend.
func DefaultOptions() Options {
	return Options{
		Background: color.RGBA{R: 30, G: 30, B: 36, A: 255},
		Legend:     true,
		Ambient:    0.35,
	}
}

// Render draws the mapper's mesh as seen by cam. Points are colored
// through the color map and shaded by how directly each triangle
// faces the camera.
func Render(m dataset.Mapper, cam *Camera, width, height int, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)

	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	if m.Input != nil {
		view := cam.ViewDirection()
		w, h := float64(width), float64(height)
		pm := m.Input
		for _, cell := range pm.Polys {
			for k := 1; k+1 < len(cell); k++ {
				ids := [3]int{cell[0], cell[k], cell[k+1]}
				tri := geometry.NewTriangle(pm.Points[ids[0]], pm.Points[ids[1]], pm.Points[ids[2]])

				light := opts.Ambient + (1-opts.Ambient)*math.Abs(tri.Normal().Dot(view))

				var sv [3]screenVertex
				visible := true
				for j, id := range ids {
					x, y, z := cam.Project(pm.Points[id], w, h)
					if z <= nearPlane {
						visible = false
						break
					}
					c := m.PointColor(id)
					sv[j] = screenVertex{X: x, Y: y, Z: z, Color: lut.RGB{R: c.R * light, G: c.G * light, B: c.B * light}}
				}
				if visible {
					fillTriangle(img, zbuffer, sv)
				}
			}
		}
	}

	if opts.Legend && m.Lut != nil && m.Lut.Size() > 0 {
		drawLegend(img, m.Lut)
	}
	return img
}

// drawLegend draws a vertical color bar with its range at the right
// edge of img.
func drawLegend(img *image.RGBA, f *lut.ColorTransferFunction) {
	b := img.Bounds()
	barWidth := 16
	x0 := b.Max.X - barWidth - 60
	top := b.Min.Y + b.Dy()/10
	bottom := b.Max.Y - b.Dy()/10
	if x0 < b.Min.X || bottom <= top {
		return
	}

	lo, hi := f.Range()
	for y := top; y <= bottom; y++ {
		t := float64(bottom-y) / float64(bottom-top)
		c := f.Map(lo + t*(hi-lo))
		for x := x0; x < x0+barWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	drawLine(img, x0-1, top-1, x0+barWidth, top-1, white)
	drawLine(img, x0-1, bottom+1, x0+barWidth, bottom+1, white)
	drawLine(img, x0-1, top-1, x0-1, bottom+1, white)
	drawLine(img, x0+barWidth, top-1, x0+barWidth, bottom+1, white)

	label(img, x0+barWidth+4, top+4, fmt.Sprintf("%.3g", hi))
	label(img, x0+barWidth+4, bottom+4, fmt.Sprintf("%.3g", lo))
}

func label(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
