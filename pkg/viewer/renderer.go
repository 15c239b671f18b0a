package viewer

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/meshmetric/pkg/dataset"
)

// MeshView is a widget showing a dataset colored by its distance map.
// Drag rotates, scrolling zooms and tapping picks a point.
type MeshView struct {
	widget.BaseWidget

	mu         sync.Mutex
	dataset    *dataset.Dataset
	camera     *Camera
	options    Options
	raster     *canvas.Raster
	dragStart  *fyne.Position
	isDragging bool
	scale      float64 // raster pixels per widget unit
	onPick     func(PickResult)
}

// NewMeshView creates a view of ds.
func NewMeshView(ds *dataset.Dataset) *MeshView {
	v := &MeshView{
		options: DefaultOptions(),
		scale:   1,
	}
	v.raster = canvas.NewRaster(v.draw)
	v.SetDataset(ds)
	v.ExtendBaseWidget(v)
	return v
}

// SetDataset shows another dataset and fits the camera to it.
func (v *MeshView) SetDataset(ds *dataset.Dataset) {
	v.mu.Lock()
	v.dataset = ds
	if v.camera == nil {
		v.camera = NewCamera(ds.PolyData().BoundingBox())
	} else {
		v.camera.Fit(ds.PolyData().BoundingBox())
	}
	v.mu.Unlock()
	v.Refresh()
}

// SetOnPick sets the callback for picked points
func (v *MeshView) SetOnPick(callback func(PickResult)) {
	v.onPick = callback
}

// SetLegend toggles the color bar.
func (v *MeshView) SetLegend(show bool) {
	v.mu.Lock()
	v.options.Legend = show
	v.mu.Unlock()
	v.Refresh()
}

func (v *MeshView) draw(w, h int) image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()

	if size := v.Size(); size.Width > 0 {
		v.scale = float64(w) / float64(size.Width)
	}
	return Render(v.dataset.Mapper(), v.camera, w, h, v.options)
}

// CreateRenderer creates the renderer for the widget
func (v *MeshView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize keeps the view usable in tight layouts.
func (v *MeshView) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

// Refresh redraws the mesh.
func (v *MeshView) Refresh() {
	v.raster.Refresh()
	v.BaseWidget.Refresh()
}

// Dragged handles mouse drag events for rotation
func (v *MeshView) Dragged(event *fyne.DragEvent) {
	if v.dragStart != nil {
		deltaX := event.Position.X - v.dragStart.X
		deltaY := event.Position.Y - v.dragStart.Y

		v.mu.Lock()
		v.camera.Rotate(float64(-deltaY)*0.01, float64(deltaX)*0.01)
		v.mu.Unlock()
		v.Refresh()
	}
	pos := event.Position
	v.dragStart = &pos
	v.isDragging = true
}

// DragEnd handles the end of a drag event
func (v *MeshView) DragEnd() {
	v.dragStart = nil
	v.isDragging = false
}

// Scrolled handles scroll events for zooming
func (v *MeshView) Scrolled(event *fyne.ScrollEvent) {
	v.mu.Lock()
	v.camera.Zoom(-float64(event.Scrolled.DY) * 0.001)
	v.mu.Unlock()
	v.Refresh()
}

// Tapped picks the point under the cursor
func (v *MeshView) Tapped(event *fyne.PointEvent) {
	if v.isDragging || v.onPick == nil {
		return
	}

	v.mu.Lock()
	size := v.Size()
	s := v.scale
	res, ok := Pick(v.dataset.Mapper(), v.camera,
		float64(event.Position.X)*s, float64(event.Position.Y)*s,
		float64(size.Width)*s, float64(size.Height)*s)
	v.mu.Unlock()

	if ok {
		v.onPick(res)
	}
}
