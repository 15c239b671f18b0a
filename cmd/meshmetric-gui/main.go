package main

import (
	"fmt"
	"os"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/meshmetric/internal/config"
	"github.com/philipparndt/meshmetric/internal/loader"
	"github.com/philipparndt/meshmetric/internal/processing"
	"github.com/philipparndt/meshmetric/pkg/analysis"
	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/filter"
	"github.com/philipparndt/meshmetric/pkg/metric"
	"github.com/philipparndt/meshmetric/pkg/viewer"
	"github.com/philipparndt/meshmetric/version"
)

const (
	meshA = "Mesh A"
	meshB = "Mesh B"
)

type App struct {
	window fyne.Window
	cfg    config.Config
	proc   *processing.Processor

	a, b       *dataset.Dataset
	shown      string
	view       *viewer.MeshView
	meshSelect *widget.RadioGroup
	inputs     *Inputs
	labels     *Labels

	// busy is set while a distance computation runs. The actions are
	// disabled meanwhile.
	busy    bool
	actions []fyne.Disableable
}

// Inputs are the editable parameters of the side panel.
type Inputs struct {
	signed     *widget.Check
	step       *widget.Entry
	minFreq    *widget.Entry
	iterations *widget.Entry
	reduction  *widget.Entry
	min        *widget.Entry
	max        *widget.Entry
	center     *widget.Entry
	delta      *widget.Entry
	saveName   *widget.Entry
}

type Labels struct {
	meshInfo *widget.Label
	stats    *widget.Label
	pick     *widget.Label
}

func main() {
	a := app.New()
	w := a.NewWindow("MeshMetric " + version.GetFullVersion())

	cfg := config.Default()
	if path, err := config.DefaultPath(); err == nil {
		if c, err := config.Load(path); err == nil {
			cfg = c
		} else {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		}
	}

	appInstance := &App{
		window: w,
		cfg:    cfg,
		proc:   processing.New(filter.NewWithRelaxation(cfg.Smoothing.RelaxationFactor), metric.NewMeshValmet()),
	}

	// meshmetric-gui [mesh A] [mesh B]
	if len(os.Args) > 1 {
		appInstance.loadFile(meshA, os.Args[1])
	}
	if len(os.Args) > 2 {
		appInstance.loadFile(meshB, os.Args[2])
	}
	if appInstance.a == nil {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to MeshMetric")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Open the mesh to measure (.vtk, .stl or .scad)")

	openButton := widget.NewButton("Open Mesh A", func() {
		a.showFileDialog(meshA)
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFileDialog(which string) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(which, reader.URI().Path())
	}, a.window)
}

func (a *App) loadFile(which, filename string) {
	if a.busy {
		return
	}
	m, err := loader.Load(filename)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load %s: %w", filename, err), a.window)
		return
	}

	ds := dataset.New(filename, m)
	a.cfg.Apply(ds)
	c := a.proc.CheckPreviousError(ds)
	if c.Status.Valid() {
		a.proc.UpdateColor(ds.Min, ds.Max, ds.Center, ds.Delta, ds)
	} else if c.Status.Problem() {
		dialog.ShowInformation("Distance arrays",
			fmt.Sprintf("%s has inconsistent distance arrays (%s).", ds.Name, c.Status), a.window)
	}

	if which == meshA {
		a.a = ds
	} else {
		a.b = ds
	}

	if a.view == nil {
		a.setupMainUI(ds)
	}
	a.show(which)
}

func (a *App) setupMainUI(ds *dataset.Dataset) {
	a.labels = &Labels{
		meshInfo: widget.NewLabel(""),
		stats:    widget.NewLabel("No distance computed"),
		pick:     widget.NewLabel("Click on the mesh to read a value"),
	}
	a.inputs = &Inputs{
		signed:     widget.NewCheck("Signed distance", nil),
		step:       floatEntry(a.cfg.Distance.SamplingStep),
		minFreq:    widget.NewEntry(),
		iterations: widget.NewEntry(),
		reduction:  floatEntry(a.cfg.Decimation.Reduction),
		min:        widget.NewEntry(),
		max:        widget.NewEntry(),
		center:     floatEntry(a.cfg.Color.Center),
		delta:      floatEntry(a.cfg.Color.Delta),
		saveName:   widget.NewEntry(),
	}
	a.inputs.signed.SetChecked(a.cfg.Distance.Signed)
	a.inputs.minFreq.SetText(strconv.Itoa(a.cfg.Distance.MinSamplingFrequency))
	a.inputs.iterations.SetText(strconv.Itoa(a.cfg.Smoothing.Iterations))
	a.inputs.saveName.SetPlaceHolder("result.vtk")

	a.view = viewer.NewMeshView(ds)
	a.view.SetOnPick(a.showPick)

	a.meshSelect = widget.NewRadioGroup([]string{meshA, meshB}, func(selected string) {
		if selected != "" && selected != a.shown {
			a.show(selected)
		}
	})
	a.meshSelect.Horizontal = true

	legendCheck := widget.NewCheck("Show legend", func(checked bool) {
		a.view.SetLegend(checked)
	})
	legendCheck.SetChecked(true)

	distanceForm := widget.NewForm(
		widget.NewFormItem("Sampling step", a.inputs.step),
		widget.NewFormItem("Min frequency", a.inputs.minFreq),
	)
	filterForm := widget.NewForm(
		widget.NewFormItem("Iterations", a.inputs.iterations),
		widget.NewFormItem("Reduction", a.inputs.reduction),
	)
	colorForm := widget.NewForm(
		widget.NewFormItem("Min", a.inputs.min),
		widget.NewFormItem("Max", a.inputs.max),
		widget.NewFormItem("Center", a.inputs.center),
		widget.NewFormItem("Delta", a.inputs.delta),
	)

	openA := widget.NewButton("Open Mesh A", func() { a.showFileDialog(meshA) })
	openB := widget.NewButton("Open Mesh B", func() { a.showFileDialog(meshB) })
	compute := widget.NewButton("Compute Distance", a.computeDistance)
	smooth := widget.NewButton("Smooth", a.smooth)
	decimate := widget.NewButton("Decimate", a.decimate)
	recolor := widget.NewButton("Update Colors", a.updateColor)
	save := widget.NewButton("Save", a.save)
	reload := widget.NewButton("Reload", a.reload)
	a.actions = []fyne.Disableable{a.meshSelect, openA, openB, compute, smooth, decimate, recolor, save, reload}

	infoPanel := container.NewVBox(
		widget.NewLabel("Meshes:"),
		widget.NewSeparator(),
		container.NewGridWithColumns(2, openA, openB),
		a.meshSelect,
		a.labels.meshInfo,
		widget.NewSeparator(),
		widget.NewLabel("Distance A to B:"),
		a.inputs.signed,
		distanceForm,
		compute,
		a.labels.stats,
		widget.NewSeparator(),
		widget.NewLabel("Filters (shown mesh):"),
		filterForm,
		container.NewGridWithColumns(2, smooth, decimate),
		widget.NewSeparator(),
		widget.NewLabel("Color Map:"),
		colorForm,
		recolor,
		legendCheck,
		a.labels.pick,
		widget.NewSeparator(),
		a.inputs.saveName,
		container.NewGridWithColumns(2, save, reload),
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(320, 0))

	content := container.NewBorder(
		nil,        // top
		nil,        // bottom
		nil,        // left
		infoScroll, // right
		a.view,     // center
	)

	a.window.SetContent(content)
}

// current returns the dataset that is shown
func (a *App) current() *dataset.Dataset {
	if a.shown == meshB {
		return a.b
	}
	return a.a
}

// setBusy toggles the actions around a background computation.
func (a *App) setBusy(busy bool) {
	a.busy = busy
	for _, w := range a.actions {
		if busy {
			w.Disable()
		} else {
			w.Enable()
		}
	}
}

func (a *App) show(which string) {
	ds := a.a
	if which == meshB {
		ds = a.b
	}
	if ds == nil {
		a.meshSelect.SetSelected(a.shown)
		a.showFileDialog(which)
		return
	}

	a.shown = which
	a.meshSelect.SetSelected(which)
	a.view.SetDataset(ds)
	a.refreshInfo()
}

func (a *App) refreshInfo() {
	ds := a.current()
	result := analysis.AnalyzeMesh(ds.PolyData())
	a.labels.meshInfo.SetText(fmt.Sprintf(
		"%s: %s\nPoints: %d\nCells: %d\nSurface Area: %.2f\n\nDimensions:\n  X: %.2f\n  Y: %.2f\n  Z: %.2f",
		a.shown,
		ds.Name,
		result.PointCount,
		result.CellCount,
		result.SurfaceArea,
		result.Dimensions.X,
		result.Dimensions.Y,
		result.Dimensions.Z,
	))

	if ds.HasDistance() {
		a.inputs.min.SetText(formatFloat(ds.Min))
		a.inputs.max.SetText(formatFloat(ds.Max))
	}
	a.view.Refresh()
}

func (a *App) computeDistance() {
	if a.busy {
		return
	}
	if a.a == nil || a.b == nil {
		dialog.ShowInformation("Distance", "Open mesh A and mesh B first.", a.window)
		return
	}
	step, err := parseFloat("sampling step", a.inputs.step)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	minFreq, err := strconv.Atoi(a.inputs.minFreq.Text)
	if err != nil {
		dialog.ShowError(fmt.Errorf("min frequency: %w", err), a.window)
		return
	}

	ds := a.a
	ds.SignedDistance = a.inputs.signed.Checked
	ds.SamplingStep = step
	ds.MinSamplingFrequency = minFreq

	// The computation works on copies; datasets are only touched on the
	// UI goroutine.
	work := dataset.New(ds.FileName, ds.PolyData().Clone())
	work.SignedDistance = ds.SignedDistance
	work.SamplingStep = ds.SamplingStep
	work.MinSamplingFrequency = ds.MinSamplingFrequency
	target := dataset.New(a.b.FileName, a.b.PolyData().Clone())

	a.setBusy(true)
	a.labels.stats.SetText("Computing...")
	go func() {
		res, err := a.proc.ComputeError(work, target)
		fyne.Do(func() {
			a.setBusy(false)
			if a.a != ds {
				return
			}
			if err != nil {
				a.labels.stats.SetText("No distance computed")
				dialog.ShowError(err, a.window)
				return
			}
			ds.SetPolyData(work.PolyData())
			ds.Min, ds.Max = work.Min, work.Max
			a.proc.UpdateColor(ds.Min, ds.Max, ds.Center, ds.Delta, ds)
			s := res.Stats
			a.labels.stats.SetText(fmt.Sprintf(
				"Min: %.6f\nMax: %.6f\nMean: %.6f\nRMS: %.6f\nHausdorff: %.6f",
				s.Min, s.Max, s.Mean, s.RMS, s.Hausdorff))
			a.show(meshA)
		})
	}()
}

func (a *App) smooth() {
	if a.busy {
		return
	}
	iterations, err := strconv.Atoi(a.inputs.iterations.Text)
	if err != nil || iterations < 0 {
		dialog.ShowError(fmt.Errorf("iterations must be a non-negative integer"), a.window)
		return
	}

	ds := a.current()
	out, err := a.proc.Smooth(ds.PolyData(), iterations)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	ds.SetPolyData(out)
	ds.RefreshMapper()
	a.refreshInfo()
}

func (a *App) decimate() {
	if a.busy {
		return
	}
	reduction, err := parseFloat("reduction", a.inputs.reduction)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	ds := a.current()
	out, err := a.proc.Decimate(ds.PolyData(), reduction)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	ds.SetPolyData(out)
	ds.RefreshMapper()
	a.view.SetDataset(ds)
	a.refreshInfo()
}

func (a *App) updateColor() {
	if a.busy {
		return
	}
	ds := a.current()
	if !ds.HasDistance() {
		dialog.ShowInformation("Color Map", ds.Name+" has no distance result.", a.window)
		return
	}

	var values [4]float64
	for i, e := range []*widget.Entry{a.inputs.min, a.inputs.max, a.inputs.center, a.inputs.delta} {
		v, err := parseFloat("color map", e)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		values[i] = v
	}
	if values[0] > values[1] {
		dialog.ShowError(fmt.Errorf("min %g is larger than max %g", values[0], values[1]), a.window)
		return
	}

	a.proc.UpdateColor(values[0], values[1], values[2], values[3], ds)
	a.view.Refresh()
}

func (a *App) save() {
	if a.busy {
		return
	}
	name, err := a.proc.SaveFile(a.inputs.saveName.Text, a.current())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	dialog.ShowInformation("Saved", "Saved "+name, a.window)
}

func (a *App) reload() {
	if a.busy {
		return
	}
	ds := a.current()
	c, err := a.proc.Reload(ds)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if c.Status.Problem() {
		dialog.ShowInformation("Distance arrays",
			fmt.Sprintf("%s has inconsistent distance arrays (%s).", ds.Name, c.Status), a.window)
	}
	a.view.SetDataset(ds)
	a.refreshInfo()
}

func (a *App) showPick(res viewer.PickResult) {
	text := fmt.Sprintf("Point %d: %s", res.Index, analysis.FormatVector(res.Point))
	if res.HasValue {
		text += fmt.Sprintf("\nValue: %.6f", res.Value)
	}
	a.labels.pick.SetText(text)
}

func floatEntry(v float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(formatFloat(v))
	return e
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func parseFloat(name string, e *widget.Entry) (float64, error) {
	v, err := strconv.ParseFloat(e.Text, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, e.Text)
	}
	return v, nil
}
