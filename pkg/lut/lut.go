// Package lut maps scalar values to display colors.
package lut

import (
	"image/color"
	"math"
	"sort"
)

// RGB is a color with components in [0,1].
type RGB struct {
	R, G, B float64
}

// Common colors used by the distance color maps.
var (
	Blue   = RGB{0, 0, 1}
	Cyan   = RGB{0, 1, 1}
	Green  = RGB{0, 1, 0}
	Yellow = RGB{1, 1, 0}
	Red    = RGB{1, 0, 0}
	Gray   = RGB{0.8, 0.8, 0.8}
)

// RGBA converts to an opaque 8-bit color.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 255}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Node is a control point of the transfer function.
type Node struct {
	Value float64
	Color RGB
}

// ColorTransferFunction interpolates linearly between nodes and clamps
// to the first and last node outside their range.
type ColorTransferFunction struct {
	nodes []Node
}

// New returns an empty transfer function.
func New() *ColorTransferFunction {
	return &ColorTransferFunction{}
}

// AddRGBPoint adds a node. A node with an existing value is replaced
// and NaN is ignored.
func (f *ColorTransferFunction) AddRGBPoint(value float64, c RGB) {
	if math.IsNaN(value) {
		return
	}
	i := sort.Search(len(f.nodes), func(i int) bool { return f.nodes[i].Value >= value })
	if i < len(f.nodes) && f.nodes[i].Value == value {
		f.nodes[i].Color = c
		return
	}
	f.nodes = append(f.nodes, Node{})
	copy(f.nodes[i+1:], f.nodes[i:])
	f.nodes[i] = Node{Value: value, Color: c}
}

// Nodes returns the control points in ascending order.
func (f *ColorTransferFunction) Nodes() []Node {
	return f.nodes
}

// Size returns the number of nodes.
func (f *ColorTransferFunction) Size() int {
	return len(f.nodes)
}

// Range returns the value range covered by the nodes.
func (f *ColorTransferFunction) Range() (float64, float64) {
	if len(f.nodes) == 0 {
		return 0, 0
	}
	return f.nodes[0].Value, f.nodes[len(f.nodes)-1].Value
}

// Color returns the interpolated color for value. An empty function
// and NaN return Gray.
func (f *ColorTransferFunction) Color(value float64) RGB {
	n := len(f.nodes)
	if n == 0 || math.IsNaN(value) {
		return Gray
	}
	if value <= f.nodes[0].Value {
		return f.nodes[0].Color
	}
	if value >= f.nodes[n-1].Value {
		return f.nodes[n-1].Color
	}
	i := sort.Search(n, func(i int) bool { return f.nodes[i].Value >= value })
	lo, hi := f.nodes[i-1], f.nodes[i]
	t := (value - lo.Value) / (hi.Value - lo.Value)
	return RGB{
		R: lo.Color.R + t*(hi.Color.R-lo.Color.R),
		G: lo.Color.G + t*(hi.Color.G-lo.Color.G),
		B: lo.Color.B + t*(hi.Color.B-lo.Color.B),
	}
}

// Map returns the 8-bit color for value.
func (f *ColorTransferFunction) Map(value float64) color.RGBA {
	return f.Color(value).RGBA()
}
