package viewer

import (
	"math"

	"github.com/philipparndt/meshmetric/pkg/geometry"
)

// Camera orbits a target point
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Field of view in radians
	Distance  float64
	RotationX float64 // elevation
	RotationY float64 // azimuth
}

// NewCamera creates a camera looking down -Z at a bounding box
func NewCamera(bbox geometry.BoundingBox) *Camera {
	c := &Camera{
		Up:  geometry.NewVector3(0, 1, 0),
		FOV: math.Pi / 4,
	}
	c.Fit(bbox)
	return c
}

// Fit targets the center of bbox from a distance that shows all of it.
// Rotation is kept.
func (c *Camera) Fit(bbox geometry.BoundingBox) {
	if bbox.IsEmpty() {
		bbox = geometry.BoundingBoxOf([]geometry.Vector3{{}, geometry.NewVector3(1, 1, 1)})
	}
	size := bbox.Size()
	c.Target = bbox.Center()
	c.Distance = math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	if c.Distance == 0 {
		c.Distance = 1
	}
	c.UpdatePosition()
}

// UpdatePosition places the camera on its orbit
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	// keep away from the poles where Up becomes parallel to the view
	maxAngle := math.Pi/2 - 0.1
	c.RotationX = math.Max(-maxAngle, math.Min(maxAngle, c.RotationX))

	c.UpdatePosition()
}

// Zoom scales the camera distance by 1+delta
func (c *Camera) Zoom(delta float64) {
	c.Distance *= 1.0 + delta
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// ViewDirection returns the unit vector the camera looks along
func (c *Camera) ViewDirection() geometry.Vector3 {
	forward, _, _ := c.basis()
	return forward
}

// Project projects a point to screen coordinates and its depth along
// the view direction
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward, right, up := c.basis()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	depth := math.Max(z, nearPlane)
	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(depth*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(depth*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}

// Unproject converts screen coordinates to a ray
func (c *Camera) Unproject(screenX, screenY, width, height float64) (origin, direction geometry.Vector3) {
	ndcX := (2.0 * screenX / width) - 1.0
	ndcY := 1.0 - (2.0 * screenY / height)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)
	forward, right, up := c.basis()

	rayDir := forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))
	return c.Position, rayDir.Normalize()
}
