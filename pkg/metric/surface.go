package metric

import (
	"math"

	"github.com/philipparndt/meshmetric/pkg/geometry"
	"github.com/philipparndt/meshmetric/pkg/mesh"
	"github.com/unixpickle/model3d/model3d"
)

// maxSubdivisions caps the samples taken along a triangle edge.
const maxSubdivisions = 64

// edge is a triangle edge with its end points in lexicographic order.
type edge [2]model3d.Coord3D

func newEdge(a, b model3d.Coord3D) edge {
	if less(b, a) {
		a, b = b, a
	}
	return edge{a, b}
}

func less(a, b model3d.Coord3D) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// surface answers exact closest point queries against a triangle mesh.
// The side of a query point is decided with the angle weighted pseudo
// normal of the feature (face, edge or vertex) holding the closest point.
type surface struct {
	sdf    model3d.FaceSDF
	vertex map[model3d.Coord3D]geometry.Vector3
	edges  map[edge]geometry.Vector3
	eps    float64
}

func newSurface(m *mesh.PolyData) (*surface, error) {
	mm := m.ToModel3D()
	tris := mm.TriangleSlice()
	if len(tris) == 0 {
		return nil, ErrNoSurface
	}

	s := &surface{
		vertex: make(map[model3d.Coord3D]geometry.Vector3),
		edges:  make(map[edge]geometry.Vector3),
		eps:    1e-9 * math.Max(m.BoundingBox().Diagonal(), 1),
	}
	for _, t := range tris {
		n := geometry.FromCoord3D(t.Normal())
		for k := 0; k < 3; k++ {
			a, b, c := t[k], t[(k+1)%3], t[(k+2)%3]
			s.vertex[a] = s.vertex[a].Add(n.Mul(cornerAngle(a, b, c)))
			e := newEdge(a, b)
			s.edges[e] = s.edges[e].Add(n)
		}
	}
	s.sdf = model3d.MeshToSDF(mm)
	return s, nil
}

// cornerAngle returns the interior angle at a.
func cornerAngle(a, b, c model3d.Coord3D) float64 {
	u := geometry.FromCoord3D(b).Sub(geometry.FromCoord3D(a)).Normalize()
	v := geometry.FromCoord3D(c).Sub(geometry.FromCoord3D(a)).Normalize()
	return math.Acos(math.Max(-1, math.Min(1, u.Dot(v))))
}

// signedDistance returns the distance from p to the surface, negative
// when p lies behind the surface.
func (s *surface) signedDistance(p geometry.Vector3) float64 {
	t, c, _ := s.sdf.FaceSDF(p.Coord3D())
	if t == nil {
		return 0
	}
	closest := geometry.FromCoord3D(c)
	d := p.Distance(closest)
	if d == 0 {
		return 0
	}
	if p.Sub(closest).Dot(s.normalAt(t, closest)) < 0 {
		return -d
	}
	return d
}

func (s *surface) normalAt(t *model3d.Triangle, p geometry.Vector3) geometry.Vector3 {
	for k := 0; k < 3; k++ {
		if geometry.FromCoord3D(t[k]).Distance(p) <= s.eps {
			return s.vertex[t[k]]
		}
	}
	for k := 0; k < 3; k++ {
		a, b := t[k], t[(k+1)%3]
		if segmentDistance(p, geometry.FromCoord3D(a), geometry.FromCoord3D(b)) <= s.eps {
			return s.edges[newEdge(a, b)]
		}
	}
	return geometry.FromCoord3D(t.Normal())
}

func segmentDistance(p, a, b geometry.Vector3) float64 {
	ab := b.Sub(a)
	l := ab.LengthSquared()
	if l == 0 {
		return p.Distance(a)
	}
	f := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l))
	return p.Distance(a.Add(ab.Mul(f)))
}

// frequency returns the number of subdivisions per edge for a triangle.
func frequency(longestEdge, spacing float64, minFrequency int) int {
	n := minFrequency
	if spacing > 0 {
		if f := math.Ceil(longestEdge / spacing); f > float64(n) {
			n = int(math.Min(f, maxSubdivisions))
		}
	}
	return n
}

// samplePoints covers every triangle of m with a barycentric grid whose
// spacing is SamplingStep times the bounding box diagonal.
func samplePoints(m *mesh.PolyData, p Params) []geometry.Vector3 {
	tris := m.Triangles()
	if len(tris) == 0 {
		return nil
	}
	spacing := p.SamplingStep * m.BoundingBox().Diagonal()
	var pts []geometry.Vector3
	for _, t := range tris {
		n := frequency(t.LongestEdge(), spacing, p.MinSampleFrequency)
		for i := 0; i <= n; i++ {
			for j := 0; i+j <= n; j++ {
				pts = append(pts, t.Barycentric(float64(i)/float64(n), float64(j)/float64(n)))
			}
		}
	}
	return pts
}
