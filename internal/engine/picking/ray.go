// Package picking provides ray casting against globe markers.
package picking

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/geoglobe/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// NDC converts pixel coordinates to normalized device coordinates (-1 to 1, +Y up).
func NDC(screenX, screenY, viewportW, viewportH float64) (x, y float64) {
	return 2*screenX/viewportW - 1, 1 - 2*screenY/viewportH
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float64, invViewProj math.Mat4) Ray {
	ndcX, ndcY := NDC(screenX, screenY, viewportW, viewportH)
	return NDCToRay(ndcX, ndcY, invViewProj)
}

// NDCToRay unprojects a normalized device coordinate into a world-space ray.
func NDCToRay(ndcX, ndcY float64, invViewProj math.Mat4) Ray {
	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// IntersectSphere tests the ray against a sphere.
// Returns the distance to the nearest intersection in front of the origin.
// If the ray starts inside the sphere, returns the exit distance.
func (r Ray) IntersectSphere(center math.Vec3, radius float64) (t float64, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := gomath.Sqrt(disc)
	t0, t1 := -b-sq, -b+sq
	if t1 < 0 {
		return 0, false
	}
	if t0 < 0 {
		return t1, true
	}
	return t0, true
}

// Hit is one intersected marker.
type Hit struct {
	Index    int
	Distance float64
}

// Picker returns the markers a ray intersects, nearest first.
type Picker interface {
	Pick(r Ray) []Hit
}

// DefaultHitRadius is the pick radius around each marker, in scene units.
const DefaultHitRadius = 0.1

// MarkerPicker tests small spheres around marker positions.
// Markers behind an opaque globe centered at the origin are not reported.
type MarkerPicker struct {
	Markers     []math.Vec3
	HitRadius   float64
	GlobeRadius float64 // 0 disables occlusion
}

// NewMarkerPicker returns a picker over the given marker positions.
func NewMarkerPicker(markers []math.Vec3, globeRadius float64) *MarkerPicker {
	return &MarkerPicker{Markers: markers, HitRadius: DefaultHitRadius, GlobeRadius: globeRadius}
}

// Pick implements Picker.
func (p *MarkerPicker) Pick(r Ray) []Hit {
	radius := p.HitRadius
	if radius <= 0 {
		radius = DefaultHitRadius
	}

	occluder := gomath.Inf(1)
	if p.GlobeRadius > 0 {
		if t, ok := r.IntersectSphere(math.Vec3{}, p.GlobeRadius); ok {
			occluder = t
		}
	}

	var hits []Hit
	for i, m := range p.Markers {
		t, ok := r.IntersectSphere(m, radius)
		if !ok || t > occluder {
			continue
		}
		hits = append(hits, Hit{Index: i, Distance: t})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// Nearest returns the closest hit, if any.
func Nearest(hits []Hit) (Hit, bool) {
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}
