package stereo

import (
	"math"

	"github.com/LdDl/ptv-go/internal/camera"
	"github.com/LdDl/ptv-go/internal/geom"
)

// triangulate solves, in a least-squares sense, the point of closest
// approach to the lines of sight through each participating camera's
// detection. For each ray with unit direction s and anchor (camera
// center) c, it accumulates the projector I-s*s^T into M and P, then
// solves worldpoint = M^-1 * P. The residual is the mean squared
// perpendicular distance from the solution to each ray.
//
// points[j] is camera cams[j]'s undistorted detection for this tuple;
// both slices are parallel and hold exactly the participating cameras
// (N for a full match, N-1 for a degraded one).
func triangulate(cams []camera.Camera, points []camera.Point) (geom.Vec3, float64) {
	// A single line of sight has no point of closest approach: its
	// normal-equations matrix is singular, so it is rejected outright
	// rather than left to the inversion to flag under rounding.
	if len(cams) < 2 {
		return geom.Vec3{}, math.Inf(1)
	}
	m := geom.NewMatrix3()
	var p geom.Vec3
	sights := make([]geom.Vec3, len(cams))
	centers := make([]geom.Vec3, len(cams))

	for j, cam := range cams {
		world := cam.ImageToWorld(points[j]).Vec3()
		center := cam.Center()
		sight := world.Sub(center)
		mag := sight.Magnitude()
		if mag == 0 {
			return geom.Vec3{}, math.Inf(1)
		}
		sight = sight.Scale(1 / mag)

		proj := geom.OuterProjector(sight)
		m = m.Add(proj)
		p = p.Add(proj.MulVec(center))
		sights[j] = sight
		centers[j] = center
	}

	minv, err := m.Invert()
	if err != nil {
		return geom.Vec3{}, math.Inf(1)
	}
	worldPos := minv.MulVec(p)

	var sum float64
	for j := range cams {
		s, c := sights[j], centers[j]
		h := worldPos.Sub(s.Scale(geom.Dot(worldPos, s))).Sub(c.Sub(s.Scale(geom.Dot(c, s))))
		sum += h.Magnitude2()
	}
	residual := sum / float64(len(cams))

	if math.IsNaN(worldPos.X) || math.IsNaN(worldPos.Y) || math.IsNaN(worldPos.Z) || math.IsNaN(residual) {
		return geom.Vec3{}, math.Inf(1)
	}
	return worldPos, residual
}
