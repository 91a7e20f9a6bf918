package adaptive

import "math"

// ntol is the numeric tolerance for the scaled integer geometry.
const ntol = 1e-7

// IntPoint is a 2D point in scaled integer coordinates. All products and
// squared distances of the operations below stay within the range of float64
// for coordinates that fit the scaled input domain.
type IntPoint struct {
	X int64
	Y int64
}

// IPt returns the scaled integer point (x, y).
func IPt(x, y int64) IntPoint {
	return IntPoint{X: x, Y: y}
}

// roundPt rounds a floating-point result to scaled integer coordinates.
func roundPt(v Vec2) IntPoint {
	return IntPoint{X: int64(math.Round(v.X)), Y: int64(math.Round(v.Y))}
}

// Path is a sequence of scaled points treated as a closed polygon unless
// noted otherwise. Vertex order encodes orientation: counterclockwise loops
// are outer contours, clockwise loops are holes.
type Path []IntPoint

// Paths is an ordered list of Path. When used as a region boundary, index 0
// is the outer contour and the remaining entries are holes.
type Paths []Path

// translatePath returns a copy of the path shifted by delta.
func translatePath(p Path, delta IntPoint) Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = IntPoint{X: pt.X + delta.X, Y: pt.Y + delta.Y}
	}
	return out
}

func hasAnyPath(paths Paths) bool {
	for _, p := range paths {
		if len(p) > 0 {
			return true
		}
	}
	return false
}

// distanceSqrd returns the squared euclidean distance between two scaled
// points.
func distanceSqrd(p1, p2 IntPoint) float64 {
	dx := float64(p1.X - p2.X)
	dy := float64(p1.Y - p2.Y)
	return dx*dx + dy*dy
}

// setSegmentLength rescales p2 so that the segment p1→p2 has the given
// length. It reports failure for a zero-length segment.
func setSegmentLength(p1, p2 IntPoint, length float64) (IntPoint, bool) {
	dx := float64(p2.X - p1.X)
	dy := float64(p2.Y - p1.Y)
	l := math.Sqrt(dx*dx + dy*dy)
	if l <= 0 {
		return p2, false
	}
	return IntPoint{
		X: p1.X + int64(length*dx/l),
		Y: p1.Y + int64(length*dy/l),
	}, true
}

// distancePointToSegSqrd returns the squared distance from pt to the segment
// p1→p2 along with the closest point. With clampParam the projection
// parameter is clamped to the segment; without it the segment is treated as
// an infinite line.
func distancePointToSegSqrd(p1, p2, pt IntPoint, clampParam bool) (float64, IntPoint) {
	d21x := float64(p2.X - p1.X)
	d21y := float64(p2.Y - p1.Y)
	dp1x := float64(pt.X - p1.X)
	dp1y := float64(pt.Y - p1.Y)
	segLenSqr := d21x*d21x + d21y*d21y
	if segLenSqr == 0 {
		// zero-length segment, point to point distance
		return dp1x*dp1x + dp1y*dp1y, p1
	}
	param := dp1x*d21x + dp1y*d21y
	if clampParam {
		if param < 0 {
			param = 0
		} else if param > segLenSqr {
			param = segLenSqr
		}
	}
	closest := IntPoint{
		X: p1.X + int64(param*d21x/segLenSqr),
		Y: p1.Y + int64(param*d21y/segLenSqr),
	}
	dx := float64(pt.X - closest.X)
	dy := float64(pt.Y - closest.Y)
	return dx*dx + dy*dy, closest
}

// distancePointToPathsSqrd returns the squared distance from pt to the
// closest segment of any path, along with the closest point.
func distancePointToPathsSqrd(paths Paths, pt IntPoint) (float64, IntPoint) {
	minDistSq := math.MaxFloat64
	closest := pt
	for _, path := range paths {
		size := len(path)
		for j := 0; j < size; j++ {
			p1 := path[(j+size-1)%size]
			distSq, clp := distancePointToSegSqrd(p1, path[j], pt, true)
			if distSq < minDistSq {
				minDistSq = distSq
				closest = clp
			}
		}
	}
	return minDistSq, closest
}

// circle2CircleIntersect returns the two intersection points of equal-radius
// circles centered at c1 and c2. It reports failure for coincident centers
// and for circles too far apart to cross.
func circle2CircleIntersect(c1, c2 IntPoint, radius float64) (Vec2, Vec2, bool) {
	dx := float64(c2.X - c1.X)
	dy := float64(c2.Y - c1.Y)
	d := math.Sqrt(dx*dx + dy*dy)
	if d < ntol {
		return Vec2{}, Vec2{}, false // same center
	}
	if d >= 2*radius {
		return Vec2{}, Vec2{}, false
	}
	h := math.Sqrt(4*radius*radius-d*d) / 2
	mx := 0.5 * float64(c1.X+c2.X)
	my := 0.5 * float64(c1.Y+c2.Y)
	return Vec(mx-dy*h/d, my+dx*h/d), Vec(mx+dy*h/d, my-dx*h/d), true
}

// pointSideOfLine returns the signed cross product locating pt relative to
// the directed line p1→p2. Positive values lie on the left side.
func pointSideOfLine(p1, p2, pt IntPoint) float64 {
	return float64(p2.X-p1.X)*float64(pt.Y-p1.Y) - float64(p2.Y-p1.Y)*float64(pt.X-p1.X)
}

// angle3Points returns the unsigned angle at p2 formed by p1 and p3, in
// [0, π].
func angle3Points(p1, p2, p3 Vec2) float64 {
	t1 := math.Atan2(p1.Y-p2.Y, p1.X-p2.X)
	t2 := math.Atan2(p3.Y-p2.Y, p3.X-p2.X)
	a := math.Abs(t2 - t1)
	return math.Min(a, 2*math.Pi-a)
}

// line2CircleIntersect intersects the segment p1→p2 with the circle of the
// given radius around c. With clampT only intersections within the segment
// are returned; without it the segment is treated as an infinite line and
// both solutions are returned. Results are ordered along p1→p2, so when two
// points are returned the first is the entry and the second the exit.
func line2CircleIntersect(c IntPoint, radius float64, p1, p2 IntPoint, clampT bool) []Vec2 {
	dx := float64(p2.X - p1.X)
	dy := float64(p2.Y - p1.Y)
	lcx := float64(p1.X - c.X)
	lcy := float64(p1.Y - c.Y)
	a := dx*dx + dy*dy
	b := 2*dx*lcx + 2*dy*lcy
	cc := lcx*lcx + lcy*lcy - radius*radius
	sq := b*b - 4*a*cc
	if sq < 0 {
		return nil // no solution
	}
	sq = math.Sqrt(sq)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	at := func(t float64) Vec2 {
		return Vec(float64(p1.X)+t*dx, float64(p1.Y)+t*dy)
	}
	var result []Vec2
	if clampT {
		if t1 >= 0 && t1 <= 1 {
			result = append(result, at(t1))
		}
		if t2 >= 0 && t2 <= 1 {
			result = append(result, at(t2))
		}
	} else {
		result = append(result, at(t1), at(t2))
	}
	return result
}

// segmentIntersection intersects the segments s1p1→s1p2 and s2p1→s2p2. It
// reports failure for parallel segments and for intersections outside either
// segment. Degenerate overlap must be rejected by the caller.
func segmentIntersection(s1p1, s1p2, s2p1, s2p2 IntPoint) (IntPoint, bool) {
	s1dx := float64(s1p2.X - s1p1.X)
	s1dy := float64(s1p2.Y - s1p1.Y)
	s2dx := float64(s2p2.X - s2p1.X)
	s2dy := float64(s2p2.Y - s2p1.Y)
	d := s1dy*s2dx - s2dy*s1dx
	if math.Abs(d) < ntol {
		return IntPoint{}, false // parallel
	}
	lpdx := float64(s1p1.X - s2p1.X)
	lpdy := float64(s1p1.Y - s2p1.Y)
	p1d := s2dy*lpdx - s2dx*lpdy
	p2d := s1dy*lpdx - s1dx*lpdy
	if d < 0 && (p1d < d || p1d > 0 || p2d < d || p2d > 0) {
		return IntPoint{}, false
	}
	if d > 0 && (p1d < 0 || p1d > d || p2d < 0 || p2d > d) {
		return IntPoint{}, false
	}
	t := p1d / d
	return IntPoint{
		X: s1p1.X + int64(s1dx*t),
		Y: s1p1.Y + int64(s1dy*t),
	}, true
}

// pathsIntersection returns the first intersection of the segment p1→p2 with
// any segment of paths.
func pathsIntersection(paths Paths, p1, p2 IntPoint) (IntPoint, bool) {
	for _, path := range paths {
		size := len(path)
		if size < 2 {
			continue
		}
		for j := 0; j < size; j++ {
			pp1 := path[(j+size-1)%size]
			if is, ok := segmentIntersection(p1, p2, pp1, path[j]); ok {
				return is, true
			}
		}
	}
	return IntPoint{}, false
}

// polygonCentroid returns the centroid of a closed path by the signed-area
// formula. It reports failure for degenerate polygons.
func polygonCentroid(vertices Path) (IntPoint, bool) {
	size := len(vertices)
	if size == 0 {
		return IntPoint{}, false
	}
	var signedArea, cx, cy float64
	for i := 0; i < size; i++ {
		x0 := float64(vertices[i].X)
		y0 := float64(vertices[i].Y)
		x1 := float64(vertices[(i+1)%size].X)
		y1 := float64(vertices[(i+1)%size].Y)
		a := x0*y1 - x1*y0
		signedArea += a
		cx += (x0 + x1) * a
		cy += (y0 + y1) * a
	}
	signedArea *= 0.5
	if math.Abs(signedArea) < ntol {
		return IntPoint{}, false
	}
	return IntPoint{
		X: int64(cx / (6 * signedArea)),
		Y: int64(cy / (6 * signedArea)),
	}, true
}

// isPointWithinCutRegion reports whether the point lies inside the first path
// of the region boundary and outside every hole.
func isPointWithinCutRegion(bound Paths, pt IntPoint) bool {
	for i, path := range bound {
		pip := pointInPolygon(pt, path)
		if i == 0 && pip == 0 {
			return false // outside boundary
		}
		if i > 0 && pip != 0 {
			return false // inside a hole
		}
	}
	return true
}
