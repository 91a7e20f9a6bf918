package adaptive

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSetSegmentLength(t *testing.T) {
	p, ok := setSegmentLength(IPt(0, 0), IPt(3, 4), 10)
	if !ok {
		t.Fatal("expected success")
	}
	diff(t, IPt(6, 8), p)

	if _, ok := setSegmentLength(IPt(5, 5), IPt(5, 5), 10); ok {
		t.Error("zero-length segment must fail")
	}
}

func TestDistancePointToSeg(t *testing.T) {
	distSq, closest := distancePointToSegSqrd(IPt(0, 0), IPt(100, 0), IPt(50, 30), true)
	diff(t, 900.0, distSq)
	diff(t, IPt(50, 0), closest)

	// beyond the segment end, clamped
	distSq, closest = distancePointToSegSqrd(IPt(0, 0), IPt(100, 0), IPt(200, 0), true)
	diff(t, 10000.0, distSq)
	diff(t, IPt(100, 0), closest)

	// unclamped treats the segment as an infinite line
	distSq, closest = distancePointToSegSqrd(IPt(0, 0), IPt(100, 0), IPt(200, 30), false)
	diff(t, 900.0, distSq)
	diff(t, IPt(200, 0), closest)

	// zero-length segment degrades to point distance
	distSq, _ = distancePointToSegSqrd(IPt(10, 10), IPt(10, 10), IPt(13, 14), true)
	diff(t, 25.0, distSq)
}

func TestDistancePointToPaths(t *testing.T) {
	paths := Paths{
		{IPt(0, 0), IPt(100, 0), IPt(100, 100), IPt(0, 100)},
		{IPt(300, 0), IPt(400, 0), IPt(400, 100), IPt(300, 100)},
	}
	distSq, closest := distancePointToPathsSqrd(paths, IPt(290, 50))
	diff(t, 100.0, distSq)
	diff(t, IPt(300, 50), closest)
}

func TestLine2CircleIntersect(t *testing.T) {
	c := IPt(0, 0)
	inters := line2CircleIntersect(c, 100, IPt(-200, 0), IPt(200, 0), true)
	if len(inters) != 2 {
		t.Fatalf("expected 2 intersections, got %d", len(inters))
	}
	// entry first, ordered along the segment
	diff(t, Vec(-100, 0), inters[0], cmpopts.EquateApprox(0, 1e-9))
	diff(t, Vec(100, 0), inters[1], cmpopts.EquateApprox(0, 1e-9))

	// intersections lie at distance r from the center
	for _, p := range inters {
		if d := math.Abs(p.Hypot() - 100); d > 1e-9 {
			t.Errorf("intersection %v is %g away from the radius", p, d)
		}
	}

	// segment that misses the circle
	if inters := line2CircleIntersect(c, 100, IPt(-200, 150), IPt(200, 150), true); len(inters) != 0 {
		t.Errorf("expected no intersections, got %v", inters)
	}

	// clamped: segment ends before reaching the circle
	if inters := line2CircleIntersect(c, 100, IPt(-300, 0), IPt(-200, 0), true); len(inters) != 0 {
		t.Errorf("expected no clamped intersections, got %v", inters)
	}

	// unclamped returns both solutions of the underlying line
	inters = line2CircleIntersect(c, 100, IPt(-300, 0), IPt(-200, 0), false)
	if len(inters) != 2 {
		t.Fatalf("expected 2 unclamped intersections, got %d", len(inters))
	}
	diff(t, Vec(-100, 0), inters[0], cmpopts.EquateApprox(0, 1e-9))
	diff(t, Vec(100, 0), inters[1], cmpopts.EquateApprox(0, 1e-9))
}

func TestCircle2CircleIntersect(t *testing.T) {
	p1, p2, ok := circle2CircleIntersect(IPt(0, 0), IPt(100, 0), 100)
	if !ok {
		t.Fatal("expected intersections")
	}
	h := math.Sqrt(4*100*100-100*100) / 2
	diff(t, Vec(50, h), p1, cmpopts.EquateApprox(0, 1e-9))
	diff(t, Vec(50, -h), p2, cmpopts.EquateApprox(0, 1e-9))

	if _, _, ok := circle2CircleIntersect(IPt(0, 0), IPt(0, 0), 100); ok {
		t.Error("coincident centers must fail")
	}
	if _, _, ok := circle2CircleIntersect(IPt(0, 0), IPt(500, 0), 100); ok {
		t.Error("disjoint circles must fail")
	}
}

func TestSegmentIntersection(t *testing.T) {
	p, ok := segmentIntersection(IPt(0, 0), IPt(100, 100), IPt(0, 100), IPt(100, 0))
	if !ok {
		t.Fatal("expected intersection")
	}
	diff(t, IPt(50, 50), p)

	if _, ok := segmentIntersection(IPt(0, 0), IPt(100, 0), IPt(0, 10), IPt(100, 10)); ok {
		t.Error("parallel segments must not intersect")
	}
	if _, ok := segmentIntersection(IPt(0, 0), IPt(10, 10), IPt(0, 100), IPt(100, 0)); ok {
		t.Error("intersection outside the first segment must be rejected")
	}
}

func TestPathsIntersection(t *testing.T) {
	square := Path{IPt(0, 0), IPt(100, 0), IPt(100, 100), IPt(0, 100)}
	p, ok := pathsIntersection(Paths{square}, IPt(50, 50), IPt(150, 50))
	if !ok {
		t.Fatal("expected intersection with the square")
	}
	diff(t, IPt(100, 50), p)

	if _, ok := pathsIntersection(Paths{square}, IPt(40, 40), IPt(60, 60)); ok {
		t.Error("interior segment must not intersect the boundary")
	}
}

func TestPointSideOfLine(t *testing.T) {
	if s := pointSideOfLine(IPt(0, 0), IPt(100, 0), IPt(50, 50)); s <= 0 {
		t.Errorf("expected positive side, got %g", s)
	}
	if s := pointSideOfLine(IPt(0, 0), IPt(100, 0), IPt(50, -50)); s >= 0 {
		t.Errorf("expected negative side, got %g", s)
	}
	diff(t, 0.0, pointSideOfLine(IPt(0, 0), IPt(100, 0), IPt(50, 0)))
}

func TestAngle3Points(t *testing.T) {
	diff(t, math.Pi/2, angle3Points(Vec(100, 0), Vec(0, 0), Vec(0, 100)), cmpopts.EquateApprox(0, 1e-9))
	diff(t, math.Pi, angle3Points(Vec(-100, 0), Vec(0, 0), Vec(100, 0)), cmpopts.EquateApprox(0, 1e-9))
	// result is unsigned and wraps to [0, π]
	diff(t, math.Pi/2, angle3Points(Vec(0, -100), Vec(0, 0), Vec(100, 0)), cmpopts.EquateApprox(0, 1e-9))
}

func TestPolygonCentroid(t *testing.T) {
	square := Path{IPt(0, 0), IPt(1000, 0), IPt(1000, 1000), IPt(0, 1000)}
	c, ok := polygonCentroid(square)
	if !ok {
		t.Fatal("expected centroid")
	}
	diff(t, IPt(500, 500), c)

	// regular polygon centered away from the origin
	var hexagon Path
	for i := 0; i < 6; i++ {
		th := 2 * math.Pi * float64(i) / 6
		hexagon = append(hexagon, IPt(3000+int64(math.Round(1000*math.Cos(th))),
			-2000+int64(math.Round(1000*math.Sin(th)))))
	}
	c, ok = polygonCentroid(hexagon)
	if !ok {
		t.Fatal("expected centroid")
	}
	if math.Abs(float64(c.X-3000)) > 1 || math.Abs(float64(c.Y+2000)) > 1 {
		t.Errorf("hexagon centroid %v is off center", c)
	}

	if _, ok := polygonCentroid(Path{IPt(0, 0), IPt(100, 0)}); ok {
		t.Error("degenerate polygon must fail")
	}
}

func TestIsPointWithinCutRegion(t *testing.T) {
	bound := Paths{
		{IPt(0, 0), IPt(1000, 0), IPt(1000, 1000), IPt(0, 1000)},
		{IPt(400, 400), IPt(400, 600), IPt(600, 600), IPt(600, 400)}, // hole
	}
	if !isPointWithinCutRegion(bound, IPt(200, 200)) {
		t.Error("point between boundary and hole must be inside")
	}
	if isPointWithinCutRegion(bound, IPt(500, 500)) {
		t.Error("point inside the hole must be outside")
	}
	if isPointWithinCutRegion(bound, IPt(1500, 500)) {
		t.Error("point outside the boundary must be outside")
	}
}

func TestTranslatePath(t *testing.T) {
	p := Path{IPt(0, 0), IPt(10, 20)}
	diff(t, Path{IPt(5, -5), IPt(15, 15)}, translatePath(p, IPt(5, -5)))
}
