package adaptive

import (
	clipper "github.com/ctessum/go.clipper"
)

// This file is the only place that talks to the polygon engine. The engine
// works on its own pointer-based path representation; the conversions keep
// the rest of the package on plain value types.

func toClipperPath(p Path) clipper.Path {
	out := make(clipper.Path, len(p))
	for i, pt := range p {
		out[i] = clipper.NewIntPoint(clipper.CInt(pt.X), clipper.CInt(pt.Y))
	}
	return out
}

func toClipperPaths(ps Paths) clipper.Paths {
	out := make(clipper.Paths, len(ps))
	for i, p := range ps {
		out[i] = toClipperPath(p)
	}
	return out
}

func fromClipperPath(p clipper.Path) Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = IntPoint{X: int64(pt.X), Y: int64(pt.Y)}
	}
	return out
}

func fromClipperPaths(ps clipper.Paths) Paths {
	out := make(Paths, 0, len(ps))
	for _, p := range ps {
		out = append(out, fromClipperPath(p))
	}
	return out
}

// offsetPaths grows (delta > 0) or shrinks (delta < 0) closed or open paths
// by the given scaled distance.
func offsetPaths(paths Paths, jt clipper.JoinType, et clipper.EndType, delta float64) Paths {
	co := clipper.NewClipperOffset()
	co.AddPaths(toClipperPaths(paths), jt, et)
	return fromClipperPaths(co.Execute(delta))
}

func offsetPath(path Path, jt clipper.JoinType, et clipper.EndType, delta float64) Paths {
	co := clipper.NewClipperOffset()
	co.AddPath(toClipperPath(path), jt, et)
	return fromClipperPaths(co.Execute(delta))
}

// polyNode is one contour of an offset hierarchy, with its nesting depth
// below the top level and the contours of its direct children.
type polyNode struct {
	contour Path
	hole    bool
	nesting int
	childs  []Path
}

// offsetPolyTree offsets closed paths by the given scaled distance and
// returns the resulting contour hierarchy in depth-first order.
func offsetPolyTree(paths Paths, delta float64) []*polyNode {
	co := clipper.NewClipperOffset()
	co.AddPaths(toClipperPaths(paths), clipper.JtRound, clipper.EtClosedPolygon)
	tree := co.Execute2(delta)
	var nodes []*polyNode
	// depth is derived from the child lists, top level down: top-level
	// nodes are at depth 0 and odd depths are holes
	depth := map[any]int{}
	for cur := tree.GetFirst(); cur != nil; cur = cur.GetNext() {
		nesting := depth[cur]
		n := &polyNode{
			contour: fromClipperPath(cur.Contour()),
			hole:    nesting%2 == 1,
			nesting: nesting,
		}
		for _, ch := range cur.Childs() {
			depth[ch] = nesting + 1
			n.childs = append(n.childs, fromClipperPath(ch.Contour()))
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func unionPaths(subject, clip Paths) Paths {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toClipperPaths(subject), clipper.PtSubject, true)
	c.AddPaths(toClipperPaths(clip), clipper.PtClip, true)
	solution, ok := c.Execute1(clipper.CtUnion, clipper.PftEvenOdd, clipper.PftEvenOdd)
	if !ok {
		return nil
	}
	return fromClipperPaths(solution)
}

func differencePaths(subject, clip Paths) Paths {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toClipperPaths(subject), clipper.PtSubject, true)
	c.AddPaths(toClipperPaths(clip), clipper.PtClip, true)
	solution, ok := c.Execute1(clipper.CtDifference, clipper.PftEvenOdd, clipper.PftEvenOdd)
	if !ok {
		return nil
	}
	return fromClipperPaths(solution)
}

// cleanPolygons removes collinear vertices and micro features the polygon
// engine accumulates during repeated booleans.
func cleanPolygons(paths Paths) Paths {
	c := clipper.NewClipper(clipper.IoNone)
	return fromClipperPaths(c.CleanPolygons(toClipperPaths(paths), 1.415))
}

// signedArea returns the signed area of a closed path. Counterclockwise
// paths have positive area.
func signedArea(path Path) float64 {
	return clipper.Area(toClipperPath(path))
}

// pointInPolygon returns 0 if pt is outside path, +1 if inside and -1 if it
// lies on the boundary.
func pointInPolygon(pt IntPoint, path Path) int {
	return clipper.PointInPolygon(clipper.NewIntPoint(clipper.CInt(pt.X), clipper.CInt(pt.Y)), toClipperPath(path))
}
