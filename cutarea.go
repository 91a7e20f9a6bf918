package adaptive

import "math"

// calcCutArea estimates the area swept into uncut material when the tool
// disc of radius r moves from center c1 to center c2, given the polygons of
// the already-cleared region: the part of the plane inside disc(c2), outside
// disc(c1) and outside the cleared region.
//
// Rather than evaluating polygon booleans, the estimator integrates the
// crescent analytically along the cleared-region boundary. For every portion
// of that boundary lying inside disc(c2) it compares the area of the
// circular sector spanned by the portion's endpoints with the area actually
// enclosed between the boundary and the two discs, sampling the boundary at
// a fixed arc-length resolution.
func calcCutArea(c1, c2 IntPoint, cleared Paths, r float64) float64 {
	if distanceSqrd(c1, c2) < ntol {
		return 0
	}
	rsqrd := r * r
	area := 0.0

	for _, path := range cleared {
		size := len(path)
		if size == 0 {
			continue
		}

		// find a starting vertex outside disc(c2); a path fully inside
		// contributes nothing
		cur := 0
		found := false
		for i := 0; i < size; i++ {
			if distanceSqrd(path[cur], c2) > rsqrd {
				found = true
				break
			}
			cur++
			if cur >= size {
				cur = 0
			}
		}
		if !found {
			continue
		}

		// walk the path and collect the subpaths inside disc(c2)
		var inner Path
		prevInside := false
		process := false
		p1 := path[cur]
		for i := 0; i < size; i++ {
			cur++
			if cur >= size {
				cur = 0
			}
			p2 := path[cur]
			if !prevInside {
				// outside; check whether this segment enters disc(c2)
				if d, _ := distancePointToSegSqrd(p1, p2, c2, true); d <= rsqrd {
					prevInside = true
					inner = inner[:0]
					if inters := line2CircleIntersect(c2, r, p1, p2, true); len(inters) > 0 {
						inner = append(inner, roundPt(inters[0]))
						if len(inters) > 1 {
							// segment passes straight through
							inner = append(inner, roundPt(inters[1]))
							process = true
							prevInside = false
						} else {
							inner = append(inner, p2)
						}
					} else {
						// tangential edge case
						inner = append(inner, p2)
					}
				}
			} else {
				if distanceSqrd(c2, p2) <= rsqrd {
					inner = append(inner, p2)
				} else {
					// leaving disc(c2), close the subpath at the exit
					if inters := line2CircleIntersect(c2, r, p1, p2, true); len(inters) > 0 {
						inner = append(inner, roundPt(inters[len(inters)-1]))
					}
					process = true
					prevInside = false
				}
			}

			if process {
				process = false
				area += innerSubpathArea(c1, c2, inner, r)
			}
			p1 = p2
		}
	}
	return area
}

// innerSubpathArea returns the signed contribution of one cleared-boundary
// subpath lying inside disc(c2). The subpath endpoints span a sector of
// disc(c2); the polygon enclosed between the subpath and the two discs is
// assembled by casting scan rays from c2 across the sector and subtracted
// from the sector area. The sign flips when the subpath runs against the
// cutting direction, i.e. when the sector lies on the trailing side of the
// tool.
func innerSubpathArea(c1, c2 IntPoint, inner Path, r float64) float64 {
	size := len(inner)
	if size == 0 {
		return 0
	}
	fpc2 := inner[0]
	lpc2 := inner[size-1]
	innerLen := 0.0
	for j := 1; j < size; j++ {
		innerLen += math.Sqrt(distanceSqrd(inner[j-1], inner[j]))
	}

	// compare the general subpath direction with the cutting direction
	fd := Vec(float64(lpc2.X-fpc2.X), float64(lpc2.Y-fpc2.Y))
	cutd := Vec(float64(c2.X-c1.X), float64(c2.Y-c1.Y))
	diff := math.Abs(cutd.Angle() - fd.Angle())
	diff = math.Min(diff, 2*math.Pi-diff)
	reverse := diff > math.Pi/2

	fi1 := math.Atan2(float64(fpc2.Y-c2.Y), float64(fpc2.X-c2.X))
	fi2 := math.Atan2(float64(lpc2.Y-c2.Y), float64(lpc2.X-c2.X))
	minFi, maxFi := fi1, fi2
	if reverse {
		minFi, maxFi = fi2, fi1
	}
	if maxFi < minFi {
		maxFi += 2 * math.Pi
	}

	scanDistance := 2.5 * r
	stepDistance := float64(resolutionFactor + 1)

	pthToSubtract := Path{fpc2}
	prevPt := inner[0]
	distance := 0.0
	for j := 1; j < size; j++ {
		cpt := inner[j]
		segLen := math.Sqrt(distanceSqrd(cpt, prevPt))
		if segLen < ntol {
			continue // segment too short
		}
		for posUnclamped := 0.0; posUnclamped < segLen+stepDistance; posUnclamped += stepDistance {
			pos := posUnclamped
			if pos > segLen {
				distance += stepDistance - (pos - segLen)
				pos = segLen // land exactly on the segment end
			} else {
				distance += stepDistance
			}
			dx := float64(cpt.X - prevPt.X)
			dy := float64(cpt.Y - prevPt.Y)
			segPoint := IntPoint{
				X: prevPt.X + int64(dx*pos/segLen),
				Y: prevPt.Y + int64(dy*pos/segLen),
			}
			fi := minFi + distance*(maxFi-minFi)/innerLen
			scanPoint := IntPoint{
				X: c2.X + int64(scanDistance*math.Cos(fi)),
				Y: c2.Y + int64(scanDistance*math.Sin(fi)),
			}

			intersC2 := segPoint
			intersC1 := segPoint

			// the scan ray normally crosses disc(c2)
			if inters := line2CircleIntersect(c2, r, segPoint, scanPoint, true); len(inters) > 0 {
				intersC2 = roundPt(inters[len(inters)-1])
			} else {
				pthToSubtract = append(pthToSubtract, segPoint)
			}

			if inters := line2CircleIntersect(c1, r, segPoint, scanPoint, true); len(inters) > 0 {
				intersC1 = roundPt(inters[len(inters)-1])
				if distanceSqrd(segPoint, intersC2) < distanceSqrd(segPoint, intersC1) {
					pthToSubtract = append(pthToSubtract, intersC2)
				} else {
					pthToSubtract = append(pthToSubtract, intersC1)
				}
			} else {
				pthToSubtract = append(pthToSubtract, segPoint)
			}
		}
		prevPt = cpt
	}
	pthToSubtract = append(pthToSubtract, lpc2, c2)

	segArea := signedArea(pthToSubtract)
	sector := (maxFi - minFi) * r * r / 2
	if reverse {
		return -(sector - math.Abs(segArea))
	}
	return sector - math.Abs(segArea)
}
