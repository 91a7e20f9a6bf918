package adaptive

import "math"

// cleanPath merges near-collinear and near-coincident vertices of a path. A
// vertex is dropped when it lies within perpendicular distance tolerance of
// the segment formed by its predecessor and the incoming vertex.
func cleanPath(inp Path, tolerance float64) Path {
	outp := make(Path, 0, len(inp))
	for _, pt := range inp {
		switch {
		case len(outp) == 0:
			outp = append(outp, pt)
		case len(outp) >= 2:
			distSqrd, _ := distancePointToSegSqrd(outp[len(outp)-2], pt, outp[len(outp)-1], true)
			if math.Sqrt(distSqrd) < tolerance {
				outp[len(outp)-1] = pt
			} else {
				outp = append(outp, pt)
			}
		case math.Sqrt(distanceSqrd(outp[len(outp)-1], pt)) < tolerance:
			outp[len(outp)-1] = pt
		default:
			outp = append(outp, pt)
		}
	}
	return outp
}
