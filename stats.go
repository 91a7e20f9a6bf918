package adaptive

import "time"

// Stats collects diagnostic counters while toolpaths are generated. Attach a
// Stats to [Adaptive2D.Stats] to receive them; a nil sink disables
// collection. Counters accumulate across all regions of one Execute call.
type Stats struct {
	// ProcessedPoints counts every step of the per-pass loop, including
	// steps that were discarded.
	ProcessedPoints int64

	// Iterations counts angle–area probes across all steps.
	Iterations int64

	// ExceededIterations counts steps whose angle search ran out of its
	// iteration budget before reaching the target accuracy.
	ExceededIterations int64

	// OutputPoints counts vertices emitted on cutting passes after path
	// cleaning.
	OutputPoints int64

	// CutLength is the total cutting distance in model units.
	CutLength float64

	// SkippedRegions counts regions abandoned because no entry point was
	// found or the helix did not fit.
	SkippedRegions int64

	// Elapsed is the total wall-clock time spent processing regions.
	Elapsed time.Duration
}

func (s *Stats) addPoint() {
	if s != nil {
		s.ProcessedPoints++
	}
}

func (s *Stats) addIteration(exhausted bool) {
	if s != nil {
		s.Iterations++
		if exhausted {
			s.ExceededIterations++
		}
	}
}

func (s *Stats) addOutput(points int) {
	if s != nil {
		s.OutputPoints += int64(points)
	}
}

func (s *Stats) addCutLength(length float64) {
	if s != nil {
		s.CutLength += length
	}
}

func (s *Stats) addSkipped() {
	if s != nil {
		s.SkippedRegions++
	}
}

func (s *Stats) addElapsed(d time.Duration) {
	if s != nil {
		s.Elapsed += d
	}
}
