package adaptive

import (
	"errors"
	"fmt"
	"math"
	"time"

	clipper "github.com/ctessum/go.clipper"
)

// Tuning constants of the clearing loop.
const (
	// resolutionFactor ties the scaled integer resolution to the
	// configured tolerance: one tolerance unit spans this many scaled
	// units.
	resolutionFactor = 8

	// maxIterations bounds the angle–area probes per step.
	maxIterations = 16

	// areaErrorFactor sets the accepted mismatch between the achieved and
	// the target cut area per distance: a probe is accepted within
	// areaErrorFactor/step + 2 of the target.
	areaErrorFactor = 0.05

	// angleHistoryPoints is the history window for angle prediction.
	angleHistoryPoints = 3

	// directionSmoothingBufLen is the gyro window for direction smoothing.
	directionSmoothingBufLen = 3

	// engageAreaThrFactor scales the minimal engage area relative to the
	// optimal cut area.
	engageAreaThrFactor = 0.2

	// engageScanDistanceFactor scales the engage scan stepping distance.
	engageScanDistanceFactor = 0.2

	cleanPathTolerance          = 1.0
	finishingCleanPathTolerance = 0.5

	// minCutAreaFactor filters out passes with insignificant cumulative
	// cut area.
	minCutAreaFactor = 0.02

	passesLimit        = math.MaxInt
	pointsPerPassLimit = math.MaxInt

	// progressTicks is the minimal interval between progress reports.
	progressTicks = time.Second / 20
)

// MotionType classifies one polyline of an [Output].
type MotionType int

const (
	// MotionCutting marks a cutting move through material.
	MotionCutting MotionType = iota
	// MotionLinkClear marks a link move that travels entirely over
	// already-cleared material.
	MotionLinkClear
	// MotionLinkNotClear marks a link move that crosses uncut stock and
	// must be traversed at safe height.
	MotionLinkNotClear
	// MotionLinkClearAtPrevPass is reserved for downstream consumers of
	// the motion enumeration; it is never emitted.
	MotionLinkClearAtPrevPass
)

// OperationType selects the preprocessing applied to the input polygons.
type OperationType int

const (
	// OpClearing machines the interior of the input polygons.
	OpClearing OperationType = iota
	// OpProfilingInside machines a band inside the input contours.
	OpProfilingInside
	// OpProfilingOutside machines a band outside the input contours.
	OpProfilingOutside
)

// ToolPath is one polyline of cutter-center positions in model units.
type ToolPath struct {
	Motion MotionType
	Points []Point
}

// Output is the toolpath generated for one connected machining region.
type Output struct {
	// HelixCenter is the center of the helical entry ramp.
	HelixCenter Point
	// StartPoint is the first point of the first cutting pass.
	StartPoint Point
	// Paths holds cutting passes and link moves in execution order.
	Paths []ToolPath
	// ReturnMotion classifies the final move back to the helix center.
	ReturnMotion MotionType
}

// ProgressFunc receives partial trajectories while a region is processed. It
// is called at most once per progress tick. Returning false requests
// cancellation: the current region terminates cleanly without a finishing
// pass and no further regions are processed. The callback must not mutate
// the paths it receives.
type ProgressFunc func(partial []ToolPath) bool

// ErrInvalidConfig is returned by [Adaptive2D.Execute] for out-of-range
// parameters, before any computation takes place.
var ErrInvalidConfig = errors.New("adaptive: invalid configuration")

// Adaptive2D generates adaptive clearing toolpaths. The zero value is not
// usable; ToolDiameter, StepOverFactor and Tolerance must be set.
//
// Execute may be called repeatedly and the struct holds no state between
// calls.
type Adaptive2D struct {
	// ToolDiameter is the cutter diameter in model units.
	ToolDiameter float64

	// HelixRampDiameter is the diameter of the helical entry ramp. Zero
	// or a value larger than the tool diameter selects the tool radius.
	HelixRampDiameter float64

	// StepOverFactor is the target radial engagement as a fraction of the
	// tool diameter, in (0, 1].
	StepOverFactor float64

	// Tolerance is the geometric tolerance in model units.
	Tolerance float64

	// PolyTreeNestingLimit bounds the nesting depth of machined regions;
	// zero means unlimited.
	PolyTreeNestingLimit int

	// OpType selects clearing or profiling preprocessing.
	OpType OperationType

	// ProcessHoles includes hole contours in the machining boundary.
	ProcessHoles bool

	// Stats, when non-nil, collects diagnostic counters.
	Stats *Stats
}

// engine holds the scaled configuration and mutable state of one Execute
// call. The regions of one call are processed in turn and share the results,
// the progress clock and the stop flag; each call builds its own engine, so
// separate calls are independent.
type engine struct {
	cfg Adaptive2D

	scaleFactor            float64
	toolRadiusScaled       int64
	helixRampRadiusScaled  int64
	finishPassOffsetScaled int64

	referenceCutArea float64
	optimalCutAreaPD float64
	minCutAreaPD     float64

	progress         ProgressFunc
	lastProgressTime time.Time
	stopProcessing   bool

	results []Output
}

// Execute generates toolpaths for the given closed input polygons. Each
// polygon is a loop of points in model units; counterclockwise loops are
// pockets and clockwise loops are islands. One Output is produced per
// connected machining region; regions whose entry helix does not fit are
// skipped.
func (a *Adaptive2D) Execute(paths [][]Point, progress ProgressFunc) ([]Output, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	e := &engine{
		cfg:              *a,
		scaleFactor:      resolutionFactor / a.Tolerance,
		progress:         progress,
		lastProgressTime: time.Now(),
	}
	e.toolRadiusScaled = int64(a.ToolDiameter * e.scaleFactor / 2)
	if a.HelixRampDiameter <= 1e-9 || a.HelixRampDiameter > a.ToolDiameter {
		e.helixRampRadiusScaled = e.toolRadiusScaled
	} else {
		e.helixRampRadiusScaled = int64(a.HelixRampDiameter * e.scaleFactor / 2)
	}
	e.finishPassOffsetScaled = int64(a.Tolerance * e.scaleFactor / 2)

	// reference area: the crescent cut by sliding the tool disc half a
	// radius sideways through a slot
	toolGeometry := offsetPath(Path{{0, 0}}, clipper.JtRound, clipper.EtOpenRound, float64(e.toolRadiusScaled))
	if len(toolGeometry) == 0 {
		return nil, fmt.Errorf("%w: tool geometry is empty", ErrInvalidConfig)
	}
	slotCut := translatePath(toolGeometry[0], IntPoint{X: e.toolRadiusScaled / 2})
	crossing := differencePaths(Paths{toolGeometry[0]}, Paths{slotCut})
	if len(crossing) == 0 {
		return nil, fmt.Errorf("%w: cannot establish reference cut area", ErrInvalidConfig)
	}
	e.referenceCutArea = math.Abs(signedArea(crossing[0]))
	e.optimalCutAreaPD = 2 * a.StepOverFactor * e.referenceCutArea / float64(e.toolRadiusScaled)
	// decreasing the target near the boundary bottoms out here
	e.minCutAreaPD = e.optimalCutAreaPD/3 + 1

	inputPaths := make(Paths, 0, len(paths))
	for _, p := range paths {
		cpth := make(Path, 0, len(p))
		for _, pt := range p {
			cpth = append(cpth, IntPoint{
				X: int64(pt.X * e.scaleFactor),
				Y: int64(pt.Y * e.scaleFactor),
			})
		}
		inputPaths = append(inputPaths, cpth)
	}

	switch a.OpType {
	case OpProfilingInside:
		off := offsetPaths(inputPaths, clipper.JtSquare, clipper.EtClosedPolygon,
			-2*float64(e.helixRampRadiusScaled+e.toolRadiusScaled))
		inputPaths = differencePaths(inputPaths, off)
	case OpProfilingOutside:
		off := offsetPaths(inputPaths, clipper.JtSquare, clipper.EtClosedPolygon,
			2*float64(e.helixRampRadiusScaled+e.toolRadiusScaled))
		inputPaths = differencePaths(off, inputPaths)
	}

	// resolve the region hierarchy and process each region
	nodes := offsetPolyTree(inputPaths, -float64(e.toolRadiusScaled+e.finishPassOffsetScaled))
	for _, node := range nodes {
		if node.hole {
			continue
		}
		if a.PolyTreeNestingLimit != 0 && node.nesting >= a.PolyTreeNestingLimit {
			continue
		}
		toolBoundPaths := Paths{node.contour}
		if a.ProcessHoles {
			toolBoundPaths = append(toolBoundPaths, node.childs...)
		}
		// the area that must be cleared; not the same as the input due to
		// the nesting filter
		boundPaths := offsetPaths(toolBoundPaths, clipper.JtRound, clipper.EtClosedPolygon,
			float64(e.toolRadiusScaled+e.finishPassOffsetScaled))
		e.processPolyNode(boundPaths, toolBoundPaths)
		if e.stopProcessing {
			break
		}
	}
	return e.results, nil
}

func (a *Adaptive2D) validate() error {
	if a.ToolDiameter <= 0 {
		return fmt.Errorf("%w: tool diameter %g must be positive", ErrInvalidConfig, a.ToolDiameter)
	}
	if a.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance %g must be positive", ErrInvalidConfig, a.Tolerance)
	}
	if a.StepOverFactor <= 0 || a.StepOverFactor > 1 {
		return fmt.Errorf("%w: stepover factor %g must be in (0, 1]", ErrInvalidConfig, a.StepOverFactor)
	}
	return nil
}

func (e *engine) toModel(p IntPoint) Point {
	return Pt(float64(p.X)/e.scaleFactor, float64(p.Y)/e.scaleFactor)
}

func (e *engine) cutArea(c1, c2 IntPoint, cleared Paths) float64 {
	return calcCutArea(c1, c2, cleared, float64(e.toolRadiusScaled))
}

// findEntryPoint shrinks the region boundary inward until it vanishes and
// returns the centroid of the last surviving loop.
func (e *engine) findEntryPoint(bound Paths) (IntPoint, bool) {
	var lastValid Paths
	delta := -1.0
	for {
		incOffset := offsetPaths(bound, clipper.JtSquare, clipper.EtClosedPolygon, delta)
		if !hasAnyPath(incOffset) {
			break
		}
		lastValid = incOffset
		delta -= resolutionFactor
	}
	for _, p := range lastValid {
		if len(p) > 0 {
			if c, ok := polygonCentroid(p); ok {
				return c, true
			}
		}
	}
	return IntPoint{}, false
}

// checkCollision reports whether the link from lastPoint to nextPoint stays
// within already-cleared material.
func (e *engine) checkCollision(lastPoint, nextPoint IntPoint, cleared Paths) bool {
	toolShape := offsetPath(Path{lastPoint, nextPoint}, clipper.JtRound, clipper.EtOpenRound,
		float64(e.toolRadiusScaled-2))
	crossing := differencePaths(toolShape, cleared)
	collisionArea := 0.0
	for _, p := range crossing {
		collisionArea += math.Abs(signedArea(p))
	}
	return collisionArea <= ntol
}

// expandCleared unions the disc coverage of the given tool-center polyline
// into the cleared region.
func (e *engine) expandCleared(cleared Paths, toClearPath Path) Paths {
	toolCover := offsetPath(toClearPath, clipper.JtRound, clipper.EtOpenRound, float64(e.toolRadiusScaled+1))
	return cleanPolygons(unionPaths(cleared, toolCover))
}

// appendToolPath appends a cutting polyline to the output, preceded by a
// link move when the previous output does not end at the polyline's first
// point. close appends the first vertex again to close the loop.
func (e *engine) appendToolPath(output *Output, passToolPath Path, cleared Paths, close bool) {
	if len(passToolPath) < 1 {
		return
	}
	nextPoint := passToolPath[0]
	if n := len(output.Paths); n > 0 && len(output.Paths[n-1].Points) > 0 {
		lastTPath := output.Paths[n-1]
		lastTPoint := lastTPath.Points[len(lastTPath.Points)-1]
		lastPoint := IntPoint{
			X: int64(lastTPoint.X * e.scaleFactor),
			Y: int64(lastTPoint.Y * e.scaleFactor),
		}
		motion := MotionLinkNotClear
		if e.checkCollision(lastPoint, nextPoint, cleared) {
			motion = MotionLinkClear
		}
		output.Paths = append(output.Paths, ToolPath{
			Motion: motion,
			Points: []Point{lastTPoint, e.toModel(nextPoint)},
		})
	}
	cut := ToolPath{Motion: MotionCutting, Points: make([]Point, 0, len(passToolPath)+1)}
	for _, p := range passToolPath {
		cut.Points = append(cut.Points, e.toModel(p))
	}
	if close {
		cut.Points = append(cut.Points, e.toModel(passToolPath[0]))
	}
	output.Paths = append(output.Paths, cut)
}

// checkReportProgress throttles the progress callback to the progress tick
// and compacts the reported partial paths afterwards, keeping only the last
// point. A false return from the callback sets the stop flag.
func (e *engine) checkReportProgress(progressPaths *[]ToolPath) {
	if time.Since(e.lastProgressTime) < progressTicks {
		return // not yet
	}
	e.lastProgressTime = time.Now()
	pp := *progressPaths
	if len(pp) == 0 || len(pp[len(pp)-1].Points) == 0 {
		return
	}
	if e.progress != nil {
		if !e.progress(pp) {
			e.stopProcessing = true
		}
	}
	last := pp[len(pp)-1]
	lastPoint := last.Points[len(last.Points)-1]
	pp = pp[:1]
	pp[0].Points = append(pp[0].Points[:0], lastPoint)
	*progressPaths = pp
}

// processPolyNode clears one connected machining region. boundPaths is the
// region that must be cleared; toolBoundPaths is the same region shrunk to
// the loci legal for the tool center, with holes included when enabled.
func (e *engine) processPolyNode(boundPaths, toolBoundPaths Paths) {
	start := time.Now()
	defer func() {
		e.cfg.Stats.addElapsed(time.Since(start))
	}()

	entryPoint, ok := e.findEntryPoint(boundPaths)
	if !ok {
		// no entry point, skip the region
		e.cfg.Stats.addSkipped()
		return
	}

	output := Output{HelixCenter: e.toModel(entryPoint)}

	// initial cleared area: the disc swept by the helix ramp
	cleared := cleanPolygons(offsetPath(Path{entryPoint}, clipper.JtRound, clipper.EtOpenRound,
		float64(e.helixRampRadiusScaled+e.toolRadiusScaled)))
	if crossing := differencePaths(cleared, boundPaths); len(crossing) > 0 {
		// helix does not fit the cutting area, skip the region
		e.cfg.Stats.addSkipped()
		return
	}

	toolPos := IntPoint{X: entryPoint.X, Y: entryPoint.Y - e.helixRampRadiusScaled}
	toolDir := Vec(1, 0)
	engagePos := toolPos
	firstEngagePoint := true

	var (
		progressPaths []ToolPath
		passToolPath  Path
		toClearPath   Path
		gyro          []Vec2
		angleHistory  []float64
		newToolPos    IntPoint
		newToolDir    Vec2
		stepScaled    int64
	)
	interp := &interpolation{}
	engage := newEngagePoint(toolBoundPaths, e.cutArea)

	var cutLenScaled float64

	for pass := 0; pass < passesLimit; pass++ {
		passToolPath = passToolPath[:0]
		toClearPath = toClearPath[:0]
		angleHistory = angleHistory[:0]

		// open a fresh partial path for progress reporting
		if len(progressPaths) == 0 || len(progressPaths[len(progressPaths)-1].Points) > 0 {
			progressPaths = append(progressPaths, ToolPath{Motion: MotionCutting})
		}

		angle := math.Pi / 4 // initial pass angle
		reachedBoundary := false
		cumulativeCutArea := 0.0
		gyro = gyro[:0]
		for i := 0; i < directionSmoothingBufLen; i++ {
			gyro = append(gyro, toolDir)
		}

		for pointIndex := 0; pointIndex < pointsPerPassLimit; pointIndex++ {
			e.cfg.Stats.addPoint()
			toolDir = averageDirection(gyro)

			distSq, _ := distancePointToPathsSqrd(toolBoundPaths, toolPos)
			distanceToBoundary := math.Sqrt(distSq)
			distanceToEngage := math.Sqrt(distanceSqrd(toolPos, engagePos))
			relDistToBoundary := 2 * distanceToBoundary / float64(e.toolRadiusScaled)

			// taper the target cut area toward the end of the cut to
			// avoid overcutting at the boundary
			targetAreaPD := e.optimalCutAreaPD
			if relDistToBoundary < 1 && distanceToEngage > float64(e.toolRadiusScaled) {
				targetAreaPD = relDistToBoundary*(e.optimalCutAreaPD-e.minCutAreaPD) + e.minCutAreaPD
			}

			// step size: small near the boundary or the engage point,
			// otherwise inversely proportional to the turn rate
			if distanceToBoundary < float64(e.toolRadiusScaled) || distanceToEngage < float64(e.toolRadiusScaled) {
				stepScaled = resolutionFactor * 2
			} else if math.Abs(angle) > 1e-5 {
				stepScaled = int64(resolutionFactor / math.Abs(angle))
			} else {
				stepScaled = resolutionFactor * 4
			}
			if stepScaled < resolutionFactor*2 {
				stepScaled = resolutionFactor * 2
			} else if stepScaled > e.toolRadiusScaled/2 {
				stepScaled = e.toolRadiusScaled / 2
			}

			// angle vs area search
			predictedAngle := mean(angleHistory)
			maxError := areaErrorFactor/float64(stepScaled) + 2
			area := 0.0
			areaPD := 0.0
			interp.clear()
			for iteration := 0; iteration < maxIterations; iteration++ {
				switch {
				case iteration == 0:
					angle = predictedAngle
				case iteration == 1:
					angle = minAngle // max engage
				case iteration == 3:
					angle = maxAngle // min engage
				case interp.pointCount() < 2 || iteration == 5 || iteration == 9:
					angle = interp.randomAngle()
				default:
					angle = interp.interpolateAngle(targetAreaPD)
				}
				angle = interp.clampAngle(angle)

				newToolDir = toolDir.Rotate(angle)
				newToolPos = IntPoint{
					X: toolPos.X + int64(newToolDir.X*float64(stepScaled)),
					Y: toolPos.Y + int64(newToolDir.Y*float64(stepScaled)),
				}

				area = e.cutArea(toolPos, newToolPos, cleared)
				areaPD = area / float64(stepScaled)
				interp.addPoint(areaPD, angle)

				if math.Abs(areaPD-targetAreaPD) < maxError {
					angleHistory = append(angleHistory, angle)
					if len(angleHistory) > angleHistoryPoints {
						angleHistory = angleHistory[1:]
					}
					e.cfg.Stats.addIteration(false)
					break
				}
				e.cfg.Stats.addIteration(iteration == maxIterations-1)
			}

			// boundary stop: clamp the step to the machining boundary
			if distanceToBoundary < float64(e.toolRadiusScaled) &&
				!isPointWithinCutRegion(toolBoundPaths, newToolPos) {
				reachedBoundary = true
				if boundaryPoint, ok := pathsIntersection(toolBoundPaths, toolPos, newToolPos); ok {
					newToolPos = boundaryPoint
					area = e.cutArea(toolPos, newToolPos, cleared)
					areaPD = area / float64(stepScaled)
				} else {
					newToolPos = toolPos
					area = 0
					areaPD = 0
				}
			}

			// overcut guard
			if area > 3*e.optimalCutAreaPD+10 && areaPD > 2*e.optimalCutAreaPD+10 {
				break
			}

			if len(toClearPath) == 0 {
				toClearPath = append(toClearPath, toolPos)
			}
			toClearPath = append(toClearPath, newToolPos)
			if firstEngagePoint && len(toClearPath) > 10 {
				// the initial spiral needs clearing in smaller intervals
				cleared = e.expandCleared(cleared, toClearPath)
				toClearPath = toClearPath[:0]
			}

			if area <= 0 {
				break // no cut
			}
			cumulativeCutArea += area
			if len(passToolPath) == 0 {
				passToolPath = append(passToolPath, toolPos)
			}
			passToolPath = append(passToolPath, newToolPos)
			cutLenScaled += float64(stepScaled)
			toolPos = newToolPos

			if len(progressPaths) == 0 {
				progressPaths = append(progressPaths, ToolPath{Motion: MotionCutting})
			}
			pp := &progressPaths[len(progressPaths)-1]
			pp.Points = append(pp.Points, e.toModel(newToolPos))

			gyro = append(gyro[1:], newToolDir)
			e.checkReportProgress(&progressPaths)

			if reachedBoundary || e.stopProcessing {
				break
			}
		}

		if len(toClearPath) > 0 {
			cleared = e.expandCleared(cleared, toClearPath)
			toClearPath = toClearPath[:0]
		}
		if cumulativeCutArea > minCutAreaFactor*float64(stepScaled)*e.cfg.StepOverFactor*e.referenceCutArea {
			cleaned := cleanPath(passToolPath, cleanPathTolerance)
			if len(output.Paths) == 0 && len(cleaned) > 0 {
				output.StartPoint = e.toModel(cleaned[0])
			}
			e.cfg.Stats.addOutput(len(cleaned))
			e.appendToolPath(&output, cleaned, cleared, false)
			e.checkReportProgress(&progressPaths)
		}
		if e.stopProcessing {
			break
		}

		// select the engage point of the next pass
		if firstEngagePoint {
			engage.moveToClosestPoint(newToolPos, float64(stepScaled)+1)
			firstEngagePoint = false
		} else {
			moveDistance := engageScanDistanceFactor*e.cfg.StepOverFactor*float64(e.toolRadiusScaled) + 1
			if !engage.nextEngagePoint(cleared, moveDistance,
				engageAreaThrFactor*e.optimalCutAreaPD*moveDistance,
				2*e.optimalCutAreaPD*moveDistance) {
				break
			}
		}
		toolPos = engage.currentPoint()
		toolDir = engage.currentDir()
		engagePos = toolPos
	}

	// finishing pass: one contour offset that removes the finish allowance
	lastPoint := toolPos
	if !e.stopProcessing {
		finishingPaths := offsetPaths(boundPaths, clipper.JtRound, clipper.EtClosedPolygon,
			-float64(e.toolRadiusScaled))
		for _, pth := range finishingPaths {
			cleaned := cleanPath(pth, finishingCleanPathTolerance)
			e.appendToolPath(&output, cleaned, cleared, true)
			if len(pth) > 0 {
				lastPoint = pth[len(pth)-1]
			}
		}
	}
	if e.checkCollision(lastPoint, entryPoint, cleared) {
		output.ReturnMotion = MotionLinkClear
	} else {
		output.ReturnMotion = MotionLinkNotClear
	}

	e.checkReportProgress(&progressPaths)
	e.cfg.Stats.addCutLength(cutLenScaled / e.scaleFactor)
	e.results = append(e.results, output)
}
