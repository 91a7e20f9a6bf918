// Package adaptive generates adaptive pocket-clearing toolpaths for 2.5D
// subtractive machining.
//
// Given one or more closed 2D polygons describing a region to be machined, a
// cutter diameter and a target radial engagement (stepover), [Adaptive2D]
// produces a sequence of cutter-center trajectories that progressively remove
// material while keeping the instantaneous chip load close to a target value.
// Each machining region yields an [Output] holding a helical entry point, the
// cutting passes, link moves between passes classified as clear or not clear,
// and a final finishing contour.
//
// # Algorithm
//
// The generator advances the cutter in small steps. At each step it searches
// for the deflection angle at which the area swept into previously uncut
// material, divided by the step length, matches the target chip load. The
// swept area is estimated analytically from circle/segment geometry along the
// boundary of the already-cleared region, which is orders of magnitude faster
// than evaluating polygon booleans per probe. New passes start at engage
// points found by walking the machining boundary until enough uncut material
// is available.
//
// # Coordinates
//
// All interior geometry uses a scaled integer coordinate system: input
// coordinates in model units are multiplied by a scale factor derived from
// the configured tolerance and truncated to integers; results are divided back before they
// are returned. The polygon engine backing the boolean and offset operations
// is exact only on integer coordinates.
//
// The package is single-threaded per machining region. Separate regions
// share no state and may be processed concurrently by the caller.
package adaptive
