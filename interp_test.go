package adaptive

import (
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestInterpolationAddPointKeepsOrder(t *testing.T) {
	var ip interpolation
	for _, area := range []float64{5, 1, 3, 3, 8, 0, 2.5, 8, 7} {
		ip.addPoint(area, area/10)
		if !slices.IsSorted(ip.areas) {
			t.Fatalf("areas out of order after inserting %g: %v", area, ip.areas)
		}
	}
	diff(t, 9, ip.pointCount())
}

func TestInterpolationInterpolateAngle(t *testing.T) {
	var ip interpolation
	ip.addPoint(10, -0.5)
	ip.addPoint(20, 0.5)

	diff(t, 0.0, ip.interpolateAngle(15), cmpopts.EquateApprox(0, 1e-9))
	diff(t, -0.25, ip.interpolateAngle(12.5), cmpopts.EquateApprox(0, 1e-9))

	// out of range saturates
	diff(t, minAngle, ip.interpolateAngle(25))
	diff(t, maxAngle, ip.interpolateAngle(5))
}

func TestInterpolationFewSamples(t *testing.T) {
	var ip interpolation
	diff(t, minAngle, ip.interpolateAngle(10))
	ip.addPoint(10, 0.1)
	diff(t, minAngle, ip.interpolateAngle(5))
}

func TestInterpolationClear(t *testing.T) {
	var ip interpolation
	ip.addPoint(1, 0)
	ip.addPoint(2, 0.5)
	ip.clear()
	diff(t, 0, ip.pointCount())
}

func TestInterpolationClampAngle(t *testing.T) {
	var ip interpolation
	diff(t, minAngle, ip.clampAngle(-math.Pi))
	diff(t, maxAngle, ip.clampAngle(math.Pi))
	diff(t, 0.1, ip.clampAngle(0.1))
}

func TestInterpolationRandomAngle(t *testing.T) {
	var ip interpolation
	for i := 0; i < 1000; i++ {
		a := ip.randomAngle()
		if a < minAngle || a > maxAngle {
			t.Fatalf("random angle %g out of range", a)
		}
	}
}
