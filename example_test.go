package adaptive_test

import (
	"fmt"

	"github.com/cncpath/adaptive"
)

func ExampleAdaptive2D_Execute() {
	pocket := []adaptive.Point{
		adaptive.Pt(0, 0),
		adaptive.Pt(50, 0),
		adaptive.Pt(50, 30),
		adaptive.Pt(0, 30),
	}

	gen := adaptive.Adaptive2D{
		ToolDiameter:   6,
		StepOverFactor: 0.25,
		Tolerance:      0.1,
	}
	outputs, err := gen.Execute([][]adaptive.Point{pocket}, nil)
	if err != nil {
		panic(err)
	}
	for _, out := range outputs {
		fmt.Printf("helix entry at %v, %d paths\n", out.HelixCenter, len(out.Paths))
	}
}
