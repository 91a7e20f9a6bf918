package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cncpath/adaptive"
)

var (
	runOutput string
	runQuiet  bool
	runStats  bool
)

// Job is the YAML description of one toolpath generation run.
type Job struct {
	ToolDiameter      float64       `yaml:"tool_diameter"`
	HelixRampDiameter float64       `yaml:"helix_ramp_diameter,omitempty"`
	StepOver          float64       `yaml:"step_over"`
	Tolerance         float64       `yaml:"tolerance"`
	Operation         string        `yaml:"operation,omitempty"`
	ProcessHoles      bool          `yaml:"process_holes,omitempty"`
	NestingLimit      int           `yaml:"nesting_limit,omitempty"`
	Paths             [][][]float64 `yaml:"paths"`
}

// Result is the JSON output for one machining region.
type Result struct {
	HelixCenter  []float64    `json:"helix_center"`
	StartPoint   []float64    `json:"start_point"`
	Paths        []ResultPath `json:"paths"`
	ReturnMotion int          `json:"return_motion"`
}

type ResultPath struct {
	Motion int         `json:"motion"`
	Points [][]float64 `json:"points"`
}

func loadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(job.Paths) == 0 {
		return nil, fmt.Errorf("%s: job has no paths", path)
	}
	return &job, nil
}

func (j *Job) operationType() (adaptive.OperationType, error) {
	switch j.Operation {
	case "", "clearing":
		return adaptive.OpClearing, nil
	case "profiling-inside":
		return adaptive.OpProfilingInside, nil
	case "profiling-outside":
		return adaptive.OpProfilingOutside, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", j.Operation)
	}
}

var runCmd = &cobra.Command{
	Use:   "run <job.yaml>",
	Short: "Generate toolpaths for a job file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := loadJob(args[0])
		if err != nil {
			return err
		}
		opType, err := job.operationType()
		if err != nil {
			return err
		}

		paths := make([][]adaptive.Point, 0, len(job.Paths))
		for i, loop := range job.Paths {
			pts := make([]adaptive.Point, 0, len(loop))
			for _, xy := range loop {
				if len(xy) != 2 {
					return fmt.Errorf("path %d: point %v is not an (x, y) pair", i, xy)
				}
				pts = append(pts, adaptive.Pt(xy[0], xy[1]))
			}
			paths = append(paths, pts)
		}

		stats := &adaptive.Stats{}
		gen := adaptive.Adaptive2D{
			ToolDiameter:         job.ToolDiameter,
			HelixRampDiameter:    job.HelixRampDiameter,
			StepOverFactor:       job.StepOver,
			Tolerance:            job.Tolerance,
			PolyTreeNestingLimit: job.NestingLimit,
			OpType:               opType,
			ProcessHoles:         job.ProcessHoles,
			Stats:                stats,
		}

		var progress adaptive.ProgressFunc
		if !runQuiet {
			progress = func(partial []adaptive.ToolPath) bool {
				fmt.Fprintf(os.Stderr, "\rprocessed points: %d", stats.ProcessedPoints)
				return true
			}
		}

		outputs, err := gen.Execute(paths, progress)
		if err != nil {
			return err
		}
		if !runQuiet {
			fmt.Fprintln(os.Stderr)
		}

		results := make([]Result, 0, len(outputs))
		notClear := 0
		for _, out := range outputs {
			res := Result{
				HelixCenter:  []float64{out.HelixCenter.X, out.HelixCenter.Y},
				StartPoint:   []float64{out.StartPoint.X, out.StartPoint.Y},
				ReturnMotion: int(out.ReturnMotion),
			}
			for _, tp := range out.Paths {
				rp := ResultPath{Motion: int(tp.Motion), Points: make([][]float64, 0, len(tp.Points))}
				for _, pt := range tp.Points {
					rp.Points = append(rp.Points, []float64{pt.X, pt.Y})
				}
				if tp.Motion == adaptive.MotionLinkNotClear {
					notClear++
				}
				res.Paths = append(res.Paths, rp)
			}
			results = append(results, res)
		}

		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		if runOutput == "" || runOutput == "-" {
			fmt.Println(string(data))
		} else if err := os.WriteFile(runOutput, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", runOutput, err)
		}

		if runStats {
			fmt.Fprintf(os.Stderr, "regions: %d (skipped %d), output points: %d, cut length: %.1f\n",
				len(results), stats.SkippedRegions, stats.OutputPoints, stats.CutLength)
			fmt.Fprintf(os.Stderr, "points: %d, iterations: %d (%.1f per point, %d exceeded), elapsed: %s\n",
				stats.ProcessedPoints, stats.Iterations,
				float64(stats.Iterations)/(float64(stats.ProcessedPoints)+0.001),
				stats.ExceededIterations, stats.Elapsed)
			fmt.Fprintf(os.Stderr, "links over uncut stock: %d\n", notClear)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write JSON to file instead of stdout")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress the progress line")
	runCmd.Flags().BoolVar(&runStats, "stats", false, "print generation statistics to stderr")
	rootCmd.AddCommand(runCmd)
}
