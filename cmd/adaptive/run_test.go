package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cncpath/adaptive"
)

const jobYAML = `tool_diameter: 5
step_over: 0.2
tolerance: 0.1
operation: clearing
process_holes: true
paths:
  - [[0, 0], [100, 0], [100, 100], [0, 100]]
  - [[30, 30], [30, 70], [70, 70], [70, 30]]
`

func TestLoadJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(jobYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	job, err := loadJob(path)
	if err != nil {
		t.Fatal(err)
	}
	if job.ToolDiameter != 5 || job.StepOver != 0.2 || job.Tolerance != 0.1 {
		t.Errorf("unexpected job parameters: %+v", job)
	}
	if len(job.Paths) != 2 || len(job.Paths[0]) != 4 {
		t.Errorf("unexpected paths: %v", job.Paths)
	}
	if !job.ProcessHoles {
		t.Error("process_holes not parsed")
	}

	op, err := job.operationType()
	if err != nil {
		t.Fatal(err)
	}
	if op != adaptive.OpClearing {
		t.Errorf("operation %v, want OpClearing", op)
	}
}

func TestLoadJobErrors(t *testing.T) {
	if _, err := loadJob(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("tool_diameter: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadJob(path); err == nil {
		t.Error("expected an error for a job without paths")
	}
}

func TestOperationType(t *testing.T) {
	cases := map[string]adaptive.OperationType{
		"":                  adaptive.OpClearing,
		"clearing":          adaptive.OpClearing,
		"profiling-inside":  adaptive.OpProfilingInside,
		"profiling-outside": adaptive.OpProfilingOutside,
	}
	for name, want := range cases {
		job := Job{Operation: name}
		got, err := job.operationType()
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if got != want {
			t.Errorf("%q: got %v, want %v", name, got, want)
		}
	}
	if _, err := (&Job{Operation: "bogus"}).operationType(); err == nil {
		t.Error("expected an error for an unknown operation")
	}
}
