package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// snapshot is the serialized form compared against golden files.
// encoding/json sorts map keys, so output is deterministic.
type snapshot struct {
	Scenario   string       `json:"scenario"`
	Trace      []TraceEvent `json:"trace"`
	StepErrors []string     `json:"step_errors"`
}

// RunWithGolden executes a scenario and compares the trace against a golden
// file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		return err
	}

	snap := snapshot{
		Scenario:   sc.Name,
		Trace:      result.Trace,
		StepErrors: result.StepErrors,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)
	return nil
}
