package pipeline

import (
	"encoding/json"
	"os"
	"time"

	"fimcorpus/internal/filter"
)

// PhaseReport is the externally visible shape of one phase's counters.
type PhaseReport struct {
	Name           string           `json:"name"`
	In             int64            `json:"in"`
	Out            int64            `json:"out"`
	AcceptanceRate float64          `json:"acceptance_rate"`
	Rejects        map[string]int64 `json:"rejects,omitempty"`
}

// Report summarizes one pipeline run for the reporting collaborator.
type Report struct {
	Version             string        `json:"version"`
	RunID               string        `json:"run_id"`
	Root                string        `json:"root"`
	StartedAt           string        `json:"started_at"`
	FinishedAt          string        `json:"finished_at"`
	DurationMS          int64         `json:"duration_ms"`
	Cancelled           bool          `json:"cancelled,omitempty"`
	FilesProcessed      int64         `json:"files_processed"`
	FilesSkipped        int64         `json:"files_skipped"`
	CandidatesGenerated int64         `json:"candidates_generated"`
	RecordsEmitted      int64         `json:"records_emitted"`
	BoilerplateDrops    int64         `json:"boilerplate_drops"`
	ExactDuplicateDrops int64         `json:"exact_duplicate_drops"`
	DirectiveWarnings   int64         `json:"directive_warnings"`
	Phases              []PhaseReport `json:"phases"`
}

func buildPhaseReports(stats *filter.Stats) []PhaseReport {
	out := make([]PhaseReport, 0, len(stats.Phases))
	for _, p := range stats.Phases {
		pr := PhaseReport{
			Name:           p.Name,
			In:             p.In,
			Out:            p.Out,
			AcceptanceRate: p.AcceptanceRate(),
		}
		if len(p.Rejects) > 0 {
			pr.Rejects = make(map[string]int64, len(p.Rejects))
			for r, n := range p.Rejects {
				pr.Rejects[string(r)] = n
			}
		}
		out = append(out, pr)
	}
	return out
}

// WriteFile persists the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
