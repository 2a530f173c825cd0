// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pysetup/pysetup/internal/artifact"
	"github.com/pysetup/pysetup/internal/provision"
	"github.com/pysetup/pysetup/internal/resolve"
)

// dockerFiles are the files whose presence marks a project as Docker compatible.
var dockerFiles = []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml"}

type (
	// Report is the record of one run against a project.
	Report struct {
		Locator artifact.Locator
		// LocalPath is the directory that was provisioned, if any.
		LocalPath        string
		Resolution       resolve.Result
		Outcomes         []provision.Outcome
		DockerCompatible bool
		StartedAt        time.Time
		FinishedAt       time.Time
	}

	// Summary is the structured form of a Report.
	Summary struct {
		Project          string              `json:"project"`
		LocalPath        string              `json:"local_path,omitempty"`
		Version          string              `json:"version,omitempty"`
		Source           string              `json:"source"`
		Confidence       string              `json:"confidence,omitempty"`
		Diagnostics      []DiagnosticSummary `json:"diagnostics,omitempty"`
		Stages           []StageSummary      `json:"stages,omitempty"`
		DockerCompatible bool                `json:"docker_compatible"`
		Succeeded        bool                `json:"succeeded"`
		DurationMS       int64               `json:"duration_ms"`
	}

	// DiagnosticSummary is a resolution diagnostic in a Summary.
	DiagnosticSummary struct {
		Severity string `json:"severity"`
		Code     string `json:"code"`
		Message  string `json:"message"`
		Path     string `json:"path,omitempty"`
	}

	// StageSummary is a stage outcome in a Summary.
	StageSummary struct {
		Stage      string `json:"stage"`
		Status     string `json:"status"`
		Detail     string `json:"detail,omitempty"`
		Error      string `json:"error,omitempty"`
		DurationMS int64  `json:"duration_ms"`
	}
)

// New starts a report for the given project.
func New(loc artifact.Locator) *Report {
	return &Report{Locator: loc, StartedAt: time.Now()}
}

// Add appends stage outcomes in execution order.
func (r *Report) Add(outcomes ...provision.Outcome) {
	r.Outcomes = append(r.Outcomes, outcomes...)
}

// Stage returns the outcome recorded for a stage.
func (r *Report) Stage(stage provision.Stage) (provision.Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Stage == stage {
			return o, true
		}
	}
	return provision.Outcome{}, false
}

// Succeeded reports whether no stage failed.
func (r *Report) Succeeded() bool {
	for _, o := range r.Outcomes {
		if o.Failed() {
			return false
		}
	}
	return true
}

// Finish records the end time of the run.
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns the run duration, or zero if the run is not finished.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary returns the structured form of the report.
func (r *Report) Summary() Summary {
	s := Summary{
		Project:          r.Locator.String(),
		LocalPath:        r.LocalPath,
		Version:          r.Resolution.Token.String(),
		Source:           r.Resolution.Source.String(),
		Confidence:       r.Resolution.Confidence.String(),
		DockerCompatible: r.DockerCompatible,
		Succeeded:        r.Succeeded(),
		DurationMS:       r.Duration().Milliseconds(),
	}
	if s.Source == "" {
		s.Source = resolve.SourceNone.String()
	}

	for _, d := range r.Resolution.Diagnostics {
		s.Diagnostics = append(s.Diagnostics, DiagnosticSummary{
			Severity: string(d.Severity),
			Code:     d.Code,
			Message:  d.Message,
			Path:     d.Path,
		})
	}
	for _, o := range r.Outcomes {
		st := StageSummary{
			Stage:      o.Stage.String(),
			Status:     o.Status.String(),
			Detail:     o.Detail,
			DurationMS: o.Duration.Milliseconds(),
		}
		if o.Err != nil {
			st.Error = o.Err.Error()
		}
		s.Stages = append(s.Stages, st)
	}
	return s
}

// WriteJSON writes the summary as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Summary())
}

// DetectDocker reports whether dir contains a Dockerfile or a compose file.
func DetectDocker(dir string) bool {
	for _, name := range dockerFiles {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && info.Mode().IsRegular() {
			return true
		}
	}
	return false
}
