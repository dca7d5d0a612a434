package build

import (
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/version"
)

// Outcome is the final result of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Counts summarizes the content that went into a build.
type Counts struct {
	Blogs          int `json:"blogs"`
	Logs           int `json:"logs"`
	Comments       int `json:"comments"`
	Feeds          int `json:"feeds"`
	Media          int `json:"media"`
	MediaAvailable int `json:"media_available"`
}

// Report captures what a build did.
type Report struct {
	SchemaVersion  int                         `json:"schema_version"`
	BuildID        string                      `json:"build_id"`
	Version        string                      `json:"version"`
	Start          time.Time                   `json:"start"`
	End            time.Time                   `json:"end"`
	Outcome        Outcome                     `json:"outcome"`
	StageDurations map[StageName]time.Duration `json:"stage_durations"`
	StageResults   map[StageName]StageResult   `json:"stage_results"`
	Counts         Counts                      `json:"counts"`
	Artifacts      map[string]int              `json:"artifacts"`
	Errors         []error                     `json:"-"`
	Warnings       []error                     `json:"-"`
	Messages       []string                    `json:"messages,omitempty"`
}

// NewReport starts a report for buildID.
func NewReport(buildID string) *Report {
	return &Report{
		SchemaVersion:  1,
		BuildID:        buildID,
		Version:        version.Version,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
		Artifacts:      make(map[string]int),
	}
}

// AddError records a fatal or canceling error.
func (r *Report) AddError(err error) {
	r.Errors = append(r.Errors, err)
	r.Messages = append(r.Messages, err.Error())
}

// AddWarning records a non-fatal problem.
func (r *Report) AddWarning(err error) {
	r.Warnings = append(r.Warnings, err)
	r.Messages = append(r.Messages, err.Error())
}

// RecordStageResult stores the stage result and forwards it to recorder.
func (r *Report) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	r.StageResults[stage] = res
	if recorder == nil {
		return
	}
	switch res {
	case StageResultSuccess:
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	}
}

// Finish sets the end time and derives the outcome.
func (r *Report) Finish() {
	r.End = time.Now()
	r.DeriveOutcome()
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// DeriveOutcome sets Outcome based on recorded errors and warnings.
func (r *Report) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// TotalArtifacts sums the artifacts of every view.
func (r *Report) TotalArtifacts() int {
	n := 0
	for _, v := range r.Artifacts {
		n += v
	}
	return n
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%s blogs=%d logs=%d comments=%d feeds=%d media=%d/%d artifacts=%d duration=%s warnings=%d outcome=%s",
		r.BuildID, r.Counts.Blogs, r.Counts.Logs, r.Counts.Comments, r.Counts.Feeds,
		r.Counts.MediaAvailable, r.Counts.Media, r.TotalArtifacts(),
		r.Duration().Truncate(time.Millisecond), len(r.Warnings), r.Outcome)
}
