package build

import (
	"context"
	"errors"
	"time"

	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/observability"
)

// StageOutcome is the classified result of one stage run.
type StageOutcome struct {
	Stage  StageName
	Error  *StageError
	Result StageResult
	Abort  bool
}

// ClassifyStageResult maps a stage error onto a result. Classified errors of
// warning or info severity degrade the build without stopping it; anything
// else is fatal.
func ClassifyStageResult(stage StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: StageResultSuccess}
	}
	var se *StageError
	if errors.As(err, &se) {
		return outcomeFor(se)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeFor(&StageError{Kind: StageErrorCanceled, Stage: stage, Err: err})
	}
	if ce, ok := ferrors.AsClassified(err); ok {
		switch ce.Severity() {
		case ferrors.SeverityWarning, ferrors.SeverityInfo:
			return outcomeFor(&StageError{Kind: StageErrorWarning, Stage: stage, Err: err})
		}
	}
	return outcomeFor(&StageError{Kind: StageErrorFatal, Stage: stage, Err: err})
}

func outcomeFor(se *StageError) StageOutcome {
	switch se.Kind {
	case StageErrorWarning:
		return StageOutcome{Stage: se.Stage, Error: se, Result: StageResultWarning}
	case StageErrorCanceled:
		return StageOutcome{Stage: se.Stage, Error: se, Result: StageResultCanceled, Abort: true}
	default:
		return StageOutcome{Stage: se.Stage, Error: se, Result: StageResultFatal, Abort: true}
	}
}

// RunStages executes stages in order, recording timing and stopping on the
// first fatal error.
func RunStages(ctx context.Context, st *State, stages []StageDef) error {
	for _, def := range stages {
		stageCtx := observability.WithStage(ctx, string(def.Name))

		if err := ctx.Err(); err != nil {
			se := &StageError{Kind: StageErrorCanceled, Stage: def.Name, Err: err}
			st.Report.AddError(se)
			st.Report.RecordStageResult(def.Name, StageResultCanceled, st.recorder)
			st.observer.OnStageComplete(stageCtx, def.Name, 0, StageResultCanceled)
			return se
		}

		st.observer.OnStageStart(stageCtx, def.Name)
		t0 := time.Now()
		err := def.Fn(stageCtx, st)
		dur := time.Since(t0)
		st.Report.StageDurations[def.Name] = dur

		out := ClassifyStageResult(def.Name, err)
		if out.Error != nil {
			if out.Abort {
				st.Report.AddError(out.Error)
			} else {
				st.Report.AddWarning(out.Error)
			}
		}
		st.Report.RecordStageResult(def.Name, out.Result, st.recorder)
		st.observer.OnStageComplete(stageCtx, def.Name, dur, out.Result)

		if out.Abort {
			return out.Error
		}
	}
	return nil
}
