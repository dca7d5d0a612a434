package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testRecorder struct {
	NoopRecorder
	stageResults map[string]map[ResultLabel]int
	media        map[MediaResult]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{stageResults: map[string]map[ResultLabel]int{}, media: map[MediaResult]int{}}
}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func (t *testRecorder) IncMediaResult(r MediaResult) { t.media[r]++ }

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("fetch", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("fetch", ResultSuccess)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.ObserveFetchDuration("Blogs", time.Second, true)
	r.IncMediaResult(MediaCached)
	r.AddArtifacts("home", 3)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopRecorder{}, OrNoop(nil))

	tr := newTestRecorder()
	r := OrNoop(tr)
	r.IncStageResult("render", ResultFatal)
	r.IncMediaResult(MediaFailed)
	assert.Equal(t, 1, tr.stageResults["render"][ResultFatal])
	assert.Equal(t, 1, tr.media[MediaFailed])
}
