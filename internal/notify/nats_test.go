package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bitacora/internal/build"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
)

type fakeConn struct {
	subject    string
	data       []byte
	publishErr error
	flushErr   error
	closed     bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return f.publishErr
}

func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }
func (f *fakeConn) Close()                                 { f.closed = true }

func testReport() *build.Report {
	r := build.NewReport("b-1")
	r.Counts.Blogs = 3
	r.Artifacts["home"] = 6
	r.RecordStageResult(build.StageFetch, build.StageResultSuccess, nil)
	r.Finish()
	return r
}

func TestPublishSendsBuildEvent(t *testing.T) {
	fc := &fakeConn{}
	p := &Publisher{conn: fc, subject: "bitacora.builds"}

	require.NoError(t, p.Publish(t.Context(), testReport()))
	assert.Equal(t, "bitacora.builds", fc.subject)

	var ev BuildEvent
	require.NoError(t, json.Unmarshal(fc.data, &ev))
	assert.Equal(t, "b-1", ev.BuildID)
	assert.Equal(t, build.OutcomeSuccess, ev.Outcome)
	assert.Equal(t, 3, ev.Counts.Blogs)
	assert.Equal(t, 6, ev.Artifacts["home"])
	assert.Equal(t, build.StageResultSuccess, ev.StageResults[build.StageFetch])

	p.Close()
	assert.True(t, fc.closed)
}

func TestPublishErrorsAreNotifyCategory(t *testing.T) {
	for name, fc := range map[string]*fakeConn{
		"publish": {publishErr: errors.New("no responders")},
		"flush":   {flushErr: errors.New("timeout")},
	} {
		t.Run(name, func(t *testing.T) {
			p := &Publisher{conn: fc, subject: "s"}
			err := p.Publish(t.Context(), testReport())
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
			assert.Equal(t, ferrors.SeverityWarning, ferrors.GetSeverity(err))
		})
	}
}

func TestConnectRequiresConfig(t *testing.T) {
	_, err := Connect(nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}
