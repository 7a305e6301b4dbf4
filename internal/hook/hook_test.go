package hook

import (
	"bytes"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun_Success(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	err := Run(zap.New(core), "log", func() error { return nil })

	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("hook finished").Len())
}

func TestRun_ErrorIsLoggedNotRaised(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	boom := errors.New("disk full")

	err := Run(zap.New(core), "log", func() error { return boom })

	require.ErrorIs(t, err, boom)
	entries := logs.FilterMessage("hook failed; continuing").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, "log", entries[0].ContextMap()["hook"])
}

func TestRun_RecoversPanic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	var err error
	require.NotPanics(t, func() {
		err = Run(zap.New(core), "statusline", func() error { panic("nil map") })
	})

	require.Error(t, err)
	require.Contains(t, err.Error(), "nil map")
	require.Equal(t, 1, logs.FilterMessage("hook panicked").Len())
}

func TestRun_TagsInvocationID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	_ = Run(zap.New(core), "log", func() error { return nil })

	id, ok := logs.All()[0].ContextMap()["invocation_id"].(string)
	require.True(t, ok)
	_, err := ulid.Parse(id)
	require.NoError(t, err)
}

func TestRun_NilLogger(t *testing.T) {
	require.NotPanics(t, func() {
		_ = Run(nil, "log", func() error { return errors.New("x") })
	})
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewLogger(&buf, false)
	quiet.Debug("hidden")
	quiet.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	loud := NewLogger(&buf, true)
	loud.Debug("visible")
	require.Contains(t, buf.String(), "visible")
}

func TestNewInvocationID_Unique(t *testing.T) {
	a, b := NewInvocationID(), NewInvocationID()
	require.NotEqual(t, a, b)
	require.Len(t, a, 26)
}
