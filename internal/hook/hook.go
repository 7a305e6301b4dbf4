// Package hook is the outer boundary for host-invoked hooks. A hook's own
// failure must never block the host action it observes, so everything that
// runs inside Run degrades to a logged no-op.
package hook

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the diagnostic logger for a hook process. Output goes
// to errOut (stdout belongs to the host protocol); the level is warn unless
// verbose is set.
func NewLogger(errOut io.Writer, verbose bool) *zap.Logger {
	if errOut == nil {
		errOut = os.Stderr
	}
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(errOut)),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

// NewInvocationID returns a ULID identifying one hook run in the logs.
func NewInvocationID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Run executes fn as the body of hook name. Returned errors are logged at
// debug and panics are recovered and logged at error; neither escapes. The
// returned error is informational only, for callers that want to count
// failures; it must not be turned into a non-zero exit.
func Run(logger *zap.Logger, name string, fn func() error) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(
		zap.String("hook", name),
		zap.String("invocation_id", NewInvocationID()),
	)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("hook %s panicked: %v", name, p)
			log.Error("hook panicked", zap.Any("panic", p), zap.Stack("stack"))
		}
	}()

	start := time.Now()
	if err = fn(); err != nil {
		log.Debug("hook failed; continuing", zap.Error(err))
		return err
	}
	log.Debug("hook finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}
