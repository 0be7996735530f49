package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"dsc/config"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := ContextWithEnv(context.Background())

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("environment start time not set")
	}
}

func TestEnvFromContextPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestUptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()
	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestStdLogRedirection(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}
		// a few cycles must be safe
		for range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Fatal("restoreStdLog not set")
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("restoreStdLog must remain nil without logger")
		}
		env.RestoreStdLog()
	})

	t.Run("restore before redirect", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}
		env.RestoreStdLog()
	})
}

func TestConversionFields(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	env.Cfg = &config.Config{Version: 1}
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.Rpt = &config.Report{}
	env.NoDirs = true
	env.ExtraStyle = []byte(".hint { color: red }")

	if env.Cfg.Version != 1 || env.Rpt == nil {
		t.Error("environment not properly initialized")
	}
	if env.Overwrite {
		t.Error("Overwrite must default to false")
	}
	if env.CodePage != nil {
		t.Error("CodePage must default to nil")
	}
	if len(env.ExtraStyle) == 0 {
		t.Error("ExtraStyle not kept")
	}
}
