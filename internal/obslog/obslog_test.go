package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "yaml")
	t.Setenv("LOG_TO_FILE", "")
	t.Setenv("LOG_TO_CONSOLE", "")
	t.Setenv("LOG_FILE", "")
	opts := OptionsFromEnv()
	if opts.Level != zapcore.DebugLevel || opts.Format != "legacy" || opts.ToFile || !opts.Console {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.FilePath != filepath.Join("logs", "queenduel.log") {
		t.Fatalf("unexpected file path %q", opts.FilePath)
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "duel.log")
	logger, err := New(Options{Level: zapcore.InfoLevel, ToFile: true, FilePath: path, Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("advisory_decided", zap.String("square", "g7"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, `"msg":"advisory_decided"`) || !strings.Contains(text, `"square":"g7"`) {
		t.Fatalf("missing entry in %q", text)
	}
	if strings.Contains(text, "hidden") {
		t.Fatalf("debug entry should be filtered at info level")
	}
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected a no-op logger")
	}
}

func TestSet(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })
	l := zap.NewExample()
	Set(l)
	if L() != l {
		t.Fatalf("Set did not replace the global logger")
	}
	Set(nil)
	if L() == nil {
		t.Fatalf("Set(nil) must leave a usable logger")
	}
}
