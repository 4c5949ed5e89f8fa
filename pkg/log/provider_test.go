package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf, LevelInfo)

	logger := p.GetLoggerWithName("neighbors").With(ModelNameKey, "KNeighborsClassifier")
	logger.Debug("hidden")
	logger.Info("fit completed", SamplesKey, 5)
	logger.Error("predict failed", fmt.Errorf("boom"), OperationKey, OperationPredict)

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %s", len(lines), buf.String())
	}

	info := lines[0]
	if info["level"] != "info" || info["message"] != "fit completed" {
		t.Errorf("unexpected info line: %v", info)
	}
	if info[ComponentKey] != "neighbors" || info[ModelNameKey] != "KNeighborsClassifier" {
		t.Errorf("context fields missing: %v", info)
	}
	if info[SamplesKey] != 5.0 {
		t.Errorf("%s = %v, want 5", SamplesKey, info[SamplesKey])
	}

	errLine := lines[1]
	if errLine["error"] != "boom" {
		t.Errorf("error field = %v, want boom", errLine["error"])
	}
	if errLine[OperationKey] != OperationPredict {
		t.Errorf("%s = %v, want %s", OperationKey, errLine[OperationKey], OperationPredict)
	}
}

func TestZerologProviderSetLevel(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf, LevelError)
	logger := p.GetLogger()

	if logger.Enabled(context.Background(), LevelInfo) {
		t.Error("Info should be disabled at error level")
	}

	p.SetLevel(LevelDebug)
	if !logger.Enabled(context.Background(), LevelDebug) {
		t.Error("SetLevel should apply to existing loggers")
	}
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug record missing after SetLevel")
	}
}

func TestZerologProviderSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	p := NewZerologProvider(&first, LevelInfo)
	logger := p.GetLogger()

	p.SetOutput(&second)
	logger.Info("redirected")

	if first.Len() != 0 {
		t.Errorf("old writer received output: %s", first.String())
	}
	if !strings.Contains(second.String(), "redirected") {
		t.Error("new writer did not receive output")
	}
}

func TestWarningsRouteThroughDefaultProvider(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples", 0))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %s", len(lines), buf.String())
	}
	if lines[0]["level"] != "warn" {
		t.Errorf("level = %v, want warn", lines[0]["level"])
	}
	if lines[0][ComponentKey] != "warnings" {
		t.Errorf("component = %v, want warnings", lines[0][ComponentKey])
	}
	if _, ok := lines[0]["warning"].(map[string]interface{}); !ok {
		t.Errorf("warning should be logged as an object, got %T", lines[0]["warning"])
	}
}
