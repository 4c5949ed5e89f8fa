package log

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", "operation", "test")
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorInvalidInput)

	if buffer.String() == "" {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) { // JSON unmarshaling converts numbers to float64
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "test error") {
		t.Error("Leading error should be logged under the error key")
	}
	if !testLogger.ContainsField(ErrorCodeKey, ErrorInvalidInput) {
		t.Error("Fields after the leading error should be kept")
	}
}

func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "KNeighborsClassifier",
		ComponentKey, "neighbors",
	)
	contextLogger.Info("contextual message", OperationKey, OperationFit)

	if !testLogger.ContainsField(ModelNameKey, "KNeighborsClassifier") {
		t.Error("Model name context not found")
	}
	if !testLogger.ContainsField(ComponentKey, "neighbors") {
		t.Error("Component context not found")
	}
	if !testLogger.ContainsField(OperationKey, OperationFit) {
		t.Error("Operation field not found")
	}
}

func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelInfo) {
		t.Error("Logger should be enabled for Info level")
	}
	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Error level")
	}
	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsMessage("this should appear") {
		t.Error("Info message should appear when level is Info")
	}
}

func TestLoggerProviderIntegration(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelDebug)

	named := provider.GetLoggerWithName("neighbors.KNeighborsClassifier")
	named.Info("fit", SamplesKey, 10, FeaturesKey, 2)

	testLogger := provider.GetLogger().(*TestLogger)
	if !testLogger.ContainsField(ComponentKey, "neighbors.KNeighborsClassifier") {
		t.Error("Named logger should carry the component field")
	}
	if !testLogger.ContainsField(SamplesKey, 10.0) {
		t.Error("Samples field not found")
	}

	provider.SetLevel(LevelError)
	named.Info("suppressed")
	if testLogger.ContainsMessage("suppressed") {
		t.Error("SetLevel should apply to loggers created earlier")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	const goroutines = 10
	const perGoroutine = 20

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger := testLogger.With("goroutine", id)
			for i := 0; i < perGoroutine; i++ {
				logger.Info("concurrent", "i", i)
			}
		}(g)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries() error = %v", err)
	}
	if len(entries) != goroutines*perGoroutine {
		t.Errorf("got %d entries, want %d", len(entries), goroutines*perGoroutine)
	}
}

func BenchmarkLogging(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testLogger.Info("benchmark message", "iteration", i)
	}
}

func BenchmarkLoggingDisabled(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelError)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testLogger.Debug("benchmark message", "iteration", i)
	}
}
