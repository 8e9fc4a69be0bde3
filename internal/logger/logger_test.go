package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// capture redirects log output to a buffer for the duration of the test.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("test message")

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Evaluate")

	assert.Equal(t, "\n=== Evaluate ===\n", buf.String())
}

func TestSection_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Section("Evaluate")

	assert.Zero(t, buf.Len())
}

func TestInfo(t *testing.T) {
	buf := capture(t, true)
	Info("indexed %d contracts", 3)
	assert.Equal(t, "[INFO] indexed 3 contracts\n", buf.String())

	buf.Reset()
	SetVerbose(false)
	Info("hidden")
	assert.Zero(t, buf.Len())
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Warn("skipping %s", "scan.pdf")
	Error("failed")

	assert.Equal(t, "[WARN] skipping scan.pdf\n[ERROR] failed\n", buf.String())
}

func TestL_StructuredFields(t *testing.T) {
	buf := capture(t, true)

	L().Info("request", zap.String("method", "GET"), zap.Int("status", 200))

	assert.Equal(t, "[INFO] request {\"method\": \"GET\", \"status\": 200}\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			SetVerbose(true)
		}()
		go func() {
			defer wg.Done()
			_ = IsVerbose()
		}()
		go func() {
			defer wg.Done()
			Debug("concurrent")
		}()
	}
	wg.Wait()
}
