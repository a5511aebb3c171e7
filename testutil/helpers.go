package testutil

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/taobot/taobot/utils"
)

// LogBuffer is a goroutine-safe sink for captured log output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogs redirects internal logs to a buffer until the test ends.
func CaptureLogs(t testing.TB) *LogBuffer {
	t.Helper()
	buf := &LogBuffer{}
	utils.SetInternalOutput(buf)
	t.Cleanup(func() { utils.SetInternalOutput(os.Stderr) })
	return buf
}

// CaptureOutput redirects user-facing output to a buffer until the test ends.
func CaptureOutput(t testing.TB) *LogBuffer {
	t.Helper()
	buf := &LogBuffer{}
	utils.SetUserOutput(buf)
	t.Cleanup(func() { utils.SetUserOutput(os.Stdout) })
	return buf
}

// UnsetEnv clears keys for the duration of the test and restores their
// previous values afterwards.
func UnsetEnv(t testing.TB, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}
