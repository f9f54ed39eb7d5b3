// Package debug provides a process-wide debug log writer, disabled unless
// the DEVSCOPE_DEBUG environment variable is set.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// debugOutput is the writer for debug output (nil means no output)
var debugOutput io.Writer

// debugMutex protects access to debug output
var debugMutex sync.Mutex

func init() {
	if os.Getenv("DEVSCOPE_DEBUG") != "" {
		debugOutput = os.Stderr
	}
}

// SetOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// Enabled reports whether debug output is currently active.
func Enabled() bool {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput != nil
}

// Logf writes a formatted debug line when debug output is enabled.
func Logf(format string, args ...interface{}) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	if debugOutput == nil {
		return
	}
	fmt.Fprintf(debugOutput, "[devscope] "+format+"\n", args...)
}
