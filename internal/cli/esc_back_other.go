//go:build !darwin && !linux

package cli

import (
	"os"
	"time"
)

// inputPending cannot poll here, so every Esc is treated as a keypress.
func inputPending(*os.File, time.Duration) bool {
	return false
}
