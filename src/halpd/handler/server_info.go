package handler

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/uber/halpd/src/halpd/internal/daemoninfo"
)

const (
	_infoKeyPID       = "daemon-pid"
	_infoKeyStartedAt = "daemon-started-at"
)

// Output process identity to the daemon info file.
// Client shells use the pid to signal a stuck daemon. The listen address field is added separately by the JSON-RPC module once its socket is bound.
func outputDaemonIdentity(infofile daemoninfo.DaemonInfoFile) error {
	if err := infofile.UpdateField(_infoKeyPID, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting pid to info file: %w", err)
	}

	if err := infofile.UpdateField(_infoKeyStartedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("outputting start time to info file: %w", err)
	}

	return nil
}
