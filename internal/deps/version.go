package deps

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// ProbeVersion runs `<command> -version` and returns the first output line,
// the form both ffmpeg and ffprobe print ("ffmpeg version 6.1.1 ...").
// An empty string is returned when the command cannot be run.
func ProbeVersion(ctx context.Context, command string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, command, "-version").Output()
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

// WithVersions fills Detail of each available status with its version line.
func WithVersions(ctx context.Context, statuses []Status) []Status {
	out := make([]Status, len(statuses))
	for i, status := range statuses {
		if status.Available && status.Detail == "" {
			status.Detail = ProbeVersion(ctx, status.Command)
		}
		out[i] = status
	}
	return out
}
