package deps

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Requirement defines an external dependency vidconv relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Path        string `json:"path,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// Checker resolves requirements against a local tools directory and PATH.
type Checker struct {
	// ToolsDir is searched before PATH for bare command names.
	ToolsDir string
	// ProbeVersion runs "<binary> -version" for available commands.
	ProbeVersion bool
}

// Check evaluates the provided requirements and reports availability.
func (c Checker) Check(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := Resolve(cmd, c.ToolsDir)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		if c.ProbeVersion {
			status.Version = Version(ctx, resolved)
		}
		results = append(results, status)
	}
	return results
}

// Resolve finds the executable for command. Paths are checked as given; bare
// names are looked up in toolsDir first and then on PATH.
func Resolve(command, toolsDir string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", errors.New("empty command")
	}
	if strings.ContainsRune(command, filepath.Separator) {
		if isExecutable(command) {
			return command, nil
		}
		return "", fmt.Errorf("%s is not an executable file", command)
	}
	if dir := strings.TrimSpace(toolsDir); dir != "" {
		candidate := filepath.Join(dir, command)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return exec.LookPath(command)
}

// ResolveOrName returns the resolved executable for command, or command
// unchanged when it cannot be resolved so the eventual launch reports the
// failure.
func ResolveOrName(command, toolsDir string) string {
	if resolved, err := Resolve(command, toolsDir); err == nil {
		return resolved
	}
	return strings.TrimSpace(command)
}

// Version returns the first line of "<binary> -version", or "" when the
// binary does not answer within a few seconds.
func Version(ctx context.Context, binary string) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, binary, "-version").Output() //nolint:gosec
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
