package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"refreshlist/internal/model"
)

// Command is a Source that runs a shell command and turns its stdout into
// entries. Output is either a JSON array of entries or plain lines of
// name<TAB>description<TAB>info.
type Command struct {
	Shell   string // defaults to "sh"
	Command string
	Timeout time.Duration // zero leaves the deadline to ctx
}

// NewCommand returns a Command source run through sh -c.
func NewCommand(command string, timeout time.Duration) *Command {
	return &Command{Shell: "sh", Command: command, Timeout: timeout}
}

func (c *Command) Fetch(ctx context.Context) ([]model.Entry, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	shell := c.Shell
	if shell == "" {
		shell = "sh"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", c.Command)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("refresh command: %w", ctx.Err())
		}
		return nil, fmt.Errorf("refresh command: %s", trimOutput(stderr.Bytes(), err))
	}
	return parseOutput(out, time.Now())
}

func parseOutput(out []byte, now time.Time) ([]model.Entry, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var entries []model.Entry
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("parse command output: %w", err)
		}
	} else {
		for _, line := range strings.Split(string(trimmed), "\n") {
			if e, ok := parseLine(line); ok {
				entries = append(entries, e)
			}
		}
	}

	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.New().String()
		}
		if entries[i].Added.IsZero() {
			entries[i].Added = now
		}
	}
	return entries, nil
}

func parseLine(line string) (model.Entry, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return model.Entry{}, false
	}
	fields := strings.SplitN(line, "\t", 3)
	e := model.Entry{Name: strings.TrimSpace(fields[0])}
	if len(fields) > 1 {
		e.Description = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		e.Info = strings.TrimSpace(fields[2])
	}
	return e, true
}

// maxOutputRunes bounds the command output carried in an error.
const maxOutputRunes = 200

func trimOutput(b []byte, err error) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return err.Error()
	}
	if r := []rune(s); len(r) > maxOutputRunes {
		return string(r[:maxOutputRunes]) + "…"
	}
	return s
}
