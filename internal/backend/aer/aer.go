// Package aer runs Qiskit's Shor routine on an Aer simulator through a
// Python subprocess.
package aer

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/goosewin/shor/internal/backend"
	"github.com/goosewin/shor/internal/config"
)

//go:embed driver.py
var driverSource string

const defaultPython = "python3"

type Backend struct {
	simulator string
	execPath  string
}

type request struct {
	Number    int    `json:"number"`
	Shots     int    `json:"shots"`
	Simulator string `json:"simulator"`
	Validate  bool   `json:"validate"`
	Seed      int64  `json:"seed,omitempty"`
}

type reply struct {
	Factors [][]int `json:"factors"`
	Kind    string  `json:"kind"`
	Error   string  `json:"error"`
}

// New returns a backend bound to the named Aer simulator. An empty execPath
// resolves the interpreter from the qiskit.python config key at run time.
func New(simulator, execPath string) *Backend {
	return &Backend{simulator: simulator, execPath: execPath}
}

var _ backend.Backend = (*Backend)(nil)

func init() {
	registrations := []struct {
		name      string
		simulator string
	}{
		{"simulator", "qasm_simulator"},
		{"qasm_simulator", "qasm_simulator"},
		{"statevector_simulator", "statevector_simulator"},
		{"aer_simulator", "aer_simulator"},
	}
	for _, reg := range registrations {
		if err := backend.Register(reg.name, New(reg.simulator, "")); err != nil {
			panic(err)
		}
	}
}

func (b *Backend) Simulator() string {
	return b.simulator
}

func (b *Backend) CheckInstalled() error {
	path := b.python()
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: python executable path is empty", backend.ErrBackendUnavailable)
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("%w: python not installed: %v", backend.ErrBackendUnavailable, err)
	}
	return nil
}

func (b *Backend) Run(ctx context.Context, opts backend.RunOptions) (backend.RunResult, error) {
	result := backend.RunResult{}
	if opts.Number <= 1 {
		return result, errors.New("number must be greater than 1")
	}
	if opts.Shots < 1 {
		return result, errors.New("shots must be at least 1")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := b.CheckInstalled(); err != nil {
		return result, err
	}

	payload, err := json.Marshal(request{
		Number:    opts.Number,
		Shots:     opts.Shots,
		Simulator: b.simulator,
		Validate:  opts.Validate,
		Seed:      opts.Seed,
	})
	if err != nil {
		return result, fmt.Errorf("encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, b.python(), "-c", driverSource)
	cmd.Stdin = bytes.NewReader(payload)

	var rawFile *os.File
	if strings.TrimSpace(opts.RawOutputFile) != "" {
		if err := os.MkdirAll(filepath.Dir(opts.RawOutputFile), 0o755); err != nil {
			return result, fmt.Errorf("create raw output dir: %w", err)
		}
		rawFile, err = os.Create(opts.RawOutputFile)
		if err != nil {
			return result, fmt.Errorf("create raw output file: %w", err)
		}
		defer rawFile.Close()
	}

	var stdout, stderr bytes.Buffer
	if rawFile != nil {
		cmd.Stdout = io.MultiWriter(&stdout, rawFile)
		cmd.Stderr = io.MultiWriter(&stderr, rawFile)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%w: %v", backend.ErrExecution, ctxErr)
	}

	parsed, ok := parseReply(&stdout)
	if !ok {
		if runErr != nil {
			return result, execFailure(runErr, &stderr)
		}
		return result, fmt.Errorf("%w: driver produced no result", backend.ErrExecution)
	}

	switch parsed.Kind {
	case "backend":
		return result, fmt.Errorf("%w: %s: %s", backend.ErrBackendUnavailable, b.simulator, parsed.Error)
	case "execution":
		return result, fmt.Errorf("%w: %s", backend.ErrExecution, parsed.Error)
	}
	if runErr != nil {
		return result, execFailure(runErr, &stderr)
	}

	result.Candidates = parsed.Factors
	return result, nil
}

func (b *Backend) python() string {
	if strings.TrimSpace(b.execPath) != "" {
		return b.execPath
	}
	if value, ok := config.GetConfig("qiskit.python"); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultPython
}

// parseReply returns the last JSON line the driver wrote to stdout.
func parseReply(reader io.Reader) (reply, bool) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var last reply
	found := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var candidate reply
		if err := json.Unmarshal([]byte(line), &candidate); err != nil {
			continue
		}
		last = candidate
		found = true
	}
	return last, found
}

func execFailure(err error, stderr *bytes.Buffer) error {
	if stderr.Len() > 0 {
		return fmt.Errorf("%w: %v: %s", backend.ErrExecution, err, strings.TrimSpace(stderr.String()))
	}
	return fmt.Errorf("%w: %v", backend.ErrExecution, err)
}
