package aer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/goosewin/shor/internal/backend"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePython writes an executable that stores its stdin next to itself and
// prints body to stdout before exiting with code.
func fakePython(t *testing.T, body string, code int) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter requires a POSIX shell")
	}

	dir := t.TempDir()
	requestPath := filepath.Join(dir, "request.json")
	script := "#!/bin/sh\n" +
		"cat > " + requestPath + "\n" +
		"cat <<'JSON'\n" + body + "\nJSON\n" +
		"exit " + itoa(code) + "\n"
	path := filepath.Join(dir, "python")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, requestPath
}

func itoa(value int) string {
	data, _ := json.Marshal(value)
	return string(data)
}

func TestRunParsesFactors(t *testing.T) {
	python, requestPath := fakePython(t, "warming up\n{\"factors\": [[3, 7]]}", 0)

	b := New("qasm_simulator", python)
	result, err := b.Run(context.Background(), backend.RunOptions{Number: 21, Shots: 10, Validate: true, Seed: 42})
	require.NoError(t, err)

	if diff := cmp.Diff([][]int{{3, 7}}, result.Candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(requestPath)
	require.NoError(t, err)
	var sent request
	require.NoError(t, json.Unmarshal(data, &sent))
	assert.Equal(t, request{Number: 21, Shots: 10, Simulator: "qasm_simulator", Validate: true, Seed: 42}, sent)
}

func TestRunMapsBackendFailure(t *testing.T) {
	python, _ := fakePython(t, "{\"kind\": \"backend\", \"error\": \"no such simulator\"}", 3)

	_, err := New("bogus_simulator", python).Run(context.Background(), backend.RunOptions{Number: 15, Shots: 1})
	require.ErrorIs(t, err, backend.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "no such simulator")
}

func TestRunMapsExecutionFailure(t *testing.T) {
	python, _ := fakePython(t, "{\"kind\": \"execution\", \"error\": \"The input needs to be an odd integer\"}", 4)

	_, err := New("qasm_simulator", python).Run(context.Background(), backend.RunOptions{Number: 15, Shots: 1})
	require.ErrorIs(t, err, backend.ErrExecution)
	assert.Contains(t, err.Error(), "odd integer")
}

func TestRunFailsWithoutReply(t *testing.T) {
	python, _ := fakePython(t, "Traceback (most recent call last):", 1)

	_, err := New("qasm_simulator", python).Run(context.Background(), backend.RunOptions{Number: 15, Shots: 1})
	require.ErrorIs(t, err, backend.ErrExecution)
}

func TestRunWritesRawOutput(t *testing.T) {
	python, _ := fakePython(t, "{\"factors\": []}", 0)
	rawPath := filepath.Join(t.TempDir(), "logs", "run.raw.log")

	result, err := New("qasm_simulator", python).Run(context.Background(), backend.RunOptions{
		Number:        15,
		Shots:         1,
		RawOutputFile: rawPath,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)

	data, err := os.ReadFile(rawPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\"factors\""))
}

func TestCheckInstalledMissingInterpreter(t *testing.T) {
	b := New("qasm_simulator", filepath.Join(t.TempDir(), "missing-python"))
	assert.ErrorIs(t, b.CheckInstalled(), backend.ErrBackendUnavailable)

	_, err := b.Run(context.Background(), backend.RunOptions{Number: 15, Shots: 1})
	assert.ErrorIs(t, err, backend.ErrBackendUnavailable)
}

func TestParseReplyKeepsLastJSONLine(t *testing.T) {
	input := "{\"factors\": [[3, 5]]}\nnoise\n{\"factors\": [[3, 5], [5, 3]]}\n"
	parsed, ok := parseReply(strings.NewReader(input))
	require.True(t, ok)
	assert.Len(t, parsed.Factors, 2)

	_, ok = parseReply(strings.NewReader("not json\n"))
	assert.False(t, ok)
}
