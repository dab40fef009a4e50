package backend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goosewin/shor/internal/backend"
	_ "github.com/goosewin/shor/internal/backend/aer"
)

type stubBackend struct{}

func (stubBackend) CheckInstalled() error { return nil }
func (stubBackend) Simulator() string { return "stub" }
func (stubBackend) Run(context.Context, backend.RunOptions) (backend.RunResult, error) {
	return backend.RunResult{}, nil
}

func TestRegistryLoadsBackends(t *testing.T) {
	names := []string{"simulator", "qasm_simulator", "statevector_simulator", "aer_simulator"}
	for _, name := range names {
		registered, ok := backend.Get(name)
		require.Truef(t, ok, "expected %s backend to be registered", name)
		require.NotNil(t, registered)
		assert.NotEmpty(t, registered.Simulator())
	}

	simulator, _ := backend.Get(backend.DefaultName())
	assert.Equal(t, "qasm_simulator", simulator.Simulator())
}

func TestGetIsCaseInsensitive(t *testing.T) {
	_, ok := backend.Get("  Simulator ")
	assert.True(t, ok)

	_, ok = backend.Get("")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicatesAndBlankNames(t *testing.T) {
	require.NoError(t, backend.Register("stub-registry", stubBackend{}))
	t.Cleanup(func() { backend.Unregister("stub-registry") })

	assert.ErrorIs(t, backend.Register("STUB-REGISTRY", stubBackend{}), backend.ErrBackendRegistered)
	assert.ErrorIs(t, backend.Register("   ", stubBackend{}), backend.ErrBackendInvalid)
	assert.Error(t, backend.Register("nil-backend", nil))
	assert.Contains(t, backend.Names(), "stub-registry")
}

func TestLookupReportsAvailableBackends(t *testing.T) {
	_, err := backend.Lookup("ibmq_mars")
	require.ErrorIs(t, err, backend.ErrBackendNotFound)
	assert.Contains(t, err.Error(), "qasm_simulator")

	_, err = backend.Lookup(" ")
	assert.ErrorIs(t, err, backend.ErrBackendInvalid)

	instance, err := backend.Lookup("Statevector_Simulator")
	require.NoError(t, err)
	assert.Equal(t, "statevector_simulator", instance.Simulator())
}
