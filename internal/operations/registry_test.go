package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepIDs(steps []Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	return ids
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFuncStep("load", nil, nil)))

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newFuncStep("", nil, nil)))
	assert.Error(t, r.Register(newFuncStep("load", nil, nil)))

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, []string{"load"}, r.ListIDs())

	_, err := r.Get("missing")
	assert.Equal(t, ErrorTypeNotFound, GetErrorType(err))
}

func TestRegistryDependencyOrder(t *testing.T) {
	r := NewRegistry()
	for _, s := range []Step{
		newFuncStep("export", []string{"group", "cluster"}, nil),
		newFuncStep("load", nil, nil),
		newFuncStep("cluster", []string{"aggregate"}, nil),
		newFuncStep("group", []string{"aggregate"}, nil),
		newFuncStep("aggregate", []string{"load"}, nil),
	} {
		require.NoError(t, r.Register(s))
	}

	ordered, err := r.GetDependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"load", "aggregate", "cluster", "group", "export"}, stepIDs(ordered))
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	for _, s := range []Step{
		newFuncStep("load", nil, nil),
		newFuncStep("aggregate", []string{"load"}, nil),
		newFuncStep("cluster", []string{"aggregate"}, nil),
		newFuncStep("group", []string{"aggregate"}, nil),
	} {
		require.NoError(t, r.Register(s))
	}

	steps, err := r.Resolve([]string{"group"})
	require.NoError(t, err)
	assert.Equal(t, []string{"load", "aggregate", "group"}, stepIDs(steps))

	_, err = r.Resolve([]string{"render"})
	assert.Error(t, err)
}

func TestRegistryDetectsBadGraphs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFuncStep("a", []string{"b"}, nil)))
	require.NoError(t, r.Register(newFuncStep("b", []string{"a"}, nil)))
	_, err := r.GetDependencyOrder()
	assert.ErrorContains(t, err, "cycle")

	r = NewRegistry()
	require.NoError(t, r.Register(newFuncStep("a", []string{"ghost"}, nil)))
	_, err = r.GetDependencyOrder()
	assert.ErrorContains(t, err, "non-existent")
}
