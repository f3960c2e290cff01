package sourcedb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainFixture(t *testing.T, roots ...string) *Traversal {
	t.Helper()
	q := newGraphQuerier()
	q.add("//app:main", "py_binary", nil, "//app:lib")
	q.add("//app:lib", "py_library", nil, "//libs:common")
	q.add("//libs:common", "py_library", nil, "//third_party:six")
	q.add("//third_party:six", "py_library", nil)
	q.add("//tools:cli", "py_binary", nil, "//third_party:six")

	tr, err := Traverse(context.Background(), NewNodeInfoCache(q), roots)
	require.NoError(t, err)
	return tr
}

func TestDependencyChain_FromSingleRoot(t *testing.T) {
	tr := chainFixture(t, "//app:main")

	chain, err := tr.DependencyChain("//third_party:six")

	require.NoError(t, err)
	assert.Equal(t, []string{"//app:main", "//app:lib", "//libs:common", "//third_party:six"}, chain)
}

func TestDependencyChain_PrefersShortestAcrossRoots(t *testing.T) {
	tr := chainFixture(t, "//app:main", "//tools:cli")

	chain, err := tr.DependencyChain("//third_party:six")

	require.NoError(t, err)
	assert.Equal(t, []string{"//tools:cli", "//third_party:six"}, chain)
}

func TestDependencyChain_TargetIsRoot(t *testing.T) {
	tr := chainFixture(t, "//app:main")

	chain, err := tr.DependencyChain("//app:main")

	require.NoError(t, err)
	assert.Equal(t, []string{"//app:main"}, chain)
}

func TestDependencyChain_NotReached(t *testing.T) {
	tr := chainFixture(t, "//app:lib")

	_, err := tr.DependencyChain("//tools:cli")

	assert.ErrorIs(t, err, ErrTargetNotReached)
}

func TestDependencyChain_EqualLengthChainsAreStable(t *testing.T) {
	q := newGraphQuerier()
	q.add("//a", "py_binary", nil, "//e", "//c", "//b")
	q.add("//b", "py_library", nil, "//d")
	q.add("//c", "py_library", nil, "//d")
	q.add("//e", "py_library", nil, "//d")
	q.add("//d", "py_library", nil)

	for i := 0; i < 50; i++ {
		tr, err := Traverse(context.Background(), NewNodeInfoCache(q), []string{"//a"})
		require.NoError(t, err)

		chain, err := tr.DependencyChain("//d")

		require.NoError(t, err)
		require.Equal(t, []string{"//a", "//b", "//d"}, chain)
	}
}

func TestDependencyChain_RootOwnsTargetAmongOthers(t *testing.T) {
	tr := chainFixture(t, "//app:main", "//third_party:six")

	chain, err := tr.DependencyChain("//third_party:six")

	require.NoError(t, err)
	assert.Equal(t, []string{"//third_party:six"}, chain)
}
