package push

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitProducesOneBlobPerSubproject(t *testing.T) {
	git := &mockGit{
		diffs: map[string]map[string][]byte{
			"abc123": {"llvm": []byte(fooDiff), "clang": []byte(barDiff)},
		},
	}
	engine := newTestEngine(git, newMockSvn(), Options{})

	blobs, err := engine.split(context.Background(), Changeset{
		Rev:   "abc123",
		Files: []string{"llvm/lib/Foo.cpp", "clang/lib/Bar.cpp"},
	})
	require.NoError(t, err)

	require.Len(t, blobs, 2)
	assert.Equal(t, []byte(fooDiff), blobs["llvm"])
	assert.Equal(t, []byte(barDiff), blobs["clang"])
}

func TestSplitSkipsEmptyDiff(t *testing.T) {
	git := &mockGit{
		diffs: map[string]map[string][]byte{
			"abc123": {"llvm": []byte(fooDiff), "clang": []byte("\n")},
		},
	}
	engine := newTestEngine(git, newMockSvn(), Options{})

	blobs, err := engine.split(context.Background(), Changeset{
		Rev:   "abc123",
		Files: []string{"llvm/lib/Foo.cpp", "clang/lib/Bar.cpp"},
	})
	require.NoError(t, err)

	require.Len(t, blobs, 1)
	assert.Contains(t, blobs, "llvm")
}

func TestSplitAllDiffsEmpty(t *testing.T) {
	git := &mockGit{
		diffs: map[string]map[string][]byte{
			"abc123": {"llvm": nil},
		},
	}
	engine := newTestEngine(git, newMockSvn(), Options{})

	_, err := engine.split(context.Background(), Changeset{
		Rev:   "abc123",
		Files: []string{"llvm/lib/Foo.cpp"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyChangeset))
}

func TestSplitNoFiles(t *testing.T) {
	engine := newTestEngine(&mockGit{}, newMockSvn(), Options{})

	_, err := engine.split(context.Background(), Changeset{Rev: "abc123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyChangeset))
}

func TestSplitBinaryDiffTolerated(t *testing.T) {
	// A blob go-diff cannot parse (binary payload) must still be applied.
	binary := []byte("diff --git a/llvm/bin.dat b/llvm/bin.dat\nGIT binary patch\nliteral 4\nLc$}p\n\n")
	git := &mockGit{
		diffs: map[string]map[string][]byte{
			"abc123": {"llvm": binary},
		},
	}
	engine := newTestEngine(git, newMockSvn(), Options{})

	blobs, err := engine.split(context.Background(), Changeset{
		Rev:   "abc123",
		Files: []string{"llvm/bin.dat"},
	})
	require.NoError(t, err)
	assert.Equal(t, binary, blobs["llvm"])
}

func TestDiffFileCount(t *testing.T) {
	n, ok := diffFileCount([]byte(fooDiff + barDiff))
	require.True(t, ok)
	assert.Equal(t, 2, n)
}
