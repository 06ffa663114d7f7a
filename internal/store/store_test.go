// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpress/bibnorm/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "bibnorm.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEntries() []types.Bibentry {
	return []types.Bibentry{
		{
			Title: "Quantum algorithms to simulate many-body physics",
			Authors: []types.Author{
				{Given: "Jiang", Surname: "Zhang", NameStyle: types.StyleWestern},
			},
			Venue:  "Quantum Inf. Comput.",
			Year:   "2018",
			Eprint: "1711.05395",
			Extra:  map[string]string{"label": "zhang2018"},
		},
		{
			Title: "Polynomial-time algorithms for prime factorization",
			Year:  "1997",
			DOI:   "10.1137/S0097539795293172",
		},
	}
}

func TestSaveAndLoadBibliography(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	entries := sampleEntries()
	require.NoError(t, s.SaveBibliography(ctx, "paper-a", entries))

	got, err := s.LoadBibliography(ctx, "paper-a")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Round-trips intact and in order.
	assert.Equal(t, entries[0], got[0])
	assert.Equal(t, entries[1], got[1])
}

func TestSaveReplacesExisting(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBibliography(ctx, "paper-a", sampleEntries()))
	require.NoError(t, s.SaveBibliography(ctx, "paper-a", sampleEntries()[:1]))

	got, err := s.LoadBibliography(ctx, "paper-a")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLoadMissingSource(t *testing.T) {
	s := testStore(t)

	_, err := s.LoadBibliography(context.Background(), "nope")
	assert.Error(t, err)
}

func TestListBibliographies(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	infos, err := s.ListBibliographies(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, s.SaveBibliography(ctx, "paper-a", sampleEntries()))
	require.NoError(t, s.SaveBibliography(ctx, "paper-b", sampleEntries()[:1]))

	infos, err = s.ListBibliographies(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	bySource := map[string]int{}
	for _, info := range infos {
		bySource[info.Source] = info.Entries
	}
	assert.Equal(t, 2, bySource["paper-a"])
	assert.Equal(t, 1, bySource["paper-b"])
}

func TestDeleteBibliography(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBibliography(ctx, "paper-a", sampleEntries()))
	require.NoError(t, s.DeleteBibliography(ctx, "paper-a"))

	_, err := s.LoadBibliography(ctx, "paper-a")
	assert.Error(t, err)

	infos, err := s.ListBibliographies(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestSaveEmptyBibliography(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBibliography(ctx, "empty", nil))

	got, err := s.LoadBibliography(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}
