// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpress/bibnorm/pkg/types"
)

func entry(title, year string, surnames ...string) types.Bibentry {
	e := types.Bibentry{Title: title, Year: year}
	for _, s := range surnames {
		e.Authors = append(e.Authors, types.Author{Surname: s, NameStyle: types.StyleWestern})
	}
	return e
}

func TestMergeWithoutDedup(t *testing.T) {
	cfg := types.DefaultMatchConfig()
	a := []types.Bibentry{
		entry("First paper", "2017", "Zhang"),
		entry("First paper", "2017", "Zhang"), // duplicate stays without dedup
	}
	b := []types.Bibentry{
		entry("Second paper", "2018", "Shor"),
	}

	merged := MergeBibentryArrays(a, b, false, cfg)

	require.Len(t, merged, 3)
	assert.Equal(t, a[0], merged[0])
	assert.Equal(t, a[1], merged[1])
	assert.Equal(t, b[0], merged[2])
}

func TestMergeDedupEmpty(t *testing.T) {
	cfg := types.DefaultMatchConfig()

	assert.Empty(t, MergeBibentryArrays(nil, nil, true, cfg))

	x := entry("Only one", "2020", "Knuth")
	onlyA := MergeBibentryArrays([]types.Bibentry{x}, nil, true, cfg)
	require.Len(t, onlyA, 1)
	assert.Equal(t, x, onlyA[0])

	onlyB := MergeBibentryArrays(nil, []types.Bibentry{x}, true, cfg)
	require.Len(t, onlyB, 1)
	assert.Equal(t, x, onlyB[0])
}

func TestMergeDedup(t *testing.T) {
	cfg := types.DefaultMatchConfig()

	a := []types.Bibentry{
		entry("Quantum algorithms for fermions", "2017", "Zhang"),
		entry("Quantum algorithms for fermions", "2017", "Zhang"), // self-duplicate in a
		entry("Classical shadows", "2020", "Huang", "Kueng", "Preskill"),
	}
	b := []types.Bibentry{
		entry("Quantum Algorithms for Fermions", "2017", "Zhang"), // duplicates a[0]
		entry("A brand new result", "2021", "Kitaev"),
		entry("A Brand New Result", "2021", "Kitaev"), // duplicates earlier b entry
	}

	merged := MergeBibentryArrays(a, b, true, cfg)

	require.Len(t, merged, 3)
	assert.Equal(t, a[0], merged[0])
	assert.Equal(t, a[2], merged[1])
	assert.Equal(t, b[1], merged[2])
}

// Entries that lack comparable data are all kept: matching is never vacuous.
func TestMergeDedupKeepsEmptyEntries(t *testing.T) {
	cfg := types.DefaultMatchConfig()
	a := []types.Bibentry{{}, {}}

	merged := MergeBibentryArrays(a, nil, true, cfg)
	assert.Len(t, merged, 2)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	cfg := types.DefaultMatchConfig()
	a := []types.Bibentry{entry("One", "2017", "Zhang"), entry("Two", "2018", "Shor")}
	b := []types.Bibentry{entry("Three", "2019", "Knuth")}
	aCopy := append([]types.Bibentry(nil), a...)
	bCopy := append([]types.Bibentry(nil), b...)

	merged := MergeBibentryArrays(a, b, true, cfg)
	merged[0].Title = "changed"

	assert.Equal(t, aCopy, a)
	assert.Equal(t, bCopy, b)
}
