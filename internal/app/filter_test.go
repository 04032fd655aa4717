package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/entro314-labs/claudesweep/internal/scanner"
)

func TestFilterMatchesQueryCaseInsensitive(t *testing.T) {
	f := Filter{Query: "MyProj"}
	assert.True(t, f.Matches(scanner.Folder{Path: "/home/myproject/.claude"}))
	assert.False(t, f.Matches(scanner.Folder{Path: "/home/other/.claude"}))
}

func TestFilterMatchesProjectTypes(t *testing.T) {
	f := Filter{ProjectTypes: []string{"Rust", "Go"}}
	assert.True(t, f.Matches(scanner.Folder{Path: "/a", ProjectType: "Go"}))
	assert.False(t, f.Matches(scanner.Folder{Path: "/b", ProjectType: "Node.js"}))
}

func TestFilterMatchesMinSize(t *testing.T) {
	f := Filter{MinSize: 1024}
	assert.True(t, f.Matches(scanner.Folder{Path: "/a", SizeBytes: 2048}))
	assert.False(t, f.Matches(scanner.Folder{Path: "/b", SizeBytes: 512}))
}

func TestFilterMatchesMaxAge(t *testing.T) {
	old := time.Now().Add(-60 * 24 * time.Hour)
	recent := time.Now().Add(-time.Hour)

	f := Filter{MaxAge: 30 * 24 * time.Hour}
	assert.True(t, f.Matches(scanner.Folder{Path: "/a", ModifiedAt: &old}))
	assert.False(t, f.Matches(scanner.Folder{Path: "/b", ModifiedAt: &recent}))
	// Unknown mtime is never age-filtered.
	assert.True(t, f.Matches(scanner.Folder{Path: "/c"}))
}

func TestFilterActiveAndClear(t *testing.T) {
	var f Filter
	assert.False(t, f.Active())

	f.Query = "x"
	f.MinSize = 1
	assert.True(t, f.Active())

	f.Clear()
	assert.False(t, f.Active())
	assert.Empty(t, f.Query)
	assert.Zero(t, f.MinSize)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortSizeAsc, ParseSortOrder("size_asc"))
	assert.Equal(t, SortNameAsc, ParseSortOrder("name_asc"))
	assert.Equal(t, SortNameDesc, ParseSortOrder("name_desc"))
	assert.Equal(t, SortDateDesc, ParseSortOrder("date_desc"))
	assert.Equal(t, SortDateAsc, ParseSortOrder("date_asc"))
	assert.Equal(t, SortSizeDesc, ParseSortOrder("size_desc"))
	assert.Equal(t, SortSizeDesc, ParseSortOrder("bogus"))
}

func TestSortOrderLabels(t *testing.T) {
	assert.Equal(t, "Size ↓", SortSizeDesc.Label())
	assert.Equal(t, "Oldest", SortDateAsc.Label())
}
