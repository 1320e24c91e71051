// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const (
	testMovies = `1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
2,"American President, The (1995)",Comedy|Drama|Romance

3,Avatar (2009),Action|Adventure|IMAX| sci-fi
4,Untitled Project,Drama
`
	testGenome  = "1,10,0.5\n1,11,0.25\n3,10,0.75\n"
	testRatings = "100,1,4.0\n101,1,5.0\n100,3,3.5\n"
	testTrain   = "100,1,4.0\n100,2,2.0\n"
	testTest    = "100,3,5.0\n101,1,4.5\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		Movies:  writeFile(t, dir, "movies.csv", testMovies),
		Genome:  writeFile(t, dir, "genome.csv", testGenome),
		Ratings: writeFile(t, dir, "ratings.csv", testRatings),
		Train:   writeFile(t, dir, "train.csv", testTrain),
		Test:    writeFile(t, dir, "test.csv", testTest),
	}
}

func TestLoad(t *testing.T) {
	ds, err := Load(context.Background(), testPaths(t), Options{ExcludedGenre: "imax"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := ds.Catalog.IDs(); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("Catalog.IDs() = %v, want [1 2 3 4]", got)
	}

	tests := []struct {
		id        int
		title     string
		year      int
		genres    []string
		genomeLen int
		ratings   int
	}{
		{1, "Toy Story", 1995, []string{"adventure", "animation", "children", "comedy", "fantasy"}, 2, 2},
		{2, "American President, The", 1995, []string{"comedy", "drama", "romance"}, 0, 0},
		{3, "Avatar", 2009, []string{"action", "adventure", "sci-fi"}, 1, 1},
		{4, "Untitled Project", 0, []string{"drama"}, 0, 0},
	}

	for _, tt := range tests {
		it, ok := ds.Catalog.Get(tt.id)
		if !ok {
			t.Fatalf("Catalog.Get(%d) missing", tt.id)
		}
		if it.Title != tt.title {
			t.Errorf("item %d Title = %q, want %q", tt.id, it.Title, tt.title)
		}
		if it.Year != tt.year {
			t.Errorf("item %d Year = %d, want %d", tt.id, it.Year, tt.year)
		}
		if got := it.Genres.Sorted(); !reflect.DeepEqual(got, tt.genres) {
			t.Errorf("item %d Genres = %v, want %v", tt.id, got, tt.genres)
		}
		if len(it.Genome) != tt.genomeLen {
			t.Errorf("item %d len(Genome) = %d, want %d", tt.id, len(it.Genome), tt.genomeLen)
		}
		if it.RatingCount() != tt.ratings {
			t.Errorf("item %d RatingCount() = %d, want %d", tt.id, it.RatingCount(), tt.ratings)
		}
	}

	toy, _ := ds.Catalog.Get(1)
	if toy.MeanRating() != 4.5 {
		t.Errorf("MeanRating() = %v, want 4.5", toy.MeanRating())
	}
	if toy.Genome[11] != 0.25 {
		t.Errorf("Genome[11] = %v, want 0.25", toy.Genome[11])
	}

	if !ds.HasSplit() {
		t.Fatal("HasSplit() = false, want true")
	}
	if got := ds.Train.Value(100, 2); got != 2.0 {
		t.Errorf("Train.Value(100, 2) = %v, want 2", got)
	}
	if got := ds.Test.RowIDs(); !reflect.DeepEqual(got, []int{100, 101}) {
		t.Errorf("Test.RowIDs() = %v, want [100 101]", got)
	}
}

func TestLoad_OptionalFiles(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{Movies: writeFile(t, dir, "movies.csv", testMovies)}

	ds, err := Load(context.Background(), paths, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.HasSplit() {
		t.Error("HasSplit() = true, want false")
	}
	if ds.Genome.NNZ() != 0 || ds.Ratings.NNZ() != 0 {
		t.Errorf("expected empty genome and ratings, got %d and %d", ds.Genome.NNZ(), ds.Ratings.NNZ())
	}

	// No exclusion configured: imax is kept.
	avatar, _ := ds.Catalog.Get(3)
	if !avatar.Genres.Has("imax") {
		t.Error("expected imax genre with empty ExcludedGenre")
	}
}

func TestLoad_RatingsFallBackToTrain(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Movies: writeFile(t, dir, "movies.csv", testMovies),
		Train:  writeFile(t, dir, "train.csv", testTrain),
		Test:   writeFile(t, dir, "test.csv", testTest),
	}

	ds, err := Load(context.Background(), paths, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	toy, _ := ds.Catalog.Get(1)
	if toy.RatingCount() != 1 || toy.Ratings[100] != 4.0 {
		t.Errorf("item 1 ratings = %v, want train ratings only", toy.Ratings)
	}
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantLine string
	}{
		{"genome field count", "genome", "1,10,0.5\n1,11\n", "genome.csv:2:"},
		{"genome bad score", "genome", "1,10,high\n", "genome.csv:1:"},
		{"ratings bad user", "ratings", "\nabc,1,4\n", "ratings.csv:2:"},
		{"movies bad id", "movies", "x,Title (2000),Drama\n", "movies.csv:1:"},
		{"movies too few fields", "movies", "1,Toy Story (1995),Comedy\n2,Heat (1995)\n", "movies.csv:2:"},
		{"movies bad year", "movies", "1,Toy Story (19x5),Comedy\n", "movies.csv:1:"},
		{"movies empty genres", "movies", "1,Toy Story (1995),\n", "movies.csv:1:"},
		{"test bad rating", "test", "100,1,\n", "test.csv:1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := testPaths(t)
			dir := filepath.Dir(paths.Movies)
			switch tt.file {
			case "genome":
				paths.Genome = writeFile(t, dir, "genome.csv", tt.content)
			case "ratings":
				paths.Ratings = writeFile(t, dir, "ratings.csv", tt.content)
			case "movies":
				paths.Movies = writeFile(t, dir, "movies.csv", tt.content)
			case "test":
				paths.Test = writeFile(t, dir, "test.csv", tt.content)
			}

			_, err := Load(context.Background(), paths, Options{})
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Load() error = %v, want ErrMalformed", err)
			}
			if !strings.Contains(err.Error(), tt.wantLine) {
				t.Errorf("Load() error = %v, want location %q", err, tt.wantLine)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	paths := testPaths(t)
	paths.Genome = filepath.Join(t.TempDir(), "nope.csv")

	_, err := Load(context.Background(), paths, Options{})
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
	if errors.Is(err, ErrMalformed) {
		t.Errorf("Load() error = %v, should not be ErrMalformed", err)
	}
}

func TestLoad_RequiresMovies(t *testing.T) {
	if _, err := Load(context.Background(), Paths{}, Options{}); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, testPaths(t), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		in      string
		title   string
		year    int
		wantErr bool
	}{
		{"Heat (1995)", "Heat", 1995, false},
		{"  Se7en (a.k.a. Seven) (1995) ", "Se7en (a.k.a. Seven)", 1995, false},
		{"No Year", "No Year", 0, false},
		{"Broken (19", "Broken (19", 0, false},
		{"Bad (year)", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			title, year, err := parseTitle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTitle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if title != tt.title || year != tt.year {
				t.Errorf("parseTitle(%q) = (%q, %d), want (%q, %d)", tt.in, title, year, tt.title, tt.year)
			}
		})
	}
}
