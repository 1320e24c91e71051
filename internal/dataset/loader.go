// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// ErrMalformed is wrapped by every record-level parse error.
var ErrMalformed = errors.New("malformed record")

// ctxCheckInterval is how many records are read between context checks.
const ctxCheckInterval = 4096

// Paths locates the input files. Only Movies is required.
type Paths struct {
	Movies  string
	Genome  string
	Ratings string
	Train   string
	Test    string
}

// Options controls parsing.
type Options struct {
	// ExcludedGenre is dropped from every genre set. Empty keeps all genres.
	ExcludedGenre string

	// Logger receives load progress. The zero value discards output.
	Logger zerolog.Logger
}

// Dataset is the loaded catalog plus the raw matrices it was built from.
type Dataset struct {
	Catalog *recommend.Catalog
	Genome  *recommend.Matrix
	Ratings *recommend.Matrix
	Train   *recommend.Matrix // nil when no training file was given
	Test    *recommend.Matrix // nil when no test file was given
}

// HasSplit reports whether train and test matrices are available.
func (d *Dataset) HasSplit() bool {
	return d.Train != nil && d.Test != nil
}

// Load reads the genome and ratings files, then the movies file, and builds
// the catalog. Train and test matrices are loaded when their paths are set.
func Load(ctx context.Context, paths Paths, opts Options) (*Dataset, error) {
	if paths.Movies == "" {
		return nil, errors.New("movies file path is required")
	}
	start := time.Now()
	logger := opts.Logger.With().Str("component", "dataset").Logger()

	ds := &Dataset{
		Genome:  recommend.NewMatrix(),
		Ratings: recommend.NewMatrix(),
	}

	if paths.Genome != "" {
		err := readTriples(ctx, paths.Genome, func(movie, tag int, score float64) {
			ds.Genome.AddValue(movie, tag, score)
		})
		if err != nil {
			return nil, err
		}
	}

	ratingsPath := paths.Ratings
	if ratingsPath == "" {
		ratingsPath = paths.Train
	}
	if ratingsPath != "" {
		err := readTriples(ctx, ratingsPath, func(user, movie int, rating float64) {
			ds.Ratings.AddValue(movie, user, rating)
		})
		if err != nil {
			return nil, err
		}
	}

	catalog, err := readMovies(ctx, paths.Movies, opts.ExcludedGenre, ds.Genome, ds.Ratings)
	if err != nil {
		return nil, err
	}
	ds.Catalog = catalog

	if paths.Train != "" {
		if ds.Train, err = readUserMatrix(ctx, paths.Train); err != nil {
			return nil, err
		}
	}
	if paths.Test != "" {
		if ds.Test, err = readUserMatrix(ctx, paths.Test); err != nil {
			return nil, err
		}
	}

	event := logger.Info().
		Int("items", ds.Catalog.Len()).
		Int("genome_entries", ds.Genome.NNZ()).
		Int("ratings", ds.Ratings.NNZ()).
		Dur("duration", time.Since(start))
	if ds.Train != nil {
		event = event.Int("train_users", ds.Train.Len())
	}
	if ds.Test != nil {
		event = event.Int("test_users", ds.Test.Len())
	}
	event.Msg("Dataset loaded")

	return ds, nil
}

// readUserMatrix reads a userId,movieId,rating file into a user-major matrix.
func readUserMatrix(ctx context.Context, path string) (*recommend.Matrix, error) {
	m := recommend.NewMatrix()
	err := readTriples(ctx, path, func(user, movie int, rating float64) {
		m.AddValue(user, movie, rating)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// readTriples parses a file of int,int,float records and calls fn for each.
func readTriples(ctx context.Context, path string, fn func(a, b int, v float64)) error {
	return readRecords(ctx, path, func(line int, rec []string) error {
		if len(rec) != 3 {
			return malformed(path, line, "want 3 fields, got %d", len(rec))
		}
		a, err := parseInt(rec[0])
		if err != nil {
			return malformed(path, line, "field 1: %v", err)
		}
		b, err := parseInt(rec[1])
		if err != nil {
			return malformed(path, line, "field 2: %v", err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return malformed(path, line, "field 3: %v", err)
		}
		fn(a, b, v)
		return nil
	})
}

// readMovies parses the movies file into a catalog.
func readMovies(ctx context.Context, path, excluded string, genome, ratings *recommend.Matrix) (*recommend.Catalog, error) {
	catalog := recommend.NewCatalog()
	err := readRecords(ctx, path, func(line int, rec []string) error {
		if len(rec) < 3 {
			return malformed(path, line, "want 3 fields, got %d", len(rec))
		}
		id, err := parseInt(rec[0])
		if err != nil {
			return malformed(path, line, "movie id: %v", err)
		}

		// Unquoted titles may still contain commas.
		titleField := strings.Join(rec[1:len(rec)-1], ",")
		title, year, err := parseTitle(titleField)
		if err != nil {
			return malformed(path, line, "title %q: %v", titleField, err)
		}

		genreField := strings.TrimSpace(rec[len(rec)-1])
		if genreField == "" {
			return malformed(path, line, "missing genres")
		}

		catalog.Add(&recommend.Item{
			ID:      id,
			Title:   title,
			Year:    year,
			Genres:  recommend.NewGenreSet(strings.Split(genreField, "|"), excluded),
			Genome:  cloneRow(genome.Row(id)),
			Ratings: cloneRow(ratings.Row(id)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// parseTitle splits "Title (1999)" into title and year. A title without
// parentheses has year 0.
func parseTitle(s string) (string, int, error) {
	s = strings.TrimSpace(s)
	open := strings.LastIndex(s, "(")
	closing := strings.LastIndex(s, ")")
	if open < 0 || closing < open {
		return s, 0, nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(s[open+1 : closing]))
	if err != nil {
		return "", 0, fmt.Errorf("invalid year: %w", err)
	}
	return strings.TrimSpace(s[:open]), year, nil
}

// readRecords streams CSV records from path, passing the 1-based line number
// of each record's first field.
func readRecords(ctx context.Context, path string, fn func(line int, rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return malformed(path, perr.Line, "%v", perr.Err)
			}
			return fmt.Errorf("read %s: %w", path, err)
		}

		line, _ := r.FieldPos(0)
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func cloneRow(row map[int]float64) map[int]float64 {
	if row == nil {
		return map[int]float64{}
	}
	return maps.Clone(row)
}

func malformed(path string, line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", path, line, ErrMalformed, fmt.Sprintf(format, args...))
}
