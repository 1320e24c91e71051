// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package dataset loads the movie catalog and rating matrices from CSV files.

# File Formats

All files are comma separated, one record per line, without a header row.
Blank lines are skipped.

	movies.csv         id,title (year),genre1|genre2|...
	genome-scores.csv  movieId,tagId,relevance
	ratings.csv        userId,movieId,rating
	train.csv          userId,movieId,rating
	test.csv           userId,movieId,rating

Movie titles may be double-quoted and may contain commas. The release year is
the text between the last "(" and ")" of the title field; a title without
parentheses has year 0. Genres are lower-cased, trimmed and deduplicated, and
the excluded genre (default "imax") is dropped.

# Matrices

	Genome   row = movie, col = tag
	Ratings  row = movie, col = user   (source of each Item's Ratings)
	Train    row = user,  col = movie
	Test     row = user,  col = movie

When no ratings file is configured but a training file is, item ratings are
taken from the training file so that rating-based metrics never see test data.

# Errors

Every malformed record yields an error wrapping ErrMalformed that names the
file and line:

	movies.csv:42: malformed record: want 3 fields, got 2
*/
package dataset
