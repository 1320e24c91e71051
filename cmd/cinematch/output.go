// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// stdoutPath selects the command's standard output.
const stdoutPath = "-"

// csvOutput writes experiment rows to a file or stdout.
type csvOutput struct {
	w      *csv.Writer
	closer io.Closer
}

// openCSV opens path ("-" for stdout) and writes the header row.
func openCSV(path string, stdout io.Writer, header []string) (*csvOutput, error) {
	out := &csvOutput{}
	var dst io.Writer = stdout
	if path != stdoutPath {
		f, err := os.Create(path) //nolint:gosec // output path is operator-supplied
		if err != nil {
			return nil, fmt.Errorf("create output %s: %w", path, err)
		}
		dst = f
		out.closer = f
	}
	out.w = csv.NewWriter(dst)

	if err := out.Write(header); err != nil {
		_ = out.Close()
		return nil, err
	}
	return out, nil
}

// Write writes one row.
func (o *csvOutput) Write(row []string) error {
	if err := o.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file, if any.
func (o *csvOutput) Close() error {
	o.w.Flush()
	err := o.w.Error()
	if o.closer != nil {
		err = errors.Join(err, o.closer.Close())
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
