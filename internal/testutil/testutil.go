// Package testutil holds helpers shared by package tests
package testutil

import (
	"io"
	"log/slog"

	"github.com/mcoot/vstetris/internal/model"
)

// NopLogger returns a logger that discards all output
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// ParseBoard builds a board from rows where '.' is empty and a digit is a
// color index
func ParseBoard(rows ...string) *model.Board {
	board := model.NewBoard(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			if c != '.' {
				board.Set(x, y, int(c-'0'))
			}
		}
	}
	return board
}
