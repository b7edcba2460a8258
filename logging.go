// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/labstack/gommon/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileConfig configures rotation for the on-disk half of NewRotatingLogger's output, via
// lumberjack.
type LogFileConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewRotatingLogger returns an slog.Logger that writes colorized, level-tagged lines to stdout
// and, when file.Filename is non-empty, newline-delimited JSON to a size/age-rotated file.
func NewRotatingLogger(file LogFileConfig) *slog.Logger {
	var fileWriter io.Writer
	if file.Filename != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   file.Filename,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   file.Compress,
		}
	}

	handler := &rotatingHandler{
		console: os.Stdout,
		file:    fileWriter,
		json:    slogJSONHandler(fileWriter),
		col:     color.New(),
		attrs:   nil,
	}
	return slog.New(handler)
}

func slogJSONHandler(w io.Writer) slog.Handler {
	if w == nil {
		return nil
	}
	return slog.NewJSONHandler(w, nil)
}

// rotatingHandler fans each record out to a colorized console line and, if configured, an
// append-only JSON line in the rotated log file.
type rotatingHandler struct {
	console io.Writer
	file    io.Writer
	json    slog.Handler
	col     *color.Color
	attrs   []slog.Attr
}

func (h *rotatingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *rotatingHandler) Handle(ctx context.Context, r slog.Record) error {
	levelTag := h.levelTag(r.Level)
	line := levelTag + " " + r.Message
	r.Attrs(func(a slog.Attr) bool {
		line += " " + a.String()
		return true
	})
	if _, err := io.WriteString(h.console, line+"\n"); err != nil {
		return err
	}
	if h.json != nil {
		return h.json.Handle(ctx, r)
	}
	return nil
}

func (h *rotatingHandler) levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return h.col.Red("ERROR")
	case l >= slog.LevelWarn:
		return h.col.Yellow("WARN")
	case l >= slog.LevelInfo:
		return h.col.Green("INFO")
	default:
		return h.col.Cyan("DEBUG")
	}
}

func (h *rotatingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	if h.json != nil {
		cp.json = h.json.WithAttrs(attrs)
	}
	return &cp
}

func (h *rotatingHandler) WithGroup(name string) slog.Handler {
	cp := *h
	if h.json != nil {
		cp.json = h.json.WithGroup(name)
	}
	return &cp
}
