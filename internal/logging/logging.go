// Copyright (C) 2025 SAGE-X Project
//
// This file is part of sage-pay-go.
//
// sage-pay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sage-pay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with sage-pay-go.  If not, see <https://www.gnu.org/licenses/>.

// Package logging builds the zap loggers used by the example programs and
// the configuration loader.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing to stderr. Development loggers use the
// console encoder; otherwise output is JSON.
func New(level string, development bool) (*zap.Logger, error) {
	return NewWithWriter(level, development, os.Stderr)
}

// NewWithWriter builds a logger writing to w
func NewWithWriter(level string, development bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if development {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if development {
		opts = append(opts, zap.AddCaller(), zap.Development())
	}
	return zap.New(core, opts...).Named("sagepay"), nil
}

// ParseLevel maps a level name to a zap level; empty means info
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
