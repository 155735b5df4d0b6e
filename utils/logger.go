// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CreateFileLogger returns a logger writing to the console and appending
// JSON lines to path. If the file cannot be opened the console logger is
// returned alone.
func CreateFileLogger(path string) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}

	var out io.Writer = console
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("file logging disabled")
	} else {
		out = zerolog.MultiLevelWriter(console, file)
	}

	return zerolog.New(out).With().Timestamp().Logger()
}
