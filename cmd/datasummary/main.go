// Command datasummary writes a row/column summary of the raw data files
// under DATA_DIR to OUTPUT_DIR/nhl_file_summary.csv.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/config"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/summary"
)

func main() {
	cfg := config.MustLoad()

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		log.Logger = log.Level(level)
	}

	rows, err := summary.Summarize(cfg.DataDir)
	if err != nil {
		log.Error().Err(err).Str("dir", cfg.DataDir).Msg("Commit the unzipped data there")
		os.Exit(1)
	}

	out := filepath.Join(cfg.OutputDir, summary.FileName)
	if err := summary.Write(out, rows); err != nil {
		log.Error().Err(err).Str("path", out).Msg("Failed to write summary")
		os.Exit(1)
	}

	abs, _ := filepath.Abs(out)
	log.Info().
		Str("path", abs).
		Int("files", len(rows)).
		Msg("Wrote summary")
}
