// Command fetch-replacements forces one refresh of the upstream
// replacement tables and prints the resulting snapshot as JSON. Handy for
// checking what the parser extracts without running the API server.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"schedhub/internal/replacements"
	"schedhub/pkg/config"
	"schedhub/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("SCHEDHUB_CONFIG"), "path to yaml/json config (optional)")
	flag.Parse()

	log := logger.New("fetch-replacements")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("загрузка конфигурации не удалась")
	}

	fetcher := replacements.NewFetcher(cfg.Replacements, log)
	snap := fetcher.Get(true)

	log.Info().
		Int("rows", len(snap.Rows)).
		Int("errors", len(snap.Errors)).
		Str("date", snap.DateText).
		Msg("snapshot fetched")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		log.Fatal().Err(err).Msg("encode snapshot")
	}
}
