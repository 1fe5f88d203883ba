package main

import (
	"encoding/json"
	"flag"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"news-dashboard/internal/adapters/api"
	"news-dashboard/internal/adapters/catalog"
	"news-dashboard/internal/domain"
	"news-dashboard/internal/usecase/feed"
	"news-dashboard/internal/usecase/preferences"
)

func main() {
	var (
		seed        uint64
		catalogPath string
		categories  string
	)
	flag.Uint64Var(&seed, "seed", 0, "seed for the random source (0 = current time)")
	flag.StringVar(&catalogPath, "catalog", "", "path to a catalog YAML file (embedded default when empty)")
	flag.StringVar(&categories, "category", "", "comma-separated categories to keep")
	flag.Parse()

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("feedgen: не удалось загрузить каталог")
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	corpus, err := feed.Generate(cat, rand.New(rand.NewPCG(seed, seed>>1)), time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("feedgen: генерация не удалась")
	}
	visible := preferences.Filter(categoryPrefs(categories), corpus)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(api.NewArticleDTOs(visible)); err != nil {
		log.Fatal().Err(err).Msg("feedgen: запись результата")
	}
}

func categoryPrefs(raw string) []domain.Preference {
	var prefs []domain.Preference
	for _, c := range strings.Split(raw, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		prefs = append(prefs, domain.Preference{Category: domain.Category(c), IsEnabled: true})
	}
	return prefs
}
