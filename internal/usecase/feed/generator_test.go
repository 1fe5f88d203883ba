package feed

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"news-dashboard/internal/domain"
)

type scriptedRandom struct {
	values []float64
	next   int
}

func (s *scriptedRandom) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

var fixedNow = time.Date(2024, time.March, 15, 17, 30, 0, 0, time.UTC)

func twoCategoryCatalog() domain.Catalog {
	return domain.Catalog{Entries: []domain.CatalogEntry{
		{
			Category:  domain.CategoryTechnology,
			Sources:   []string{"X"},
			Templates: []domain.ArticleTemplate{{Title: "A", Summary: "a", Sentiment: domain.SentimentPositive}},
		},
		{
			Category:  domain.CategoryHealth,
			Sources:   []string{"Y"},
			Templates: []domain.ArticleTemplate{{Title: "B", Summary: "b", Sentiment: domain.SentimentNeutral}},
		},
	}}
}

func widerCatalog() domain.Catalog {
	tpl := func(title string) domain.ArticleTemplate {
		return domain.ArticleTemplate{Title: title, Sentiment: domain.SentimentNeutral}
	}
	return domain.Catalog{Entries: []domain.CatalogEntry{
		{Category: domain.CategoryTechnology, Sources: []string{"Wired", "ArsTechnica"}, Templates: []domain.ArticleTemplate{tpl("t1"), tpl("t2"), tpl("t3"), tpl("t4")}},
		{Category: domain.CategoryHealth, Sources: []string{"WebMD"}, Templates: []domain.ArticleTemplate{tpl("h1"), tpl("h2"), tpl("h3")}},
		{Category: domain.CategoryFinance, Sources: []string{"WSJ", "CNBC", "Forbes"}, Templates: []domain.ArticleTemplate{tpl("f1"), tpl("f2"), tpl("f3"), tpl("f4"), tpl("f5")}},
	}}
}

func TestGenerateDeterministicScenario(t *testing.T) {
	rnd := &scriptedRandom{values: []float64{0, 0, 0.5, 0.5}}
	articles, err := Generate(twoCategoryCatalog(), rnd, fixedNow)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("ожидали 2 статьи, получили %d", len(articles))
	}
	want := []struct {
		id, source, title string
		category          domain.Category
	}{
		{"1", "X", "A", domain.CategoryTechnology},
		{"2", "Y", "B", domain.CategoryHealth},
	}
	today := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	for i, w := range want {
		got := articles[i]
		if got.ID != w.id || got.Source != w.source || got.Title != w.title || got.Category != w.category {
			t.Fatalf("статья %d: получили %+v", i, got)
		}
		if got.IsRead || got.IsSaved {
			t.Fatalf("статья %d: при 0.5 флаги должны быть false", i)
		}
		if !got.Date.Equal(today) {
			t.Fatalf("статья %d: ожидали дату %s, получили %s", i, today, got.Date)
		}
	}
}

func TestGenerateFlagThresholds(t *testing.T) {
	cases := []struct {
		name        string
		draw        float64
		read, saved bool
	}{
		{name: "ниже обоих порогов", draw: 0.8, read: false, saved: false},
		{name: "только прочитана", draw: 0.85, read: true, saved: false},
		{name: "прочитана и сохранена", draw: 0.95, read: true, saved: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rnd := &scriptedRandom{values: []float64{0, 0, tc.draw, tc.draw}}
			articles, err := Generate(twoCategoryCatalog(), rnd, fixedNow)
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			for _, a := range articles {
				if a.IsRead != tc.read || a.IsSaved != tc.saved {
					t.Fatalf("статья %s: read=%v saved=%v", a.ID, a.IsRead, a.IsSaved)
				}
			}
		})
	}
}

func TestGenerateProperties(t *testing.T) {
	catalog := widerCatalog()
	total := catalog.TemplateCount()
	oldest := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	for seed := uint64(1); seed <= 25; seed++ {
		rnd := rand.New(rand.NewPCG(seed, seed*7))
		articles, err := Generate(catalog, rnd, fixedNow)
		if err != nil {
			t.Fatalf("seed %d: не ожидали ошибку: %v", seed, err)
		}
		if len(articles) != total {
			t.Fatalf("seed %d: ожидали %d статей, получили %d", seed, total, len(articles))
		}
		seen := make(map[string]struct{}, total)
		for i, a := range articles {
			n, err := strconv.Atoi(a.ID)
			if err != nil || n < 1 || n > total {
				t.Fatalf("seed %d: id вне диапазона: %q", seed, a.ID)
			}
			if _, dup := seen[a.ID]; dup {
				t.Fatalf("seed %d: дубликат id %s", seed, a.ID)
			}
			seen[a.ID] = struct{}{}
			if a.Date.Before(oldest) || a.Date.After(newest) {
				t.Fatalf("seed %d: дата вне окна: %s", seed, a.Date)
			}
			if !catalog.Has(a.Category) {
				t.Fatalf("seed %d: неизвестная категория %s", seed, a.Category)
			}
			if i > 0 && a.Date.After(articles[i-1].Date) {
				t.Fatalf("seed %d: лента не отсортирована по дате", seed)
			}
		}
	}
}

func TestGenerateSameSeedSameCorpus(t *testing.T) {
	first, err := Generate(widerCatalog(), rand.New(rand.NewPCG(42, 42)), fixedNow)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	second, err := Generate(widerCatalog(), rand.New(rand.NewPCG(42, 42)), fixedNow)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("статья %d отличается: %+v и %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateClampsOutOfRangeDraws(t *testing.T) {
	catalog := widerCatalog()
	rnd := &scriptedRandom{values: []float64{1}}
	articles, err := Generate(catalog, rnd, fixedNow)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	oldest := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	for _, a := range articles {
		if !a.Date.Equal(oldest) {
			t.Fatalf("ожидали самую раннюю дату, получили %s", a.Date)
		}
		if a.Category == domain.CategoryFinance && a.Source != "Forbes" {
			t.Fatalf("ожидали последний источник, получили %s", a.Source)
		}
	}
}

func TestGenerateRejectsEmptyConfiguration(t *testing.T) {
	cases := map[string]domain.Catalog{
		"нет категорий": {},
		"нет источников": {Entries: []domain.CatalogEntry{
			{Category: domain.CategoryHealth, Templates: []domain.ArticleTemplate{{Title: "x", Sentiment: domain.SentimentNeutral}}},
		}},
		"нет шаблонов": {Entries: []domain.CatalogEntry{
			{Category: domain.CategoryHealth, Sources: []string{"WebMD"}},
		}},
		"одна плохая категория ломает всё": {Entries: []domain.CatalogEntry{
			twoCategoryCatalog().Entries[0],
			{Category: domain.CategoryFinance, Sources: []string{"WSJ"}},
		}},
	}
	for name, catalog := range cases {
		articles, err := Generate(catalog, &scriptedRandom{values: []float64{0}}, fixedNow)
		if !errors.Is(err, domain.ErrEmptyConfiguration) {
			t.Fatalf("%s: ожидали ErrEmptyConfiguration, получили %v", name, err)
		}
		if articles != nil {
			t.Fatalf("%s: не ожидали частичную ленту", name)
		}
	}
}

func TestGenerateRejectsInvalidCatalog(t *testing.T) {
	dup := twoCategoryCatalog()
	dup.Entries[1].Category = domain.CategoryTechnology
	badSentiment := twoCategoryCatalog()
	badSentiment.Entries[0].Templates[0].Sentiment = "angry"

	for name, catalog := range map[string]domain.Catalog{"duplicate": dup, "sentiment": badSentiment} {
		if _, err := Generate(catalog, &scriptedRandom{values: []float64{0}}, fixedNow); !errors.Is(err, domain.ErrInvalidCatalog) {
			t.Fatalf("%s: ожидали ErrInvalidCatalog, получили %v", name, err)
		}
	}
}

func TestGeneratorUsesInjectedClock(t *testing.T) {
	g := NewGenerator(twoCategoryCatalog(), &scriptedRandom{values: []float64{0.99, 0.99, 0, 0}}, func() time.Time { return fixedNow })
	articles, err := g.Generate()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	want := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	if !articles[0].Date.Equal(want) {
		t.Fatalf("ожидали %s, получили %s", want, articles[0].Date)
	}
}
