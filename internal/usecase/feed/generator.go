package feed

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"news-dashboard/internal/domain"
)

const (
	// WindowDays: глубина окна дат, включая сегодняшний день.
	WindowDays = 7

	readThreshold  = 0.8
	savedThreshold = 0.9
)

// Generator строит ленту статей из каталога.
type Generator struct {
	catalog domain.Catalog
	rnd     domain.RandomSource
	now     func() time.Time
}

// NewGenerator создаёт генератор. Пустой now означает time.Now.
func NewGenerator(catalog domain.Catalog, rnd domain.RandomSource, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{catalog: catalog, rnd: rnd, now: now}
}

// Catalog возвращает каталог генератора.
func (g *Generator) Catalog() domain.Catalog {
	return g.catalog
}

// Generate возвращает ленту, отсортированную по дате от новых к старым.
func (g *Generator) Generate() ([]domain.Article, error) {
	return Generate(g.catalog, g.rnd, g.now())
}

// Generate строит по одной статье на каждый шаблон каталога.
// Идентификаторы выдаются подряд с 1 в порядке категория-шаблон;
// источник, дата и флаги берутся из rnd в этом же порядке.
func Generate(catalog domain.Catalog, rnd domain.RandomSource, now time.Time) ([]domain.Article, error) {
	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	articles := make([]domain.Article, 0, catalog.TemplateCount())
	id := 1
	for _, entry := range catalog.Entries {
		for _, tpl := range entry.Templates {
			source := entry.Sources[pick(rnd, len(entry.Sources))]
			daysAgo := pick(rnd, WindowDays)
			articles = append(articles, domain.Article{
				ID:        strconv.Itoa(id),
				Title:     tpl.Title,
				Summary:   tpl.Summary,
				Source:    source,
				Category:  entry.Category,
				Sentiment: tpl.Sentiment,
				Date:      today.AddDate(0, 0, -daysAgo),
				IsRead:    rnd.Float64() > readThreshold,
				IsSaved:   rnd.Float64() > savedThreshold,
			})
			id++
		}
	}

	sort.SliceStable(articles, func(i, j int) bool { return articles[i].Date.After(articles[j].Date) })
	return articles, nil
}

// ValidateCatalog проверяет, что каждой категории есть из чего генерировать статьи.
func ValidateCatalog(catalog domain.Catalog) error {
	if len(catalog.Entries) == 0 {
		return fmt.Errorf("%w: no categories", domain.ErrEmptyConfiguration)
	}
	seen := make(map[domain.Category]struct{}, len(catalog.Entries))
	for _, entry := range catalog.Entries {
		if strings.TrimSpace(string(entry.Category)) == "" {
			return fmt.Errorf("%w: category without name", domain.ErrInvalidCatalog)
		}
		if _, ok := seen[entry.Category]; ok {
			return fmt.Errorf("%w: category %s listed twice", domain.ErrInvalidCatalog, entry.Category)
		}
		seen[entry.Category] = struct{}{}
		if len(entry.Sources) == 0 {
			return fmt.Errorf("%w: category %s has no sources", domain.ErrEmptyConfiguration, entry.Category)
		}
		if len(entry.Templates) == 0 {
			return fmt.Errorf("%w: category %s has no templates", domain.ErrEmptyConfiguration, entry.Category)
		}
		for i, tpl := range entry.Templates {
			if !tpl.Sentiment.Valid() {
				return fmt.Errorf("%w: category %s template %d: sentiment %q", domain.ErrInvalidCatalog, entry.Category, i, tpl.Sentiment)
			}
		}
	}
	return nil
}

// pick возвращает индекс из [0, n); значения rnd вне [0, 1) прижимаются к краям.
func pick(rnd domain.RandomSource, n int) int {
	idx := int(rnd.Float64() * float64(n))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
