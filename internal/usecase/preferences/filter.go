package preferences

import "news-dashboard/internal/domain"

// EnabledCategories возвращает множество включённых категорий.
func EnabledCategories(prefs []domain.Preference) map[domain.Category]struct{} {
	enabled := make(map[domain.Category]struct{}, len(prefs))
	for _, p := range prefs {
		if p.IsEnabled {
			enabled[p.Category] = struct{}{}
		}
	}
	return enabled
}

// ActiveCategories возвращает включённые категории в порядке набора, без повторов.
func ActiveCategories(prefs []domain.Preference) []domain.Category {
	out := make([]domain.Category, 0, len(prefs))
	seen := make(map[domain.Category]struct{}, len(prefs))
	for _, p := range prefs {
		if !p.IsEnabled {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Filter возвращает статьи включённых категорий в порядке ленты.
// Если ни одна категория не включена, возвращается вся лента.
// Входные срезы не изменяются.
func Filter(prefs []domain.Preference, corpus []domain.Article) []domain.Article {
	enabled := EnabledCategories(prefs)
	if len(enabled) == 0 {
		out := make([]domain.Article, len(corpus))
		copy(out, corpus)
		return out
	}
	out := make([]domain.Article, 0, len(corpus))
	for _, a := range corpus {
		if _, ok := enabled[a.Category]; ok {
			out = append(out, a)
		}
	}
	return out
}
