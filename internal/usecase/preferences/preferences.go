package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"news-dashboard/internal/domain"
)

// Defaults возвращает набор по умолчанию для встроенного каталога.
func Defaults() []domain.Preference {
	return DefaultsFor([]domain.Category{domain.CategoryTechnology, domain.CategoryHealth, domain.CategoryFinance})
}

// DefaultsFor строит набор для пользователя без сохранённых предпочтений:
// по одному предпочтению на категорию каталога, id с 1, категории через одну включены.
// Пустой known даёт Defaults.
func DefaultsFor(known []domain.Category) []domain.Preference {
	if len(known) == 0 {
		return Defaults()
	}
	out := make([]domain.Preference, 0, len(known))
	seen := make(map[domain.Category]struct{}, len(known))
	for _, c := range known {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, domain.Preference{
			ID:        strconv.Itoa(len(out) + 1),
			Category:  c,
			IsEnabled: len(out)%2 == 0,
		})
	}
	return out
}

// Toggle возвращает копию набора с переключённым IsEnabled у предпочтения id.
// Неизвестный id даёт равную копию.
func Toggle(prefs []domain.Preference, id string) []domain.Preference {
	out := clone(prefs)
	for i := range out {
		if out[i].ID == id {
			out[i].IsEnabled = !out[i].IsEnabled
		}
	}
	return out
}

// Upsert целиком заменяет набор current на updated.
// Категория служит уникальным ключом: дубликаты отклоняются, пустые id получают UUID.
// Если known не пуст, категории вне него отклоняются.
// При ошибке возвращается current без изменений.
func Upsert(current, updated []domain.Preference, known []domain.Category) ([]domain.Preference, error) {
	normalized, err := Normalize(updated, known)
	if err != nil {
		return current, err
	}
	return normalized, nil
}

// Normalize проверяет набор и дополняет пустые идентификаторы.
func Normalize(prefs []domain.Preference, known []domain.Category) ([]domain.Preference, error) {
	allowed := make(map[domain.Category]struct{}, len(known))
	for _, c := range known {
		allowed[c] = struct{}{}
	}
	seenCategory := make(map[domain.Category]struct{}, len(prefs))
	seenID := make(map[string]struct{}, len(prefs))
	out := make([]domain.Preference, 0, len(prefs))
	for _, p := range prefs {
		p.Category = domain.Category(strings.TrimSpace(string(p.Category)))
		p.ID = strings.TrimSpace(p.ID)
		if p.Category == "" {
			return nil, fmt.Errorf("%w: empty category", domain.ErrUnknownCategory)
		}
		if len(allowed) > 0 {
			if _, ok := allowed[p.Category]; !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, p.Category)
			}
		}
		if _, ok := seenCategory[p.Category]; ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateCategory, p.Category)
		}
		seenCategory[p.Category] = struct{}{}
		if _, ok := seenID[p.ID]; p.ID == "" || ok {
			p.ID = uuid.NewString()
		}
		seenID[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// Equal сравнивает наборы по значению с учётом порядка.
func Equal(a, b []domain.Preference) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func clone(prefs []domain.Preference) []domain.Preference {
	out := make([]domain.Preference, len(prefs))
	copy(out, prefs)
	return out
}
