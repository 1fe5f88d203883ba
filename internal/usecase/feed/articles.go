package feed

import (
	"fmt"

	"news-dashboard/internal/domain"
)

// ToggleRead возвращает копию ленты с переключённым IsRead у статьи id.
// Неизвестный id даёт неизменённую копию.
func ToggleRead(corpus []domain.Article, id string) []domain.Article {
	return toggle(corpus, id, func(a *domain.Article) { a.IsRead = !a.IsRead })
}

// ToggleSave возвращает копию ленты с переключённым IsSaved у статьи id.
func ToggleSave(corpus []domain.Article, id string) []domain.Article {
	return toggle(corpus, id, func(a *domain.Article) { a.IsSaved = !a.IsSaved })
}

func toggle(corpus []domain.Article, id string, flip func(*domain.Article)) []domain.Article {
	out := make([]domain.Article, len(corpus))
	copy(out, corpus)
	for i := range out {
		if out[i].ID == id {
			flip(&out[i])
		}
	}
	return out
}

// Find ищет статью по id.
func Find(corpus []domain.Article, id string) (domain.Article, bool) {
	for _, a := range corpus {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Article{}, false
}

// Saved возвращает сохранённые статьи в порядке ленты.
func Saved(corpus []domain.Article) []domain.Article {
	out := make([]domain.Article, 0)
	for _, a := range corpus {
		if a.IsSaved {
			out = append(out, a)
		}
	}
	return out
}

// CountUnread считает непрочитанные статьи.
func CountUnread(corpus []domain.Article) int {
	n := 0
	for _, a := range corpus {
		if !a.IsRead {
			n++
		}
	}
	return n
}

// ShareText формирует строку для отправки статьи.
func ShareText(a domain.Article) string {
	return fmt.Sprintf("%s - %s", a.Title, a.Source)
}
