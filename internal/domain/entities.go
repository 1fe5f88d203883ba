package domain

import (
	"strings"
	"time"
)

// DateLayout: формат календарной даты статьи в API и каталоге.
const DateLayout = "2006-01-02"

// Category разбивает статьи и предпочтения на группы.
type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryHealth     Category = "Health"
	CategoryFinance    Category = "Finance"
)

// Sentiment описывает тональность статьи.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid сообщает, входит ли тональность в допустимый набор.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Article: статья ленты.
type Article struct {
	ID        string
	Title     string
	Summary   string
	Source    string
	Category  Category
	Sentiment Sentiment
	Date      time.Time
	IsRead    bool
	IsSaved   bool
}

// Preference хранит включённость одной категории для пользователя.
type Preference struct {
	ID        string   `json:"id"`
	Category  Category `json:"category"`
	IsEnabled bool     `json:"isEnabled"`
}

// ArticleTemplate: заготовка статьи в каталоге.
type ArticleTemplate struct {
	Title     string    `yaml:"title"`
	Summary   string    `yaml:"summary"`
	Sentiment Sentiment `yaml:"sentiment"`
}

// CatalogEntry описывает одну категорию каталога: источники и шаблоны статей.
type CatalogEntry struct {
	Category  Category          `yaml:"category"`
	Sources   []string          `yaml:"sources"`
	Templates []ArticleTemplate `yaml:"templates"`
}

// Catalog: упорядоченный набор категорий для генерации ленты.
type Catalog struct {
	Entries []CatalogEntry `yaml:"categories"`
}

// Categories возвращает категории каталога в исходном порядке.
func (c Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, e.Category)
	}
	return out
}

// Has сообщает, есть ли категория в каталоге.
func (c Catalog) Has(category Category) bool {
	for _, e := range c.Entries {
		if e.Category == category {
			return true
		}
	}
	return false
}

// TemplateCount возвращает общее число шаблонов во всех категориях.
func (c Catalog) TemplateCount() int {
	total := 0
	for _, e := range c.Entries {
		total += len(e.Templates)
	}
	return total
}

// Session: проверенная сессия пользователя на границе приложения.
type Session struct {
	UserID    string
	ExpiresAt time.Time
	Token     string
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Valid проверяет, что в сессии есть пользователь.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.UserID) != ""
}
