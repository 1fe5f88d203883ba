package api

import (
	"news-dashboard/internal/domain"
	"news-dashboard/internal/usecase/dashboard"
)

// ArticleDTO: статья в ответах API.
type ArticleDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
	Date      string `json:"date"`
	IsRead    bool   `json:"isRead"`
	IsSaved   bool   `json:"isSaved"`
}

// ViewDTO: снимок дашборда.
type ViewDTO struct {
	Articles         []ArticleDTO        `json:"articles"`
	Preferences      []domain.Preference `json:"preferences"`
	ActiveCategories []domain.Category   `json:"activeCategories"`
	Total            int                 `json:"total"`
	Unread           int                 `json:"unread"`
	Saved            int                 `json:"saved"`
	Warning          string              `json:"warning,omitempty"`
}

type shareRequest struct {
	ChatID int64 `json:"chat_id"`
}

type shareResponse struct {
	Text string `json:"text"`
	Sent bool   `json:"sent"`
}

type shareSavedResponse struct {
	Sent int `json:"sent"`
}

// NewArticleDTO переводит статью в формат API.
func NewArticleDTO(a domain.Article) ArticleDTO {
	return ArticleDTO{
		ID:        a.ID,
		Title:     a.Title,
		Summary:   a.Summary,
		Source:    a.Source,
		Category:  string(a.Category),
		Sentiment: string(a.Sentiment),
		Date:      a.Date.Format(domain.DateLayout),
		IsRead:    a.IsRead,
		IsSaved:   a.IsSaved,
	}
}

// NewArticleDTOs переводит ленту в формат API.
func NewArticleDTOs(articles []domain.Article) []ArticleDTO {
	out := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewArticleDTO(a))
	}
	return out
}

func newViewDTO(v dashboard.View) ViewDTO {
	prefs := v.Preferences
	if prefs == nil {
		prefs = []domain.Preference{}
	}
	active := v.ActiveCategories
	if active == nil {
		active = []domain.Category{}
	}
	return ViewDTO{
		Articles:         NewArticleDTOs(v.Articles),
		Preferences:      prefs,
		ActiveCategories: active,
		Total:            v.Total,
		Unread:           v.Unread,
		Saved:            v.Saved,
		Warning:          v.Warning,
	}
}
