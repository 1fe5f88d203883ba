package feed

import (
	"html"
	"strings"

	"news-dashboard/internal/domain"
)

var sentimentMarks = map[domain.Sentiment]string{
	domain.SentimentPositive: "📈",
	domain.SentimentNegative: "📉",
	domain.SentimentNeutral:  "➖",
}

// FormatSaved формирует HTML-сводку сохранённых статей, сгруппированную по категориям.
// Группы идут в порядке первого появления категории в ленте.
func FormatSaved(articles []domain.Article) string {
	saved := Saved(articles)
	if len(saved) == 0 {
		return ""
	}

	order := make([]domain.Category, 0)
	groups := make(map[domain.Category][]string)
	for _, a := range saved {
		if _, ok := groups[a.Category]; !ok {
			order = append(order, a.Category)
		}
		line := "• " + sentimentMarks[a.Sentiment] + " <b>" + escapeHTML(a.Title) + "</b>"
		if summary := strings.TrimSpace(a.Summary); summary != "" {
			line += " — " + escapeHTML(summary)
		}
		line += "\n  <i>" + escapeHTML(a.Source) + ", " + a.Date.Format(domain.DateLayout) + "</i>"
		groups[a.Category] = append(groups[a.Category], line)
	}

	var builder strings.Builder
	builder.WriteString("🔖 <b>Сохранённые статьи</b>")
	for _, category := range order {
		builder.WriteString("\n\n<b>" + escapeHTML(string(category)) + "</b>")
		for _, line := range groups[category] {
			builder.WriteString("\n" + line)
		}
	}
	return strings.TrimSpace(builder.String())
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}
