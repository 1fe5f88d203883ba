package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
	"news-dashboard/internal/usecase/feed"
	"news-dashboard/internal/usecase/preferences"
)

var (
	// ErrShareUnavailable возвращается, если доставка в Telegram не настроена.
	ErrShareUnavailable = errors.New("share delivery is not configured")
	// ErrNothingSaved возвращается, если у пользователя нет сохранённых статей.
	ErrNothingSaved = errors.New("no saved articles")
	// ErrShareFailed возвращается, если Telegram не принял сообщение.
	ErrShareFailed = errors.New("share delivery failed")
)

// LoadPreferencesWarning показывается, если набор предпочтений не удалось загрузить.
const LoadPreferencesWarning = "Failed to load preferences"

// CorpusGenerator строит новую ленту.
type CorpusGenerator interface {
	Generate() ([]domain.Article, error)
}

// PreferenceService загружает и сохраняет наборы предпочтений.
type PreferenceService interface {
	Load(ctx context.Context, userID string) ([]domain.Preference, error)
	Save(ctx context.Context, userID string, current, updated []domain.Preference) ([]domain.Preference, error)
}

// View: снимок дашборда пользователя.
type View struct {
	Articles         []domain.Article
	Preferences      []domain.Preference
	ActiveCategories []domain.Category
	Total            int
	Unread           int
	Saved            int
	Warning          string
}

type state struct {
	// writeMu упорядочивает изменения предпочтений, включая запрос к хранилищу.
	writeMu sync.Mutex
	mu      sync.RWMutex
	corpus  []domain.Article
	prefs   []domain.Preference
	warning string
}

// Service держит ленту и предпочтения каждого пользователя и применяет к ним изменения.
// Каждое чтение видит согласованную пару (лента, предпочтения).
type Service struct {
	generator CorpusGenerator
	prefs     PreferenceService
	events    domain.EventPublisher
	sender    domain.ShareSender
	log       zerolog.Logger
	now       func() time.Time

	genMu  sync.Mutex
	mu     sync.Mutex
	states map[string]*state
}

// Option настраивает Service.
type Option func(*Service)

// WithEvents подключает публикацию событий об изменении предпочтений.
func WithEvents(p domain.EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithShareSender подключает доставку статей в Telegram.
func WithShareSender(sender domain.ShareSender) Option {
	return func(s *Service) { s.sender = sender }
}

// WithClock подменяет часы для событий.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService создаёт сервис дашборда.
func NewService(generator CorpusGenerator, prefs PreferenceService, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		generator: generator,
		prefs:     prefs,
		log:       log,
		now:       time.Now,
		states:    make(map[string]*state),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open создаёт дашборд пользователя при первом обращении и возвращает его снимок.
func (s *Service) Open(ctx context.Context, session domain.Session) (View, error) {
	if !session.Valid() {
		return View{}, preferences.ErrNoUser
	}
	if st, ok := s.lookup(session.UserID); ok {
		return st.view(), nil
	}

	corpus, err := s.generate()
	if err != nil {
		return View{}, err
	}
	st := &state{corpus: corpus, prefs: []domain.Preference{}}
	prefs, err := s.prefs.Load(ctx, session.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("user", session.UserID).Msg("dashboard: не удалось загрузить предпочтения")
		st.warning = LoadPreferencesWarning
	} else {
		st.prefs = prefs
	}

	s.mu.Lock()
	if existing, ok := s.states[session.UserID]; ok {
		st = existing
	} else {
		s.states[session.UserID] = st
	}
	s.mu.Unlock()
	return st.view(), nil
}

// View возвращает текущий снимок дашборда.
func (s *Service) View(userID string) (View, error) {
	st, ok := s.lookup(userID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return st.view(), nil
}

// Preferences возвращает текущий набор предпочтений пользователя.
func (s *Service) Preferences(userID string) ([]domain.Preference, error) {
	st, ok := s.lookup(userID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	return clonePrefs(st.prefs), nil
}

// Refresh генерирует новую ленту для пользователя.
func (s *Service) Refresh(ctx context.Context, userID string) (View, error) {
	st, ok := s.lookup(userID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	corpus, err := s.generate()
	if err != nil {
		return View{}, err
	}
	st.mu.Lock()
	st.corpus = corpus
	st.mu.Unlock()
	return st.view(), nil
}

// ToggleRead переключает отметку о прочтении. Неизвестный id ничего не меняет.
func (s *Service) ToggleRead(userID, articleID string) (View, error) {
	return s.mutateCorpus(userID, "read", func(c []domain.Article) []domain.Article {
		return feed.ToggleRead(c, articleID)
	})
}

// ToggleSave переключает отметку о сохранении. Неизвестный id ничего не меняет.
func (s *Service) ToggleSave(userID, articleID string) (View, error) {
	return s.mutateCorpus(userID, "save", func(c []domain.Article) []domain.Article {
		return feed.ToggleSave(c, articleID)
	})
}

// TogglePreference переключает категорию и сохраняет набор.
func (s *Service) TogglePreference(ctx context.Context, userID, prefID string) (View, error) {
	metrics.IncToggle("preference")
	return s.updatePreferences(ctx, userID, domain.PreferencesCauseToggle, func(current []domain.Preference) []domain.Preference {
		return preferences.Toggle(current, prefID)
	})
}

// UpdatePreferences целиком заменяет набор предпочтений.
// Состояние меняется только после того, как хранилище приняло новый набор.
// Набор, равный текущему, не сохраняется и не порождает событие.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, updated []domain.Preference) (View, error) {
	return s.updatePreferences(ctx, userID, domain.PreferencesCauseBulk, func([]domain.Preference) []domain.Preference {
		return updated
	})
}

// Share возвращает текст для отправки статьи и, если chatID задан, отправляет его в Telegram.
func (s *Service) Share(ctx context.Context, userID, articleID string, chatID int64) (string, error) {
	st, ok := s.lookup(userID)
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	st.mu.RLock()
	article, found := feed.Find(st.corpus, articleID)
	st.mu.RUnlock()
	if !found {
		return "", domain.ErrArticleNotFound
	}
	text := feed.ShareText(article)
	if chatID == 0 {
		metrics.ObserveShare("article", nil)
		return text, nil
	}
	err := s.send(ctx, chatID, text)
	metrics.ObserveShare("article", err)
	return text, err
}

// ShareSaved отправляет сводку сохранённых статей в Telegram и возвращает их число.
func (s *Service) ShareSaved(ctx context.Context, userID string, chatID int64) (int, error) {
	st, ok := s.lookup(userID)
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	st.mu.RLock()
	saved := feed.Saved(st.corpus)
	st.mu.RUnlock()
	if len(saved) == 0 {
		return 0, ErrNothingSaved
	}
	err := s.send(ctx, chatID, feed.FormatSaved(saved))
	metrics.ObserveShare("saved", err)
	if err != nil {
		return 0, err
	}
	return len(saved), nil
}

// Close удаляет состояние пользователя.
func (s *Service) Close(userID string) {
	s.mu.Lock()
	delete(s.states, userID)
	s.mu.Unlock()
}

func (s *Service) lookup(userID string) (*state, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	return st, ok
}

func (s *Service) generate() ([]domain.Article, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	start := time.Now()
	corpus, err := s.generator.Generate()
	metrics.ObserveFeedGeneration(start, err)
	if err != nil {
		return nil, fmt.Errorf("генерация ленты: %w", err)
	}
	return corpus, nil
}

func (s *Service) mutateCorpus(userID, kind string, fn func([]domain.Article) []domain.Article) (View, error) {
	st, ok := s.lookup(userID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	metrics.IncToggle(kind)
	st.mu.Lock()
	st.corpus = fn(st.corpus)
	st.mu.Unlock()
	return st.view(), nil
}

func (s *Service) updatePreferences(ctx context.Context, userID string, cause domain.PreferencesChangeCause, next func([]domain.Preference) []domain.Preference) (View, error) {
	st, ok := s.lookup(userID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	st.writeMu.Lock()
	defer st.writeMu.Unlock()

	st.mu.RLock()
	current := clonePrefs(st.prefs)
	st.mu.RUnlock()

	updated := next(current)
	if preferences.Equal(current, updated) {
		return st.view(), nil
	}
	saved, err := s.prefs.Save(ctx, userID, current, updated)
	if err != nil {
		return st.view(), err
	}

	st.mu.Lock()
	st.prefs = saved
	st.warning = ""
	st.mu.Unlock()

	s.publish(ctx, userID, saved, cause)
	return st.view(), nil
}

func (s *Service) publish(ctx context.Context, userID string, prefs []domain.Preference, cause domain.PreferencesChangeCause) {
	if s.events == nil {
		return
	}
	event := domain.PreferencesChanged{
		ID:          uuid.NewString(),
		UserID:      userID,
		Preferences: prefs,
		Enabled:     preferences.ActiveCategories(prefs),
		Cause:       cause,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Error().Err(err).Str("user", userID).Msg("dashboard: не удалось опубликовать событие")
	}
}

func (s *Service) send(ctx context.Context, chatID int64, text string) error {
	if s.sender == nil {
		return ErrShareUnavailable
	}
	if err := s.sender.SendText(ctx, chatID, text); err != nil {
		return fmt.Errorf("%w: %w", ErrShareFailed, err)
	}
	return nil
}

func (st *state) view() View {
	st.mu.RLock()
	defer st.mu.RUnlock()
	visible := preferences.Filter(st.prefs, st.corpus)
	metrics.ObserveVisible(len(visible))
	return View{
		Articles:         visible,
		Preferences:      clonePrefs(st.prefs),
		ActiveCategories: preferences.ActiveCategories(st.prefs),
		Total:            len(st.corpus),
		Unread:           feed.CountUnread(st.corpus),
		Saved:            len(feed.Saved(st.corpus)),
		Warning:          st.warning,
	}
}

func clonePrefs(prefs []domain.Preference) []domain.Preference {
	out := make([]domain.Preference, len(prefs))
	copy(out, prefs)
	return out
}
