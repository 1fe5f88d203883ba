package domain

import "errors"

var (
	// ErrEmptyConfiguration: у категории каталога нет источников или шаблонов.
	ErrEmptyConfiguration = errors.New("empty feed configuration")
	// ErrInvalidCatalog: каталог содержит некорректные данные.
	ErrInvalidCatalog = errors.New("invalid feed catalog")
	// ErrDuplicateCategory: в наборе предпочтений категория встречается дважды.
	ErrDuplicateCategory = errors.New("duplicate preference category")
	// ErrUnknownCategory: категории нет в каталоге.
	ErrUnknownCategory = errors.New("unknown preference category")
	// ErrPersistence: хранилище не приняло набор предпочтений.
	ErrPersistence = errors.New("preferences persistence failure")
	// ErrArticleNotFound: статьи с таким id нет в ленте.
	ErrArticleNotFound = errors.New("article not found")
	// ErrSessionNotFound: дашборд пользователя ещё не открыт.
	ErrSessionNotFound = errors.New("dashboard session not found")
	// ErrCacheMiss: ключа нет в кэше.
	ErrCacheMiss = errors.New("cache miss")
)
