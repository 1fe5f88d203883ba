package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/usecase/feed"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default возвращает встроенный каталог статей.
func Default() (domain.Catalog, error) {
	return Decode(bytes.NewReader(defaultCatalog))
}

// Load читает каталог из файла; пустой путь означает встроенный каталог.
func Load(path string) (domain.Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("открытие каталога: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode разбирает YAML-каталог и проверяет его.
func Decode(r io.Reader) (domain.Catalog, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var c domain.Catalog
	if err := decoder.Decode(&c); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if err := feed.ValidateCatalog(c); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}
