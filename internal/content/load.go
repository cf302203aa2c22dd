package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/letsssgooo/shepherdBot/internal/quiz"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default возвращает встроенный каталог.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, "default.yaml")
}

// Load читает каталог из файла. Для пустого пути возвращается встроенный каталог.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	return Parse(data, path)
}

// Parse разбирает каталог в формате JSON или YAML (по расширению name) и проверяет его.
func Parse(data []byte, name string) (*Catalog, error) {
	var (
		catalog Catalog
		err     error
	)

	if strings.ToLower(filepath.Ext(name)) == ".json" {
		err = parseJSON(data, &catalog)
	} else {
		err = parseYAML(data, &catalog)
	}
	if err != nil {
		return nil, err
	}

	if err = Validate(&catalog); err != nil {
		return nil, fmt.Errorf("invalid content %s: %w", name, err)
	}

	return &catalog, nil
}

func parseJSON(data []byte, catalog *Catalog) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(catalog); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse json: multiple documents are not supported")
		}
		return fmt.Errorf("parse json: %w", err)
	}

	return nil
}

func parseYAML(data []byte, catalog *Catalog) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(catalog); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return fmt.Errorf("parse yaml: %w", err)
	}

	return nil
}

// Validate проверяет каталог.
func Validate(catalog *Catalog) error {
	if err := quiz.Validate(&catalog.Quiz); err != nil {
		return fmt.Errorf("quiz: %w", err)
	}

	podcasts := make(map[string]struct{}, len(catalog.Podcasts))
	for i, e := range catalog.Podcasts {
		if e.ID == "" {
			return fmt.Errorf("missing field id of %d podcast", i)
		}

		if strings.ContainsAny(e.ID, ": /") {
			return fmt.Errorf("id %q of %d podcast must not contain ':', ' ' or '/'", e.ID, i)
		}

		if e.Summary == "" && e.Transcript == "" {
			return fmt.Errorf("podcast %s has nothing to narrate", e.ID)
		}

		if _, ok := podcasts[e.ID]; ok {
			return fmt.Errorf("duplicate podcast id %s", e.ID)
		}
		podcasts[e.ID] = struct{}{}
	}

	lessons := make(map[string]struct{}, len(catalog.Lessons))
	for i, l := range catalog.Lessons {
		if l.ID == "" {
			return fmt.Errorf("missing field id of %d lesson", i)
		}

		if l.Title == "" {
			return fmt.Errorf("missing field title of lesson %s", l.ID)
		}

		if _, ok := lessons[l.ID]; ok {
			return fmt.Errorf("duplicate lesson id %s", l.ID)
		}
		lessons[l.ID] = struct{}{}
	}

	return nil
}
