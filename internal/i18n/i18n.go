// Package i18n loads the bot's message catalog and renders localized texts.
package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

const (
	localesRoot = "locales"
	// DefaultLang is the language every catalog lookup falls back to.
	DefaultLang = "ru"
)

var funcs = template.FuncMap{
	"esc": html.EscapeString,
}

// Translator resolves localized strings using dot-separated keys.
type Translator interface {
	T(key string) string
	Render(key string, data any) (string, error)
	Lang() string
}

// Manager stores all available translations.
type Manager struct {
	translations map[string]map[string]string
	templates    map[string]map[string]*template.Template
	defaultLang  string
}

// Load loads the catalog bundled with the binary.
func Load(defaultLang string) (*Manager, error) {
	return LoadFS(embeddedLocales, localesRoot, defaultLang)
}

// LoadFS loads translations from YAML files in root inside files.
func LoadFS(files fs.FS, root, defaultLang string) (*Manager, error) {
	catalog, err := parseDir(files, root)
	if err != nil {
		return nil, err
	}

	if defaultLang == "" {
		defaultLang = DefaultLang
	}

	if _, ok := catalog[defaultLang]; !ok {
		return nil, fmt.Errorf("i18n: default language %q is missing", defaultLang)
	}

	templates, err := compile(catalog)
	if err != nil {
		return nil, err
	}

	return &Manager{translations: catalog, templates: templates, defaultLang: defaultLang}, nil
}

// Translator returns a translator for the requested language.
func (m *Manager) Translator(lang string) Translator {
	if m == nil {
		return translator{}
	}

	norm := strings.ToLower(strings.TrimSpace(lang))
	if norm == "" || m.translations[norm] == nil {
		norm = m.defaultLang
	}

	return translator{
		lang:         norm,
		fallback:     m.defaultLang,
		translations: m.translations,
		templates:    m.templates,
	}
}

type translator struct {
	lang         string
	fallback     string
	translations map[string]map[string]string
	templates    map[string]map[string]*template.Template
}

func (t translator) Lang() string {
	return t.lang
}

// T returns the raw catalog entry, or the key itself when it is unknown.
func (t translator) T(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	if value := t.lookup(t.lang, key); value != "" {
		return value
	}

	if value := t.lookup(t.fallback, key); value != "" {
		return value
	}

	return key
}

// Render executes the catalog entry as a text/template with data.
// String values from users must pass through the "esc" function inside the template.
func (t translator) Render(key string, data any) (string, error) {
	key = strings.TrimSpace(key)

	tmpl := t.template(t.lang, key)
	if tmpl == nil {
		tmpl = t.template(t.fallback, key)
	}
	if tmpl == nil {
		return "", fmt.Errorf("i18n: unknown key %q", key)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("i18n: render %q: %w", key, err)
	}

	return buf.String(), nil
}

func (t translator) lookup(lang, key string) string {
	if lang == "" || t.translations == nil {
		return ""
	}

	if entries := t.translations[lang]; entries != nil {
		if value, ok := entries[key]; ok {
			return value
		}
	}

	return ""
}

func (t translator) template(lang, key string) *template.Template {
	if lang == "" || t.templates == nil {
		return nil
	}
	return t.templates[lang][key]
}

func compile(catalog map[string]map[string]string) (map[string]map[string]*template.Template, error) {
	compiled := make(map[string]map[string]*template.Template, len(catalog))

	for lang, entries := range catalog {
		compiled[lang] = make(map[string]*template.Template, len(entries))
		for key, value := range entries {
			tmpl, err := template.New(lang + "." + key).Funcs(funcs).Option("missingkey=error").Parse(value)
			if err != nil {
				return nil, fmt.Errorf("i18n: parse %s.%s: %w", lang, key, err)
			}
			compiled[lang][key] = tmpl
		}
	}

	return compiled, nil
}

func parseDir(files fs.FS, root string) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(files, root)
	if err != nil {
		return nil, fmt.Errorf("i18n: read dir %s: %w", root, err)
	}

	catalog := make(map[string]map[string]string)
	var processed bool

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry) {
			continue
		}

		processed = true

		fileCatalog, err := parseFile(files, path.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}

		for lang, translations := range fileCatalog {
			if _, ok := catalog[lang]; !ok {
				catalog[lang] = make(map[string]string)
			}
			for key, value := range translations {
				catalog[lang][key] = value
			}
		}
	}

	if !processed {
		return nil, fmt.Errorf("i18n: no yaml files found in %s", root)
	}

	return catalog, nil
}

func isYAML(entry fs.DirEntry) bool {
	name := strings.ToLower(entry.Name())
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func parseFile(files fs.FS, name string) (map[string]map[string]string, error) {
	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("i18n: read file %s: %w", name, err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return map[string]map[string]string{}, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("i18n: parse file %s: %w", name, err)
	}

	catalog := make(map[string]map[string]string)
	for lang, value := range raw {
		langKey := strings.ToLower(strings.TrimSpace(lang))
		if langKey == "" {
			continue
		}

		normalized, ok := value.(map[string]any)
		if !ok || len(normalized) == 0 {
			continue
		}

		flattened := make(map[string]string)
		flatten("", normalized, flattened)
		if len(flattened) == 0 {
			continue
		}

		catalog[langKey] = flattened
	}

	return catalog, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for key, value := range in {
		if key == "" {
			continue
		}

		nextKey := key
		if prefix != "" {
			nextKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[nextKey] = v
		case map[string]any:
			flatten(nextKey, v, out)
		}
	}
}
