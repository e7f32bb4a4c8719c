// Package narrative loads the translations of the engine's narrative messages.
//
// English is the bundle default and lives in the codex tables as default
// messages; locale files only carry translations. A message missing from a
// locale renders in English.
package narrative

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// Catalog is a loaded translation bundle and the languages it supports.
type Catalog struct {
	Bundle    *i18n.Bundle
	Languages []string
}

// Load builds the translation bundle from the embedded locale files.
// Unreadable files are logged and skipped; English always remains available.
func Load() *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	cat := &Catalog{Bundle: bundle, Languages: []string{config.DefaultLanguage}}

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return cat
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		if langCode != config.DefaultLanguage {
			cat.Languages = append(cat.Languages, langCode)
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}
	return cat
}

// Localizer returns a localizer for lang, falling back to English for
// empty or unsupported languages.
func (c *Catalog) Localizer(lang string) *i18n.Localizer {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !c.Supports(lang) {
		lang = config.DefaultLanguage
	}
	return i18n.NewLocalizer(c.Bundle, lang)
}

// Supports reports whether lang has a loaded translation (or is English).
func (c *Catalog) Supports(lang string) bool {
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
