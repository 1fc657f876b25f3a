package i18n

import (
	"embed"
	"slices"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"todoboard/internal/log"
	"todoboard/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// supported lists the bundled locales in the order the UI offers them.
var supported = []string{"en", "ja"}

var _ output.T = (*Translator)(nil)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	matcher         language.Matcher
	// raw message text per locale, used to export whole bundles
	raw map[language.Tag]map[string]string
}

// NewTranslator builds a Translator from the embedded active.*.toml files
// with defaultLocale as the final fallback. An unparsable defaultLocale means
// English.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	raw := make(map[language.Tag]map[string]string)
	for _, locale := range supported {
		file := "active." + locale + ".toml"
		mf, err := bundle.LoadMessageFileFS(localeFS, file)
		if err != nil {
			log.Error().Err(err).Str("file", file).Msg("i18n: failed to load bundle")
			continue
		}
		msgs := make(map[string]string, len(mf.Messages))
		for _, m := range mf.Messages {
			msgs[m.ID] = m.Other
		}
		raw[mf.Tag] = msgs
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		matcher:         language.NewMatcher(bundle.LanguageTags()),
		raw:             raw,
	}
}

// DefaultLanguage returns the fallback locale.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLanguage.String()
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Strs("locales", languages).Msg("i18n: localize failed")
		return key
	}
	return msg
}

// Match picks the best bundled locale for an Accept-Language style list.
func (t *Translator) Match(preferences ...string) string {
	var tags []language.Tag
	for _, p := range preferences {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return t.defaultLanguage.String()
	}
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.defaultLanguage.String()
	}
	base, _ := t.bundle.LanguageTags()[idx].Base()
	return base.String()
}

// Messages returns the raw (untemplated) text of every key for locale, with
// keys missing from locale filled from the default bundle.
func (t *Translator) Messages(locale string) map[string]string {
	out := make(map[string]string)
	for k, v := range t.raw[t.defaultLanguage] {
		out[k] = v
	}
	if tag, err := language.Parse(locale); err == nil {
		for k, v := range t.raw[tag] {
			out[k] = v
		}
	}
	return out
}

// Languages returns the bundled locale codes.
func (t *Translator) Languages() []string {
	return slices.Clone(supported)
}

// Keys returns every message ID known to the default bundle, sorted.
func (t *Translator) Keys() []string {
	keys := make([]string, 0, len(t.raw[t.defaultLanguage]))
	for k := range t.raw[t.defaultLanguage] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
