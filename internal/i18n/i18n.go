package i18n

import "strings"

// Lang identifies a display language supported by the client.
type Lang string

const (
	LangEnglish Lang = "en"
	LangSpanish Lang = "es"
)

// Catalog resolves message keys to human-readable text for one language.
// Catalogs are immutable once built; anything that bakes localized text
// into longer-lived objects (form validators, client error tables) must
// be rebuilt from a fresh catalog when the active language changes.
type Catalog struct {
	lang     Lang
	messages map[string]string
}

// New returns the catalog for the given language, falling back to English
// for unknown languages and for keys missing from a translation.
func New(lang Lang) *Catalog {
	normalized := Lang(strings.ToLower(strings.TrimSpace(string(lang))))
	messages, ok := catalogs[normalized]
	if !ok {
		normalized = LangEnglish
		messages = catalogs[LangEnglish]
	}
	return &Catalog{lang: normalized, messages: messages}
}

func (c *Catalog) Lang() Lang { return c.lang }

// T returns the localized text for key. Missing keys fall back to the
// English catalog, then to the key itself so a gap is visible rather
// than silent.
func (c *Catalog) T(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	if msg, ok := catalogs[LangEnglish][key]; ok {
		return msg
	}
	return key
}

// Supported reports whether lang has a catalog of its own.
func Supported(lang Lang) bool {
	_, ok := catalogs[Lang(strings.ToLower(strings.TrimSpace(string(lang))))]
	return ok
}
