package i18n

import (
	"strings"
	"testing"
)

func TestTranslator_WelcomePerLocale(t *testing.T) {
	tr := NewTranslator("en")

	if got := tr.T("en", "welcome", nil); got != "Welcome to todoboard" {
		t.Errorf("expected English welcome, got %q", got)
	}
	if got := tr.T("ja", "welcome", nil); got != "todoboardへようこそ" {
		t.Errorf("expected Japanese welcome, got %q", got)
	}
}

func TestTranslator_DottedKeys(t *testing.T) {
	tr := NewTranslator("en")
	for _, key := range []string{"description.part1", "description.part2"} {
		en := tr.T("en", key, nil)
		ja := tr.T("ja", key, nil)
		if en == key || ja == key {
			t.Errorf("%s: expected translations, got en=%q ja=%q", key, en, ja)
		}
		if en == ja {
			t.Errorf("%s: expected different strings per locale, got %q", key, en)
		}
	}
}

func TestTranslator_FallbacksToDefaultThenKey(t *testing.T) {
	tr := NewTranslator("en")

	if got := tr.T("fr", "welcome", nil); got != "Welcome to todoboard" {
		t.Errorf("expected default-language fallback, got %q", got)
	}
	if got := tr.T("ja", "no.such.key", nil); got != "no.such.key" {
		t.Errorf("expected key fallback, got %q", got)
	}
	if got := tr.T("en", "", nil); got != "" {
		t.Errorf("expected empty string for empty key, got %q", got)
	}
}

func TestTranslator_TemplateData(t *testing.T) {
	tr := NewTranslator("en")
	if got := tr.T("en", "counter.label", map[string]any{"Value": 3}); got != "Count: 3" {
		t.Errorf("expected 'Count: 3', got %q", got)
	}
	if got := tr.T("ja", "counter.label", map[string]any{"Value": -1}); got != "カウント: -1" {
		t.Errorf("expected 'カウント: -1', got %q", got)
	}
}

func TestTranslator_Messages(t *testing.T) {
	tr := NewTranslator("en")

	ja := tr.Messages("ja")
	if ja["welcome"] != "todoboardへようこそ" {
		t.Errorf("expected Japanese welcome in bundle, got %q", ja["welcome"])
	}
	if !strings.Contains(ja["counter.label"], "{{.Value}}") {
		t.Errorf("expected raw template text, got %q", ja["counter.label"])
	}

	unknown := tr.Messages("xx-invalid-")
	if unknown["welcome"] != "Welcome to todoboard" {
		t.Errorf("expected default bundle for unknown locale, got %q", unknown["welcome"])
	}
	if len(tr.Keys()) != len(unknown) {
		t.Errorf("expected %d keys, got %d", len(tr.Keys()), len(unknown))
	}
}

func TestTranslator_Match(t *testing.T) {
	tr := NewTranslator("en")
	cases := map[string]string{
		"ja-JP,ja;q=0.9,en;q=0.8": "ja",
		"en-US,en;q=0.9":          "en",
		"de-DE":                   "en",
		"":                        "en",
	}
	for header, want := range cases {
		if got := tr.Match(header); got != want {
			t.Errorf("Match(%q): expected %q, got %q", header, want, got)
		}
	}
	if got := tr.Match("", "ja"); got != "ja" {
		t.Errorf("expected first non-empty preference to win, got %q", got)
	}
}

func TestSwitcher_ChangeLanguage(t *testing.T) {
	s := NewSwitcher(NewTranslator("en"), "en")

	if got := s.T("welcome"); got != "Welcome to todoboard" {
		t.Errorf("expected English initially, got %q", got)
	}
	s.ChangeLanguage("ja")
	if got := s.T("welcome"); got != "todoboardへようこそ" {
		t.Errorf("expected Japanese after switch, got %q", got)
	}
	s.ChangeLanguage("en")
	if got := s.Language(); got != "en" {
		t.Errorf("expected en, got %q", got)
	}
	if got := s.T("welcome"); got != "Welcome to todoboard" {
		t.Errorf("expected English after switching back, got %q", got)
	}
}

func TestTranslator_Languages(t *testing.T) {
	tr := NewTranslator("en")
	got := tr.Languages()
	if len(got) != 2 || got[0] != "en" || got[1] != "ja" {
		t.Fatalf("expected [en ja], got %v", got)
	}
	got[0] = "xx"
	if tr.Languages()[0] != "en" {
		t.Error("expected callers to get their own copy")
	}
	if s := NewSwitcher(tr, "en"); len(s.Languages()) != 2 {
		t.Errorf("expected switcher to expose both languages, got %v", s.Languages())
	}
}
