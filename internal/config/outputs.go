package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultOutputsPath is where the client looks for its generated settings.
const DefaultOutputsPath = "todoboard_outputs.toml"

// Outputs is the generated settings artifact the client reads at startup to
// find the backend. Sections other than the ones below are kept but not
// interpreted.
type Outputs struct {
	Data struct {
		URL string `toml:"url"`
	} `toml:"data"`
	I18n struct {
		DefaultLanguage string `toml:"default_language"`
	} `toml:"i18n"`

	Extra map[string]any `toml:"-"`
}

// LoadOutputs reads the artifact at path. A missing file yields defaults
// pointing at a local server.
func LoadOutputs(path string) (*Outputs, error) {
	out := &Outputs{}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("outputs: read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(b, out); err != nil {
			return nil, fmt.Errorf("outputs: parse %s: %w", path, err)
		}
		var all map[string]any
		if err := toml.Unmarshal(b, &all); err == nil {
			delete(all, "data")
			delete(all, "i18n")
			out.Extra = all
		}
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteOutputs writes o to path, as the server does with -write-outputs.
// Sections in Extra are written back alongside data and i18n.
func WriteOutputs(path string, o *Outputs) error {
	doc := make(map[string]any, len(o.Extra)+2)
	for k, v := range o.Extra {
		doc[k] = v
	}
	doc["data"] = map[string]any{"url": o.Data.URL}
	doc["i18n"] = map[string]any{"default_language": o.I18n.DefaultLanguage}

	b, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("outputs: encode: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("outputs: write %s: %w", path, err)
	}
	return nil
}

func (o *Outputs) validate() error {
	if strings.TrimSpace(o.Data.URL) == "" {
		o.Data.URL = "http://localhost:8080"
	}
	if strings.TrimSpace(o.I18n.DefaultLanguage) == "" {
		o.I18n.DefaultLanguage = "en"
	}
	u, err := url.Parse(o.Data.URL)
	if err != nil {
		return fmt.Errorf("outputs: data.url invalid (%q): %w", o.Data.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("outputs: data.url invalid (%q): want http(s)://host[:port]", o.Data.URL)
	}
	o.Data.URL = strings.TrimRight(o.Data.URL, "/")
	return nil
}
