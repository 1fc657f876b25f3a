package output

// T is the i18n contract used by adapters for user-facing strings.
type T interface {
	// T renders the message identified by key for the given locale.
	// data fills template placeholders and may be nil.
	T(locale, key string, data map[string]any) string
	// Messages resolves every known key for locale.
	Messages(locale string) map[string]string
	// Languages lists the bundled locale codes in the order a UI offers them.
	Languages() []string
}
