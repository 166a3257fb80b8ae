package validator

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// NewI18n returns an initialized internationalization bundle carrying
// the embedded locale catalog, the same shape the teacher's GetI18n
// constructs, keyed by Error.Code instead of the teacher's free-form
// keyword strings.
func NewI18n() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en"),
	)
	if err := bundle.LoadFS(localesFS, "locales/*.json"); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Localize renders e in the given localizer's locale, falling back to
// Error() when localizer is nil.
func (e *Error) Localize(localizer *i18n.Localizer) string {
	if localizer == nil {
		return e.Error()
	}
	return localizer.Get(string(e.Code), i18n.Vars(e.Params))
}
