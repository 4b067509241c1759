package api

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/SanteonNL/sift/filters"
)

// LocaleNegotiator picks the request locale from Accept-Language among the
// supported locales. The first supported locale is the default.
type LocaleNegotiator struct {
	supported []language.Tag
	matcher   language.Matcher
}

func NewLocaleNegotiator(defaultLocale string, locales ...string) *LocaleNegotiator {
	tags := []language.Tag{language.Make(defaultLocale)}
	for _, l := range locales {
		tag := language.Make(l)
		if tag != tags[0] {
			tags = append(tags, tag)
		}
	}
	return &LocaleNegotiator{supported: tags, matcher: language.NewMatcher(tags)}
}

// Negotiate returns the locale to use for r as a two-letter language code.
func (n *LocaleNegotiator) Negotiate(r *http.Request) filters.StaticLocale {
	tag := n.supported[0]
	if header := r.Header.Get("Accept-Language"); header != "" {
		if prefs, _, err := language.ParseAcceptLanguage(header); err == nil && len(prefs) > 0 {
			_, idx, conf := n.matcher.Match(prefs...)
			if conf != language.No {
				tag = n.supported[idx]
			}
		}
	}
	base, _ := tag.Base()
	return filters.StaticLocale(base.String())
}
