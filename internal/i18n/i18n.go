// Package i18n lists the interface languages an operator can choose from.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto lets the application follow the visitor's browser language.
const Auto = "auto"

// supported holds the locales that ship with translations, in display order.
var supported = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Japanese,
	language.Russian,
	language.MustParse("zh-CN"),
}

var matcher = language.NewMatcher(supported)

// Language is a selectable locale.
type Language struct {
	Code   string
	Name   string // English name
	Native string // Name in the language itself
}

// Available returns the selectable locales, starting with Auto.
func Available() []Language {
	langs := make([]Language, 0, len(supported)+1)
	langs = append(langs, Language{Code: Auto, Name: "Automatic", Native: "Automatic"})
	for _, tag := range supported {
		langs = append(langs, Language{
			Code:   tag.String(),
			Name:   display.English.Tags().Name(tag),
			Native: display.Self.Name(tag),
		})
	}
	return langs
}

// Preferred picks the supported locale that best matches an Accept-Language
// header. It returns Auto when nothing matches.
func Preferred(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Auto
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Auto
	}
	return supported[idx].String()
}

// IsAvailable reports whether code is one of the selectable locales.
func IsAvailable(code string) bool {
	if code == Auto {
		return true
	}
	for _, tag := range supported {
		if tag.String() == code {
			return true
		}
	}
	return false
}
