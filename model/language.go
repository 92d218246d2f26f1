package model

import "strings"

// Language is a supported base language tag.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
	LanguageChinese Language = "zh"
	LanguageUrdu    Language = "ur"
)

// languageNames maps each supported language to the English name used when
// instructing the generative service.
var languageNames = map[Language]string{
	LanguageEnglish: "English",
	LanguageSpanish: "Spanish",
	LanguageFrench:  "French",
	LanguageGerman:  "German",
	LanguageChinese: "Chinese",
	LanguageUrdu:    "Urdu",
}

// Name returns the English name of the language.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return languageNames[LanguageEnglish]
}

// Supported reports whether l is one of the supported languages.
func (l Language) Supported() bool {
	_, ok := languageNames[l]
	return ok
}

// ParseLanguage normalizes a raw language tag to a supported base language.
// Region suffixes are stripped ("es-MX" becomes Spanish), unsupported tags
// silently degrade to English.
func ParseLanguage(raw string) Language {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	if l := Language(tag); l.Supported() {
		return l
	}
	return LanguageEnglish
}
