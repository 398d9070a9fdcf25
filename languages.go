package gameloc

import "github.com/ZaguanLabs/gameloc/correction"

// LanguageNames maps supported language codes to human-readable names for AI prompts.
var LanguageNames = map[string]string{
	"zh": "Chinese",
	"en": "English",
	"ja": "Japanese",
	"ko": "Korean",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
	"ru": "Russian",
	"pt": "Portuguese",
	"it": "Italian",
}

// NativeLanguageNames maps supported language codes to their native names.
var NativeLanguageNames = map[string]string{
	"zh": "中文",
	"en": "English",
	"ja": "日本語",
	"ko": "한국어",
	"fr": "Français",
	"de": "Deutsch",
	"es": "Español",
	"ru": "Русский",
	"pt": "Português",
	"it": "Italiano",
}

// SupportedLanguages lists the default supported language codes in display order.
var SupportedLanguages = []string{"zh", "en", "ja", "ko", "fr", "de", "es", "ru", "pt", "it"}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[NormalizeLanguage(langCode)]; ok {
		return name
	}
	return langCode
}

// NormalizeLanguage converts a language code to its lower-case base form
// (e.g., "zh_CN" and "ZH-cn" both become "zh").
func NormalizeLanguage(langCode string) string {
	return correction.NormalizeLang(langCode)
}

// ValidatePair checks that a language pair can be translated. supported may
// be empty to accept any non-empty code.
func ValidatePair(pair LanguagePair, supported []string) error {
	src, tgt := NormalizeLanguage(pair.Source), NormalizeLanguage(pair.Target)
	if src == "" || tgt == "" {
		return &ConfigurationError{Message: "source and target languages are required"}
	}
	if src == tgt {
		return &ConfigurationError{Message: "source and target languages are identical: " + src}
	}
	if len(supported) == 0 {
		return nil
	}
	for _, code := range []string{src, tgt} {
		if !containsLanguage(supported, code) {
			return &ConfigurationError{Message: "unsupported language: " + code}
		}
	}
	return nil
}

func containsLanguage(list []string, code string) bool {
	for _, l := range list {
		if NormalizeLanguage(l) == code {
			return true
		}
	}
	return false
}
