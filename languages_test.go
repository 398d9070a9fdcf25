package gameloc

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"zh", "Chinese"},
		{"ja_JP", "Japanese"}, // region is ignored
		{"EN", "English"},
		{"unknown", "unknown"}, // fallback
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetLanguageName(tt.code)
			if result != tt.expected {
				t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"zh", "zh"},
		{"zh_CN", "zh"},
		{"ZH-cn", "zh"},
		{" en ", "en"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeLanguage(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSupportedLanguagesHaveNames(t *testing.T) {
	for _, code := range SupportedLanguages {
		if _, ok := LanguageNames[code]; !ok {
			t.Errorf("missing English name for %q", code)
		}
		if _, ok := NativeLanguageNames[code]; !ok {
			t.Errorf("missing native name for %q", code)
		}
	}
}

func TestValidatePair(t *testing.T) {
	tests := []struct {
		name      string
		pair      LanguagePair
		supported []string
		wantErr   bool
	}{
		{"supported pair", LanguagePair{"en", "zh"}, SupportedLanguages, false},
		{"regional codes", LanguagePair{"en_US", "zh-CN"}, SupportedLanguages, false},
		{"identical", LanguagePair{"zh", "zh_TW"}, SupportedLanguages, true},
		{"missing source", LanguagePair{"", "zh"}, SupportedLanguages, true},
		{"unsupported target", LanguagePair{"en", "ar"}, SupportedLanguages, true},
		{"any code allowed", LanguagePair{"en", "ar"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePair(tt.pair, tt.supported)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePair(%v) error = %v, wantErr %v", tt.pair, err, tt.wantErr)
			}
			if err != nil && !IsConfigurationError(err) {
				t.Errorf("expected a configuration error, got %T", err)
			}
		})
	}
}
