package gameloc

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with leading whitespace",
			input:    "  Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with trailing whitespace",
			input:    "Hello World  ",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with both whitespace",
			input:    "  Hello World  ",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if tt.expected != "" && result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			// Verify hash length (SHA-256 = 64 hex chars)
			if len(result) != 64 {
				t.Errorf("HashText(%q) length = %d, want 64", tt.input, len(result))
			}
		})
	}
}

func TestHashText_NFC(t *testing.T) {
	composed := "Caf\u00e9"
	decomposed := "Cafe\u0301"

	if HashText(composed) != HashText(decomposed) {
		t.Error("canonically equivalent texts should hash the same")
	}
}

func TestCacheKey(t *testing.T) {
	result := CacheKey("Hello World", "en", "zh", "deepseek")
	expected := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e:en:zh:deepseek"

	if result != expected {
		t.Errorf("CacheKey() = %q, want %q", result, expected)
	}
}

func TestCacheKey_Distinct(t *testing.T) {
	base := CacheKey("Hello", "en", "zh", "openai")

	others := []string{
		CacheKey("Hello", "en", "ja", "openai"),
		CacheKey("Hello", "fr", "zh", "openai"),
		CacheKey("Hello", "en", "zh", "ollama"),
		CacheKey("Hello!", "en", "zh", "openai"),
	}
	for _, k := range others {
		if k == base {
			t.Errorf("CacheKey collision: %q", k)
		}
	}

	if CacheKey("  Hello\n", "en", "zh", "openai") != base {
		t.Error("surrounding whitespace should not change the key")
	}
}
