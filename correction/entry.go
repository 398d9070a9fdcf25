// Package correction implements the curated correction table (glossary) that
// overrides machine translation for exact source-text matches.
package correction

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category classifies a correction entry.
type Category string

const (
	// CategoryGameTerm is a game mechanic or system term (HP, Quest, ...).
	CategoryGameTerm Category = "game_term"
	// CategoryUIText is interface text such as buttons and menu labels.
	CategoryUIText Category = "ui_text"
	// CategoryCharacterName is a proper name of a character or place.
	CategoryCharacterName Category = "character_name"
	// CategoryOther is anything else.
	CategoryOther Category = "other"
)

// Categories lists every valid category.
var Categories = []Category{CategoryGameTerm, CategoryUIText, CategoryCharacterName, CategoryOther}

// ParseCategory converts a string to a Category. An empty string maps to CategoryOther.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown correction category %q", s)
}

// ErrInvalidEntry is returned when an entry is missing required fields.
var ErrInvalidEntry = errors.New("invalid correction entry")

// Entry is a single glossary override.
type Entry struct {
	ID                 int64     `json:"id"`
	SourceText         string    `json:"source_text"`
	CorrectTranslation string    `json:"correct_translation"`
	SourceLang         string    `json:"source_lang"`
	TargetLang         string    `json:"target_lang"`
	Category           Category  `json:"category"`
	Priority           int       `json:"priority"`
	AddedAt            time.Time `json:"added_at"`

	seq uint64
}

// Validate checks that the entry can be stored.
func (e Entry) Validate() error {
	switch {
	case strings.TrimSpace(e.SourceText) == "":
		return fmt.Errorf("%w: source text is empty", ErrInvalidEntry)
	case strings.TrimSpace(e.CorrectTranslation) == "":
		return fmt.Errorf("%w: correct translation is empty", ErrInvalidEntry)
	case strings.TrimSpace(e.SourceLang) == "" || strings.TrimSpace(e.TargetLang) == "":
		return fmt.Errorf("%w: language codes are required", ErrInvalidEntry)
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return nil
}

// outranks reports whether e wins over other for the same lookup key:
// higher priority first, then the most recently added.
func (e Entry) outranks(other Entry) bool {
	if e.Priority != other.Priority {
		return e.Priority > other.Priority
	}
	return e.seq > other.seq
}
