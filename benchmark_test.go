package gameloc_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ZaguanLabs/gameloc"
	"github.com/ZaguanLabs/gameloc/cache"
	"github.com/ZaguanLabs/gameloc/correction"
	"github.com/ZaguanLabs/gameloc/provider"
)

// Benchmarks for performance validation

func BenchmarkHashText(b *testing.B) {
	text := "Hello World, this is a sample text for hashing"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gameloc.HashText(text)
	}
}

func BenchmarkCacheKey(b *testing.B) {
	text := "Defeat the dragon"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gameloc.CacheKey(text, "en", "zh", "deepseek")
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	c.Set("test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("test-key")
	}
}

func BenchmarkInMemoryCache_Set(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set("test-key", "test-value")
	}
}

func BenchmarkMatcher_Match(b *testing.B) {
	table := correction.NewTable()
	if _, err := correction.Seed(table, correction.DefaultEntries()); err != nil {
		b.Fatal(err)
	}
	matcher := table.Snapshot()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.Match("Weapon", "en", "zh")
	}
}

func BenchmarkEngine_Batch_Cached(b *testing.B) {
	p := provider.NewMockProvider()
	engine := gameloc.NewEngine(gameloc.WithCache(cache.NewInMemoryCache(3600)))
	units := benchUnits(100)
	pair := gameloc.LanguagePair{Source: "en", Target: "zh"}

	// Prime the cache
	engine.TranslateBatch(context.Background(), units, pair, p, gameloc.DefaultBatchOptions())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.TranslateBatch(context.Background(), units, pair, p, gameloc.DefaultBatchOptions())
	}
}

func BenchmarkEngine_Batch_Uncached(b *testing.B) {
	units := benchUnits(100)
	pair := gameloc.LanguagePair{Source: "en", Target: "zh"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Create a fresh engine each time to avoid the cache
		engine := gameloc.NewEngine()
		engine.TranslateBatch(context.Background(), units, pair, provider.NewMockProvider(), gameloc.DefaultBatchOptions())
	}
}

func BenchmarkGetLanguageName(b *testing.B) {
	langs := []string{"en_US", "zh_CN", "ja_JP", "ko", "fr"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gameloc.GetLanguageName(langs[i%len(langs)])
	}
}

func benchUnits(n int) []gameloc.TranslationUnit {
	units := make([]gameloc.TranslationUnit, n)
	for i := range units {
		units[i] = gameloc.TranslationUnit{
			Location:   gameloc.Location{Row: i + 1, Column: 1},
			SourceText: fmt.Sprintf("Quest line %d", i),
		}
	}
	return units
}
