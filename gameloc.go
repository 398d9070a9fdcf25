// Package gameloc is a translation orchestration engine for game localization.
//
// It translates extracted text units through pluggable AI providers,
// overrides machine output with a curated correction table, reuses earlier
// translations from a cache, and can run an AI review pass that substitutes
// an improved translation when the quality score is below a threshold.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/gameloc"
//	    "github.com/ZaguanLabs/gameloc/cache"
//	    "github.com/ZaguanLabs/gameloc/correction"
//	    "github.com/ZaguanLabs/gameloc/provider"
//	)
//
//	func main() {
//	    p, err := provider.New(provider.Config{
//	        Kind:   provider.KindOpenAI,
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    table := correction.NewTable()
//	    correction.Seed(table, correction.DefaultEntries())
//
//	    engine := gameloc.NewEngine(
//	        gameloc.WithCache(cache.NewInMemoryCache(3600)),
//	        gameloc.WithCorrections(table),
//	    )
//
//	    units := []gameloc.TranslationUnit{
//	        {Location: gameloc.Location{Row: 1, Column: 1}, SourceText: "HP"},
//	        {Location: gameloc.Location{Row: 2, Column: 1}, SourceText: "Defeat the dragon"},
//	    }
//	    results, err := engine.TranslateBatch(context.Background(), units,
//	        gameloc.LanguagePair{Source: "en", Target: "zh"}, p, gameloc.DefaultBatchOptions())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, r := range results {
//	        fmt.Println(r.Unit.Location, r.TranslatedText, r.Origin)
//	    }
//	}
package gameloc
