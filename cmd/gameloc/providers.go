package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gameloc"
	"github.com/ZaguanLabs/gameloc/provider"
)

func newProvidersCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the supported providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _ := app.cfg.ProviderKind()

			t := newTable(app.stdout, "", "Name", "Description", "Default model", "Base URL")
			for _, k := range provider.Kinds {
				mark := ""
				if k == current {
					mark = "*"
				}
				t.AppendRow(table.Row{mark, k, k.DisplayName(), k.DefaultModel(), k.DefaultBaseURL()})
			}
			t.Render()
			return nil
		},
	}
}

func newTestProviderCommand(app *cli) *cobra.Command {
	var name, model, text, from, to string
	var listModels bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "test-provider",
		Short: "Check that the configured provider answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("provider") {
				app.cfg.Provider.Name = name
			}
			if cmd.Flags().Changed("model") {
				app.cfg.Provider.Model = model
			}
			p, err := app.openProvider()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if listModels {
				lister, ok := p.(provider.ModelLister)
				if rl, isLimited := p.(*gameloc.RateLimitedProvider); isLimited {
					lister, ok = rl.Unwrap().(provider.ModelLister)
				}
				if !ok {
					return fmt.Errorf("%s cannot list models", p.Name())
				}
				models, err := lister.Models(ctx)
				if err != nil {
					return err
				}
				sort.Strings(models)
				for _, m := range models {
					app.printf("%s\n", m)
				}
				return nil
			}

			start := time.Now()
			translated, err := p.Translate(ctx, gameloc.TranslateRequest{
				Text:       text,
				SourceLang: gameloc.NormalizeLanguage(from),
				TargetLang: gameloc.NormalizeLanguage(to),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", p.Name(), err)
			}
			_, reviews := gameloc.ReviewerOf(p)

			app.printf("Provider:  %s\n", p.Name())
			app.printf("Input:     %s\n", text)
			app.printf("Output:    %s\n", translated)
			app.printf("Elapsed:   %v\n", time.Since(start).Round(time.Millisecond))
			app.printf("Review:    %t\n", reviews)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "provider", "p", "", "Provider to test (default from config)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model name")
	cmd.Flags().StringVar(&text, "text", "Hello", "Text to translate")
	cmd.Flags().StringVar(&from, "from", "en", "Source language")
	cmd.Flags().StringVar(&to, "to", "zh", "Target language")
	cmd.Flags().BoolVar(&listModels, "models", false, "List the models the provider offers")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
	return cmd
}

func newVersionCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			app.printf("%s %s\n", gameloc.Name, gameloc.FullVersion())
			if gameloc.GitCommit != "unknown" && gameloc.GitCommit != "" {
				app.printf("  commit:  %s\n", gameloc.GitCommit)
			}
			if gameloc.BuildDate != "unknown" && gameloc.BuildDate != "" {
				app.printf("  built:   %s\n", gameloc.BuildDate)
			}
			app.printf("  go:      %s\n", gameloc.GoVersion())
		},
	}
}
