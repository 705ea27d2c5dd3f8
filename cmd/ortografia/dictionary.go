package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/ortografia/internal/cli"
	"github.com/at-ishikawa/ortografia/internal/dictionary"
	"github.com/at-ishikawa/ortografia/internal/orthography"
)

// PlaceholderTypesFlag is a comma separated list of placeholder types.
type PlaceholderTypesFlag []orthography.PlaceholderType

// Set implements pflag.Value.
func (f *PlaceholderTypesFlag) Set(val string) error {
	var types []orthography.PlaceholderType
	for _, s := range strings.Split(val, ",") {
		t, err := orthography.ParsePlaceholderType(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		types = append(types, t)
	}
	*f = types
	return nil
}

// String implements pflag.Value.
func (f *PlaceholderTypesFlag) String() string {
	names := make([]string, len(*f))
	for i, t := range *f {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

// Type implements pflag.Value.
func (f *PlaceholderTypesFlag) Type() string {
	return "placeholderTypes"
}

var _ pflag.Value = (*PlaceholderTypesFlag)(nil)

func newDictionaryCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "dictionary",
		Short: "Manage the words used for questions",
	}
	rootCommand.AddCommand(newDictionaryLoadCommand())
	return rootCommand
}

func newDictionaryLoadCommand() *cobra.Command {
	var types PlaceholderTypesFlag

	cmd := &cobra.Command{
		Use:   "load <file|url>",
		Short: "Add the questions of a word list to the state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			selected := []orthography.PlaceholderType(types)
			if !cmd.Flags().Changed("placeholder-types") {
				selected, err = cfg.Dictionary.Types()
				if err != nil {
					return err
				}
			}

			engine, existed, err := cli.LoadEngine(cfg.StateFile, engineOptions(cfg.Selection)...)
			if err != nil {
				return fmt.Errorf("cli.LoadEngine() > %w", err)
			}

			fetcher := dictionary.NewFetcher(cfg.Dictionary.MaxRetryAttempts)
			if cfg.Dictionary.CacheDir != "" {
				fetcher = fetcher.WithCache(cfg.Dictionary.CacheDir)
			}
			words, err := dictionary.Source(cmd.Context(), fetcher, args[0])
			if err != nil {
				return fmt.Errorf("dictionary.Source(%s) > %w", args[0], err)
			}
			result, err := dictionary.AddWords(engine, words, selected)
			if err != nil {
				return fmt.Errorf("dictionary.AddWords() > %w", err)
			}

			out := cmd.OutOrStdout()
			if existed {
				_, _ = fmt.Fprintf(out, "Your last session has been restored from %s.\n", cfg.StateFile)
			}
			_, _ = fmt.Fprintf(out, "%d new questions added to the dictionary (%d already known, %d invalid words).\n",
				result.Added, result.Skipped, result.Invalid)
			_, _ = fmt.Fprintf(out, "You have given %d answers to the set of total %d questions. Your current score is: %.1f%%.\n",
				engine.Epoch(), engine.Len(), engine.AggregateScore()*100)

			if err := cli.SaveEngine(cfg.StateFile, engine); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "New words have been saved into the session file")
			return nil
		},
	}

	cmd.Flags().Var(&types, "placeholder-types", "Comma separated placeholder types to ask about: RZ, CH, U")
	return cmd
}
