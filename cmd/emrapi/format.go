package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/jdegraft/openmrs-module-emrapi/internal/db"
	"github.com/jdegraft/openmrs-module-emrapi/internal/diagnosis"
	"github.com/jdegraft/openmrs-module-emrapi/internal/dictionary"
	"github.com/jdegraft/openmrs-module-emrapi/internal/exitcode"
	"github.com/jdegraft/openmrs-module-emrapi/internal/logging"
	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// Output styles for the format command.
const (
	styleDefault = "default"
	styleGeneral = "general"
	styleCode    = "code"
)

var (
	answers     []string
	formatStyle string
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Parse diagnosis answers and print them for display",
	Long: "Parses each --answer (ConceptName:<id>, Concept:<id> or Non-Coded:<text>) " +
		"against the dictionary and prints it in the requested locale and style.",
	RunE: runFormat,
}

func init() {
	f := formatCmd.Flags()
	f.StringArrayVar(&answers, "answer", nil, "Answer to format (repeatable)")
	f.StringVar(&cfg.Locale, "locale", "en", "Display locale, e.g. en, fr, en_GB")
	f.StringVar(&formatStyle, "style", styleDefault, "Output style: default, general or code")
	f.StringArrayVar(&cfg.CodeSources, "source", nil, "Concept source eligible for codes in code style (repeatable, in priority order)")
	f.StringVar(&cfg.NamesPath, "names", "", "Concept names Parquet file (instead of --dsn)")
	f.StringVar(&cfg.MappingsPath, "mappings", "", "Concept maps Parquet file, used with --names")
	_ = formatCmd.MarkFlagRequired("answer")
	rootCmd.AddCommand(formatCmd)
}

// conceptDictionary resolves answers and code sources.
type conceptDictionary interface {
	diagnosis.ConceptService
	SourcesByName(ctx context.Context, names []string) ([]*model.ConceptSource, error)
}

func runFormat(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateFormat(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	switch formatStyle {
	case styleDefault, styleGeneral, styleCode:
	default:
		log.Error().Str("style", formatStyle).Msg("unknown --style")
		os.Exit(exitcode.UsageError)
	}
	locale, _ := cfg.LocaleTag()

	var dict conceptDictionary
	if cfg.NamesPath != "" {
		m, err := dictionary.LoadFiles(cfg.NamesPath, cfg.MappingsPath)
		if err != nil {
			log.Error().Err(err).Msg("failed to load dictionary files")
			os.Exit(exitcode.ValidationError)
		}
		concepts, names := m.Count()
		log.Debug().Int("concepts", concepts).Int("names", names).Msg("dictionary loaded")
		dict = m
	} else {
		pool, err := db.NewPool(ctx, cfg.DSN, "emrapi-format")
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		dict = dictionary.NewStore(pool)
	}

	var sources []*model.ConceptSource
	if formatStyle == styleCode {
		var err error
		sources, err = dict.SourcesByName(ctx, cfg.CodeSources)
		if err != nil {
			log.Error().Err(err).Strs("sources", cfg.CodeSources).Msg("code source lookup failed")
			os.Exit(exitcode.LookupError)
		}
	}

	code := exitcode.Success
	for _, spec := range answers {
		a, err := diagnosis.Parse(ctx, spec, dict)
		if err != nil {
			log.Error().Err(err).Str("answer", spec).Msg("cannot resolve answer")
			code = failureCode(code, err)
			continue
		}
		fmt.Println(render(a, locale, sources))
	}
	if code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}

func render(a diagnosis.CodedOrFreeTextAnswer, locale language.Tag, sources []*model.ConceptSource) string {
	switch formatStyle {
	case styleGeneral:
		return a.FormatWithoutSpecificAnswer(locale)
	case styleCode:
		return a.FormatWithCode(locale, sources)
	}
	return a.Format(locale)
}

// failureCode folds err into the exit code so far. A malformed answer
// outranks a failed lookup.
func failureCode(code int, err error) int {
	if errors.Is(err, diagnosis.ErrMalformedSpec) {
		return exitcode.MalformedAnswer
	}
	if code == exitcode.Success {
		return exitcode.LookupError
	}
	return code
}
