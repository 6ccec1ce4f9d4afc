// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mdhender/hdlir"
	"github.com/mdhender/hdlir/pipelines/stages"
	store "github.com/mdhender/hdlir/stores/sqlite"
	"github.com/mdhender/hdlir/validator"
	"github.com/spf13/cobra"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", true, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "hdlir",
		Short: "HDL front-end",
		Long:  `Parse hardware description sources into an intermediate representation`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags || logFlags == 0 {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Printf("hdlir: version %q\n", hdlir.Version().Core())
			}

			return nil
		},
	}
	cmdRoot.AddCommand(cmdParse())
	cmdRoot.AddCommand(cmdLex())
	cmdRoot.AddCommand(cmdIngest())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a structured logger whose level follows the quiet/verbose/debug flags.
func newLogger(cmd *cobra.Command) *slog.Logger {
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func cmdParse() *cobra.Command {
	interleave := false
	strictTrailing := false
	validate := false
	var outputFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&interleave, "interleave", interleave, "allow declarations and assignments in any order")
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "save parse to file")
		cmd.Flags().BoolVar(&strictTrailing, "strict-trailing", strictTrailing, "reject text after the closing brace")
		cmd.Flags().BoolVar(&validate, "validate", validate, "validate the module against the JSON contract")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "parse <source-file>",
		Short:        "parse a source file and print the module as JSON",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1), // require path to source file
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := newLogger(cmd)

			started := time.Now()
			input, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := hdlir.ParseModule(string(input),
				hdlir.WithInterleaving(interleave),
				hdlir.WithStrictTrailing(strictTrailing),
				hdlir.WithLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if verbose {
				log.Printf("%s: parsed %q in %v\n", args[0], m.Name, time.Since(started))
			}

			if validate {
				v, err := validator.New()
				if err != nil {
					return err
				}
				if errs := v.ValidationErrors(m); len(errs) != 0 {
					for _, e := range errs {
						log.Printf("%s: contract: %s\n", args[0], e)
					}
					return fmt.Errorf("%s: module %q violates the contract", args[0], m.Name)
				}
			}

			data, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			} else if err = os.WriteFile(outputFile, data, 0o644); err != nil {
				return err
			} else {
				log.Printf("%s: wrote %d bytes\n", outputFile, len(data))
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdLex() *cobra.Command {
	unknownOnly := false
	showTrivia := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&unknownOnly, "unknown-only", unknownOnly, "only show unknown tokens")
		cmd.Flags().BoolVar(&showTrivia, "show-trivia", showTrivia, "show leading whitespace tokens")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "lex <source-file>",
		Short:        "print the tokens in a source file",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			file := filepath.Base(args[0])
			n, err := scan(cmd.Context(), os.Stdout, file, input, newLogger(cmd), unknownOnly, showTrivia)
			if err != nil {
				return err
			}
			if n != 0 {
				return fmt.Errorf("%s: %d unknown tokens", file, n)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

// scan writes one line per token and returns the number of unknown tokens.
func scan(ctx context.Context, w io.Writer, file string, input []byte, logger *slog.Logger, unknownOnly, showTrivia bool) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := hdlir.NewLexer(ctx, file, input, logger)
	tokenCounter, maxTokens := 0, len(input)+1
	for tokenCounter < maxTokens {
		tok := s.Scan()
		if tok == nil {
			panic("assert(s.scan != nil)")
		}
		tokenCounter++
		if showTrivia && !unknownOnly {
			for _, trivia := range tok.LeadingTrivia {
				_, _ = fmt.Fprintf(w, "%-24s %5s %-12s %q\n", fmt.Sprintf("%s:%d:%d:", file, trivia.Line, trivia.Column), "", trivia.Kind, trivia.Lexeme(input))
			}
		}
		if tok.Kind == hdlir.UNKNOWN || !unknownOnly {
			_, _ = fmt.Fprintf(w, "%-24s %5d %-12s %q\n", fmt.Sprintf("%s:%d:%d:", file, tok.Line, tok.Column), tokenCounter, tok.Kind, tok.Lexeme(input))
		}
		if tok.Kind == hdlir.EndOfInput {
			break
		}
	}
	return s.Errors(), nil
}

func cmdIngest() *cobra.Command {
	var dbPath string
	interleave := false
	strictTrailing := false
	showDBStats := false
	validate := true
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "SQLite database file (default in-memory)")
		cmd.Flags().BoolVar(&interleave, "interleave", interleave, "allow declarations and assignments in any order")
		cmd.Flags().BoolVar(&showDBStats, "show-db-stats", showDBStats, "dump row counts from each table")
		cmd.Flags().BoolVar(&strictTrailing, "strict-trailing", strictTrailing, "reject text after the closing brace")
		cmd.Flags().BoolVar(&validate, "validate", validate, "validate each module against the JSON contract")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "ingest <path>",
		Short:        "parse every source under path and store the modules",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := newLogger(cmd)

			db, err := store.NewSQLiteStoreWithConfig(ctx, store.StoreConfig{Path: dbPath, InitSchema: true})
			if err != nil {
				return fmt.Errorf("create store: %w", err)
			}
			defer db.Close()

			var svc *stages.IngestService
			options := []hdlir.Option{
				hdlir.WithInterleaving(interleave),
				hdlir.WithStrictTrailing(strictTrailing),
				hdlir.WithLogger(logger),
			}
			if validate {
				v, err := validator.New()
				if err != nil {
					return err
				}
				svc = stages.NewIngestService(db, v, logger, options...)
			} else {
				svc = stages.NewIngestService(db, nil, logger, options...)
			}

			started := time.Now()
			results, err := svc.IngestTree(ctx, args[0])
			if err != nil {
				log.Printf("ingest: %s: %v\n", stages.ErrorCode(err), err)
				return err
			}
			if verbose {
				for _, r := range results {
					if r.Duplicate {
						log.Printf("%s: duplicate of source %d\n", r.Path, r.SourceID)
					} else {
						log.Printf("%s: module %q stored as %d\n", r.Path, r.Module, r.ModuleID)
					}
				}
			}
			log.Printf("ingest: %d files in %v\n", len(results), time.Since(started))

			if showDBStats {
				stats, err := db.TableStats(ctx)
				if err != nil {
					return fmt.Errorf("get table stats: %w", err)
				}
				log.Println("database stats:")
				tables := make([]string, 0, len(stats))
				for table := range stats {
					tables = append(tables, table)
				}
				sort.Strings(tables)
				for _, table := range tables {
					log.Printf("  %-20s %d rows\n", table, stats[table])
				}
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(hdlir.Version().String())
				return nil
			}
			fmt.Println(hdlir.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
