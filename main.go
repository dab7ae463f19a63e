// Ereader is a terminal EPUB reader that remembers how far each section
// has been read.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ereader/catalog"
	"ereader/config"
	"ereader/epub"
	"ereader/logging"
	"ereader/pager"
	"ereader/progress"
	"ereader/render"
)

var version = "dev"

type options struct {
	configPath   string
	progressPath string
	initConfig   bool
	print        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "ereader [flags] <book.epub>",
		Short:   "Read EPUB books in the terminal",
		Long:    "Ereader lists the sections of an EPUB book and pages through them,\nremembering the row reached in each section.",
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.initConfig {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.initConfig {
				_, err := io.WriteString(cmd.OutOrStdout(), config.DefaultTOML())
				return err
			}
			return run(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/ereader/config.toml)")
	cmd.Flags().StringVar(&opts.progressPath, "progress", "", "progress file, overrides progress.path")
	cmd.Flags().BoolVar(&opts.initConfig, "init-config", false, "print the default config and exit")
	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "print the section list and exit")
	return cmd
}

func run(out io.Writer, bookPath string, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.progressPath != "" {
		cfg.Progress.Path = opts.progressPath
	}

	log, notices, closer, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}

	book, err := epub.Open(bookPath)
	if err != nil {
		return err
	}
	defer book.Close()

	sections, err := book.Sections(epub.Options{})
	if err != nil {
		return err
	}
	log.Info("book opened", "path", bookPath, "title", book.Title, "sections", len(sections))

	entries := make([]catalog.Entry, len(sections))
	for i, s := range sections {
		entries[i] = catalog.Entry{ID: s.ID, Lines: s.Lines()}
	}

	if opts.print {
		return printCatalog(out, book.Title, entries, store)
	}

	screen, release, err := render.OpenTTY()
	if err != nil {
		return err
	}
	defer release()

	reader := pager.New(screen, store,
		pager.WithKeybindings(cfg.Keybindings),
		pager.WithStatusLine(cfg.ShowStatusLine()),
		pager.WithLogger(log, notices),
	)
	menu := catalog.New(screen, entries, store, reader,
		catalog.WithKeybindings(cfg.Keybindings),
		catalog.WithBookTitle(book.Title),
		catalog.WithLogger(log, notices),
	)
	return menu.Run()
}

func openStore(cfg *config.Config, log *slog.Logger) (*progress.Store, error) {
	codec, err := progress.CodecByName(cfg.Progress.Format)
	if err != nil {
		return nil, err
	}

	store, outcome := progress.Open(cfg.Progress.Path, codec)
	switch outcome.Status {
	case progress.Corrupt:
		log.Warn("progress file damaged", "path", store.Path(), "kept", store.Len(), "error", outcome.Err)
	default:
		log.Info("progress", "status", outcome.Status, "path", store.Path(), "sections", store.Len())
	}
	return store, nil
}

func printCatalog(w io.Writer, title string, entries []catalog.Entry, p catalog.Progress) error {
	fmt.Fprintln(w, catalog.Title)
	if title != "" {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintf(w, "%s\n\n", catalog.Subtitle)
	for i, label := range catalog.Labels(entries, p) {
		if _, err := fmt.Fprintf(w, "%d - %s\n", i+1, label); err != nil {
			return err
		}
	}
	return nil
}
