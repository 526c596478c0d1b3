package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/chatline"
	"github.com/iw2rmb/chatline/imageload"
	"github.com/iw2rmb/chatline/internal/config"
	"github.com/iw2rmb/chatline/internal/logging"
)

// Options holds the command line flags.
type Options struct {
	Config  string
	LogFile string
	Debug   bool
}

func main() {
	var opts Options

	rootCmd := &cobra.Command{
		Use:   "chatline-demo [flags]",
		Short: "Chat composer with mentions and custom emoji",
		Long: `chatline-demo runs the chatline editor full screen. Submitted
messages are appended to the transcript above the input.`,
		Example: `  # Run with the built-in palette
  chatline-demo

  # Load emoji and mentions from a file and log to /tmp
  chatline-demo --config chatline.toml --log-file /tmp/chatline.log -d`,
		Args:          cobra.NoArgs,
		Version:       chatline.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	rootCmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Path to a TOML config file")
	rootCmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Write logs to this file (discarded if empty)")
	rootCmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug logging")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return err
	}
	if len(cfg.Emoji) == 0 && len(cfg.Mentions) == 0 {
		cfg.Emoji, cfg.Mentions = samplePalette()
	}

	log, closer, err := logging.Open(logging.Config{Path: opts.LogFile, Debug: opts.Debug})
	if err != nil {
		return err
	}
	defer closer.Close()

	fetcher, err := imageload.NewFetcher(imageload.FetcherOptions{
		Client:    &http.Client{Timeout: cfg.Images.Timeout},
		CacheSize: cfg.Images.CacheSize,
		MaxBytes:  cfg.Images.MaxBytes,
		MaxTries:  cfg.Images.MaxTries,
		Logger:    log.With("component", "imageload"),
	})
	if err != nil {
		return err
	}

	log.Info("starting", "version", chatline.Version(), "emoji", len(cfg.Emoji), "mentions", len(cfg.Mentions))
	m := newModel(cfg, fetcher, systemClipboard{}, log)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run program")
	}
	return nil
}

// systemClipboard adapts the OS clipboard to editor.Clipboard.
type systemClipboard struct{}

func (systemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteText(s string) error { return clipboard.WriteAll(s) }

func samplePalette() ([]config.Emoji, []config.Mention) {
	emoji := []config.Emoji{
		{Name: "parrot", URL: "https://cultofthepartyparrot.com/parrots/hd/parrot.gif"},
		{Name: "gopher", URL: "https://go.dev/blog/gopher/header.jpg"},
		{Name: "thumbsup", URL: "https://github.githubassets.com/images/icons/emoji/unicode/1f44d.png"},
	}
	mentions := []config.Mention{
		{Display: "@ann", Metadata: "<@U001>"},
		{Display: "@bob", Metadata: "<@U002>"},
		{Display: "@here", Metadata: "<!here>"},
	}
	return emoji, mentions
}
