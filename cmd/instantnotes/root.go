// cmd/instantnotes/root.go
package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vinizap/instantnotes/app"
	"github.com/vinizap/instantnotes/client"
	"github.com/vinizap/instantnotes/config"
	"github.com/vinizap/instantnotes/logging"
	"github.com/vinizap/instantnotes/store"
)

// cli carries what every subcommand needs once the root command ran.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	baseURL  string
	timeout  time.Duration
	logLevel string
	envFile  string

	log zerolog.Logger
	app *app.App
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "instantnotes",
		Short: "Take quick notes stored on a notes backend",
		Long: `instantnotes lists, shows, creates, edits and deletes notes kept on a
REST notes backend. Every command loads the current list first.

Settings come from flags, then NOTES_* environment variables, then a .env file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.baseURL, "base-url", config.DefaultBaseURL, "notes collection URL")
	flags.DurationVar(&c.timeout, "timeout", config.DefaultTimeout, "request timeout")
	flags.StringVar(&c.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&c.envFile, "env-file", ".env", "dotenv file to read")

	root.AddCommand(
		newListCmd(c),
		newShowCmd(c),
		newNewCmd(c),
		newEditCmd(c),
		newDeleteCmd(c),
	)
	return root
}

// setup resolves settings, wires the client, store and app, and loads the
// note list.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("base-url") {
		c.baseURL = cfg.BaseURL
	}
	if !flags.Changed("timeout") {
		c.timeout = cfg.Timeout
	}
	if !flags.Changed("log-level") {
		c.logLevel = cfg.LogLevel
	}

	c.log = logging.New(c.logLevel, c.errOut)

	api, err := client.New(c.baseURL,
		client.WithTimeout(c.timeout),
		client.WithLogger(c.log.With().Str("component", "client").Logger()),
	)
	if err != nil {
		return err
	}
	c.app = app.New(api, store.New(), c.log)

	if err := c.app.Refresh(cmd.Context()); err != nil {
		return c.fail(err, "")
	}
	return nil
}

// fail prints the alert for err and returns err for the exit status. A
// non-empty message replaces the alert's message unless the device is
// offline.
func (c *cli) fail(err error, message string) error {
	alert := app.AlertFor(err)
	if message != "" && !errors.Is(err, client.ErrOffline) {
		alert.Message = message
	}
	c.log.Debug().Err(err).Msg("command failed")
	fmt.Fprintf(c.errOut, "%s\n%s\n", alert.Title, alert.Message)
	return err
}
