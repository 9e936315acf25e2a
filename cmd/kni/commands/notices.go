package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	devenv "kamar-notices/dev/env"
	"kamar-notices/lib/platforms/kamar"
	"kamar-notices/lib/restyutil"

	"github.com/spf13/cobra"
)

type noticesFlags struct {
	host     *string
	date     *string
	useHttp  *bool
	debug    *bool
	asJson   *bool
	dump     *string
	timezone *string
	timeout  *int
}

var flags noticesFlags

func init() {
	f := noticesCmd.Flags()
	flags = noticesFlags{
		host:     f.String("host", "", "The portal's domain or url, overrides `host` in kni.json5."),
		date:     f.String("date", "", "The date to retrieve notices for (DD/MM/YYYY), defaults to today."),
		useHttp:  f.Bool("http", false, "Use http instead of https when the host has no scheme."),
		debug:    f.Bool("debug", false, "Log the raw response body."),
		asJson:   f.Bool("json", false, "Print the notices as JSON instead of a table."),
		dump:     f.String("dump", "", "Write the full HTTP exchange to this directory (<dev_state>/... is allowed)."),
		timezone: f.String("timezone", "", "IANA zone used to determine today's date."),
		timeout:  f.Int("timeout", 0, "Request timeout in seconds, 0 for none."),
	}
	rootCmd.AddCommand(noticesCmd)
}

// applyFlags overrides config values with the flags that were explicitly set.
func applyFlags(cfg Config, cmd *cobra.Command, f noticesFlags) Config {
	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Host = *f.host
	}
	if changed("http") {
		cfg.UseHttp = *f.useHttp
	}
	if changed("debug") {
		cfg.Debug = *f.debug
	}
	if changed("timezone") {
		cfg.Timezone = *f.timezone
	}
	if changed("timeout") {
		cfg.TimeoutSeconds = *f.timeout
	}
	return cfg
}

func validateDate(date string) error {
	if date == "" {
		return nil
	}
	_, err := time.Parse(kamar.DateFormat, date)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected DD/MM/YYYY", date)
	}
	return nil
}

var noticesCmd = &cobra.Command{
	Use:   "notices [--host <portal>] [--date DD/MM/YYYY]",
	Short: "Retrieves the notices for a date.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, path, err := readConfig(cwd)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		if path != "" {
			slog.Debug("using config", "path", path)
		}
		cfg = applyFlags(cfg, cmd, flags)

		if cfg.Host == "" {
			return fmt.Errorf("no portal host, pass --host or set `host` in %s", configName)
		}
		err = validateDate(*flags.date)
		if err != nil {
			return err
		}

		opts, err := cfg.clientOptions()
		if err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
		if *flags.dump != "" {
			dir, err := devenv.ResolvePath(*flags.dump)
			if err != nil {
				return err
			}
			output, err := restyutil.NewFilesystemOutput(dir)
			if err != nil {
				return err
			}
			opts.InstrumentOutput = output
			slog.Debug("dumping http messages", "dir", dir)
		}

		client := kamar.NewClient(cfg.Host, opts)
		slog.Debug("retrieving notices", "url", client.Url(), "date", *flags.date)

		notices, err := client.Retrieve(cmd.Context(), *flags.date)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if *flags.asJson {
			err = renderJson(out, notices)
			if err != nil {
				return err
			}
		}

		if message, ok := notices.ErrorMessage(); ok {
			return fmt.Errorf("portal error for %s: %s", notices.Date, message)
		}
		if !*flags.asJson {
			items, _ := notices.Items()
			fmt.Fprintf(out, "Notices for %s\n", notices.Date)
			renderTable(out, items)
		}
		return nil
	},
}
