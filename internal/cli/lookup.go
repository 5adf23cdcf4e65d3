package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contractform/pkg/postal"
)

func (a *app) lookupCommand() *cobra.Command {
	var (
		cachePath string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Query the postal lookup service",
	}
	cmd.PersistentFlags().StringVar(&cachePath, "cache", "", "SQLite file caching lookups between runs")
	cmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "Output format: text or json")

	cities := &cobra.Command{
		Use:   "cities <zip>",
		Short: "List the cities for a postal code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zip := strings.TrimSpace(args[0])
			if !postal.IsValidZip(zip) {
				return postal.ErrInvalidZip
			}
			return a.runLookup(cmd, cachePath, format, func(client *postal.Client) ([]string, error) {
				return client.Cities(cmd.Context(), zip)
			})
		},
	}

	streets := &cobra.Command{
		Use:   "streets <zip> <city>",
		Short: "List the streets of a city within a postal code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			zip := strings.TrimSpace(args[0])
			if !postal.IsValidZip(zip) {
				return postal.ErrInvalidZip
			}
			city := strings.TrimSpace(args[1])
			return a.runLookup(cmd, cachePath, format, func(client *postal.Client) ([]string, error) {
				return client.Streets(cmd.Context(), zip, city)
			})
		},
	}

	cmd.AddCommand(cities, streets)
	return cmd
}

func (a *app) runLookup(cmd *cobra.Command, cachePath, format string, query func(*postal.Client) ([]string, error)) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	client, closer, err := a.newClient(cfg, cachePath)
	if err != nil {
		return err
	}
	defer func() { _ = closer() }()

	values, err := query(client)
	if err != nil {
		return err
	}
	return printValues(cmd.OutOrStdout(), format, values)
}

func printValues(out io.Writer, format string, values []string) error {
	switch strings.ToLower(format) {
	case "json":
		if values == nil {
			values = []string{}
		}
		payload, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(payload))
		return err
	case "", "text":
		for _, value := range values {
			if _, err := fmt.Fprintln(out, value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("cli: unknown format %q", format)
	}
}
