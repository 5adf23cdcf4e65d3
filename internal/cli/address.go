package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contractform/pkg/widgets"
)

func (a *app) addressCommand() *cobra.Command {
	var cachePath string
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Fill in an address interactively with postal lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			client, closer, err := a.newClient(cfg, cachePath)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			form, err := widgets.NewAddressForm(client)
			if err != nil {
				return err
			}
			defer func() { _ = form.Dispose() }()

			record, err := a.tuiRenderer(cmd.OutOrStdout()).EditAddress(cmd.Context(), form)
			if err != nil {
				return err
			}
			payload, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return err
		},
	}
	cmd.Flags().StringVar(&cachePath, "cache", "", "SQLite file caching lookups for this session")
	return cmd
}
