package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contractform/pkg/widgets"
)

func (a *app) contractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Inspect or edit a contract",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the contract debug snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.contractWidget()
			if err != nil {
				return err
			}
			text, err := w.DebugView().Text()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	var (
		output string
		format string
	)
	edit := &cobra.Command{
		Use:   "edit",
		Short: "Edit the valid-from date and module comments interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.contractWidget()
			if err != nil {
				return err
			}
			if err := a.tuiRenderer(cmd.OutOrStdout()).EditContract(cmd.Context(), w); err != nil {
				return err
			}
			if output == "" {
				return nil
			}
			fixture := w.Model().Fixture()
			var data []byte
			switch strings.ToLower(format) {
			case "json":
				data, err = json.MarshalIndent(fixture, "", "  ")
			case "", "yaml":
				data, err = yaml.Marshal(fixture)
			default:
				err = fmt.Errorf("cli: unknown fixture format %q", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}
	edit.Flags().StringVarP(&output, "output", "o", "", "Write the edited contract as a fixture to this file")
	edit.Flags().StringVar(&format, "fixture-format", "yaml", "Fixture format: yaml or json")

	cmd.AddCommand(show, edit)
	return cmd
}

func (a *app) contractWidget() (*widgets.ContractWidget, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	model, err := a.contractModel(cfg)
	if err != nil {
		return nil, err
	}
	w := widgets.NewContractWidget()
	if err := w.SetModel(model); err != nil {
		return nil, err
	}
	return w, nil
}
