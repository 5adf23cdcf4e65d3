package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contractform/internal/config"
	"github.com/goliatone/go-contractform/internal/server"
	"github.com/goliatone/go-contractform/pkg/render"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

func (a *app) renderCommand() *cobra.Command {
	var (
		format  string
		variant string
		output  string
		zip     string
	)
	cmd := &cobra.Command{
		Use:       "render <contract|address|index>",
		Short:     "Render a page with one of the html, json or text renderers",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{render.PageContract, render.PageAddress, render.PageIndex},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if variant != "" {
				cfg.Theme.Variant = variant
			}

			registry, err := server.DefaultRenderers(cfg.Theme.Templates)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(format)
			if err != nil {
				return err
			}

			var page render.Page
			switch args[0] {
			case render.PageContract:
				w, err := a.contractWidget()
				if err != nil {
					return err
				}
				view, err := w.View()
				if err != nil {
					return err
				}
				page = render.ContractPage(view)
			case render.PageAddress:
				page, err = a.addressPage(cmd, cfg, zip)
				if err != nil {
					return err
				}
			case render.PageIndex:
				page = render.IndexPage()
			default:
				return fmt.Errorf("cli: unknown page %q", args[0])
			}

			selector, err := render.NewManifestSelector(cfg.Theme.Name, cfg.Theme.Variant, render.DefaultTheme())
			if err != nil {
				return err
			}
			selection, err := selector.Select(cfg.Theme.Name, cfg.Theme.Variant)
			if err != nil {
				return err
			}

			out, err := renderer.Render(cmd.Context(), page, render.RenderOptions{Theme: render.ThemeConfig(selection, nil)})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "html", "Renderer: html, json or text")
	cmd.Flags().StringVar(&variant, "variant", "", "Theme variant, e.g. dark")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&zip, "zip", "", "Prefill the first address form by looking up this postal code")
	return cmd
}

func (a *app) addressPage(cmd *cobra.Command, cfg config.Config, zip string) (render.Page, error) {
	client, closer, err := a.newClient(cfg, "")
	if err != nil {
		return render.Page{}, err
	}
	defer func() { _ = closer() }()

	forms := make([]*widgets.AddressForm, 0, len(cfg.Address.Forms))
	for _, id := range cfg.Address.Forms {
		form, err := widgets.NewAddressForm(client, widgets.WithFormID(id))
		if err != nil {
			return render.Page{}, err
		}
		defer func() { _ = form.Dispose() }()
		forms = append(forms, form)
	}
	if zip != "" && len(forms) > 0 {
		if err := forms[0].InputZip(cmd.Context(), zip); err != nil {
			return render.Page{}, err
		}
	}
	return render.AddressPage(widgets.NewAlertPanel(), forms...), nil
}
