package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-contractform/pkg/postal"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

const doneOption = "Fertig"

// EditAddress walks through one address form: the zip prefills the city,
// the city selection loads street suggestions, and the final state is
// returned. Lookup failures are reported and the user continues manually.
func (r *Renderer) EditAddress(ctx context.Context, form *widgets.AddressForm) (widgets.AddressRecord, error) {
	zip, err := r.driver.Input(ctx, InputConfig{
		Message:   "PLZ",
		Validator: validateZip,
	})
	if err != nil {
		return widgets.AddressRecord{}, err
	}
	if err := form.InputZip(ctx, strings.TrimSpace(zip)); err != nil {
		if err := r.reportError(ctx, err); err != nil {
			return widgets.AddressRecord{}, err
		}
	}

	if err := r.chooseCity(ctx, form); err != nil {
		return widgets.AddressRecord{}, err
	}

	if err := form.FocusStreet(ctx); err != nil {
		if err := r.reportError(ctx, err); err != nil {
			return widgets.AddressRecord{}, err
		}
	}
	street, err := r.driver.Input(ctx, InputConfig{
		Message:   "Straße",
		Suggest:   form.Streets(),
		Validator: required("Straße"),
	})
	if err != nil {
		return widgets.AddressRecord{}, err
	}
	form.SetStreet(street)

	houseNumber, err := r.driver.Input(ctx, InputConfig{
		Message:   "Hausnummer",
		Validator: required("Hausnummer"),
	})
	if err != nil {
		return widgets.AddressRecord{}, err
	}
	form.SetHouseNumber(houseNumber)

	show, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Info anzeigen?"})
	if err != nil {
		return widgets.AddressRecord{}, err
	}
	if show {
		if err := form.ShowInfo(); err != nil {
			return widgets.AddressRecord{}, err
		}
		alert := form.Alert()
		if err := r.info(ctx, fmt.Sprintf("%s: %s", alert.Title(), alert.Code())); err != nil {
			return widgets.AddressRecord{}, err
		}
		form.CloseAlert()
	}

	return form.State(), nil
}

func (r *Renderer) chooseCity(ctx context.Context, form *widgets.AddressForm) error {
	cities := form.Cities()
	switch len(cities) {
	case 0:
		city, err := r.driver.Input(ctx, InputConfig{
			Message:   "Stadt",
			Validator: required("Stadt"),
		})
		if err != nil {
			return err
		}
		form.SetCity(city)
	case 1:
		return r.info(ctx, "Stadt: "+cities[0])
	default:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: "Stadt",
			Options: cities,
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(cities) {
			form.SetCity(cities[idx])
		}
	}
	return nil
}

// EditContract lets the user edit the valid-from date and module comments
// until they pick the done entry, then prints the debug snapshot.
func (r *Renderer) EditContract(ctx context.Context, w *widgets.ContractWidget) error {
	for {
		children := w.Children()
		validFrom := children.AdministrativeData.Props().ValidFrom

		options := make([]string, 0, len(children.Modules)+2)
		options = append(options, fmt.Sprintf("Valid from (%s)", orDash(validFrom)))
		for _, module := range children.Modules {
			props := module.Props()
			options = append(options, fmt.Sprintf("%s: %s", props.Name, truncate(props.Comments, 40)))
		}
		options = append(options, doneOption)

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: "Contract",
			Options: options,
		})
		if err != nil {
			return err
		}

		switch {
		case idx == 0:
			value, err := r.driver.Input(ctx, InputConfig{
				Message:   "Valid from",
				Default:   validFrom,
				Validator: validateDate,
			})
			if err != nil {
				return err
			}
			if err := children.AdministrativeData.Input(value); err != nil {
				return err
			}
		case idx > 0 && idx <= len(children.Modules):
			module := children.Modules[idx-1]
			comments, err := r.driver.TextArea(ctx, TextAreaConfig{
				Message: module.Props().Name,
				Default: module.Props().Comments,
			})
			if err != nil {
				return err
			}
			if err := module.Input(comments); err != nil {
				return err
			}
		default:
			debug, err := w.DebugView().Text()
			if err != nil {
				return err
			}
			return r.info(ctx, debug)
		}
	}
}

func (r *Renderer) reportError(ctx context.Context, err error) error {
	var lookupErr *postal.LookupError
	if errors.As(err, &lookupErr) {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+lookupErr.Error())
	}
	return err
}

func validateZip(value string) error {
	if !postal.IsValidZip(strings.TrimSpace(value)) {
		return postal.ErrInvalidZip
	}
	return nil
}

func validateDate(value string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("tui: expected YYYY-MM-DD: %w", err)
	}
	return nil
}

func required(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("tui: %s is required", label)
		}
		return nil
	}
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
