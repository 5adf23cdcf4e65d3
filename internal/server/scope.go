package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-contractform/internal/config"
	"github.com/goliatone/go-contractform/pkg/contract"
	"github.com/goliatone/go-contractform/pkg/postal"
	"github.com/goliatone/go-contractform/pkg/session"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

// Scope is the per-session state.
type Scope struct {
	ID       string
	Store    session.Store
	Lookup   *postal.Client
	Forms    []*widgets.AddressForm
	Alert    *widgets.AlertPanel
	Contract *widgets.ContractWidget

	dbPath string
}

// Form returns the address form with id.
func (s *Scope) Form(id string) (*widgets.AddressForm, bool) {
	for _, form := range s.Forms {
		if form.ID() == id {
			return form, true
		}
	}
	return nil, false
}

// Dispose releases the forms, the lookup cache and the contract widget.
func (s *Scope) Dispose() error {
	var errs []error
	for _, form := range s.Forms {
		if err := form.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(s.Forms) == 0 && s.Lookup != nil {
		if err := s.Lookup.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Contract != nil {
		s.Contract.Close()
	}
	if closer, ok := s.Store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && !errors.Is(err, session.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if s.dbPath != "" {
		for _, path := range []string{s.dbPath, s.dbPath + "-wal", s.dbPath + "-shm"} {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Server) newScope(id string) (*Scope, error) {
	scope := &Scope{ID: id, Alert: widgets.NewAlertPanel()}

	switch s.cfg.Session.Store {
	case config.StoreSQLite:
		scope.dbPath = filepath.Join(s.cfg.Session.Dir, id+".db")
		store, err := session.NewSQLiteStore(scope.dbPath)
		if err != nil {
			return nil, err
		}
		scope.Store = store
	default:
		scope.Store = session.NewMemoryStore()
	}

	client, err := postal.New(
		postal.WithBaseURL(s.cfg.Postal.BaseURL),
		postal.WithLocale(s.cfg.Postal.Locale),
		postal.WithUserAgent(s.cfg.Postal.UserAgent),
		postal.WithHTTPClient(s.httpClient),
		postal.WithStore(scope.Store),
		postal.WithLogger(s.logger),
		postal.WithMetrics(s.metrics),
		postal.WithResponseSchema(s.cfg.ValidateResponses()),
	)
	if err != nil {
		_ = scope.Dispose()
		return nil, err
	}
	scope.Lookup = client

	for _, formID := range s.cfg.Address.Forms {
		form, err := widgets.NewAddressForm(client, widgets.WithFormID(formID))
		if err != nil {
			_ = scope.Dispose()
			return nil, fmt.Errorf("server: address form %s: %w", formID, err)
		}
		scope.Forms = append(scope.Forms, form)
	}

	model, err := s.initialModel()
	if err != nil {
		_ = scope.Dispose()
		return nil, err
	}
	scope.Contract = widgets.NewContractWidget()
	if err := scope.Contract.SetModel(model); err != nil {
		_ = scope.Dispose()
		return nil, err
	}
	return scope, nil
}

func (s *Server) initialModel() (*contract.Model, error) {
	if s.cfg.Contract.Fixture == "" {
		return contract.InitialModel(), nil
	}
	model, err := contract.LoadFixtureFile(s.cfg.Contract.Fixture)
	if err != nil {
		return nil, fmt.Errorf("server: load contract fixture: %w", err)
	}
	return model, nil
}
