package postal

import (
	"context"
	"net/http"
)

// Lookup resolves cities and streets for a postal code. *postal.Client from
// pkg/postal satisfies it.
type Lookup interface {
	Cities(ctx context.Context, zip string) ([]string, error)
	Streets(ctx context.Context, zip, city string) ([]string, error)
}

// LookupResolver picks the Lookup serving r, typically the caller's session
// client.
type LookupResolver func(r *http.Request) (Lookup, error)

type GuardFunc func(r *http.Request) error

// Option is a single JSON option entry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Options struct {
	CitiesPath  string
	StreetsPath string
	ZipParam    string
	CityParam   string
	Guard       GuardFunc

	Resolver LookupResolver
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		CitiesPath:  "/api/postal/cities",
		StreetsPath: "/api/postal/streets",
		ZipParam:    "zip",
		CityParam:   "city",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.CitiesPath == "" {
		opts.CitiesPath = "/api/postal/cities"
	}
	if opts.StreetsPath == "" {
		opts.StreetsPath = "/api/postal/streets"
	}
	if opts.ZipParam == "" {
		opts.ZipParam = "zip"
	}
	if opts.CityParam == "" {
		opts.CityParam = "city"
	}
	return opts
}

func WithCitiesPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CitiesPath = path
	}
}

func WithStreetsPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.StreetsPath = path
	}
}

func WithZipParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ZipParam = name
	}
}

func WithCityParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CityParam = name
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithLookup serves every request from the same lookup.
func WithLookup(lookup Lookup) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if lookup == nil {
			o.Resolver = nil
			return
		}
		o.Resolver = func(*http.Request) (Lookup, error) { return lookup, nil }
	}
}

// WithResolver selects the lookup per request.
func WithResolver(resolver LookupResolver) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Resolver = resolver
	}
}

func toOptions(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, value := range values {
		out = append(out, Option{Value: value, Label: value})
	}
	return out
}
