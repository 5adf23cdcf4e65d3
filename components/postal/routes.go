package postal

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPaths returns the cities and streets paths under basePath.
func MountPaths(basePath string, fns ...OptionFn) (cities, streets string) {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.CitiesPath), mountPath(basePath, opts.StreetsPath)
}

// RegisterRoutes registers both lookup handlers under basePath on mux and
// returns the registered patterns.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers the handlers using a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("postal: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	cities := mountPath(basePath, opts.CitiesPath)
	streets := mountPath(basePath, opts.StreetsPath)
	mux.Handle(cities, citiesHandler(opts))
	mux.Handle(streets, streetsHandler(opts))
	return []string{cities, streets}, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
