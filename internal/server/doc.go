// Package server serves the contract and address pages over net/http.
//
// Every browser session owns a Scope: a postal lookup client with its own
// cache, the address forms, the page alert and a contract widget. Scopes are
// keyed by a ULID held in a cookie and disposed on idle timeout or when the
// session is closed, which clears the lookup cache.
package server
