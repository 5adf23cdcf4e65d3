// Package postal resolves German postal codes to candidate cities, and
// postal code plus city pairs to candidate street names, against the
// Postdirekt PLZ lookup servlet.
//
// Successful, non-empty answers are cached in a session.Store keyed by the
// full request URL, so city and street lookups never share entries and the
// locale is part of the key. Empty answers are not cached. Transport
// failures, non-200 statuses and malformed payloads surface as *LookupError;
// they are never turned into an empty result.
//
//	client, err := postal.New(postal.WithStore(session.NewMemoryStore()))
//	cities, err := client.Cities(ctx, "97074") // ["Würzburg"]
package postal
