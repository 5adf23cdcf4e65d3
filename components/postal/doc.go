// Package postal exposes the cached postal lookup as a small net/http
// component returning JSON options for the browser-side datalists.
//
// Two GET/HEAD routes are registered: the cities route takes a zip parameter
// and the streets route takes zip and city. Responses have the shape
// {"data":[{"value":"...","label":"..."}]}; an empty lookup yields an empty
// data array. Invalid input answers 400 and a failed upstream lookup 502.
package postal
