// Package contract defines the in-memory contract tree edited by the contract
// widgets: a contract owns one administrative-data record and an
// insertion-ordered set of contract modules keyed by their module key.
//
// The model carries no rendering concerns. Widgets in pkg/widgets mutate it in
// response to change messages and renderers read it through Model.DebugInfo
// or the typed accessors.
package contract
