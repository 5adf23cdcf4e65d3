// Package widgets holds the renderer independent state machines behind the
// contract and address pages.
//
// A ContractWidget owns a contract.Model and regenerates one
// AdministrativeDataWidget, one ContractModuleWidget per module and a
// DebugView on every render. Leaf widgets never mutate the model: user input
// builds a full replacement record which is emitted as a single Change to the
// parent listener. The parent applies it, re-renders and refreshes the debug
// view before returning.
//
// AddressForm models the address fieldset: zip input triggers a city lookup,
// focusing the street field triggers a street lookup, and the info action
// shows the current state in an AlertPanel.
package widgets
