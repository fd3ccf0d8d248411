// Package views implements the realtime consumers behind the client's
// interactive surfaces.
//
// Each consumer follows the same scoped-acquisition discipline: it joins
// its room and attaches named listeners only once its entity identifier is
// known, guards every channel interaction against a nil or disconnected
// connection, filters inbound events by identifier match, and detaches
// exactly the listeners it attached, via the disposers returned at
// registration, on every exit path. Failing to detach causes duplicate
// delivery on the next start; the tests pin this down.
package views
