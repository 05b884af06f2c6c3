// Package ui implements the operator dashboard using bubbletea's Elm architecture.
//
// The TUI moves between three views driven by the session controller:
//  1. [LoginView] : Team name and clearance code form; inputs are disabled while the uplink is pending
//  2. [DashboardView] : Team header, start gate, gateway base URL and the endpoint catalog
//  3. [VictoryView] : Escape key display with "next mission" reset
//
// The [Model] implements bubbletea's Init/Update/View pattern, receiving messages via the Msg union type.
// Controller events arrive through a command that blocks on [Controller.Events] and is re-armed after
// every event, so victory detected by the poller reaches the screen without polling from the UI.
// The view is always derived from the controller's snapshot, never from the event payload.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
