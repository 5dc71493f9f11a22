// Package tui implements the interactive chat interface for GLOW.
//
// The interface is a single conversation pane built on Bubbletea: a
// scrollable transcript viewport, a one-line input field, and a status
// footer. Goals typed into the input are handed to a submit callback; the
// assistant's replies arrive asynchronously as AssistantReplyMsg values
// sent through the running tea.Program.
package tui
