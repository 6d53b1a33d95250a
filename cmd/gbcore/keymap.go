package main

import "strings"

// keyBinding names one entry in the documented key-binding table. No
// interactive frontend is wired into this build (the window/input layer
// is an external collaborator, per the core's scope), so this table is
// consumed only by --help text, the way the teacher's own cli.Runner
// owns its binding table as a single source of truth even where parts
// of it are display-only.
type keyBinding struct {
	Key    string
	Action string
}

var keyBindings = []keyBinding{
	{"Arrow keys", "D-pad"},
	{"Z", "A button"},
	{"X", "B button"},
	{"Return", "Start"},
	{"Tab", "Select"},
	{"Escape", "Exit"},
	{"F5", "Save state"},
	{"F7", "Load state"},
	{"Pause", "Break into debugger"},
}

// keyBindingsHelp renders the key-binding table for the CLI's --help
// text; no interactive frontend is wired in to consume it directly.
func keyBindingsHelp() string {
	var b strings.Builder
	b.WriteString("Key bindings (for frontends that wire up input):\n")
	for _, kb := range keyBindings {
		b.WriteString("  " + kb.Key + "\t" + kb.Action + "\n")
	}
	return b.String()
}
