// Package hooks registers the lifecycle hooks in Claude Code's
// settings.json.
//
// The merge is scoped: exactly three entries under "hooks" belong to the
// installer and are replaced wholesale; every other key, inside or outside
// "hooks", keeps its position and its value untouched. MergeHooks is a pure
// function over bytes; Injector adds the file handling around it.
package hooks

import (
	"strconv"
)

// Event is a Claude Code hook event name
type Event string

const (
	EventSubagentStart Event = "SubagentStart"
	EventSubagentStop  Event = "SubagentStop"
	EventPostToolUse   Event = "PostToolUse"
)

// ManagedEvents are the hook keys the installer owns, in write order
var ManagedEvents = []Event{EventSubagentStart, EventSubagentStop, EventPostToolUse}

// Spec is one managed hook registration
type Spec struct {
	Event   Event
	Matcher string
	Command string
	Timeout int
	Async   bool
}

// Entry is a matcher group in settings.json
type Entry struct {
	Matcher string    `json:"matcher"`
	Hooks   []Command `json:"hooks"`
}

// Command is a single hook command in settings.json
type Command struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout"`
	Async   bool   `json:"async"`
}

// Value is the JSON value written under hooks.<Event>
func (s Spec) Value() []Entry {
	return []Entry{{
		Matcher: s.Matcher,
		Hooks: []Command{{
			Type:    "command",
			Command: s.Command,
			Timeout: s.Timeout,
			Async:   s.Async,
		}},
	}}
}

// DefaultSpecs returns the three managed registrations for one command.
// File edits only report on Write and Edit tool calls.
func DefaultSpecs(command string, timeout int, async bool) []Spec {
	return []Spec{
		{Event: EventSubagentStart, Matcher: "", Command: command, Timeout: timeout, Async: async},
		{Event: EventSubagentStop, Matcher: "", Command: command, Timeout: timeout, Async: async},
		{Event: EventPostToolUse, Matcher: "Write|Edit", Command: command, Timeout: timeout, Async: async},
	}
}

// HookCommand is the shell command that runs script with interpreter
func HookCommand(interpreter, script string) string {
	quoted := strconv.Quote(script)
	if interpreter == "" {
		return quoted
	}
	return interpreter + " " + quoted
}
