// Package command parses room messages and routes them through an ordered
// command table, or through the numeric delay mode. Parsing is a pure
// function of the message text.
package command

import (
	"strings"
)

// Command is a parsed slash command.
type Command struct {
	Name string   // command name without "/", lowercased
	Args []string // whitespace-delimited arguments after the command
	Raw  string   // original full text
}

// Parse checks if a message starts with "/" and parses it into a Command.
// Returns nil if the message is not a command.
func Parse(text string) *Command {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return nil
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return nil
	}

	name := strings.TrimPrefix(parts[0], "/")
	name = strings.ToLower(name)

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return &Command{
		Name: name,
		Args: args,
		Raw:  text,
	}
}

// Result is the outcome of one dispatch.
type Result struct {
	Text    string
	Format  string
	Command string // matched command name; empty for the default help reply
	Usage   bool   // reply is a usage hint, not an error
	Ignore  bool   // produce no reply at all
}
