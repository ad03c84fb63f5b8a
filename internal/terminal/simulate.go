// Package terminal produces canned output for the editor's terminal panel.
// Nothing is ever executed.
package terminal

import (
	"strings"
)

const workspaceDir = "/workspace"

const helpText = `Available commands:
  npm install <pkg>   yarn add <pkg>   brew install <formula>
  echo <text>         pwd              clear              help`

// Simulate returns the output the terminal panel shows for command.
func Simulate(command string) string {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return ""
	}

	sub := ""
	if len(parts) > 1 {
		sub = parts[1]
	}

	switch {
	case parts[0] == "npm" && (sub == "install" || sub == "i"):
		return "npm notice created a lockfile as package-lock.json."
	case parts[0] == "yarn" && sub == "add":
		return "success Saved 1 new dependency to package.json."
	case parts[0] == "brew" && sub == "install":
		return "==> Downloading https://formulae.brew.sh/..."
	case parts[0] == "echo":
		return strings.Join(parts[1:], " ")
	case parts[0] == "pwd":
		return workspaceDir
	case parts[0] == "clear":
		return ""
	case parts[0] == "help":
		return helpText
	}
	return "zsh: command not found: " + parts[0]
}
