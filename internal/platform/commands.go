package platform

import "runtime"

type Key string

const (
	Windows Key = "windows"
	Darwin  Key = "darwin"
	Linux   Key = "linux"
)

// Current maps the host GOOS onto a table key. Everything that is neither
// windows nor darwin is served by the linux column.
func Current() Key {
	return keyFor(runtime.GOOS)
}

func keyFor(goos string) Key {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return Darwin
	default:
		return Linux
	}
}

type Table map[Key]map[string][]string

// Commands launches the known applications. Unknown pairs are reported as
// unsupported rather than guessed at.
var Commands = Table{
	Windows: {
		"notepad":    {"cmd", "/c", "start", "", "notepad"},
		"calculator": {"cmd", "/c", "start", "", "calc"},
		"browser":    {"cmd", "/c", "start", "", "about:blank"},
		"vscode":     {"cmd", "/c", "code"},
		"whatsapp":   {"cmd", "/c", "start", "", "https://web.whatsapp.com"},
		"instagram":  {"cmd", "/c", "start", "", "https://instagram.com"},
	},
	Darwin: {
		"notepad":    {"open", "-a", "TextEdit"},
		"calculator": {"open", "-a", "Calculator"},
		"browser":    {"open", "-a", "Safari"},
		"vscode":     {"open", "-a", "Visual Studio Code"},
		"whatsapp":   {"open", "https://web.whatsapp.com"},
		"instagram":  {"open", "https://instagram.com"},
	},
	Linux: {
		"notepad":    {"gedit"},
		"calculator": {"gnome-calculator"},
		"browser":    {"xdg-open", "https://www.google.com"},
		"vscode":     {"code"},
		"whatsapp":   {"xdg-open", "https://web.whatsapp.com"},
		"instagram":  {"xdg-open", "https://instagram.com"},
	},
}

// Resolve returns a copy of the argv for action on key.
func (t Table) Resolve(key Key, action string) ([]string, bool) {
	argv, ok := t[key][action]
	if !ok {
		return nil, false
	}
	return append([]string(nil), argv...), true
}

// OpenerArgv is the platform's "open with the default handler" command for
// a file, directory or URL.
func OpenerArgv(key Key, target string) []string {
	switch key {
	case Windows:
		return []string{"cmd", "/c", "start", "", target}
	case Darwin:
		return []string{"open", target}
	default:
		return []string{"xdg-open", target}
	}
}

var processNames = map[string][]string{
	"notepad":    {"notepad.exe", "TextEdit"},
	"calculator": {"Calculator.exe", "Calculator", "gnome-calculator"},
	"browser":    {"chrome.exe", "msedge.exe", "firefox.exe", "Safari", "chrome", "firefox"},
	"vscode":     {"Code.exe", "code"},
}

// ProcessNames lists the process names an application is known to run as.
func ProcessNames(app string) []string {
	return append([]string(nil), processNames[app]...)
}
