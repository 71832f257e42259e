package nlu

import "strings"

type appAlias struct {
	canonical string
	forms     []string
}

var appAliases = []appAlias{
	{"notepad", []string{"notepad", "note pad"}},
	{"calculator", []string{"calculator", "calc"}},
	{"browser", []string{"browser", "chrome", "edge", "firefox"}},
	{"vscode", []string{"vs code", "vscode", "code"}},
	{"whatsapp", []string{"whatsapp", "whats app"}},
	{"instagram", []string{"instagram"}},
}

// NormalizeApp maps a spoken application name onto its canonical name.
// Unknown names come back trimmed and lower-cased.
func NormalizeApp(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range appAliases {
		if name == a.canonical {
			return a.canonical
		}
		for _, f := range a.forms {
			if name == f {
				return a.canonical
			}
		}
	}
	return name
}
