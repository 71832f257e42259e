package executor

import "strings"

// Keystroke automation goes through PowerShell and WinForms SendKeys. Text
// is pasted from the clipboard so that non-ASCII input survives.

func powershell(script string) []string {
	return []string{"powershell", "-NoProfile", "-NonInteractive", "-Command", script}
}

func typeTextArgv(text string) []string {
	return powershell(
		"Set-Clipboard -Value " + psQuote(text) + "; " +
			"Add-Type -AssemblyName System.Windows.Forms; " +
			"[System.Windows.Forms.SendKeys]::SendWait('^v')")
}

func saveAsArgv(filename string) []string {
	return powershell(
		"Add-Type -AssemblyName System.Windows.Forms; " +
			"[System.Windows.Forms.SendKeys]::SendWait('^s'); " +
			"Start-Sleep -Milliseconds 500; " +
			"[System.Windows.Forms.SendKeys]::SendWait(" + psQuote(sendKeysEscape(filename)) + "); " +
			"[System.Windows.Forms.SendKeys]::SendWait('{ENTER}')")
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// sendKeysEscape wraps SendKeys metacharacters in braces so they are typed
// literally.
func sendKeysEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '+', '^', '%', '~', '(', ')', '{', '}', '[', ']':
			b.WriteByte('{')
			b.WriteRune(r)
			b.WriteByte('}')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
