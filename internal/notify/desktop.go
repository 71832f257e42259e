package notify

import (
	"fmt"
	"os/exec"
	"strings"

	"nova/internal/platform"
)

func desktopArgv(key platform.Key, title, msg string) ([]string, bool) {
	switch key {
	case platform.Linux:
		return []string{"notify-send", "-a", "nova", title, msg}, true
	case platform.Darwin:
		script := fmt.Sprintf("display notification %s with title %s", appleQuote(msg), appleQuote(title))
		return []string{"osascript", "-e", script}, true
	case platform.Windows:
		script := fmt.Sprintf(
			"[reflection.assembly]::loadwithpartialname('System.Windows.Forms') | Out-Null; "+
				"$n = New-Object System.Windows.Forms.NotifyIcon; "+
				"$n.Icon = [System.Drawing.SystemIcons]::Information; $n.Visible = $true; "+
				"$n.ShowBalloonTip(5000, '%s', '%s', 'Info'); Start-Sleep -Seconds 6; $n.Dispose()",
			psQuote(title), psQuote(msg))
		return []string{"powershell", "-NoProfile", "-Command", script}, true
	}
	return nil, false
}

// Desktop shows a notification through the host's notifier.
func Desktop(title, msg string) error {
	argv, ok := desktopArgv(platform.Current(), title, msg)
	if !ok {
		return fmt.Errorf("desktop notifications are not supported on this OS")
	}
	if out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func appleQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
