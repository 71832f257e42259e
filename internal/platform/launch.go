package platform

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os/exec"
	"strings"
)

// Launcher starts argv without waiting for it. The child is reaped in the
// background, its output is discarded.
type Launcher struct{}

func (Launcher) Launch(argv []string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	log.Debug("Launched", "argv", argv, "pid", cmd.Process.Pid)

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// Runner runs argv to completion. Used for short automation scripts whose
// failure has to be reported back.
type Runner struct{}

func (Runner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
