package platform

import (
	"fmt"
	log "log/slog"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Terminator sends a terminate signal to running processes by name.
type Terminator struct {
	// Processes is swapped out in tests.
	Processes func() ([]Process, error)
}

type Process interface {
	Name() (string, error)
	Terminate() error
}

func NewTerminator() *Terminator {
	return &Terminator{Processes: systemProcesses}
}

func systemProcesses() ([]Process, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]Process, len(procs))
	for i, p := range procs {
		out[i] = p
	}
	return out, nil
}

// Terminate signals every process whose name contains one of names,
// ignoring case, and returns how many were signalled. Processes that
// vanish or refuse the signal are skipped.
func (t *Terminator) Terminate(names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	procs, err := t.Processes()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil || pname == "" {
			continue
		}
		if !matchesAny(pname, names) {
			continue
		}
		if err := p.Terminate(); err != nil {
			log.Debug("Terminate failed", "name", pname, "err", err)
			continue
		}
		n++
	}
	return n, nil
}

func matchesAny(pname string, names []string) bool {
	pname = strings.ToLower(pname)
	for _, n := range names {
		if strings.Contains(pname, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
