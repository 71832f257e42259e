package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	argv, ok := Commands.Resolve(Linux, "notepad")
	require.True(t, ok)
	assert.Equal(t, []string{"gedit"}, argv)

	argv, ok = Commands.Resolve(Windows, "browser")
	require.True(t, ok)
	assert.Equal(t, []string{"cmd", "/c", "start", "", "about:blank"}, argv)

	argv, ok = Commands.Resolve(Linux, "nonexistent_action")
	assert.False(t, ok)
	assert.Nil(t, argv)

	_, ok = Commands.Resolve(Key("plan9"), "notepad")
	assert.False(t, ok)
}

func TestResolveReturnsCopy(t *testing.T) {
	argv, _ := Commands.Resolve(Darwin, "vscode")
	argv[0] = "rm"

	again, _ := Commands.Resolve(Darwin, "vscode")
	assert.Equal(t, "open", again[0])
}

func TestEveryPlatformKnowsTheSameApps(t *testing.T) {
	for action := range Commands[Linux] {
		for _, k := range []Key{Windows, Darwin} {
			_, ok := Commands.Resolve(k, action)
			assert.True(t, ok, "%s/%s", k, action)
		}
	}
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, Windows, keyFor("windows"))
	assert.Equal(t, Darwin, keyFor("darwin"))
	assert.Equal(t, Linux, keyFor("linux"))
	assert.Equal(t, Linux, keyFor("freebsd"))
}

func TestOpenerArgv(t *testing.T) {
	assert.Equal(t, []string{"xdg-open", "/tmp/a b"}, OpenerArgv(Linux, "/tmp/a b"))
	assert.Equal(t, []string{"open", "/tmp"}, OpenerArgv(Darwin, "/tmp"))
	assert.Equal(t, []string{"cmd", "/c", "start", "", `C:\x`}, OpenerArgv(Windows, `C:\x`))
}

func TestProcessNames(t *testing.T) {
	assert.Contains(t, ProcessNames("browser"), "firefox")
	assert.Empty(t, ProcessNames("whatsapp"))
}

type fakeProc struct {
	name       string
	nameErr    error
	termErr    error
	terminated bool
}

func (p *fakeProc) Name() (string, error) { return p.name, p.nameErr }

func (p *fakeProc) Terminate() error {
	if p.termErr != nil {
		return p.termErr
	}
	p.terminated = true
	return nil
}

func TestTerminate(t *testing.T) {
	ff := &fakeProc{name: "Firefox"}
	chrome := &fakeProc{name: "chrome.exe"}
	denied := &fakeProc{name: "firefox-bin", termErr: errors.New("access denied")}
	gone := &fakeProc{nameErr: errors.New("no such process")}
	shell := &fakeProc{name: "bash"}

	term := &Terminator{Processes: func() ([]Process, error) {
		return []Process{ff, chrome, denied, gone, shell}, nil
	}}

	n, err := term.Terminate(ProcessNames("browser"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, ff.terminated)
	assert.True(t, chrome.terminated)
	assert.False(t, shell.terminated)
}

func TestTerminateNoNames(t *testing.T) {
	term := &Terminator{Processes: func() ([]Process, error) {
		t.Fatal("process table should not be read")
		return nil, nil
	}}
	n, err := term.Terminate(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLaunchEmpty(t *testing.T) {
	assert.Error(t, Launcher{}.Launch(nil))
}
