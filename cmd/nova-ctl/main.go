package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"nova/internal/ipc"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: nova-ctl [--socket path] trigger | say <text...>")
	cli.PrintDefaults()
}

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Usage = usage
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var msg ipc.ControlMessage
	switch args[0] {
	case ipc.CmdTrigger:
		msg = ipc.ControlMessage{Cmd: ipc.CmdTrigger}
	case ipc.CmdSay:
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		if text == "" {
			usage()
			os.Exit(2)
		}
		msg = ipc.ControlMessage{Cmd: ipc.CmdSay, Text: text}
	default:
		usage()
		os.Exit(2)
	}

	if err := ipc.Send(*socket, msg); err != nil {
		fmt.Println("nova-daemon not running:", err)
		os.Exit(1)
	}
}
