// Command msiec reads and writes MSI embedded controller features directly,
// without going through msiecd.
//
// Usage:
//
//	msiec <command> [flags] [args]
//
// Commands:
//
//	models   List the supported models and firmware versions
//	info     Show the detected model and firmware
//	list     List features and their values
//	get      Read one feature
//	set      Write one feature
//	dump     Capture all EC registers
//	shell    Interactive prompt
//
// Examples:
//
//	# Switch to the silent fan profile
//	msiec set fan_mode silent
//
//	# Save a register dump and compare against it later
//	msiec dump -o before.cbor
//	msiec dump -diff before.cbor
//
//	# Explore a dump taken on another machine
//	msiec shell -transport dump -dump-file 17F2.cbor
package main

import (
	"fmt"
	"os"
)

const usage = `msiec - MSI embedded controller tool

Usage:
  msiec <command> [flags] [args]

Commands:
  models   List the supported models and firmware versions
  info     Show the detected model and firmware
  list     List features and their values
  get      Read one feature
  set      Write one feature
  dump     Capture all EC registers
  shell    Interactive prompt

Use "msiec <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "models":
		err = runModels(args)
	case "info":
		err = runInfo(args)
	case "list", "ls":
		err = runList(args)
	case "get":
		err = runGet(args)
	case "set":
		err = runSet(args)
	case "dump":
		err = runDump(args)
	case "shell":
		err = runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
