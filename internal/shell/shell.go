// Package shell is an interactive prompt for poking at the EC through the
// same feature layer the daemon uses.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"github.com/micro-nova/msiec-go/internal/dump"
	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
)

// Target is what the shell operates on.
type Target interface {
	Info() models.Info
	List(ctx context.Context, includeHidden bool) []models.FeatureInfo
	Get(ctx context.Context, name string) (models.FeatureInfo, error)
	Set(ctx context.Context, name, value, source string) (models.FeatureInfo, error)
	Dump(ctx context.Context) (dump.Image, error)
	Exclusive(ctx context.Context, fn func(hardware.Driver) error) error
}

const sourceShell = "write"

// Shell runs commands against a Target.
type Shell struct {
	target Target
	names  []string
	out    io.Writer
	last   *dump.Image // previous dump, for diff
}

// New creates a shell writing to out. names feeds tab completion.
func New(t Target, names []string, out io.Writer) *Shell {
	return &Shell{target: t, names: names, out: out}
}

// Run reads commands until exit, EOF or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "msiec> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    s.completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	s.out = rl.Stdout()

	info := s.target.Info()
	fmt.Fprintf(s.out, "%s (%s) via %s. Type 'help' for commands.\n", info.Model, info.Firmware, info.Transport)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return nil // EOF
		}
		if !s.Exec(ctx, line) {
			return nil
		}
	}
}

func (s *Shell) completer() *readline.PrefixCompleter {
	features := readline.PcItemDynamic(func(string) []string { return s.names })
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("info"),
		readline.PcItem("list", readline.PcItem("all")),
		readline.PcItem("get", features),
		readline.PcItem("set", features),
		readline.PcItem("dump"),
		readline.PcItem("diff"),
		readline.PcItem("peek"),
		readline.PcItem("exit"),
	)
}

// Exec runs one command line and reports whether the shell should continue.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "info":
		s.cmdInfo()
	case "list", "ls":
		s.cmdList(ctx, args)
	case "get", "g":
		s.cmdGet(ctx, args)
	case "set", "s":
		s.cmdSet(ctx, args)
	case "dump":
		s.cmdDump(ctx)
	case "diff":
		s.cmdDiff(ctx)
	case "peek":
		s.cmdPeek(ctx, args)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `Commands:
  info               - Show model, firmware and transport
  list [all]         - List features with values (all includes hidden)
  get <name>         - Read a feature
  set <name> <value> - Write a feature
  dump               - Hex dump of all registers
  diff               - Registers changed since the previous dump or diff
  peek <reg>         - Read one raw register, e.g. peek 0xf2
  help               - Show this help
  exit               - Leave the shell`)
}

func (s *Shell) cmdInfo() {
	info := s.target.Info()
	fmt.Fprintf(s.out, "model:     %s\nfirmware:  %s\ntransport: %s\nversion:   %s\n",
		info.Model, info.Firmware, info.Transport, info.Version)
}

func (s *Shell) cmdList(ctx context.Context, args []string) {
	all := len(args) > 0 && args[0] == "all"
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, fi := range s.target.List(ctx, all) {
		value := fi.Value
		switch {
		case fi.Error != "":
			value = "error: " + fi.Error
		case fi.Status != "supported":
			value = "(" + fi.Status + ")"
		case !fi.Readable:
			value = "(write-only)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", fi.Name, strings.ReplaceAll(value, "\n", " "))
	}
	tw.Flush()
}

func (s *Shell) cmdGet(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: get <name>")
		return
	}
	fi, err := s.target.Get(ctx, args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, fi.Value)
}

func (s *Shell) cmdSet(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: set <name> <value>")
		return
	}
	fi, err := s.target.Set(ctx, args[0], strings.Join(args[1:], " "), sourceShell)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if fi.Readable {
		fmt.Fprintf(s.out, "%s = %s\n", fi.Name, fi.Value)
	} else {
		fmt.Fprintln(s.out, "OK")
	}
}

func (s *Shell) capture(ctx context.Context) (dump.Image, bool) {
	img, err := s.target.Dump(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return dump.Image{}, false
	}
	return img, true
}

func (s *Shell) cmdDump(ctx context.Context) {
	img, ok := s.capture(ctx)
	if !ok {
		return
	}
	_ = dump.Hexdump(s.out, img)
	s.last = &img
}

func (s *Shell) cmdDiff(ctx context.Context) {
	img, ok := s.capture(ctx)
	if !ok {
		return
	}
	prev := s.last
	s.last = &img
	if prev == nil {
		fmt.Fprintln(s.out, "Baseline captured; run diff again to compare")
		return
	}
	changes := dump.Diff(*prev, img)
	if len(changes) == 0 {
		fmt.Fprintln(s.out, "No changes")
		return
	}
	for _, c := range changes {
		fmt.Fprintln(s.out, c)
	}
}

func (s *Shell) cmdPeek(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: peek <reg>")
		return
	}
	n, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		fmt.Fprintf(s.out, "Error: bad register %q\n", args[0])
		return
	}
	var v byte
	err = s.target.Exclusive(ctx, func(drv hardware.Driver) error {
		var err error
		v, err = hardware.ReadByte(ctx, drv, hardware.At(hardware.Register(n)))
		return err
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "0x%02x = 0x%02x (%d)\n", n, v, v)
}
