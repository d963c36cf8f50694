package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/micro-nova/msiec-go/internal/config"
	"github.com/micro-nova/msiec-go/internal/controller"
	"github.com/micro-nova/msiec-go/internal/dump"
	"github.com/micro-nova/msiec-go/internal/events"
	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/identity"
	"github.com/micro-nova/msiec-go/internal/profile"
	"github.com/micro-nova/msiec-go/internal/shell"
	"github.com/micro-nova/msiec-go/internal/transport"
)

// ecFlags are shared by every command that talks to the EC.
type ecFlags struct {
	config    *string
	transport *string
	dumpFile  *string
	debug     *bool
}

func addECFlags(fs *flag.FlagSet) ecFlags {
	return ecFlags{
		config:    fs.String("config", config.DefaultSettingsPath, "settings file"),
		transport: fs.String("transport", "", "EC transport: ec_sys, port, dump or mock"),
		dumpFile:  fs.String("dump-file", "", "register dump for the dump transport"),
		debug:     fs.Bool("debug", false, "enable debug logging"),
	}
}

func newFlagSet(name, args, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "msiec %s - %s\n\nUsage:\n  msiec %s [flags] %s\n\nFlags:\n", name, help, name, args)
		fs.PrintDefaults()
	}
	return fs
}

// session is an open EC with its model configuration. Values written from
// the command line are not persisted; msiecd owns the saved state.
type session struct {
	hw   hardware.Driver
	ctrl *controller.Controller
}

func (f ecFlags) open(ctx context.Context) (*session, error) {
	level := slog.LevelWarn
	if *f.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settings, err := config.LoadSettings(*f.config)
	if err != nil {
		return nil, err
	}
	if *f.transport != "" {
		settings.Transport = *f.transport
	}
	if *f.dumpFile != "" {
		settings.DumpFile = *f.dumpFile
		if *f.transport == "" {
			settings.Transport = config.TransportDump
		}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	hw, err := transport.Open(ctx, settings)
	if err != nil {
		return nil, err
	}
	active, err := profile.Load(ctx, hw)
	if err != nil {
		hw.Close()
		return nil, err
	}
	ctrl, err := controller.New(hw, active, config.NewMemStore(), events.NewBus())
	if err != nil {
		hw.Close()
		return nil, err
	}
	return &session{hw: hw, ctrl: ctrl}, nil
}

func (s *session) Close() error { return s.hw.Close() }

func runModels(args []string) error {
	fs := newFlagSet("models", "[model]", "List the supported models and firmware versions")
	asJSON := fs.Bool("json", false, "print the full register maps as JSON")
	check := fs.Bool("check", false, "validate every register map and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	models := profile.Registry()
	if *check {
		if err := profile.ValidateRegistry(models); err != nil {
			return err
		}
		fmt.Printf("%d models OK\n", len(models))
		return nil
	}
	if fs.NArg() > 0 {
		m, ok := profile.Lookup(fs.Arg(0))
		if !ok {
			return fmt.Errorf("no model named %q", fs.Arg(0))
		}
		models, *asJSON = []profile.Model{m}, true
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(models)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tFIRMWARE")
	for _, m := range models {
		fmt.Fprintf(tw, "%s\t%s\n", m.Name, strings.Join(m.AllowedFirmware, ", "))
	}
	return tw.Flush()
}

func runInfo(args []string) error {
	fs := newFlagSet("info", "", "Show the detected model and firmware")
	ec := addECFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := ec.open(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	info := s.ctrl.Info()
	host := identity.Get()
	if host.Product != "" {
		fmt.Printf("machine:   %s %s\n", host.Vendor, host.Product)
	}
	fmt.Printf("model:     %s\nfirmware:  %s\ntransport: %s\nversion:   %s\n",
		info.Model, info.Firmware, info.Transport, info.Version)
	if fi, err := s.ctrl.Get(context.Background(), "fw_release_date"); err == nil {
		fmt.Printf("released:  %s\n", fi.Value)
	}
	return nil
}

func runList(args []string) error {
	fs := newFlagSet("list", "", "List features and their values")
	ec := addECFlags(fs)
	all := fs.Bool("all", false, "include features hidden on this model")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := ec.open(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	features := s.ctrl.List(context.Background(), *all)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(features)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, fi := range features {
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
	return tw.Flush()
}

func runGet(args []string) error {
	fs := newFlagSet("get", "<name>", "Read one feature")
	ec := addECFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("feature name required")
	}
	s, err := ec.open(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	fi, err := s.ctrl.Get(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(fi.Value)
	return nil
}

func runSet(args []string) error {
	fs := newFlagSet("set", "<name> <value>", "Write one feature")
	ec := addECFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("feature name and value required")
	}
	s, err := ec.open(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	fi, err := s.ctrl.Set(context.Background(), fs.Arg(0), fs.Arg(1), controller.SourceWrite)
	if err != nil {
		return err
	}
	if fi.Readable {
		fmt.Println(fi.Value)
	}
	return nil
}

func runDump(args []string) error {
	fs := newFlagSet("dump", "", "Capture all EC registers")
	ec := addECFlags(fs)
	out := fs.String("o", "", "write the dump to this file (CBOR)")
	hex := fs.Bool("hex", false, "print a hex table (default when -o is not given)")
	diff := fs.String("diff", "", "compare against a saved dump")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := ec.open(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	img, err := s.ctrl.Dump(context.Background())
	if err != nil {
		return err
	}
	if len(img.Unreadable) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d registers could not be read\n", len(img.Unreadable))
	}

	if *diff != "" {
		before, err := dump.ReadFile(*diff)
		if err != nil {
			return err
		}
		for _, c := range dump.Diff(before, img) {
			fmt.Println(c)
		}
	}
	if *out != "" {
		if err := dump.WriteFile(*out, img); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%s)\n", *out, img.Firmware)
	}
	if *hex || (*out == "" && *diff == "") {
		return dump.Hexdump(os.Stdout, img)
	}
	return nil
}

func runShell(args []string) error {
	fs := newFlagSet("shell", "", "Interactive prompt")
	ec := addECFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := ec.open(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	var names []string
	for _, f := range s.ctrl.Features().Visible() {
		names = append(names, f.Name())
	}
	return shell.New(s.ctrl, names, os.Stdout).Run(context.Background())
}
