package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"trackly/internal/cli"
	"trackly/internal/config"
	"trackly/internal/core"
	"trackly/internal/export"
	"trackly/internal/ledger"
	"trackly/internal/log"
	"trackly/internal/services"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

type command struct {
	app *cli.App
	out io.Writer
	now func() time.Time
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentCLI, stderr)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	app, err := cli.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, "open ledger:", err)
		return exitError
	}
	defer app.Close()

	c := &command{app: app, out: stdout, now: time.Now}
	name, rest := args[0], args[1:]

	var cmdErr error
	switch name {
	case "add":
		cmdErr = c.add(ctx, rest)
	case "rm":
		cmdErr = c.remove(ctx, rest)
	case "ls":
		cmdErr = c.list()
	case "summary":
		cmdErr = c.summary()
	case "categories":
		cmdErr = c.categories()
	case "export":
		cmdErr = c.export(ctx, rest)
	case "theme":
		cmdErr = c.theme(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage)
		return exitUsage
	}

	switch {
	case cmdErr == nil:
		return exitOK
	case errors.Is(cmdErr, errUsage), errors.Is(cmdErr, flag.ErrHelp):
		fmt.Fprint(stderr, usage)
		return exitUsage
	default:
		fmt.Fprintln(stderr, "error:", cmdErr)
		return exitError
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *command) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	var in ledger.Input
	fs.StringVar(&in.Title, "title", "", "expense title")
	fs.StringVar(&in.Amount, "amount", "", "amount, e.g. 3.50")
	fs.StringVar(&in.Category, "category", "", "category code")
	fs.StringVar(&in.Date, "date", "", "date, defaults to today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := c.app.Service.CreateExpense(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "added %d: %s %s (%s) on %s\n", e.ID, e.Title, e.Amount.USD(), e.Category.Label(), e.Date)
	return nil
}

func (c *command) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expense id %q", args[0])
	}
	if !c.app.Service.DeleteExpense(ctx, id) {
		return fmt.Errorf("expense %d not found", id)
	}
	fmt.Fprintf(c.out, "removed %d\n", id)
	return nil
}

func (c *command) list() error {
	expenses := c.app.Ledger().SortedByDateDesc()
	if len(expenses) == 0 {
		fmt.Fprintln(c.out, "No expenses recorded")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tCATEGORY\tAMOUNT")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Title, e.Category.Label(), e.Amount.USD())
	}
	return tw.Flush()
}

func (c *command) summary() error {
	s := c.app.Ledger().Summary()
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total\t%s\n", s.Total.USD())
	fmt.Fprintf(tw, "Count\t%d\n", s.Count)
	fmt.Fprintf(tw, "Average\t%s\n", s.Average.USD())
	fmt.Fprintf(tw, "Largest\t%s\n", s.Largest.USD())
	for _, ct := range c.app.Ledger().CategoryTotals() {
		fmt.Fprintf(tw, "  %s\t%s\n", ct.Label, ct.Total.USD())
	}
	return tw.Flush()
}

func (c *command) categories() error {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, cat := range core.Categories() {
		fmt.Fprintf(tw, "%s\t%s\n", cat, cat.Label())
	}
	return tw.Flush()
}

func (c *command) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	format := fs.String("format", "csv", "csv or xlsx")
	out := fs.String("o", "", "output path, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var exp services.Exporter
	switch *format {
	case "csv":
		exp = export.CSV{}
	case "xlsx":
		exp = export.XLSX{}
	default:
		return fmt.Errorf("unknown export format %q", *format)
	}

	if *out == "-" {
		return c.app.Service.Export(ctx, c.out, exp)
	}

	path := *out
	if path == "" {
		path = export.Filename(c.now(), *format)
	}
	if c.app.Ledger().Len() == 0 {
		return core.ErrEmptyLedger
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.app.Service.Export(ctx, f, exp); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(c.out, "wrote %s\n", path)
	return nil
}

func (c *command) theme(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		fmt.Fprintln(c.out, c.app.Theme.Load(ctx))
		return nil
	case len(args) == 1 && args[0] == "toggle":
		next, err := c.app.Theme.Toggle(ctx)
		if err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
		fmt.Fprintln(c.out, next)
		return nil
	}
	return errUsage
}
