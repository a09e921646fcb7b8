package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"spendbook/internal/auth"
	"spendbook/internal/cli"
	"spendbook/internal/config"
	"spendbook/internal/core"
	"spendbook/internal/export"
	csvexport "spendbook/internal/export/csv"
	"spendbook/internal/export/xlsx"
	"spendbook/internal/session"
)

const usage = `Usage: spendbook <command> [flags]

Commands:
  register   create a new account
  list       list your expenses
  add        add a new expense
  update     update an expense by id
  delete     delete an expense by id (asks for confirmation)
  export     export your expenses to .xlsx or .csv

Run 'spendbook <command> -h' for command flags.
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("missing command")
	}

	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(level)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	coord := session.NewCoordinator(auth.NewCredentialStore(repo, logger), repo, logger)
	a := &app{
		coord:  coord,
		cfg:    cfg,
		stdin:  stdin,
		in:     bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(rest)
	case "list":
		return a.list(rest)
	case "add":
		return a.add(rest)
	case "update":
		return a.update(rest)
	case "delete":
		return a.delete(rest)
	case "export":
		return a.export(rest)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

type app struct {
	coord  *session.Coordinator
	cfg    *config.Config
	stdin  io.Reader
	in     *bufio.Reader
	stdout io.Writer
	stderr io.Writer
}

// credentialFlags registers the account flags shared by every command.
func (a *app) credentialFlags(fs *flag.FlagSet) (user, password *string) {
	user = fs.String("user", "", "Username")
	password = fs.String("password", "", "Password (optional, will prompt if omitted)")
	return user, password
}

func (a *app) credentials(user, password string) (string, string, error) {
	if user == "" {
		return "", "", fmt.Errorf("missing required flag: -user")
	}
	if password == "" {
		fmt.Fprint(a.stdout, "Password: ")
		var err error
		password, err = a.readPassword()
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
	}
	return user, password, nil
}

// login authenticates and leaves the coordinator bound to the user.
func (a *app) login(fs *flag.FlagSet, user, password *string, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, p, err := a.credentials(*user, *password)
	if err != nil {
		return err
	}
	return a.coord.Login(context.Background(), u, p)
}

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user, password := a.credentialFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, p, err := a.credentials(*user, *password)
	if err != nil {
		return err
	}

	if _, err := a.coord.Register(context.Background(), u, p); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Registered %s. You can now log in.\n", u)
	return nil
}

func (a *app) list(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user, password := a.credentialFlags(fs)
	if err := a.login(fs, user, password, args); err != nil {
		return err
	}
	defer a.coord.Logout()

	expenses, err := a.coord.List(context.Background())
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(a.stdout, "No expenses yet.")
		return nil
	}

	// Display formatting only; stored values stay canonical.
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tCost\tDate\tDescription")
	for _, e := range expenses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Cost.Display(), e.Date.Long(), e.Description)
	}
	return w.Flush()
}

func (a *app) add(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user, password := a.credentialFlags(fs)
	name := fs.String("name", "", "Expense name")
	cost := fs.String("cost", "", "Expense cost, e.g. 3.50")
	date := fs.String("date", "", "Expense date as YYYY-MM-DD (default today)")
	desc := fs.String("desc", "", "Optional description")
	if err := a.login(fs, user, password, args); err != nil {
		return err
	}
	defer a.coord.Logout()

	if *date == "" {
		*date = core.Today().String()
	}

	id, err := a.coord.Create(context.Background(), *name, *cost, *date, *desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added expense %d.\n", id)
	return nil
}

func (a *app) update(args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user, password := a.credentialFlags(fs)
	id := fs.Int64("id", 0, "Expense id")
	name := fs.String("name", "", "Expense name")
	cost := fs.String("cost", "", "Expense cost, e.g. 3.50")
	date := fs.String("date", "", "Expense date as YYYY-MM-DD")
	desc := fs.String("desc", "", "Optional description")
	idSet := false
	if err := a.login(fs, user, password, args); err != nil {
		return err
	}
	defer a.coord.Logout()

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "id" {
			idSet = true
		}
	})
	if !idSet {
		// The id must be stated explicitly; a zero value is a real id,
		// not an empty selection.
		return fmt.Errorf("missing required flag: -id")
	}

	if err := a.coord.Update(context.Background(), *id, *name, *cost, *date, *desc); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Updated expense %d.\n", *id)
	return nil
}

func (a *app) delete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user, password := a.credentialFlags(fs)
	id := fs.Int64("id", 0, "Expense id")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := a.login(fs, user, password, args); err != nil {
		return err
	}
	defer a.coord.Logout()

	idSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "id" {
			idSet = true
		}
	})
	if !idSet {
		return fmt.Errorf("missing required flag: -id")
	}

	if !*yes {
		fmt.Fprintf(a.stdout, "Delete expense %d? [y/N]: ", *id)
		answer, err := a.readLine()
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(a.stdout, "Aborted.")
			return nil
		}
	}

	if err := a.coord.Delete(context.Background(), *id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted expense %d.\n", *id)
	return nil
}

func (a *app) export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user, password := a.credentialFlags(fs)
	out := fs.String("out", "expenses.xlsx", "Destination file (.xlsx or .csv)")
	if err := a.login(fs, user, password, args); err != nil {
		return err
	}
	defer a.coord.Logout()

	var w export.Writer
	switch strings.ToLower(filepath.Ext(*out)) {
	case ".csv":
		w = csvexport.New()
	default:
		w = xlsx.New(a.cfg.ExportSheetName)
	}

	if err := a.coord.Export(context.Background(), w, *out); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Exported to %s.\n", *out)
	return nil
}

func (a *app) readPassword() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return a.readLine()
}

// readLine reads through the single shared buffered reader so that
// consecutive prompts within one command see consecutive input lines.
func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
