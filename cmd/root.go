// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/app"
	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/kv"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No args or a leading flag means the interactive UI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "done", "toggle":
		return toggleCommand(ctx, cfg, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs)
	case "rm", "delete":
		return deleteCommand(ctx, cfg, remainingArgs)
	case "clear":
		return clearCommand(ctx, cfg, remainingArgs)
	case "stats":
		return statsCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cfg, remainingArgs)
	case "logs", "tail":
		return logsCommand(ctx, cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the diagnostic logger described by cfg.
func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	opts.Timestamps = cfg.LogTimestamps
	opts.Caller = cfg.LogCaller
	return logging.New(w, opts)
}

// storeOptions maps the configuration to a kv backend selection.
func storeOptions(cfg *config.Config) kv.Options {
	return kv.Options{
		Backend:  cfg.Backend,
		Path:     cfg.StoreFile,
		MaxBytes: cfg.MaxStoreBytes,
		Redis: kv.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		},
	}
}

// openStore opens the configured backend and hydrates a TodoStore from it.
// The caller closes the returned kv.Store.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app.TodoStore, kv.Store, error) {
	backend, err := kv.Open(ctx, storeOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Backend, err)
	}
	store := app.New(ctx, backend, app.WithKey(cfg.StorageKey), app.WithLogger(logger))
	return store, backend, nil
}

// withStore runs fn against a hydrated store and reports persistence
// failures of the commands it ran.
func withStore(ctx context.Context, cfg *config.Config, fn func(*app.TodoStore) error) error {
	store, backend, err := openStore(ctx, cfg, newLogger(cfg, stderr))
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := fn(store); err != nil {
		return err
	}
	if err := store.LastPersistError(); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// describeStore returns a short human description of where tasks live.
func describeStore(cfg *config.Config) string {
	switch strings.ToLower(cfg.Backend) {
	case kv.BackendRedis:
		return fmt.Sprintf("redis %s (key %s%s)", cfg.RedisAddr, cfg.RedisPrefix, cfg.StorageKey)
	case kv.BackendMemory:
		return "memory (not saved)"
	default:
		return cfg.StoreFile
	}
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	noAlt := fs.Bool("no-alt-screen", false, "Render inline instead of in the alternate screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY; use a subcommand such as ls or add")
	}

	// The UI owns the terminal, so diagnostics go to a per-run file.
	runLog, err := logging.NewRunLogger(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("creating run log: %w", err)
	}
	defer runLog.Close()
	logger := newLogger(cfg, runLog.Writer())
	if pruned, err := logging.PruneRuns(cfg.LogDir, cfg.LogKeep); err != nil {
		logger.Warn("prune old logs", "dir", cfg.LogDir, "err", err)
	} else if pruned > 0 {
		logger.Debug("pruned old logs", "count", pruned)
	}

	store, backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()
	logger.Info("tui started", "run", runLog.RunID, "backend", cfg.Backend, "tasks", store.Stats().Total)

	err = ui.RunTUI(ctx, store,
		ui.WithLocation(describeStore(cfg)),
		ui.WithAltScreen(!*noAlt),
	)
	logger.Info("tui stopped", "tasks", store.Stats().Total, "err", err)
	return err
}

// addCommand adds one task from the joined arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: todo add <text>")
	}
	return withStore(ctx, cfg, func(s *app.TodoStore) error {
		task, ok := s.AddTask(text)
		if !ok {
			return fmt.Errorf("task text is empty")
		}
		fmt.Fprintf(stdout, "Added %d: %s\n", task.ID, task.Text)
		return nil
	})
}

// lsCommand lists tasks in insertion order.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print the stored JSON payload")
	pending := fs.Bool("pending", false, "Only show tasks that are not completed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return withStore(ctx, cfg, func(s *app.TodoStore) error {
		tasks := s.Tasks()
		if *asJSON {
			payload, err := todo.Encode(tasks)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, payload)
			return nil
		}
		if tasks.Len() == 0 {
			fmt.Fprintln(stdout, "No tasks.")
			return nil
		}
		for _, t := range tasks {
			if *pending && t.Completed {
				continue
			}
			printTask(stdout, t)
		}
		fmt.Fprintln(stdout)
		printStatsLine(stdout, s.Stats())
		return nil
	})
}

// toggleCommand flips the completed flag of each given id.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	return withStore(ctx, cfg, func(s *app.TodoStore) error {
		for _, id := range ids {
			if !s.ToggleComplete(id) {
				return fmt.Errorf("no task with id %d", id)
			}
			t, _ := s.Task(id)
			printTask(stdout, t)
		}
		return nil
	})
}

// editCommand replaces the text of one task.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: todo edit <id> <text>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	return withStore(ctx, cfg, func(s *app.TodoStore) error {
		if _, ok := s.Task(id); !ok {
			return fmt.Errorf("no task with id %d", id)
		}
		if !s.EditTask(id, text) {
			// Blank or identical text keeps the task as it was.
			fmt.Fprintln(stdout, "Unchanged.")
		}
		t, _ := s.Task(id)
		printTask(stdout, t)
		return nil
	})
}

// deleteCommand removes each given id.
func deleteCommand(ctx context.Context, cfg *config.Config, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	return withStore(ctx, cfg, func(s *app.TodoStore) error {
		var missing []string
		for _, id := range ids {
			if s.DeleteTask(id) {
				fmt.Fprintf(stdout, "Deleted %d\n", id)
			} else {
				missing = append(missing, strconv.FormatInt(id, 10))
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("no task with id %s", strings.Join(missing, ", "))
		}
		return nil
	})
}

// clearCommand removes all tasks, or only completed ones.
func clearCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo clear", flag.ContinueOnError)
	fs.SetOutput(stderr)
	completed := fs.Bool("completed", false, "Only remove completed tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return withStore(ctx, cfg, func(s *app.TodoStore) error {
		before := s.Stats().Total
		if *completed {
			s.ClearCompleted()
		} else {
			s.ClearAll()
		}
		fmt.Fprintf(stdout, "Removed %d task(s)\n", before-s.Stats().Total)
		return nil
	})
}

// statsCommand prints the derived counts.
func statsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return withStore(ctx, cfg, func(s *app.TodoStore) error {
		st := s.Stats()
		fmt.Fprintf(stdout, "Total:     %d\n", st.Total)
		fmt.Fprintf(stdout, "Completed: %d\n", st.Completed)
		fmt.Fprintf(stdout, "Remaining: %d\n", st.Remaining)
		fmt.Fprintf(stdout, "Percent:   %.0f%%\n", st.Percent())
		return nil
	})
}

// doctorCommand checks the configuration and the stored payload.
func doctorCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	fmt.Fprintln(stdout, "Todo Doctor")
	fmt.Fprintln(stdout, "===========")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintln(stdout, "Config:")
	if len(cfg.Files) == 0 {
		fmt.Fprintln(stdout, "  ✅ No config files (defaults)")
	}
	for _, f := range cfg.Files {
		fmt.Fprintf(stdout, "  ✅ %s\n", f)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	fmt.Fprintf(stdout, "  State dir: %s\n", cfg.StateDir)
	fmt.Fprintf(stdout, "  Log dir:   %s\n", cfg.LogDir)
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Store (%s):\n", cfg.Backend)
	backend, err := kv.Open(ctx, storeOptions(cfg))
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Open: %v\n", err)
		allOK = false
	} else {
		defer backend.Close()
		fmt.Fprintf(stdout, "  ✅ Open: %s\n", describeStore(cfg))
		allOK = checkPayload(ctx, backend, cfg.StorageKey) && allOK
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed.")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

func checkPayload(ctx context.Context, backend kv.Store, key string) bool {
	payload, ok, err := backend.Get(ctx, key)
	switch {
	case err != nil:
		fmt.Fprintf(stdout, "  ❌ Read %q: %v\n", key, err)
		return false
	case !ok:
		fmt.Fprintf(stdout, "  ✅ Key %q not set (empty list)\n", key)
		return true
	}

	list, err := todo.Decode(payload)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Key %q holds an invalid payload:\n", key)
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(stdout, "     %s\n", line)
		}
		fmt.Fprintln(stdout, "     The list will load empty and the next change overwrites it.")
		return false
	}
	fmt.Fprintf(stdout, "  ✅ Key %q: %d task(s), %d bytes\n", key, list.Len(), len(payload))
	return true
}

// configCommand prints the example config or the effective one.
func configCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	show := fs.Bool("show", false, "Print the effective configuration with value sources")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if !*show {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	effective := *cfg
	if effective.RedisPassword != "" {
		effective.RedisPassword = "********"
	}
	if err := toml.NewEncoder(stdout).Encode(effective); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "# Sources:")
	for _, key := range sortedKeys(cfg.Sources) {
		fmt.Fprintf(stdout, "#   %-16s %s\n", key, cfg.Sources[key])
	}
	return nil
}

// logsCommand tails the latest TUI run log.
func logsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todo - a small task list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui               Interactive UI (default command)")
	fmt.Fprintln(w, "  add <text>        Add a task")
	fmt.Fprintln(w, "  ls, list          List tasks with their ids")
	fmt.Fprintln(w, "  done <id>...      Toggle completed (alias: toggle)")
	fmt.Fprintln(w, "  edit <id> <text>  Replace a task's text")
	fmt.Fprintln(w, "  rm <id>...        Delete tasks (alias: delete)")
	fmt.Fprintln(w, "  clear             Delete all tasks (-completed for finished ones only)")
	fmt.Fprintln(w, "  stats             Show completion counts")
	fmt.Fprintln(w, "  doctor            Check config and stored data")
	fmt.Fprintln(w, "  config            Print an example config (-show for the effective one)")
	fmt.Fprintln(w, "  logs              Tail the latest TUI log (-n N, -f)")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func printTask(w io.Writer, t todo.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%d  [%s] %s\n", t.ID, mark, t.Text)
}

func printStatsLine(w io.Writer, st todo.Stats) {
	fmt.Fprintf(w, "%d of %d completed (%.0f%%), %d remaining\n",
		st.Completed, st.Total, st.Percent(), st.Remaining)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected at least one task id")
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func sortedKeys(m map[string]config.ConfigSource) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
