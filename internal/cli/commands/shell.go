package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/bird-bench/mini-dev/internal/catalog"
	"github.com/bird-bench/mini-dev/pkg/normalize"
	"github.com/bird-bench/mini-dev/pkg/resolve"
	"github.com/bird-bench/mini-dev/pkg/schema"
)

const (
	shellPrompt     = "minidev> "
	shellContPrompt = "    ...> "
)

// NewShellCommand creates the interactive shell command.
func NewShellCommand() *cobra.Command {
	var dbID string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Resolve statements interactively",
		Long: `Start an interactive shell that resolves each statement entered.

Statements end with a semicolon and may span several lines. With a
database selected, results are normalized against its schema.`,
		Example: `  minidev shell --db california_schools`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cat := cc.Catalog(0, false)
			defer func() { _ = cat.Close() }()

			s := &shellSession{
				ctx:     cmd.Context(),
				cc:      cc,
				catalog: cat,
				out:     cmd.OutOrStdout(),
				errOut:  cmd.ErrOrStderr(),
			}
			if dbID != "" {
				s.use(dbID)
			}
			return s.run(cmd.InOrStdin(), filepath.Join(filepath.Dir(cc.Cfg.StatePath), "shell_history"))
		},
	}

	cmd.Flags().StringVar(&dbID, "db", "", "Database id to normalize against")

	return cmd
}

// shellSession is the state of one interactive shell.
type shellSession struct {
	ctx     context.Context
	cc      *CommandContext
	catalog *catalog.Catalog
	out     io.Writer
	errOut  io.Writer

	dbID  string
	index *schema.Index
	raw   bool

	pending strings.Builder
}

func (s *shellSession) run(in io.Reader, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(in),
		Stdout:          s.out,
		Stderr:          s.errOut,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.pending.Reset()
			rl.SetPrompt(shellPrompt)
			continue
		}
		if err != nil {
			return nil
		}

		if s.handleLine(line) {
			return nil
		}
		if s.pending.Len() > 0 {
			rl.SetPrompt(shellContPrompt)
		} else {
			rl.SetPrompt(shellPrompt)
		}
		rl.Config.AutoComplete = s.completer()
	}
}

// handleLine processes one input line and reports whether the shell
// should exit.
func (s *shellSession) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if s.pending.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.dotCommand(strings.Fields(line))
	}

	s.pending.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.pending.WriteString("\n")
		return false
	}
	sql := strings.TrimSuffix(s.pending.String(), ";")
	s.pending.Reset()

	s.resolve(sql)
	return false
}

func (s *shellSession) resolve(sql string) {
	fp, err := resolve.ResolveSQL(sql, s.cc.Dialect)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	columns := fp.Strings()
	if s.dbID != "" && !s.raw {
		columns = normalize.New(s.index).Footprint(fp)
	}
	if len(columns) == 0 {
		_, _ = fmt.Fprintln(s.out, "(no columns)")
		return
	}
	for _, c := range columns {
		_, _ = fmt.Fprintln(s.out, c)
	}
}

func (s *shellSession) dotCommand(parts []string) bool {
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		_, _ = fmt.Fprint(s.out, shellHelp)
	case ".db":
		if len(parts) < 2 {
			if s.dbID == "" {
				_, _ = fmt.Fprintln(s.out, "no database selected")
			} else {
				_, _ = fmt.Fprintln(s.out, s.dbID)
			}
			return false
		}
		s.use(parts[1])
	case ".raw":
		s.raw = !s.raw
		_, _ = fmt.Fprintf(s.out, "raw output %s\n", onOff(s.raw))
	case ".tables":
		for _, t := range s.index.Tables() {
			_, _ = fmt.Fprintln(s.out, t)
		}
	case ".columns":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .columns <table>")
			return false
		}
		table, ok := s.index.Table(parts[1])
		if !ok {
			_, _ = fmt.Fprintf(s.errOut, "unknown table %s\n", parts[1])
			return false
		}
		for _, c := range s.index.Columns(table) {
			_, _ = fmt.Fprintln(s.out, table+"."+c)
		}
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func (s *shellSession) use(dbID string) {
	e, err := s.catalog.Load(s.ctx, dbID)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	if !e.Available {
		_, _ = fmt.Fprintf(s.errOut, "warning: schema of %s unavailable: %v\n", dbID, e.Err)
	}
	s.dbID = dbID
	s.index = e.Index
}

func (s *shellSession) completer() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".db"),
		readline.PcItem(".raw"),
		readline.PcItem(".tables"),
		readline.PcItem(".quit"),
	}
	var tables []readline.PrefixCompleterInterface
	for _, t := range s.index.Tables() {
		tables = append(tables, readline.PcItem(t))
	}
	items = append(items, readline.PcItem(".columns", tables...))
	return readline.NewPrefixCompleter(append(items, tables...)...)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

const shellHelp = `
Commands:
  .help             Show this help message
  .db [ID]          Show or select the database to normalize against
  .raw              Toggle normalization off and on
  .tables           List tables of the selected database
  .columns <table>  List columns of a table
  .quit / .exit     Exit the shell

Statements end with a semicolon (;) and may span several lines.
`
