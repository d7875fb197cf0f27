package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/casfolio/casfolio/amfi"
	"github.com/casfolio/casfolio/extract"
	"github.com/casfolio/casfolio/fuzzy"
	"github.com/casfolio/casfolio/pdf"
	casslog "github.com/casfolio/casfolio/slog"
	"github.com/casfolio/casfolio/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the scheme cache and run history.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("casfolio"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'casfolio --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CASFOLIO_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	cache := sqlite.NewSchemeCache(m.DB, amfi.NewDirectory())

	extractor := pdf.NewExtractor()

	deps.DB = m.DB
	deps.SchemeCache = cache
	deps.Schemes = cache
	deps.Matcher = fuzzy.NewMatcher()
	deps.Runs = sqlite.NewRunService(m.DB)

	deps.Pipeline = &extract.Pipeline{
		Extractor: extractor,
		Schemes:   cache,
		Matcher:   deps.Matcher,
		Runs:      deps.Runs,
	}

	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		deps.Schemes = casslog.NewLoggingSchemeDirectory(cache, logger)
		deps.Pipeline.Extractor = casslog.NewLoggingExtractor(extractor, logger)
		deps.Pipeline.Schemes = deps.Schemes
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("CASFOLIO_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "casfolio.db"
	}
	dir := filepath.Join(home, ".casfolio")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "casfolio.db")
}
