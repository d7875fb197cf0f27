package main

import (
	"context"
	"io"

	"github.com/casfolio/casfolio"
	"github.com/casfolio/casfolio/extract"
	"github.com/casfolio/casfolio/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	DB          *sqlite.DB
	SchemeCache *sqlite.SchemeCache
	Schemes     casfolio.SchemeDirectory
	Matcher     casfolio.SchemeMatcher
	Runs        casfolio.RunService
	Pipeline    *extract.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log pipeline operations to stderr"`

	Extract ExtractCmd `cmd:"" help:"Extract transactions from a CAS statement PDF"`
	Schemes SchemesCmd `cmd:"" help:"Look up a scheme by ISIN or fund name"`
	History HistoryCmd `cmd:"" help:"List past extraction runs"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Path      string `arg:"" help:"Path to the CAS statement PDF"`
	Password  string `short:"p" help:"Password for encrypted statements"`
	Format    string `short:"f" default:"table" enum:"table,csv,json,xlsx" help:"Output format (table, csv, json, xlsx)"`
	Output    string `short:"o" help:"Write output to a file instead of stdout"`
	Refresh   bool   `help:"Refetch the AMFI scheme table before resolving"`
	NoResolve bool   `help:"Skip scheme code resolution"`
}

// SchemesCmd is the "schemes" subcommand.
type SchemesCmd struct {
	Query string `arg:"" help:"ISIN or fund name to look up"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of runs to show (0 for all)"`
}
