package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all flags for the go-receipt command.
type cliFlags struct {
	config     string
	template   string
	csvPath    string
	outputDir  string
	letterhead string
	org        string
	dateFormat string
	sample     bool
	quiet      bool
	verbose    bool
	version    bool
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("go-receipt", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "settings file name or path")
	fs.StringVarP(&f.template, "template", "t", "", "receipt template file")
	fs.StringVar(&f.csvPath, "csv", "", "donor spreadsheet (CSV with header row)")
	fs.StringVarP(&f.outputDir, "out", "o", "", "output directory for receipts")
	fs.StringVar(&f.letterhead, "letterhead", "", "letterhead PDF path")
	fs.StringVar(&f.org, "org", "", "organization name for filename prefix")
	fs.StringVar(&f.dateFormat, "date-format", "", "date format preset or tokens (e.g. long, DD/MM/YYYY)")
	fs.BoolVar(&f.sample, "sample", false, "generate one receipt for a sample donor")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-donor detail")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func printUsage(w *os.File) {
	fmt.Fprintf(w, `Usage: go-receipt [flags]

Generate donation receipt PDFs from a template and a donor spreadsheet.

Flags:
  -c, --config string        settings file name or path
  -t, --template string      receipt template file
      --csv string           donor spreadsheet (CSV with header row)
  -o, --out string           output directory for receipts
      --letterhead string    letterhead PDF path
      --org string           organization name for filename prefix
      --date-format string   date format preset or tokens
      --sample               generate one receipt for a sample donor
  -q, --quiet                only show errors
  -v, --verbose              show per-donor detail
      --version              print version and exit

Examples:
  go-receipt --sample -t template.html
  go-receipt -t template.html --csv donors.csv -o receipts/
  go-receipt -c settings.yaml --csv donors.csv
`)
}
