package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/yaratidy/yaratidy/internal/config"
	"github.com/yaratidy/yaratidy/internal/engine"
	"github.com/yaratidy/yaratidy/internal/hashmeta"
	"github.com/yaratidy/yaratidy/internal/lint"
	"github.com/yaratidy/yaratidy/internal/log"
	"github.com/yaratidy/yaratidy/internal/makestrings"
	"github.com/yaratidy/yaratidy/internal/output"
	"github.com/yaratidy/yaratidy/internal/rule"
	"github.com/yaratidy/yaratidy/internal/rules"
	"github.com/yaratidy/yaratidy/internal/yarahub"

	// Import all rule packages so their init() functions register rules.
	_ "github.com/yaratidy/yaratidy/internal/rules/blanklines"
	_ "github.com/yaratidy/yaratidy/internal/rules/compiles"
	_ "github.com/yaratidy/yaratidy/internal/rules/indentation"
	_ "github.com/yaratidy/yaratidy/internal/rules/requiredmeta"
	_ "github.com/yaratidy/yaratidy/internal/rules/rulename"
)

func main() {
	os.Exit(run())
}

const usageText = `Usage: yaratidy <command> [flags] [args...]

Commands:
  validate  Check YARA rule files for style and metadata issues (alias: check)
  hashmeta  Print md5/sha1/sha256 meta lines for a sample file
  strings   Turn the lines of a text file into YARA string definitions
  yarahub   Rewrite rule metadata for submission to YARAhub
  help      Show help for rules and topics
  init      Generate a default .yaratidy.yml config file
  version   Print version and exit

Global flags:
  -h, --help      Show this help

Run 'yaratidy <command> --help' for more information on a command.
`

func run() int {
	// Handle no arguments: print usage, exit 0.
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		return 0
	}

	first := os.Args[1]

	switch first {
	case "--help", "-h":
		fmt.Fprint(os.Stderr, usageText)
		return 0
	}

	switch first {
	case "validate", "check":
		return runValidate(os.Args[2:])
	case "hashmeta":
		return runHashMeta(os.Args[2:])
	case "strings":
		return runStrings(os.Args[2:])
	case "yarahub":
		return runYarahub(os.Args[2:])
	case "help":
		return runHelp(os.Args[2:])
	case "init":
		return runInit(os.Args[2:])
	case "version":
		printVersion()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "yaratidy: unknown command %q\n\n%s", first, usageText)
		return 2
	}
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func printVersion() {
	fmt.Printf("yaratidy %s\n", version())
}

// runValidate implements the "validate" subcommand.
func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	var (
		configPath string
		format     string
		recursive  bool
		noColor    bool
		verbose    bool
	)

	fs.StringVarP(&configPath, "config", "c", "", "Override config file path")
	fs.StringVarP(&format, "format", "f", "text", "Output format: text, json, sarif")
	fs.BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	fs.BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Log config and file decisions to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yaratidy validate [flags] <path>...\n\n"+
			"Check YARA rule files (.yar, .yara) for style and metadata issues.\n\n"+
			"Paths can be files, directories or glob patterns (rules/**/*.yar).\n"+
			"Directories are only descended into with --recursive.\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	logger := log.New(os.Stderr, verbose, !noColor && isTerminal(os.Stderr))

	formatter, ok := output.ForName(format, !noColor && isTerminal(os.Stdout))
	if !ok {
		fmt.Fprintf(os.Stderr, "yaratidy: unknown format %q\n", format)
		return 2
	}
	if s, ok := formatter.(*output.SARIFFormatter); ok {
		s.Version = version()
	}

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}
	if cfg.Recursive != nil && *cfg.Recursive {
		recursive = true
	}

	files, err := lint.ResolveFiles(fs.Args(), lint.ResolveOpts{Recursive: recursive})
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}
	logger.Printf("resolved %d file(s)", len(files))

	runner := &engine.Runner{
		Config: cfg,
		Rules:  rule.All(),
		Logger: logger,
	}
	reporter := output.NewReporter(os.Stdout, formatter)
	result := runner.Run(files, reporter)

	code, err := reporter.Finalize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: error writing output: %v\n", err)
		return 2
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", e)
	}
	if len(result.Errors) > 0 {
		return 2
	}
	return code
}

// runHashMeta implements "hashmeta <file>".
func runHashMeta(args []string) int {
	fs := flag.NewFlagSet("hashmeta", flag.ContinueOnError)
	var verbose bool
	fs.BoolVarP(&verbose, "verbose", "v", false, "Log the sample size to stderr")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yaratidy hashmeta <file>\n\n"+
			"Print md5, sha1 and sha256 of a sample as YARA meta lines.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	logger := log.New(os.Stderr, verbose, isTerminal(os.Stderr))
	sums, err := hashmeta.ComputeFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}
	logger.Printf("hashed %s (%s)", fs.Arg(0), humanize.Bytes(uint64(sums.Size)))

	if err := sums.WriteMeta(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}
	return 0
}

// runStrings implements "strings [-p prefix] [-w] <file>".
func runStrings(args []string) int {
	fs := flag.NewFlagSet("strings", flag.ContinueOnError)
	var opts makestrings.Options
	fs.StringVarP(&opts.Prefix, "prefix", "p", makestrings.DefaultPrefix, "String identifier prefix")
	fs.BoolVarP(&opts.Wide, "wide", "w", false, "Append the wide modifier")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yaratidy strings [flags] <file>\n\n"+
			"Generate YARA strings from the non-blank lines of a file.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}
	defer func() { _ = f.Close() }()

	if _, err := makestrings.Generate(f, os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}
	return 0
}

// runYarahub implements "yarahub [-r] <src> <dst>".
func runYarahub(args []string) int {
	fs := flag.NewFlagSet("yarahub", flag.ContinueOnError)
	opts := yarahub.DefaultOptions()
	var (
		recursive bool
		noColor   bool
	)
	fs.BoolVarP(&recursive, "recursive", "r", false, "Recursively scan directory")
	fs.BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	fs.StringVar(&opts.Author, "author", opts.Author, "Author written to every rule")
	fs.StringVar(&opts.Twitter, "twitter", opts.Twitter, "Default yarahub_author_twitter")
	fs.StringVar(&opts.Email, "email", opts.Email, "Default yarahub_author_email")
	fs.StringVar(&opts.License, "license", opts.License, "Default yarahub_license")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yaratidy yarahub [flags] <src> <dst>\n\n"+
			"Add YARAhub metadata to a rule file or a directory of rule files.\n"+
			"A file src is written to dst; a directory is mirrored below dst.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	c := &yarahub.Converter{
		Options: opts,
		Logger:  log.New(os.Stderr, false, !noColor && isTerminal(os.Stderr)),
	}
	st, err := c.Convert(fs.Arg(0), fs.Arg(1), recursive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}
	if st.Skipped > 0 {
		return 1
	}
	return 0
}

// runInit implements the "init" subcommand: generate .yaratidy.yml.
func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yaratidy init\n\n"+
			"Generate a default %s config file in the current directory.\n", config.FileName)
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "yaratidy: init takes no arguments\n")
		return 2
	}

	if _, err := os.Stat(config.FileName); err == nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %s already exists\n", config.FileName)
		return 2
	}

	data, err := yaml.Marshal(config.DumpDefaults())
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: marshalling config: %v\n", err)
		return 2
	}

	if err := os.WriteFile(config.FileName, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: writing %s: %v\n", config.FileName, err)
		return 2
	}

	fmt.Fprintf(os.Stderr, "yaratidy: created %s\n", config.FileName)
	return 0
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// loadConfig loads configuration by either using the specified path or
// discovering a config file from the current directory.
func loadConfig(configPath string, logger *log.Logger) (*config.Config, error) {
	defaults := config.Defaults()

	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return config.Merge(defaults, nil), nil
		}
		discovered, err := config.Discover(cwd)
		if err != nil || discovered == "" {
			logger.Printf("config: none, using defaults")
			return config.Merge(defaults, nil), nil
		}
		configPath = discovered
	}

	logger.Printf("config: %s", configPath)
	loaded, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, name := range loaded.Unknown() {
		logger.Warnf("config: unknown check %q in %s", name, configPath)
	}
	return config.Merge(defaults, loaded), nil
}

const helpUsageText = `Usage: yaratidy help <topic>

Topics:
  rule [id|name]   Show rule documentation
`

// runHelp implements the "help" subcommand.
func runHelp(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, helpUsageText)
		return 0
	}

	switch args[0] {
	case "rule":
		return runHelpRule(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "yaratidy: help: unknown topic %q\n", args[0])
		return 2
	}
}

// runHelpRule implements "help rule [id|name]".
func runHelpRule(args []string) int {
	if len(args) == 0 {
		return listAllRules()
	}
	return showRule(args[0])
}

func listAllRules() int {
	docs, err := rules.ListRules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Name", "Status", "Description"})
	for _, r := range docs {
		tw.AppendRow(table.Row{r.ID, r.Name, r.Status, r.Description})
	}
	tw.Render()
	return 0
}

func showRule(query string) int {
	content, err := rules.LookupRule(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yaratidy: %v\n", err)
		return 2
	}
	fmt.Print(content)
	return 0
}
