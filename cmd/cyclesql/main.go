// Command cyclesql loads a mini-script, evaluates it to a Pattern, queries
// an arc, and renders the resulting events as a table. Flags follow the
// teacher's cmd/datalog convention (flag.StringVar/BoolVar + flag.Usage);
// table rendering follows datalog/executor/table_formatter.go
// (olekukonko/tablewriter) and highlight coloring follows
// datalog/annotations/output.go (fatih/color).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/cycles"
	badgercache "github.com/wbrown/cycles/lang/cache"
	"github.com/wbrown/cycles/lang/interp"
	"github.com/wbrown/cycles/lang/stdlib"
)

func main() {
	var scriptPath string
	var interactive bool
	var seed int64
	var fromStr, toStr string
	var cacheDir string
	var help bool

	flag.StringVar(&scriptPath, "script", "", "path to a mini-script file to evaluate")
	flag.BoolVar(&interactive, "i", false, "interactive REPL mode")
	flag.Int64Var(&seed, "seed", 0, "QueryContext random seed")
	flag.StringVar(&fromStr, "from", "0", "arc start (cycles, e.g. 0 or 1/2)")
	flag.StringVar(&toStr, "to", "1", "arc end (cycles, e.g. 4)")
	flag.StringVar(&cacheDir, "cache", "", "badger cache directory for the library loader (optional)")
	flag.BoolVar(&help, "h", false, "show help")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Evaluates a mini-script against the pattern algebra and prints the queried events.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -script pattern.cyc -from 0 -to 4\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	engine := interp.NewEngine()
	stdlib.Install(engine)

	if cacheDir != "" {
		cache, err := badgercache.Open(cacheDir)
		if err != nil {
			log.Fatalf("failed to open cache: %v", err)
		}
		defer cache.Close()
		engine.Loader = badgercache.NewLibraryLoader(cache, engine.Loader)
	}

	if interactive {
		runInteractive(engine, seed)
		return
	}

	if scriptPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		log.Fatalf("failed to read script: %v", err)
	}

	from, err := parseRationalArg(fromStr)
	if err != nil {
		log.Fatalf("invalid -from: %v", err)
	}
	to, err := parseRationalArg(toStr)
	if err != nil {
		log.Fatalf("invalid -to: %v", err)
	}

	if err := runOnce(engine, string(source), from, to, seed); err != nil {
		log.Fatalf("%v", err)
	}
}

func runOnce(engine *interp.Engine, source string, from, to cycles.Rational, seed int64) error {
	result, err := engine.Run(source)
	if err != nil {
		return fmt.Errorf("script error: %w", err)
	}
	p, err := stdlib.ToPattern(result)
	if err != nil {
		return fmt.Errorf("result is not a pattern: %w", err)
	}
	ctx := cycles.NewQueryContext().WithRandomSeed(seed)
	events := p.QueryArc(from, to, ctx)
	printEvents(os.Stdout, events)
	return nil
}

func runInteractive(engine *interp.Engine, seed int64) {
	fmt.Println("cyclesql interactive mode")
	fmt.Println("Commands:")
	fmt.Println("  .help          - show this help")
	fmt.Println("  .exit          - exit")
	fmt.Println("  .arc from to   - set the query arc used to render a pattern result")
	fmt.Println(`  any script line (e.g. import * from "cycles/core"; n([0,1,2,3]).fast(2))`)
	fmt.Println()

	from := cycles.NewRationalFromInt(0)
	to := cycles.NewRationalFromInt(1)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("cyc> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == ".exit":
			return
		case line == ".help":
			fmt.Println("Enter a script expression; it is queried over the current arc and printed as a table.")
		case strings.HasPrefix(line, ".arc"):
			fields := strings.Fields(line)
			if len(fields) != 3 {
				fmt.Println("usage: .arc <from> <to>")
				continue
			}
			f, err := parseRationalArg(fields[1])
			if err != nil {
				fmt.Printf("bad arc: %v\n", err)
				continue
			}
			t, err := parseRationalArg(fields[2])
			if err != nil {
				fmt.Printf("bad arc: %v\n", err)
				continue
			}
			from, to = f, t
		default:
			result, err := engine.Run(line)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			p, err := stdlib.ToPattern(result)
			if err != nil {
				fmt.Printf("%v\n", result)
				continue
			}
			ctx := cycles.NewQueryContext().WithRandomSeed(seed)
			printEvents(os.Stdout, p.QueryArc(from, to, ctx))
		}
	}
}

// printEvents renders events as a markdown table, following
// TableFormatter.formatTable. Events whose Part does not start at their
// Whole's onset (a clipped or off-onset fragment) are highlighted in
// yellow, following OutputFormatter's color-on-interesting-event idiom;
// fatih/color disables the escape codes itself when stdout isn't a
// terminal, so no separate isatty check is needed here.
func printEvents(w *os.File, events []cycles.Event) {
	tableString := &strings.Builder{}
	alignment := []tw.Align{tw.AlignNone, tw.AlignNone, tw.AlignNone, tw.AlignNone, tw.AlignNone}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"part.begin", "part.end", "whole.begin", "whole.end", "note or value"})

	highlight := color.New(color.FgYellow)

	for _, ev := range events {
		row := []string{
			ev.Part.Begin.String(),
			ev.Part.End.String(),
			ev.Whole.Begin.String(),
			ev.Whole.End.String(),
			ev.Data.String(),
		}
		if !ev.HasOnset() {
			for i, cell := range row {
				row[i] = highlight.Sprint(cell)
			}
		}
		table.Append(row)
	}
	table.Render()
	fmt.Fprintln(w, tableString.String())
	fmt.Fprintf(w, "_%d events_\n", len(events))
}

func parseRationalArg(s string) (cycles.Rational, error) {
	if num, den, ok := splitFraction(s); ok {
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return cycles.Rational{}, err
		}
		d, err := strconv.ParseInt(den, 10, 64)
		if err != nil {
			return cycles.Rational{}, err
		}
		return cycles.NewRational(n, d), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return cycles.Rational{}, fmt.Errorf("cyclesql: cannot parse %q as a rational: %w", s, err)
	}
	return cycles.NewRationalFromFloat(f), nil
}

func splitFraction(s string) (num, den string, ok bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
