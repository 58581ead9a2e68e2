package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/phrase/atn"
	"github.com/npillmayer/phrase/classify"
	"github.com/npillmayer/phrase/grammar"
	"github.com/npillmayer/phrase/scanner"
	"github.com/npillmayer/phrase/scanner/lexmach"
)

// We provide a small grammar for English phrases as a default.
//
//  S    ➞ NP VP
//  NP   ➞ det? adj* noun  |  number noun  |  pronoun
//  VP   ➞ verb NP?  |  verb PP
//  PP   ➞ prep NP
//
func makeGrammar() *grammar.Grammar {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelError)
	b := grammar.NewBuilder("English")
	b.LHS("S").Start().Step("NP").Step("VP").End()
	b.LHS("NP").Start().Step("det").Opt().Step("adj").Opt().Rep().Step("noun").End()
	b.LHS("NP").Start().Step("number").Step("noun").End()
	b.LHS("NP").Step("pronoun").End()
	b.LHS("VP").Step("verb").Step("NP").Opt().End()
	b.LHS("VP").Step("verb").Step("PP").End()
	b.LHS("PP").Step("prep").Step("NP").End()
	b.Classify("det", classify.Terms("det", "the", "a", "an", "this", "that").IgnoreCase())
	b.Classify("adj", classify.Terms("adj", "big", "small", "red", "old", "quick", "brown", "lazy"))
	b.Classify("noun", classify.Terms("noun", "dog", "dogs", "cat", "cats", "fox", "house", "garden"))
	b.Classify("pronoun", classify.Terms("pronoun", "he", "she", "it", "they").IgnoreCase())
	b.Classify("verb", classify.Terms("verb", "sees", "sleeps", "jumps", "barks", "chases"))
	b.Classify("prep", classify.Terms("prep", "in", "over", "under", "with"))
	if number, err := classify.Pattern("number", `[0-9]+`); err == nil {
		b.Classify("number", number)
	} else {
		b.Classify("number", classify.Types(scanner.Int))
	}
	g, err := b.Grammar()
	if err != nil {
		panic(fmt.Errorf("error creating grammar: %s", err.Error()))
	}
	tracer().SetTraceLevel(level)
	return g
}

// main() starts an interactive CLI ("Ph.REPL"), where users may enter
// phrases. Ph.REPL will parse each line and print the parse trees found.
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	initf := flag.String("init", "", "Initial load")
	skip := flag.Int("skip", 0, "Number of unknown tokens a rule step may skip")
	limit := flag.Int("limit", 250000, "Maximum number of state expansions per parse")
	lex := flag.Bool("lexmachine", false, "Tokenize input with a lexmachine DFA")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelInfo) // will set the correct level later
	pterm.Info.Println("Welcome to Ph.REPL")  // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	g := makeGrammar()
	tracer().SetTraceLevel(traceLevel(*tlevel))
	tracing.Select("phrase.atn").SetTraceLevel(traceLevel(*tlevel))
	g.Dump() // only visible in debug mode
	repl, err := readline.New("phrepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	tokenize := words
	if *lex {
		if tokenize, err = lexmachineWords(); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(2)
		}
	}
	intp := &Intp{
		parser:   atn.NewParser(g),
		repl:     repl,
		tokenize: tokenize,
		seek:     true,
		opts: atn.Options{
			SkipTokenLimit: *skip,
			ExpansionLimit: *limit,
		},
	}
	if input := strings.TrimSpace(strings.Join(flag.Args(), " ")); input != "" {
		intp.Eval(input)
	}
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.loadInitFile(*initf)
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	parser   *atn.Parser
	repl     *readline.Instance
	tokenize func(string) (*scanner.TokenChain, error)
	opts     atn.Options
	seek     bool // seek all phrases instead of parsing from the first token
}

func words(line string) (*scanner.TokenChain, error) {
	return scanner.Chain(line, scanner.Words(line), scanner.SplitAt("-"))
}

// lexmachineWords tokenizes like words, with compounds split at hyphens by
// the DFA instead of by revisions.
func lexmachineWords() (func(string) (*scanner.TokenChain, error), error) {
	lx, err := lexmach.NewLexer([]lexmach.Pattern{
		{Regex: `([a-z]|[A-Z])+('([a-z]|[A-Z])+)?`, Type: scanner.Ident},
		{Regex: `[0-9]+`, Type: scanner.Int},
		{Regex: `( |\t|\r|\n)+`, Skip: true},
	}, "-", ",", ".", ";", ":", "!", "?", "(", ")")
	if err != nil {
		return nil, err
	}
	return func(line string) (*scanner.TokenChain, error) {
		return lx.Chain(line)
	}, nil
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	lines := bufio.NewScanner(f)
	for lines.Scan() {
		if line := strings.TrimSpace(lines.Text()); line != "" {
			intp.Eval(line)
		}
	}
	if err := lines.Err(); err != nil {
		tracer().Errorf("Error while reading init file: " + err.Error())
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if intp.Eval(line) {
			break
		}
	}
	println("Good bye!")
}

// Eval executes a command or parses a line of input. It returns true if the
// user wants to quit.
func (intp *Intp) Eval(line string) bool {
	if strings.HasPrefix(line, ":") {
		return intp.command(strings.Fields(line[1:]))
	}
	chain, err := intp.tokenize(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	if intp.seek {
		groups, err := intp.parser.SeekAll(context.Background(), chain, intp.opts, nil)
		if err != nil {
			pterm.Error.Println(err.Error())
		}
		if len(groups) == 0 {
			pterm.Info.Println("no phrases found")
		}
		for _, grp := range groups {
			for _, p := range grp.Selected() {
				printParse(p)
			}
		}
		return false
	}
	result, err := intp.parser.Parse(chain.First(), intp.opts, nil)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	if result.GenerateParses(0) == 0 {
		pterm.Info.Println("no parse")
	}
	if err = result.Err(); err != nil {
		pterm.Error.Println(err.Error())
	}
	result.Dump()
	for _, p := range result.Parses() {
		printParse(p)
	}
	return false
}

func (intp *Intp) command(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "quit", "q":
		return true
	case "seek":
		intp.seek = true
	case "parse":
		intp.seek = false
	case "all":
		intp.opts.ConsumeAllText = !intp.opts.ConsumeAllText
		pterm.Info.Println(fmt.Sprintf("consume all text: %v", intp.opts.ConsumeAllText))
	case "skip":
		if len(args) < 2 {
			pterm.Error.Println("usage: :skip <n>")
			return false
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			pterm.Error.Println("skip limit has to be a non-negative number")
			return false
		}
		intp.opts.SkipTokenLimit = n
	case "rules":
		for _, r := range intp.parser.Grammar().Rules() {
			pterm.Info.Println(r.String())
		}
	default:
		pterm.Error.Println(fmt.Sprintf("unknown command :%s", args[0]))
	}
	return false
}

// printParse displays a parse tree on a terminal.
func printParse(p *atn.Parse) {
	pterm.Info.Println(fmt.Sprintf("%v %q", p.Span(), p.Text()))
	ll := pterm.LeveledList{}
	p.Tree().Each(func(node *atn.TreeNode, depth int) {
		ll = append(ll, pterm.LeveledListItem{Level: depth, Text: node.Label})
	})
	tracer().Debugf("|ll| = %d, ll = %v", len(ll), ll)
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
