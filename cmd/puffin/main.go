package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"puffin/ast"
	"puffin/builtins"
	"puffin/config"
	"puffin/eval"
	"puffin/parser"
	"puffin/value"
)

func main() {
	parseOnly := flag.Bool("parse", false, "parse the source file and exit without evaluating it")
	printAST := flag.Bool("ast", false, "print a one-line summary of the parsed AST (top-level statement count) to stderr before evaluating")
	configPath := flag.String("config", "", "path to a YAML limits file")
	maxDepth := flag.Int("max-depth", 0, "override max call depth (0 keeps the config/default value)")
	seed := flag.Int64("seed", 0, "override the rand() seed (0 keeps the config/default value)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: puffin [-parse] [-ast] [-config FILE] [-max-depth N] [-seed N] <source-file>")
		os.Exit(2)
	}
	sourcePath := flag.Arg(0)

	limits := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		limits = loaded
	}
	if *maxDepth != 0 {
		limits.MaxDepth = *maxDepth
	}
	if *seed != 0 {
		limits.RandSeed = *seed
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		log.Fatalf("reading %s: %v", sourcePath, err)
	}

	program, err := parser.New(string(src)).ParseProgram()
	if err != nil {
		reportError(err)
	}

	if *printAST {
		printProgram(program)
	}
	if *parseOnly {
		return
	}

	ev := eval.New(limits.MaxDepth)
	builtins.Install(ev.Globals(), os.Stdout, os.Stderr, os.Stdin, limits.RandSeed)

	if err := ev.Run(program); err != nil {
		reportError(err)
	}
}

// reportError prints a language-level diagnostic and exits with a status
// that distinguishes a parse-time failure from a runtime one, matching the
// teacher's stderr+exit-code CLI idiom.
func reportError(err error) {
	fmt.Fprintf(os.Stderr, "puffin: %v\n", err)
	if rerr, ok := err.(*value.RuntimeError); ok && rerr.Code == value.ParseError {
		os.Exit(2)
	}
	os.Exit(1)
}

func printProgram(block *ast.Block) {
	fmt.Fprintf(os.Stderr, "-- AST: %d top-level statement(s) --\n", len(block.Stmts))
}
