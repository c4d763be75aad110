/*
Mqi starts an interactive MenuQ ordering session.

It loads a menu catalog, builds the ordering grammar from it, and then reads
Vietnamese utterances from stdin, answering each one on stdout until the
"thoát" command is given or input ends. Utterances can place and change
orders, ask about prices and availability, and list the current order.

Usage:

	mqi [flags]

The flags are:

	-v, --version
		Give the current version of MenuQ and then exit.

	-c, --catalog FILE
		Use the given TOML or JSON catalog. Defaults to the value of
		environment variable MENUQ_CATALOG, and if that is not given, to
		"data/menu.toml" in the current working directory.

	-s, --strategy NAME
		Read utterances with the named strategy, either "grammar" or
		"pattern". Defaults to the value of environment variable
		MENUQ_STRATEGY, and if that is not given, to "grammar".

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty
		with stdin and stdout.

	-b, --batch FILE
		Before starting the interactive session, process every line of FILE
		as an utterance and write the four reports for them to the --out
		directory. The cart built up by the batch carries over into the
		interactive session.

	-o, --out DIR
		Directory that batch reports are written to. Defaults to "output".

	--grammar-out FILE
		Write the ordering grammar to FILE before starting.

	--budget STEPS
		Limit the parser to the given number of steps per utterance. 0 uses
		the default budget and a negative number removes the limit.

	--batch-only
		Exit after processing the batch instead of starting an interactive
		session.

Once a session has started, type "help" for the list of commands.
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/HienLe2004/menuq"
	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/internal/report"
	"github.com/HienLe2004/menuq/internal/version"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

const (
	EnvCatalog  = "MENUQ_CATALOG"
	EnvStrategy = "MENUQ_STRATEGY"
)

var (
	returnCode = ExitSuccess

	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of MenuQ and then exit.")
	flagCatalog    = pflag.StringP("catalog", "c", "", "The TOML or JSON menu catalog to load.")
	flagStrategy   = pflag.StringP("strategy", "s", "", "How utterances are read, 'grammar' or 'pattern'.")
	flagDirect     = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagBatch      = pflag.StringP("batch", "b", "", "Process every line of the given file and write reports before starting.")
	flagOut        = pflag.StringP("out", "o", "output", "Directory that batch reports are written to.")
	flagGrammarOut = pflag.String("grammar-out", "", "Write the ordering grammar to the given file.")
	flagBudget     = pflag.Int("budget", 0, "Parser step budget per utterance; 0 for the default, negative for none.")
	flagBatchOnly  = pflag.Bool("batch-only", false, "Exit after processing the batch.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	catalog := os.Getenv(EnvCatalog)
	if pflag.Lookup("catalog").Changed {
		catalog = *flagCatalog
	}
	strategyName := os.Getenv(EnvStrategy)
	if pflag.Lookup("strategy").Changed {
		strategyName = *flagStrategy
	}
	strategy, err := pipeline.ParseStrategy(strategyName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\nDo -h for help.\n", err.Error())
		returnCode = ExitInitError
		return
	}

	eng, initErr := menuq.New(os.Stdin, os.Stdout, menuq.Options{
		CatalogPath: catalog,
		Strategy:    strategy,
		ForceDirect: *flagDirect,
		ParseBudget: *flagBudget,
	})
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if *flagGrammarOut != "" {
		if err := os.WriteFile(*flagGrammarOut, []byte(eng.Grammar().String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: write grammar: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		log.Printf("INFO  Wrote grammar to %s", *flagGrammarOut)
	}

	if *flagBatch != "" {
		if err := runBatch(eng, *flagBatch, *flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitSessionError
			return
		}
		if *flagBatchOnly {
			return
		}
	}

	if err := eng.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}

func runBatch(eng *menuq.Engine, batchFile, outDir string) error {
	f, err := os.Open(batchFile)
	if err != nil {
		return fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	rep, err := report.Create(outDir)
	if err != nil {
		return err
	}
	defer rep.Close()

	n, err := eng.RunBatch(f, rep)
	if err != nil {
		return err
	}

	log.Printf("INFO  Processed %d utterances from %s; reports are in %s", n, batchFile, outDir)
	return nil
}
