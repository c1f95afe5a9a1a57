// Command rexpect-watch is the ambient CLI around the rexpect/scenario
// packages: it runs a scripted interaction file, or drops a human into
// a raw passthrough session with a spawned program, optionally picking
// the scenario to run from a directory with a fuzzy filter.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/nick/pexpect/scenario"
)

func setupLogger(logPath string) (*os.File, error) {
	if logPath == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  run <scenario.yaml>       run a single scripted interaction file\n")
	fmt.Fprintf(os.Stderr, "  pick <dir>                fuzzy-pick and run a scenario from a directory\n")
	fmt.Fprintf(os.Stderr, "  attach <program> [args..] raw interactive passthrough to a spawned program\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	var logPath string
	flag.StringVar(&logPath, "log", "", "path to log file (default: discard)")
	flag.Usage = usage
	flag.Parse()

	logFile, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		os.Exit(1)
	}
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var runErr error
	switch args[0] {
	case "run":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		runErr = runScenarioFile(args[1])
	case "pick":
		dir := "."
		if len(args) >= 2 {
			dir = args[1]
		}
		path, err := pickScenario(dir)
		if err != nil {
			runErr = err
			break
		}
		if path == "" {
			fmt.Fprintln(os.Stderr, "no scenario chosen")
			os.Exit(1)
		}
		runErr = runScenarioFile(path)
	case "attach":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		runErr = attach(args[1], args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		log.Printf("error: %v", runErr)
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func runScenarioFile(path string) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	rec, err := s.Run()
	if err != nil {
		return err
	}
	for i, c := range rec.Captures {
		fmt.Printf("[%d] %q\n", i, c)
	}
	return nil
}
