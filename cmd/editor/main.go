package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/xyproto/embeditor"
)

func main() {
	tabStop := flag.Int("tabstop", embeditor.DefaultTabStop, "columns per tab stop")
	logPath := flag.String("log", "", "write a debug log to `file`")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: embeditor [flags] [filename]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(embeditor.Version)
		return
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *tabStop, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(filename string, tabStop int, logPath string) error {
	logger := log.New(io.Discard, "", 0)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.New(f, "embeditor: ", log.LstdFlags|log.Lmicroseconds)
	}

	tty, err := embeditor.OpenTTY()
	if err != nil {
		return err
	}
	defer tty.Close()

	e, err := embeditor.New(tty,
		embeditor.WithTabStop(tabStop),
		embeditor.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if filename != "" {
		// The error is already in the status bar; keep editing.
		_ = e.Open(filename)
	}
	return e.Run()
}
