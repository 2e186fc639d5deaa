package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/okian/eventboard/internal/adminclient"
)

const defaultTimeout = 10 * time.Second

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Base URL of the service")
		command = flag.String("cmd", "", "Command: export, import, add, update, delete")
		id      = flag.Int("id", 0, "Event id for update and delete")
		file    = flag.String("file", "", "Input or output file; \"-\" means stdin/stdout")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help || *command == "" {
		adminclient.ShowHelp(os.Stdout)
		return
	}

	if err := adminclient.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := &adminclient.Config{
		BaseURL: *baseURL,
		Command: *command,
		ID:      *id,
		File:    *file,
		Timeout: *timeout,
		Verbose: *verbose,
	}
	if err := adminclient.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString("eventctl: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
