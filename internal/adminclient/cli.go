package adminclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/eventboard/internal/domain/model"
	"github.com/okian/eventboard/pkg/logger"
)

// Commands understood by Run.
const (
	CmdExport = "export"
	CmdImport = "import"
	CmdAdd    = "add"
	CmdUpdate = "update"
	CmdDelete = "delete"
)

// stdinPath selects standard input (or output, for export) instead of a file.
const stdinPath = "-"

const outputFilePermission = 0o600

// Config holds one eventctl invocation.
type Config struct {
	BaseURL string        // Base URL of the board service
	Command string        // export, import, add, update or delete
	ID      int           // Event id for update and delete
	File    string        // Input document or output path; "-" or empty for stdio
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Enable debug logging
}

// SetupLogging initializes the process logger for the CLI.
func SetupLogging(verbose bool) error {
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}
	return nil
}

// Run executes cfg.Command against the admin API. stdin feeds commands that
// read a document when no file is given; results go to stdout.
func Run(ctx context.Context, cfg *Config, stdin io.Reader, stdout io.Writer) error {
	log := logger.Named("eventctl")
	client := New(cfg.BaseURL, cfg.Timeout)
	log.Debug(ctx, "running command", logger.String("command", cfg.Command), logger.String("url", cfg.BaseURL))

	switch cfg.Command {
	case CmdExport:
		doc, err := client.Export(ctx)
		if err != nil {
			return err
		}
		if cfg.File == "" || cfg.File == stdinPath {
			_, err = io.WriteString(stdout, doc+"\n")
			return err
		}
		if err := os.WriteFile(cfg.File, []byte(doc), outputFilePermission); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		log.Info(ctx, "exported events", logger.String("file", cfg.File))
		return nil

	case CmdImport:
		doc, err := readInput(cfg.File, stdin)
		if err != nil {
			return err
		}
		if err := client.Import(ctx, doc); err != nil {
			return err
		}
		log.Info(ctx, "imported events")
		return nil

	case CmdAdd:
		var rec model.Record
		if err := decodeInput(cfg.File, stdin, &rec); err != nil {
			return err
		}
		stored, err := client.Add(ctx, rec)
		if err != nil {
			return err
		}
		return writeRecord(stdout, stored)

	case CmdUpdate:
		if cfg.ID <= 0 {
			return fmt.Errorf("%w: update needs -id", ErrUsage)
		}
		var patch model.Patch
		if err := decodeInput(cfg.File, stdin, &patch); err != nil {
			return err
		}
		updated, err := client.Update(ctx, cfg.ID, patch)
		if err != nil {
			return err
		}
		return writeRecord(stdout, updated)

	case CmdDelete:
		if cfg.ID <= 0 {
			return fmt.Errorf("%w: delete needs -id", ErrUsage)
		}
		removed, err := client.Delete(ctx, cfg.ID)
		if err != nil {
			return err
		}
		return writeRecord(stdout, removed)
	}
	return fmt.Errorf("%w: unknown command %q", ErrUsage, cfg.Command)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func decodeInput(path string, stdin io.Reader, v any) error {
	data, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

func writeRecord(w io.Writer, rec model.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// ShowHelp prints usage information for eventctl.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `EventBoard admin tool
=====================

Manages the announcement board through its admin API.

Usage:
  eventctl -cmd <command> [options]

Commands:
  export    Print the events document (or write it to -file)
  import    Replace all events with the document in -file (or stdin)
  add       Add the event in -file (or stdin); the id is assigned by the board
  update    Merge the fields in -file (or stdin) onto event -id
  delete    Remove event -id

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -cmd string
        Command to run
  -id int
        Event id for update and delete
  -file string
        Input or output file; "-" means stdin/stdout
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  eventctl -cmd export -file backup.json
  eventctl -cmd import -file backup.json
  echo '{"title":"メンテナンス","category":"maintenance","dateSort":"2025-08-01"}' | eventctl -cmd add
  echo '{"status":"completed"}' | eventctl -cmd update -id 3
  eventctl -cmd delete -id 3
`)
}
