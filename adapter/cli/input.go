package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// maxInputSize bounds task files read by the CLI.
const maxInputSize = 16 << 20

// readBatch loads a batch from the file named by args[0], or from stdin
// when no file or "-" is given. YAML is a superset of JSON, so one
// decoder handles both.
func readBatch(cmd *cobra.Command, args []string) (application.Batch, error) {
	var (
		r    io.Reader
		name = "stdin"
	)
	if len(args) == 0 || args[0] == "-" {
		r = cmd.InOrStdin()
	} else {
		name = args[0]
		f, err := os.Open(name)
		if err != nil {
			return application.Batch{}, fmt.Errorf("open tasks: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputSize+1))
	if err != nil {
		return application.Batch{}, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > maxInputSize {
		return application.Batch{}, fmt.Errorf("%s is larger than %d bytes", name, maxInputSize)
	}
	return decodeBatch(data, name)
}

func decodeBatch(data []byte, name string) (application.Batch, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return application.Batch{}, fmt.Errorf("%s: %w", name, application.ErrNoTasks)
	}

	var body any
	if err := yaml.Unmarshal(data, &body); err != nil {
		return application.Batch{}, fmt.Errorf("parse %s: %w", name, err)
	}

	batch, err := application.DecodeBatch(body)
	if err != nil {
		return application.Batch{}, fmt.Errorf("%s: %w", name, err)
	}
	return batch, nil
}
