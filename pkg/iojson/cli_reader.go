package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// InputReader reads command input from the file named by its flag, or from
// stdin when input is piped.
type InputReader struct {
	fileFlagValue string
	usage         string
}

// NewInputReader creates an InputReader whose flag is described by usage.
func NewInputReader(usage string) *InputReader {
	return &InputReader{usage: usage}
}

func (r *InputReader) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       r.usage,
		Destination: &r.fileFlagValue,
	}
}

// File returns the file flag value, empty when reading stdin.
func (r *InputReader) File() string {
	return r.fileFlagValue
}

// SetFile sets the input file when the flag was not given, for commands that
// also take the file as an argument.
func (r *InputReader) SetFile(path string) {
	r.fileFlagValue = path
}

// ReadAll returns the whole input, reading the file from fs. stdin is only
// read when it is not a terminal.
func (r *InputReader) ReadAll(fs afero.Fs, stdin io.Reader) ([]byte, error) {
	if r.fileFlagValue != "" {
		data, err := afero.ReadFile(fs, r.fileFlagValue)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe input")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// ReadJSON decodes the input of r as a T.
func ReadJSON[T any](r *InputReader, fs afero.Fs, stdin io.Reader) (T, error) {
	var input T

	data, err := r.ReadAll(fs, stdin)
	if err != nil {
		return input, err
	}

	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
