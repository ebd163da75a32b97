// Package env holds the process environment the application depends on:
// clock, environment variables, filesystem and standard streams. Production
// code uses Default; tests construct their own isolated Env.
package env

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// DataDirVar overrides the data directory.
const DataDirVar = "HADAF_DIR"

// Env is the set of collaborators that touch the outside world.
type Env struct {
	FS       afero.Fs
	Now      func() time.Time
	Location *time.Location
	Getenv   func(string) string
	HomeDir  func() (string, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Default returns an Env backed by the real system.
func Default() *Env {
	return &Env{
		FS:       afero.NewOsFs(),
		Now:      time.Now,
		Location: time.Local,
		Getenv:   os.Getenv,
		HomeDir:  os.UserHomeDir,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Memory returns an Env with an in-memory filesystem, a fixed clock and no
// environment variables.
func Memory(now time.Time) *Env {
	return &Env{
		FS:       afero.NewMemMapFs(),
		Now:      func() time.Time { return now },
		Location: now.Location(),
		Getenv:   func(string) string { return "" },
		HomeDir:  func() (string, error) { return "/home/test", nil },
		Stdin:    eofReader{},
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
}

// Codec returns a syntax codec bound to the environment clock and location.
func (e *Env) Codec() *syntax.Codec {
	return syntax.NewCodec(e.Now, e.Location)
}

// DataDir resolves the data directory: $HADAF_DIR, else ".hadaf" in the
// home directory ($HOME, then $USERPROFILE, then the OS lookup).
func (e *Env) DataDir() (string, error) {
	if dir := e.Getenv(DataDirVar); dir != "" {
		return dir, nil
	}

	home := e.Getenv("HOME")
	if home == "" {
		home = e.Getenv("USERPROFILE")
	}
	if home == "" && e.HomeDir != nil {
		if dir, err := e.HomeDir(); err == nil {
			home = dir
		}
	}
	if home == "" {
		return "", errors.New("could not find home directory, tried HOME and USERPROFILE")
	}

	return filepath.Join(home, ".hadaf"), nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
