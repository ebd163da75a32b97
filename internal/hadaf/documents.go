package hadaf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/core/syntax"
)

// DocumentService runs documents through the handler, on text or on files.
type DocumentService struct {
	fs       afero.Fs
	codec    *syntax.Codec
	handler  *Handler
	patterns []string
	log      zerolog.Logger
}

// NewDocumentService creates a DocumentService. Patterns select the files
// found by Find and accepted by Matches.
func NewDocumentService(fs afero.Fs, codec *syntax.Codec, handler *Handler, patterns []string, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		fs:       fs,
		codec:    codec,
		handler:  handler,
		patterns: patterns,
		log:      log,
	}
}

// Handle parses text, handles it and renders the result.
func (s *DocumentService) Handle(ctx context.Context, text string) (string, error) {
	items, err := s.handler.Handle(ctx, s.codec.Parse(text))
	if err != nil {
		return "", err
	}
	return s.codec.Stringify(items), nil
}

// Format normalizes text without touching the database.
func (s *DocumentService) Format(text string) string {
	return s.codec.Stringify(s.codec.Parse(text))
}

// HandleFile handles the document at path and rewrites it when the result
// differs. It reports whether the file changed.
func (s *DocumentService) HandleFile(ctx context.Context, path string) (bool, error) {
	ctx = logging.WithDocument(ctx, path)
	return s.rewrite(ctx, path, true, func(text string) (string, error) {
		return s.Handle(ctx, text)
	})
}

// FormatFile normalizes the document at path in place. It reports whether the
// file changed.
func (s *DocumentService) FormatFile(ctx context.Context, path string) (bool, error) {
	ctx = logging.WithDocument(ctx, path)
	return s.rewrite(ctx, path, true, s.format)
}

// CheckFormat reports whether FormatFile would change the document at path,
// without writing it.
func (s *DocumentService) CheckFormat(ctx context.Context, path string) (bool, error) {
	ctx = logging.WithDocument(ctx, path)
	return s.rewrite(ctx, path, false, s.format)
}

func (s *DocumentService) format(text string) (string, error) {
	return s.Format(text), nil
}

func (s *DocumentService) rewrite(ctx context.Context, path string, write bool, fn func(string) (string, error)) (bool, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("read document: %w", err)
	}

	text := string(raw)
	out, err := fn(text)
	if err != nil {
		return false, err
	}
	if strings.HasSuffix(text, "\n") && out != "" {
		out += "\n"
	}

	if out == text {
		s.log.Debug().Ctx(ctx).Msg("document unchanged")
		return false, nil
	}
	if !write {
		return true, nil
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat document: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write document: %w", err)
	}

	s.log.Info().Ctx(ctx).Msg("document rewritten")
	return true, nil
}

// Matches reports whether path, relative to root, is selected by the
// document patterns.
func (s *DocumentService) Matches(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Find returns the documents under root matching the patterns, sorted.
// Hidden directories are skipped.
func (s *DocumentService) Find(root string) ([]string, error) {
	var paths []string
	err := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.log.Debug().Err(err).Str("path", path).Msg("skipping path during walk")
			return nil
		}
		if info.IsDir() {
			if path != root && isHidden(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.Matches(root, path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	slices.Sort(paths)
	return paths, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
