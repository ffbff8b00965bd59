// Package memo manages a flat directory of Markdown memo files.
//
// Each memo is stored as <dir>/<title>.md. Titles are restricted to
// [a-zA-Z0-9_]+ so a title can never escape the directory. Files are
// created or overwritten by Save and are never deleted. Concurrent writers
// to the same title race; the last write wins.
package memo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"memomcp/internal/logging"
)

// Extension is the suffix of every memo file.
const Extension = ".md"

// DefaultGrepConcurrency bounds parallel file reads during Grep.
const DefaultGrepConcurrency = 8

var (
	// ErrMemoDirNotSet is returned when no memo directory is configured.
	ErrMemoDirNotSet = errors.New("Environment variable MD_MEMO_DIR is not set")

	// ErrNotFound is returned when a memo file does not exist.
	ErrNotFound = errors.New("File not found")

	// ErrInvalidTitle is returned for titles outside [a-zA-Z0-9_]+.
	ErrInvalidTitle = errors.New("invalid title")
)

var titlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidTitle reports whether title is an acceptable memo name.
func ValidTitle(title string) bool {
	return titlePattern.MatchString(title)
}

// FileName returns the on-disk name for title.
func FileName(title string) string {
	return title + Extension
}

// Meta is the metadata reported alongside a memo's content.
type Meta struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
	Mode    string    `json:"mode"`
}

// Memo is a memo file with its metadata.
type Memo struct {
	Title   string `json:"title"`
	Meta    Meta   `json:"meta"`
	Content string `json:"content"`
}

// MatchedLine is one grep hit with its surrounding context.
type MatchedLine struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
}

// FileMatches groups the hits found in one memo file.
type FileMatches struct {
	File         string        `json:"file"`
	MatchedLines []MatchedLine `json:"matchedLines"`
}

// Store reads and writes memos in a single directory through an FS.
type Store struct {
	fs          FS
	dir         string
	concurrency int
}

// Option configures a Store.
type Option func(*Store)

// WithGrepConcurrency sets how many files Grep reads at once.
func WithGrepConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewStore creates a store rooted at dir. An empty dir is accepted; every
// operation then fails with ErrMemoDirNotSet.
func NewStore(fsys FS, dir string, opts ...Option) *Store {
	if fsys == nil {
		fsys = OSFS{}
	}
	s := &Store{fs: fsys, dir: dir, concurrency: DefaultGrepConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the memo directory, possibly empty.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) pathFor(title string) (string, error) {
	if s.dir == "" {
		return "", ErrMemoDirNotSet
	}
	if !ValidTitle(title) {
		return "", fmt.Errorf("%w: %q must match [a-zA-Z0-9_]+", ErrInvalidTitle, title)
	}
	return filepath.Join(s.dir, FileName(title)), nil
}

// Save creates the directory if needed and writes content to the memo,
// replacing any previous content. It returns the file name written.
func (s *Store) Save(title, content string) (string, error) {
	path, err := s.pathFor(title)
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(s.dir); err != nil {
		return "", fmt.Errorf("failed to create memo directory: %w", err)
	}

	err = s.fs.WriteText(path, content)
	logging.Audit().FileOp(logging.AuditFileWrite, path, int64(len(content)), err)
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", FileName(title), err)
	}

	logging.MemoDebug("saved %s (%d bytes)", path, len(content))
	return FileName(title), nil
}

// Get returns the memo's content and metadata.
func (s *Store) Get(title string) (*Memo, error) {
	path, err := s.pathFor(title)
	if err != nil {
		return nil, err
	}

	info, err := s.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, FileName(title))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", FileName(title), err)
	}

	content, err := s.fs.ReadText(path)
	logging.Audit().FileOp(logging.AuditFileRead, path, info.Size, err)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, FileName(title))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName(title), err)
	}

	return &Memo{
		Title: title,
		Meta: Meta{
			Name:    info.Name,
			Size:    info.Size,
			ModTime: info.ModTime,
			Mode:    info.Mode.String(),
		},
		Content: content,
	}, nil
}

// List returns the names of the memo files, sorted. A missing directory
// lists as empty.
func (s *Store) List() ([]string, error) {
	if s.dir == "" {
		return nil, ErrMemoDirNotSet
	}

	entries, err := s.fs.ListDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list memo directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Regular && strings.HasSuffix(e.Name, Extension) {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Grep searches every memo for lines containing pattern literally.
// Each hit carries up to surrounding lines of context on either side.
// Only files with hits are returned, in file name order.
func (s *Store) Grep(ctx context.Context, pattern string, surrounding int) ([]FileMatches, error) {
	if surrounding < 0 {
		return nil, fmt.Errorf("surrounding line count must be non-negative, got %d", surrounding)
	}

	names, err := s.List()
	if err != nil {
		return nil, err
	}

	perFile := make([][]MatchedLine, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := s.fs.ReadText(filepath.Join(s.dir, name))
			if errors.Is(err, fs.ErrNotExist) {
				logging.MemoDebug("grep: %s removed before it was read", name)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			perFile[i] = grepLines(content, pattern, surrounding)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := []FileMatches{}
	for i, name := range names {
		if len(perFile[i]) > 0 {
			results = append(results, FileMatches{File: name, MatchedLines: perFile[i]})
		}
	}

	logging.MemoDebug("grep %q: %d of %d files matched", pattern, len(results), len(names))
	return results, nil
}

func grepLines(content, pattern string, n int) []MatchedLine {
	lines := strings.Split(content, "\n")

	var matched []MatchedLine
	for i, line := range lines {
		if !strings.Contains(line, pattern) {
			continue
		}
		start := max(0, i-n)
		end := min(len(lines), i+n+1)
		matched = append(matched, MatchedLine{
			Line:    i,
			Content: strings.Join(lines[start:end], "\n"),
		})
	}
	return matched
}
