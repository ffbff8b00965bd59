package memo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name    string
	Regular bool
}

// FileInfo is the subset of file metadata memo tools report.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
}

// FS is the filesystem capability the memo store needs. Missing paths
// yield errors matching fs.ErrNotExist.
type FS interface {
	ReadText(path string) (string, error)
	WriteText(path, content string) error
	ListDir(dir string) ([]Entry, error)
	Stat(path string) (FileInfo, error)
	MkdirAll(dir string) error
}

// OSFS is the production FS backed by the os package.
type OSFS struct{}

var _ FS = OSFS{}

func (OSFS) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (OSFS) WriteText(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func (OSFS) ListDir(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, Entry{Name: de.Name(), Regular: de.Type().IsRegular()})
	}
	return entries, nil
}

func (OSFS) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}, nil
}

func (OSFS) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// MemFS is an in-memory FS for tests. The zero value is not usable; call NewMemFS.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]memFile
	dirs  map[string]bool
	now   func() time.Time
}

type memFile struct {
	content string
	modTime time.Time
}

var _ FS = (*MemFS)(nil)

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]memFile),
		dirs:  make(map[string]bool),
		now:   time.Now,
	}
}

// SetClock fixes the modification time source.
func (m *MemFS) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *MemFS) ReadText(path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[filepath.Clean(path)]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return f.content, nil
}

func (m *MemFS) WriteText(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if !m.dirs[filepath.Dir(path)] {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if m.dirs[path] {
		return &fs.PathError{Op: "open", Path: path, Err: fmt.Errorf("is a directory")}
	}
	m.files[path] = memFile{content: content, modTime: m.now()}
	return nil
}

func (m *MemFS) ListDir(dir string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dir = filepath.Clean(dir)
	if !m.dirs[dir] {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrNotExist}
	}

	var entries []Entry
	for p := range m.files {
		if filepath.Dir(p) == dir {
			entries = append(entries, Entry{Name: filepath.Base(p), Regular: true})
		}
	}
	for d := range m.dirs {
		if d != dir && filepath.Dir(d) == dir {
			entries = append(entries, Entry{Name: filepath.Base(d)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *MemFS) Stat(path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	if f, ok := m.files[path]; ok {
		return FileInfo{
			Name:    filepath.Base(path),
			Size:    int64(len(f.content)),
			ModTime: f.modTime,
			Mode:    0644,
		}, nil
	}
	if m.dirs[path] {
		return FileInfo{Name: filepath.Base(path), Mode: fs.ModeDir | 0755}, nil
	}
	return FileInfo{}, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *MemFS) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = filepath.Clean(dir)
	for {
		if _, isFile := m.files[dir]; isFile {
			return &fs.PathError{Op: "mkdir", Path: dir, Err: fmt.Errorf("not a directory")}
		}
		m.dirs[dir] = true
		parent := filepath.Dir(dir)
		if parent == dir || parent == string(filepath.Separator) {
			m.dirs[parent] = true
			return nil
		}
		dir = parent
	}
}
