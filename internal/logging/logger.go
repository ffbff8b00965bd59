// Package logging provides categorized, zap-backed logging for memomcp.
//
// All output goes to stderr: stdout carries CLI results and the MCP stdio
// channel, so nothing else may write there. Until Initialize is called every
// logger is a no-op.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config loading
	CategoryTools   Category = "tools"   // Registry and invocation
	CategoryMemo    Category = "memo"    // Memo directory reads and writes
	CategoryFetch   Category = "fetch"   // Outbound HTTP
	CategoryExtract Category = "extract" // HTML content extraction
	CategoryServer  Category = "server"  // MCP stdio server
	CategoryCLI     Category = "cli"     // One-shot command line
	CategoryAudit   Category = "audit"   // Audit trail events
)

// Log formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Initialize builds the process logger at the given level and format,
// writing to stderr.
func Initialize(level, format string) error {
	logger, err := New(level, format, os.Stderr)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// New builds a logger writing to w. Level is one of debug, info, warn,
// error; format is console or json.
func New(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(format) {
	case "", FormatConsole:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// SetLogger replaces the process logger. Passing nil installs a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	base = l
	mu.Unlock()
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Get returns a logger named after category.
func Get(category Category) *zap.Logger {
	return L().Named(string(category))
}

// Sync flushes buffered log entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = L().Sync()
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

func Boot(format string, args ...any)      { Get(CategoryBoot).Sugar().Infof(format, args...) }
func BootDebug(format string, args ...any) { Get(CategoryBoot).Sugar().Debugf(format, args...) }
func BootWarn(format string, args ...any)  { Get(CategoryBoot).Sugar().Warnf(format, args...) }

func Tools(format string, args ...any)      { Get(CategoryTools).Sugar().Infof(format, args...) }
func ToolsDebug(format string, args ...any) { Get(CategoryTools).Sugar().Debugf(format, args...) }

func Memo(format string, args ...any)      { Get(CategoryMemo).Sugar().Infof(format, args...) }
func MemoDebug(format string, args ...any) { Get(CategoryMemo).Sugar().Debugf(format, args...) }

func Fetch(format string, args ...any)      { Get(CategoryFetch).Sugar().Infof(format, args...) }
func FetchDebug(format string, args ...any) { Get(CategoryFetch).Sugar().Debugf(format, args...) }

func ExtractDebug(format string, args ...any) { Get(CategoryExtract).Sugar().Debugf(format, args...) }

func Server(format string, args ...any)      { Get(CategoryServer).Sugar().Infof(format, args...) }
func ServerDebug(format string, args ...any) { Get(CategoryServer).Sugar().Debugf(format, args...) }
func ServerError(format string, args ...any) { Get(CategoryServer).Sugar().Errorf(format, args...) }

func CLIDebug(format string, args ...any) { Get(CategoryCLI).Sugar().Debugf(format, args...) }
