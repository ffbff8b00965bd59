package logging

import (
	"go.uber.org/zap"
)

// AuditEventType names a structured audit event.
type AuditEventType string

const (
	// Tool execution
	AuditToolComplete AuditEventType = "tool_complete"
	AuditToolError    AuditEventType = "tool_error"

	// Memo file operations
	AuditFileRead  AuditEventType = "file_read"
	AuditFileWrite AuditEventType = "file_write"
	AuditFileError AuditEventType = "file_error"
)

// AuditLogger emits one structured record per event on the audit category.
type AuditLogger struct {
	logger *zap.Logger
}

// Audit returns an audit logger bound to the current process logger.
func Audit() *AuditLogger {
	return &AuditLogger{logger: Get(CategoryAudit)}
}

// ToolExec records the outcome of one tool invocation.
func (a *AuditLogger) ToolExec(invocationID, toolName string, durationMs int64, success bool, errMsg string) {
	event := AuditToolComplete
	if !success {
		event = AuditToolError
	}
	fields := []zap.Field{
		zap.String("event", string(event)),
		zap.String("invocation_id", invocationID),
		zap.String("tool", toolName),
		zap.Int64("duration_ms", durationMs),
		zap.Bool("success", success),
	}
	if errMsg != "" {
		fields = append(fields, zap.String("error", errMsg))
	}
	a.logger.Info("tool_exec", fields...)
}

// FileOp records a memo file read or write. Failures are recorded as
// file_error with the attempted operation in "op".
func (a *AuditLogger) FileOp(op AuditEventType, path string, size int64, err error) {
	event := op
	if err != nil {
		event = AuditFileError
	}
	fields := []zap.Field{
		zap.String("event", string(event)),
		zap.String("op", string(op)),
		zap.String("path", path),
		zap.Int64("size", size),
		zap.Bool("success", err == nil),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	a.logger.Debug("file_op", fields...)
}
