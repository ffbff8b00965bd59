package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memomcp/internal/logging"
)

// Invoke looks up name in r, runs it with args and normalizes the outcome.
// It never returns an error and never panics: unknown tools, tool errors,
// tool panics and unserializable payloads all become an Err result.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) Result {
	invocationID := uuid.NewString()
	log := logging.Get(logging.CategoryTools).With(
		zap.String("invocation_id", invocationID),
		zap.String("tool", name),
	)

	tool, ok := r.Get(name)
	if !ok {
		log.Warn("unknown tool requested")
		return Err(name, fmt.Sprintf("Unknown tool: %s", name))
	}

	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	payload, err := execute(ctx, tool, args)
	elapsed := time.Since(start)

	var res Result
	if err != nil {
		res = Err(name, err.Error())
	} else {
		res = Ok(name, payload)
	}
	res.DurationMs = elapsed.Milliseconds()

	if res.IsError {
		logging.Audit().ToolExec(invocationID, name, res.DurationMs, false, res.Text)
	} else {
		logging.Audit().ToolExec(invocationID, name, res.DurationMs, true, "")
		log.Debug("tool succeeded", zap.Duration("duration", elapsed), zap.Int("bytes", len(res.Text)))
	}
	return res
}

// Invoke is shorthand for r.Invoke.
func Invoke(ctx context.Context, r *Registry, name string, args map[string]any) Result {
	return r.Invoke(ctx, name, args)
}

func execute(ctx context.Context, tool *Tool, args map[string]any) (payload string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool %s panicked: %v", tool.Name, rec)
		}
	}()

	out, err := tool.Execute(ctx, args)
	if err != nil {
		return "", err
	}
	return FormatPayload(out)
}

// FormatPayload renders a tool's return value as text. Strings pass through
// unchanged; everything else becomes two-space indented JSON.
func FormatPayload(v any) (string, error) {
	switch p := v.(type) {
	case string:
		return p, nil
	case []byte:
		return string(p), nil
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}
	return string(data), nil
}
