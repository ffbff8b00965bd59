package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"memomcp/internal/logging"
	"memomcp/internal/tools"
)

var errNoTool = errors.New("no tool specified (use --tool <name>, or --list to see available tools)")

// runOneShot lists the tools or runs exactly one of them.
func (c *cli) runOneShot(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}

	reg, err := c.newRegistry(c.cfg)
	if err != nil {
		return err
	}

	if c.list {
		return c.printListing(cmd, reg)
	}
	if c.toolName == "" {
		return errNoTool
	}

	toolArgs, err := parseArgs(c.argsJSON)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Running tool: %s\n", c.toolName)
	res := reg.Invoke(cmd.Context(), c.toolName, toolArgs)
	logging.CLIDebug("%s finished in %dms (error=%t)", c.toolName, res.DurationMs, res.IsError)
	if res.IsError {
		return errors.New(res.Text)
	}

	return c.printText(cmd, res.Text)
}

// parseArgs decodes --args. Anything other than a JSON object is rejected.
func parseArgs(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON in --args: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON in --args: trailing data after object")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid --args: expected a JSON object, got %s", tools.JSONTypeName(v))
	}
	return normalizeNumbers(obj).(map[string]any), nil
}

// normalizeNumbers converts json.Number values to float64 so CLI arguments
// look exactly like those decoded by the MCP server.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}

func (c *cli) printListing(cmd *cobra.Command, reg *tools.Registry) error {
	r := tools.NewListingRenderer()
	if c.render {
		r.SetIncludeSchemas(false)
		return c.printText(cmd, r.RenderMarkdown(reg.Definitions()))
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), r.RenderText(reg.Definitions()))
	return err
}

// printText writes text to stdout, through glamour when --render is set.
func (c *cli) printText(cmd *cobra.Command, text string) error {
	if c.render {
		rendered, err := renderMarkdown(text)
		if err != nil {
			logging.CLIDebug("markdown rendering failed, printing raw text: %v", err)
		} else {
			text = rendered
		}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}
