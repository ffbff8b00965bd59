package memofile

import (
	"context"
	"fmt"

	"memomcp/internal/logging"
	"memomcp/internal/memo"
	"memomcp/internal/tools"
)

type saveInput struct {
	Title   string `json:"title" jsonschema_description:"The title of the memo. This will be the file name. It must match [a-zA-Z0-9_]+"`
	Content string `json:"content" jsonschema_description:"The markdown content to save"`
}

type getInput struct {
	Title string `json:"title" jsonschema_description:"The title of the memo. This will be the file name. It must match [a-zA-Z0-9_]+"`
}

type grepInput struct {
	Pattern                  string  `json:"pattern" jsonschema_description:"The pattern to search"`
	IncludeNLinesSurrounding float64 `json:"include_n_lines_surrounding,omitempty" jsonschema_description:"The number of lines surrounding the matched line to include"`
}

// SaveTool returns a tool that creates or overwrites a memo file.
func SaveTool(store *memo.Store) *tools.Tool {
	return &tools.Tool{
		Name:        "saveMdMemoFile",
		Description: "Save a file with given markdown content",
		Schema:      tools.SchemaFor[saveInput](),
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return executeSave(store, args)
		},
	}
}

func executeSave(store *memo.Store, args map[string]any) (any, error) {
	title, err := tools.StringArg(args, "title")
	if err != nil {
		return nil, err
	}
	content, err := contentArg(args)
	if err != nil {
		return nil, err
	}

	name, err := store.Save(title, content)
	if err != nil {
		return nil, err
	}

	logging.Memo("saved %s (%d bytes)", name, len(content))
	return fmt.Sprintf("File saved: %s", name), nil
}

// contentArg reads "content", falling back to the legacy "url" key that
// older clients send the body under.
func contentArg(args map[string]any) (string, error) {
	if _, ok := args["content"]; ok {
		return tools.StringArg(args, "content")
	}
	if _, ok := args["url"]; ok {
		return tools.StringArg(args, "url")
	}
	return tools.StringArg(args, "content")
}

// GetTool returns a tool that reads a memo with its metadata.
func GetTool(store *memo.Store) *tools.Tool {
	return &tools.Tool{
		Name:        "getMdMemoFile",
		Description: "Get a file content and its metadata",
		Schema:      tools.SchemaFor[getInput](),
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			title, err := tools.StringArg(args, "title")
			if err != nil {
				return nil, err
			}
			return store.Get(title)
		},
	}
}

// ListTool returns a tool that lists memo file names.
func ListTool(store *memo.Store) *tools.Tool {
	return &tools.Tool{
		Name:        "listMdMemoFile",
		Description: "List all the files in the memo directory",
		Schema:      tools.NewToolSchema(),
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return store.List()
		},
	}
}

// GrepTool returns a tool that searches memos for a literal substring.
func GrepTool(store *memo.Store) *tools.Tool {
	return &tools.Tool{
		Name:        "grepMdMemoFile",
		Description: "Grep a file with given markdown content and returns the filename and matched lines",
		Schema:      tools.SchemaFor[grepInput]().SetDefault("include_n_lines_surrounding", 0),
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			pattern, err := tools.StringArg(args, "pattern")
			if err != nil {
				return nil, err
			}
			n, err := tools.NonNegativeIntArg(args, "include_n_lines_surrounding", 0)
			if err != nil {
				return nil, err
			}
			return store.Grep(ctx, pattern, n)
		},
	}
}
