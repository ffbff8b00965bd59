package research

import (
	"context"

	"memomcp/internal/fetch"
	"memomcp/internal/logging"
	"memomcp/internal/tools"
)

// ContentExtractor turns raw HTML into Markdown of the main content.
type ContentExtractor interface {
	Extract(html string) (string, error)
}

type readURLInput struct {
	URL string `json:"url" jsonschema_description:"The URL to read"`
}

// ReadURLTool returns a tool that fetches a page and extracts its main
// content as Markdown.
func ReadURLTool(fetcher fetch.Fetcher, extractor ContentExtractor) *tools.Tool {
	return &tools.Tool{
		Name:        "readUrl",
		Description: "Read a URL and extract the main content as Markdown",
		Schema:      tools.SchemaFor[readURLInput](),
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return executeReadURL(ctx, fetcher, extractor, args)
		},
	}
}

func executeReadURL(ctx context.Context, fetcher fetch.Fetcher, extractor ContentExtractor, args map[string]any) (any, error) {
	url, err := tools.StringArg(args, "url")
	if err != nil {
		return nil, err
	}

	logging.FetchDebug("readUrl: url=%s", url)

	body, err := fetcher.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}

	markdown, err := extractor.Extract(body)
	if err != nil {
		return nil, err
	}

	logging.Fetch("readUrl completed: %s (%d chars)", url, len(markdown))
	return markdown, nil
}
