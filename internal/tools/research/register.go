package research

import (
	"memomcp/internal/fetch"
	"memomcp/internal/tools"
)

// All returns every research tool, wired to the given collaborators.
func All(fetcher fetch.Fetcher, extractor ContentExtractor) []*tools.Tool {
	return []*tools.Tool{
		ReadURLTool(fetcher, extractor),
	}
}
