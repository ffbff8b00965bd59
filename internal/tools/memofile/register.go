package memofile

import (
	"memomcp/internal/memo"
	"memomcp/internal/tools"
)

// All returns every memo tool bound to store.
func All(store *memo.Store) []*tools.Tool {
	return []*tools.Tool{
		SaveTool(store),
		GetTool(store),
		ListTool(store),
		GrepTool(store),
	}
}
