package core

import (
	"memomcp/internal/tools"
)

// All returns every core tool.
func All() []*tools.Tool {
	return []*tools.Tool{
		StringLengthTool(),
	}
}
