package core

import (
	"context"
	"strconv"
	"unicode/utf8"

	"memomcp/internal/tools"
)

type stringLengthInput struct {
	Input string `json:"input" jsonschema_description:"The input string"`
}

// StringLengthTool returns a tool that counts the code points of a string.
func StringLengthTool() *tools.Tool {
	return &tools.Tool{
		Name:        "getStringLength",
		Description: "Get the length of a string",
		Schema:      tools.SchemaFor[stringLengthInput](),
		Execute:     executeStringLength,
	}
}

func executeStringLength(ctx context.Context, args map[string]any) (any, error) {
	input, err := tools.StringArg(args, "input")
	if err != nil {
		return nil, err
	}
	return strconv.Itoa(utf8.RuneCountInString(input)), nil
}
