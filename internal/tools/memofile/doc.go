// Package memofile provides tools over the Markdown memo directory.
//
// Tools:
//   - saveMdMemoFile: Create or overwrite <title>.md
//   - getMdMemoFile: Read a memo with its metadata
//   - listMdMemoFile: List memo file names
//   - grepMdMemoFile: Search memos for a literal substring with context lines
package memofile
