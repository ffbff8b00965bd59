// Package toolset assembles the complete tool registry from configuration.
// Both the CLI and the MCP server build their registry here, so the two
// front-ends always expose the same tools.
package toolset

import (
	"fmt"

	"memomcp/internal/config"
	"memomcp/internal/extract"
	"memomcp/internal/fetch"
	"memomcp/internal/memo"
	"memomcp/internal/tools"
	"memomcp/internal/tools/core"
	"memomcp/internal/tools/memofile"
	"memomcp/internal/tools/research"
)

// Deps are the collaborators tools are wired to. Nil fields get production
// implementations built from the config.
type Deps struct {
	Fetcher   fetch.Fetcher
	Extractor research.ContentExtractor
	MemoFS    memo.FS
}

// New builds the registry in listing order: getStringLength, readUrl,
// saveMdMemoFile, getMdMemoFile, listMdMemoFile, grepMdMemoFile.
func New(cfg *config.Config, deps Deps) (*tools.Registry, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	if deps.Fetcher == nil {
		deps.Fetcher = fetch.NewHTTPFetcher(fetch.Options{
			Timeout:      cfg.GetHTTPTimeout(),
			UserAgent:    cfg.HTTP.UserAgent,
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		})
	}
	if deps.Extractor == nil {
		deps.Extractor = extract.New()
	}
	if deps.MemoFS == nil {
		deps.MemoFS = memo.OSFS{}
	}

	store := memo.NewStore(deps.MemoFS, cfg.Memo.Dir, memo.WithGrepConcurrency(cfg.Memo.GrepConcurrency))

	var all []*tools.Tool
	all = append(all, core.All()...)
	all = append(all, research.All(deps.Fetcher, deps.Extractor)...)
	all = append(all, memofile.All(store)...)

	reg, err := tools.NewRegistry(all...)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}
	return reg, nil
}

// Default builds the production registry for cfg.
func Default(cfg *config.Config) (*tools.Registry, error) {
	return New(cfg, Deps{})
}
