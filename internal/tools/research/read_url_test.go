package research

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"memomcp/internal/extract"
	"memomcp/internal/fetch"
	"memomcp/internal/tools"
)

type extractorFunc func(string) (string, error)

func (f extractorFunc) Extract(html string) (string, error) { return f(html) }

func TestReadURLTool_Schema(t *testing.T) {
	tool := ReadURLTool(nil, nil)
	if tool.Name != "readUrl" {
		t.Errorf("got name %q", tool.Name)
	}
	if !tool.Schema.IsRequired("url") {
		t.Error("url should be required")
	}
	prop, ok := tool.Schema.Property("url")
	if !ok || prop.Type != "string" {
		t.Errorf("url property: %+v", prop)
	}
}

func TestReadURLTool_Execute_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, `<html><body><article><h1>Hello World</h1><p>Test content.</p></article></body></html>`)
	}))
	defer ts.Close()

	tool := ReadURLTool(fetch.NewHTTPFetcher(fetch.Options{}), extract.New())
	result, err := tool.Execute(context.Background(), map[string]any{"url": ts.URL})
	if err != nil {
		t.Fatalf("readUrl failed: %v", err)
	}

	md, ok := result.(string)
	if !ok {
		t.Fatalf("expected string result, got %T", result)
	}
	if !strings.Contains(md, "# Hello World") {
		t.Errorf("Expected markdown header, got: %s", md)
	}
	if !strings.Contains(md, "Test content") {
		t.Errorf("Expected content, got: %s", md)
	}
}

func TestReadURLTool_Execute_404(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	tool := ReadURLTool(fetch.NewHTTPFetcher(fetch.Options{}), extract.New())
	_, err := tool.Execute(context.Background(), map[string]any{"url": ts.URL})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if err.Error() != "Failed to fetch URL: 404 Not Found" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReadURLTool_Execute_ArticleNotFound(t *testing.T) {
	fetcher := fetch.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		return "<html><body><script>x()</script></body></html>", nil
	})

	_, err := ReadURLTool(fetcher, extract.New()).Execute(context.Background(), map[string]any{"url": "http://example.test"})
	if !errors.Is(err, extract.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestReadURLTool_Execute_InvalidArgs(t *testing.T) {
	called := false
	fetcher := fetch.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		called = true
		return "", nil
	})
	tool := ReadURLTool(fetcher, extractorFunc(func(string) (string, error) { return "", nil }))

	tests := []struct {
		name    string
		args    map[string]any
		wantErr error
	}{
		{"missing url", map[string]any{}, tools.ErrMissingRequiredArg},
		{"numeric url", map[string]any{"url": 12.0}, tools.ErrInvalidArgType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(context.Background(), tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
	if called {
		t.Error("fetcher must not be called on invalid arguments")
	}
}

func TestReadURLTool_PassesBodyToExtractor(t *testing.T) {
	fetcher := fetch.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		return "<raw:" + url + ">", nil
	})
	var seen string
	extractor := extractorFunc(func(html string) (string, error) {
		seen = html
		return "converted", nil
	})

	out, err := ReadURLTool(fetcher, extractor).Execute(context.Background(), map[string]any{"url": "u"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "<raw:u>" || out != "converted" {
		t.Errorf("seen=%q out=%v", seen, out)
	}
}
