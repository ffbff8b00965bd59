// Package research provides tools that read content from the web.
//
// Tools:
//   - readUrl: Fetch a URL and extract its main content as Markdown
package research
