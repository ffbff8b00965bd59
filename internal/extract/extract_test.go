package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/net/html"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExtract_PrefersArticle(t *testing.T) {
	page := `<html><head><title>Site</title><script>var x = 1;</script></head>
<body>
  <header><a href="/">Home</a></header>
  <nav><ul><li><a href="/a">A</a></li></ul></nav>
  <article>
    <header><h1>The Title</h1></header>
    <p>First paragraph with <a href="https://example.com/x">a link</a> and <strong>bold</strong> text.</p>
    <p>Second   paragraph
       spanning lines.</p>
  </article>
  <footer>Copyright</footer>
</body></html>`

	md, err := New().Extract(page)
	require.NoError(t, err)

	want := "# The Title\n\n" +
		"First paragraph with [a link](https://example.com/x) and **bold** text.\n\n" +
		"Second paragraph spanning lines."
	assert.Equal(t, want, md)
}

func TestExtract_UsesMainWithoutArticle(t *testing.T) {
	page := `<body><div>sidebar junk</div><main><h2>Docs</h2><p>Main body.</p></main></body>`

	md, err := New().Extract(page)
	require.NoError(t, err)
	assert.Equal(t, "## Docs\n\nMain body.", md)
}

func TestExtract_ScoresParagraphContainers(t *testing.T) {
	long := strings.Repeat("This sentence, with commas, is content. ", 5)
	page := `<body>
  <div id="menu"><p>Short.</p></div>
  <div id="story"><p>` + long + `</p><p>` + long + `</p></div>
</body>`

	md, err := New().Extract(page)
	require.NoError(t, err)
	assert.NotContains(t, md, "Short.")
	assert.Contains(t, md, "This sentence, with commas, is content.")
}

func TestExtract_FallsBackToBody(t *testing.T) {
	md, err := New().Extract(`<body><span>tiny</span></body>`)
	require.NoError(t, err)
	assert.Equal(t, "tiny", md)
}

func TestExtract_ArticleNotFound(t *testing.T) {
	cases := []string{
		``,
		`<html><body></body></html>`,
		`<html><body><script>alert(1)</script><nav>menu</nav></body></html>`,
		`<body>   </body>`,
	}
	for _, page := range cases {
		_, err := New().Extract(page)
		assert.ErrorIs(t, err, ErrArticleNotFound, "page %q", page)
	}
	assert.Equal(t, "Article not found", ErrArticleNotFound.Error())
}

func TestMarkdown_Elements(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "unordered list",
			html: `<ul><li>one</li><li>two <em>it</em></li></ul>`,
			want: "- one\n- two *it*",
		},
		{
			name: "ordered list",
			html: `<ol><li>first</li><li>second</li></ol>`,
			want: "1. first\n2. second",
		},
		{
			name: "code block keeps spacing",
			html: "<pre><code>func main() {\n    fmt.Println(\"hi\")\n}</code></pre>",
			want: "```\nfunc main() {\n    fmt.Println(\"hi\")\n}\n```",
		},
		{
			name: "inline code",
			html: `<p>Run <code>go test</code> now.</p>`,
			want: "Run `go test` now.",
		},
		{
			name: "image",
			html: `<p><img src="/a.png" alt="diagram"></p>`,
			want: "![diagram](/a.png)",
		},
		{
			name: "fragment link drops target",
			html: `<p><a href="#top">Back</a></p>`,
			want: "Back",
		},
		{
			name: "blockquote",
			html: `<blockquote><p>quoted</p><p>twice</p></blockquote>`,
			want: "> quoted\n>\n> twice",
		},
		{
			name: "table with header",
			html: `<table><tr><th>k</th><th>v</th></tr><tr><td>a</td><td>1</td></tr></table>`,
			want: "| k | v |\n| --- | --- |\n| a | 1 |",
		},
		{
			name: "line break and rule",
			html: `<p>a<br>b</p><hr><p>c</p>`,
			want: "a\nb\n\n---\n\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := html.Parse(strings.NewReader("<html><body>" + tt.html + "</body></html>"))
			require.NoError(t, err)
			body := findBody(doc)
			require.NotNil(t, body)
			assert.Equal(t, tt.want, Markdown(body))
		})
	}
}

func TestCleanMarkdown(t *testing.T) {
	in := "  a   b  \n\n\n\n c\n```\n  keep   this\n\n\n\n```\n"
	assert.Equal(t, "a b\n\nc\n```\n  keep   this\n\n\n\n```", cleanMarkdown(in))
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
