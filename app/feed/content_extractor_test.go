package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

const articlePage = `
<!DOCTYPE html>
<html>
<head>
	<title>Test Article</title>
</head>
<body>
	<header>
		<h1>Site Header</h1>
		<nav>Navigation</nav>
	</header>
	<main>
		<article>
			<h1>Main Article Title</h1>
			<p>This is the main content of the article. It contains several paragraphs of meaningful text that should be extracted by the readability algorithm.</p>
			<p>This is another paragraph with more content. The readability algorithm should identify this as the main content area and extract it properly.</p>
			<p>Here is some more substantial content to ensure we meet the character threshold. This paragraph adds more context and information that would be valuable to readers.</p>
		</article>
	</main>
	<aside>
		<div>Advertisement</div>
		<div>Related Links</div>
	</aside>
	<footer>
		<p>Copyright 2024</p>
	</footer>
</body>
</html>
`

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Failed to parse URL: %v", err)
	}
	return u
}

func TestContentExtractor_ExtractFromHTML(t *testing.T) {
	extractor := NewContentExtractor(&http.Client{}, "test")

	result, ok := extractor.ExtractFromHTML([]byte(articlePage), mustParseURL(t, "https://example.com/a"))
	if !ok {
		t.Fatal("Expected content to be extracted")
	}

	if !strings.Contains(result, "main content of the article") {
		t.Errorf("Expected extracted content to contain main article text")
	}
	if strings.Contains(result, "Advertisement") {
		t.Errorf("Expected extracted content to exclude advertisement")
	}
	if strings.Contains(result, "<p>") {
		t.Errorf("Expected plain text, got markup: %s", result)
	}
	if CharCount(result) <= MinContentLength {
		t.Errorf("Expected more than %d characters, got: %d", MinContentLength, CharCount(result))
	}
}

func TestContentExtractor_ShortPage(t *testing.T) {
	extractor := NewContentExtractor(&http.Client{}, "test")

	page := `<html><body><article><p>Too short.</p></article></body></html>`
	if _, ok := extractor.ExtractFromHTML([]byte(page), mustParseURL(t, "https://example.com/a")); ok {
		t.Error("Expected no content for a page below the threshold")
	}
}

func TestContentExtractor_EmptyInput(t *testing.T) {
	extractor := NewContentExtractor(&http.Client{}, "test")
	if _, ok := extractor.ExtractFromHTML(nil, mustParseURL(t, "https://example.com/a")); ok {
		t.Error("Expected no content for empty input")
	}
}

func TestSelectorStrategy(t *testing.T) {
	body := strings.Repeat("Selector content sentence. ", 12)
	page := `<html><body><nav>` + strings.Repeat("menu ", 80) + `</nav>` +
		`<div class="post-content">` + body + `</div></body></html>`

	text, err := SelectorStrategy{Selectors: contentSelectors}.Extract([]byte(page), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != strings.TrimSpace(body) {
		t.Errorf("Expected post content, got: %q", text)
	}
}

func TestParagraphStrategy(t *testing.T) {
	page := `<html><body><div><p>First paragraph.</p><span>ignored</span><p>Second   paragraph.</p></div>` +
		`<footer><p>Footer text</p></footer></body></html>`

	text, err := ParagraphStrategy{}.Extract([]byte(page), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "First paragraph. Second paragraph." {
		t.Errorf("Expected joined paragraphs, got: %q", text)
	}
}

func TestContentExtractor_Run(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(articlePage))
		case "/image":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("PNG"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	extractor := NewContentExtractor(server.Client(), "test")

	if _, ok := extractor.Run(context.Background(), server.URL+"/article"); !ok {
		t.Error("Expected content for HTML article")
	}
	if _, ok := extractor.Run(context.Background(), server.URL+"/image"); ok {
		t.Error("Expected no content for non-HTML response")
	}
	if _, ok := extractor.Run(context.Background(), server.URL+"/missing"); ok {
		t.Error("Expected no content for 404")
	}
	if _, ok := extractor.Run(context.Background(), "not a url"); ok {
		t.Error("Expected no content for an invalid URL")
	}
}
