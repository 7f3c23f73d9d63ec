package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lysyi3m/rss-digest/app/errs"
)

const sampleOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="1.0">
  <head><title>RSS Feeds</title></head>
  <body>
    <outline text="World News" title="World News">
      <outline type="rss" text="BBC News" title="BBC News" xmlUrl="https://feeds.bbci.co.uk/news/rss.xml"/>
      <outline text="Europe">
        <outline type="rss" text="Euro Daily" xmlUrl="https://euro.example.com/rss"/>
      </outline>
    </outline>
    <outline text="Tech &amp; Science!">
      <outline type="rss" title="Ars Technica" xmlUrl="https://feeds.arstechnica.com/arstechnica/index"/>
      <outline type="rss" title="Own Category" category="Gadgets" xmlUrl="https://gadgets.example.com/feed"/>
    </outline>
    <outline type="rss" text="Top Level" xmlUrl="https://top.example.com/feed"/>
    <outline text="Empty Category"/>
  </body>
</opml>`

func TestDecodeOPML(t *testing.T) {
	descriptors, err := Decode(FormatOPML, []byte(sampleOPML))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []Descriptor{
		{URL: "https://feeds.bbci.co.uk/news/rss.xml", Title: "BBC News", Category: "world_news"},
		{URL: "https://euro.example.com/rss", Title: "Euro Daily", Category: "europe"},
		{URL: "https://feeds.arstechnica.com/arstechnica/index", Title: "Ars Technica", Category: "tech_science"},
		{URL: "https://gadgets.example.com/feed", Title: "Own Category", Category: "gadgets"},
		{URL: "https://top.example.com/feed", Title: "Top Level", Category: "general"},
	}

	if !reflect.DeepEqual(descriptors, expected) {
		t.Errorf("Unexpected descriptors:\n got: %+v\nwant: %+v", descriptors, expected)
	}
}

func TestCleanCategory(t *testing.T) {
	tests := map[string]string{
		"Technology":       "technology",
		"  World   News ":  "world_news",
		"Tech & Science!":  "tech_science",
		"sci-fi":           "sci-fi",
		"???":              "general",
		"":                 "general",
		"Nachrichten Über": "nachrichten_über",
	}

	for input, expected := range tests {
		if got := CleanCategory(input); got != expected {
			t.Errorf("CleanCategory(%q): expected %q, got %q", input, expected, got)
		}
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New([]Descriptor{
		{URL: " https://a.example.com/feed ", Title: "A"},
		{URL: "", Title: "No URL"},
		{URL: "https://b.example.com/feed", Category: "tech"},
	})

	feeds := c.Feeds()
	if len(feeds) != 2 {
		t.Fatalf("Expected 2 feeds, got: %d", len(feeds))
	}
	if feeds[0].URL != "https://a.example.com/feed" {
		t.Errorf("Expected trimmed URL, got: %q", feeds[0].URL)
	}
	if feeds[0].Category != DefaultCategory {
		t.Errorf("Expected default category, got: %q", feeds[0].Category)
	}

	feeds[0].Title = "mutated"
	if c.Feeds()[0].Title != "A" {
		t.Error("Expected catalog to be immutable through Feeds()")
	}
}

func TestRoundTrip(t *testing.T) {
	original := New([]Descriptor{
		{URL: "https://feeds.bbci.co.uk/news/rss.xml", Title: "BBC News", Category: "news"},
		{URL: "https://techcrunch.com/feed/", Title: "TechCrunch", Category: "technology"},
		{URL: "https://untitled.example.com/rss", Category: "news"},
	})

	for _, name := range []string{"feeds.json", "feeds.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Write(path, original); err != nil {
				t.Fatalf("Expected no error writing, got: %v", err)
			}

			reloaded, err := Load(path)
			if err != nil {
				t.Fatalf("Expected no error loading, got: %v", err)
			}

			if !reflect.DeepEqual(reloaded.Feeds(), original.Feeds()) {
				t.Errorf("Round trip mismatch:\n got: %+v\nwant: %+v", reloaded.Feeds(), original.Feeds())
			}
		})
	}
}

func TestOPMLExportKeepsCategories(t *testing.T) {
	original := New([]Descriptor{
		{URL: "https://a.example.com/feed", Title: "A", Category: "news"},
		{URL: "https://b.example.com/feed", Title: "B", Category: "technology"},
		{URL: "https://c.example.com/feed", Title: "C", Category: "news"},
	})

	path := filepath.Join(t.TempDir(), "feeds.opml")
	if err := Write(path, original); err != nil {
		t.Fatalf("Expected no error writing, got: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error loading, got: %v", err)
	}

	// OPML groups by category, so feeds come back grouped in first-seen order.
	expected := []Descriptor{original.Feeds()[0], original.Feeds()[2], original.Feeds()[1]}
	if !reflect.DeepEqual(reloaded.Feeds(), expected) {
		t.Errorf("Unexpected OPML round trip:\n got: %+v\nwant: %+v", reloaded.Feeds(), expected)
	}
}

func TestLoadFailuresAreFatal(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{broken, filepath.Join(dir, "missing.opml"), filepath.Join(dir, "feeds.txt")} {
		_, err := Load(path)
		if err == nil {
			t.Errorf("Expected error for %s", path)
			continue
		}
		if !errs.IsFatal(err) {
			t.Errorf("Expected fatal error for %s, got: %v", path, err)
		}
	}
}

func TestStats(t *testing.T) {
	c := New([]Descriptor{
		{URL: "https://a.example.com/feed", Title: "A", Category: "news"},
		{URL: "https://b.example.com/feed", Category: "tech"},
		{URL: "https://c.example.com/feed", Title: "C", Category: "news"},
	})

	stats := c.Stats()
	if stats.TotalFeeds != 3 {
		t.Errorf("Expected 3 feeds, got: %d", stats.TotalFeeds)
	}
	if stats.CategoryCount() != 2 {
		t.Fatalf("Expected 2 categories, got: %d", stats.CategoryCount())
	}
	if stats.Categories[0].Name != "news" || !reflect.DeepEqual(stats.Categories[0].Feeds, []string{"A", "C"}) {
		t.Errorf("Unexpected first category: %+v", stats.Categories[0])
	}
	if stats.Categories[1].Feeds[0] != "https://b.example.com/feed" {
		t.Errorf("Expected URL as title fallback, got: %s", stats.Categories[1].Feeds[0])
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	opml := filepath.Join(dir, "config", "feeds.opml")
	jsonPath := filepath.Join(dir, "config", "feeds.json")

	if err := Write(jsonPath, New([]Descriptor{{URL: "https://a.example.com/feed"}})); err != nil {
		t.Fatal(err)
	}

	path, err := Resolve(opml, jsonPath)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if path != jsonPath {
		t.Errorf("Expected existing JSON catalog, got: %s", path)
	}

	if err := os.Remove(jsonPath); err != nil {
		t.Fatal(err)
	}

	path, err = Resolve(opml, jsonPath)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if path != opml {
		t.Errorf("Expected default catalog at %s, got: %s", opml, path)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Expected default catalog to load, got: %v", err)
	}
	if !reflect.DeepEqual(c.Feeds(), Default().Feeds()) {
		t.Errorf("Expected default feeds, got: %+v", c.Feeds())
	}
}

func TestOPMLExportUntitledFeed(t *testing.T) {
	original := New([]Descriptor{
		{URL: "https://untitled.example.com/feed", Category: "news"},
		{URL: "https://spaced.example.com/feed", Title: "Spaced", Category: "Tech News"},
	})

	data, err := Encode(FormatOPML, original)
	if err != nil {
		t.Fatalf("Expected no error encoding, got: %v", err)
	}

	descriptors, err := Decode(FormatOPML, data)
	if err != nil {
		t.Fatalf("Expected no error decoding, got: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("Expected 2 descriptors, got: %+v", descriptors)
	}

	if descriptors[0].Title != "" {
		t.Errorf("Expected untitled feed to stay untitled, got: %q", descriptors[0].Title)
	}
	// Category names go through the same cleaning as any imported OPML.
	if descriptors[1].Category != "tech_news" {
		t.Errorf("Expected cleaned category 'tech_news', got: %q", descriptors[1].Category)
	}
}
