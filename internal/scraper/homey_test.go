package scraper

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestHomey(srvURL string) *Homey {
	fixed := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
	return &Homey{
		base:    srvURL,
		listing: srvURL + "/en-us/apps/homey-pro/",
		client:  newHTTPClient(),
		now:     func() time.Time { return fixed },
	}
}

func TestHomeyDiscoverSkipsKnownAndDedupes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/en-us/apps/homey-pro/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<html><body>
			<section><h2>New Apps</h2>
				<a href="/en-us/app/io.known/">Known App</a>
				<a href="/en-us/app/io.fresh/">Fresh App</a>
				<a href="/en-us/app/io.fresh/">Fresh App again</a>
				<a href="/en-us/app/io.other/">Other App</a>
			</section>
			<section><h2>Popular Apps</h2>
				<a href="/en-us/app/io.popular/">Popular App</a>
			</section>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := newTestHomey(srv.URL)
	known := map[string]struct{}{"io.known": {}}

	items, err := h.DiscoverNew(known, 50)
	if err != nil {
		t.Fatalf("DiscoverNew error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 new apps, got %d: %+v", len(items), items)
	}
	if items[0].ID != "io.fresh" || items[1].ID != "io.other" {
		t.Fatalf("unexpected ids: %q, %q", items[0].ID, items[1].ID)
	}
	if want := srv.URL + "/en-us/app/io.fresh/"; items[0].URL != want {
		t.Fatalf("unexpected url: %q", items[0].URL)
	}
	// Listing discovery dates the app itself, in the feed timezone.
	if items[0].Timestamp == "" {
		t.Fatalf("expected discovery timestamp on new app")
	}
	ts, err := time.Parse(time.RFC3339, items[0].Timestamp)
	if err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
	if !ts.Equal(time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp: %v", ts)
	}
	// A fresh candidate has no name yet, so it stays pending.
	if h.Complete(items[0]) {
		t.Fatalf("unenriched app must not count as complete")
	}
}

func TestHomeyDiscoverHeadingWithoutSection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/en-us/apps/homey-pro/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<html><body>
			<div><h3>New apps</h3>
				<a href="/en-us/app/io.solo/">Solo App</a>
			</div>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	items, err := newTestHomey(srv.URL).DiscoverNew(nil, 50)
	if err != nil {
		t.Fatalf("DiscoverNew error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "io.solo" {
		t.Fatalf("expected io.solo via heading parent fallback, got %+v", items)
	}
}

func TestHomeyDiscoverHonorsCap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/en-us/apps/homey-pro/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<html><body><section><h2>New Apps</h2>
			<a href="/en-us/app/io.a/">A</a>
			<a href="/en-us/app/io.b/">B</a>
			<a href="/en-us/app/io.c/">C</a>
		</section></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	items, err := newTestHomey(srv.URL).DiscoverNew(nil, 2)
	if err != nil {
		t.Fatalf("DiscoverNew error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected cap of 2 new apps, got %d", len(items))
	}
}

func TestHomeyEntryLinkStripsLocale(t *testing.T) {
	h := NewHomey()

	it := Item{URL: "https://homey.app/en-us/app/io.home-connect/"}
	if got, want := h.EntryLink(it), "https://homey.app/a/io.home-connect"; got != want {
		t.Fatalf("EntryLink = %q, want %q", got, want)
	}

	// URLs without an app path stay untouched.
	it = Item{URL: "https://homey.app/en-us/apps/"}
	if got := h.EntryLink(it); got != it.URL {
		t.Fatalf("EntryLink = %q, want unchanged url", got)
	}
}

func TestHomeyFetchDetails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/en-us/app/io.home-connect/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<html><head>
			<meta name="description" content="Control your home appliances">
			<meta property="og:image" content="https://cdn.example.com/og.png">
		</head><body>
			<h1>Home Connect</h1>
			<img src="https://cdn.example.com/icon-small.png">
			<img src="https://cdn.example.com/icon-large.png">
			<a href="/en-us/apps/author/123/">ACME GmbHCommunity</a>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := newTestHomey(srv.URL)

	d, err := h.FetchDetails(Item{ID: "io.home-connect", URL: srv.URL + "/en-us/app/io.home-connect/"})
	if err != nil {
		t.Fatalf("FetchDetails error: %v", err)
	}
	if d.Title != "Home Connect" {
		t.Fatalf("title = %q", d.Title)
	}
	if d.Description != "Control your home appliances" {
		t.Fatalf("description = %q", d.Description)
	}
	if d.Image != "https://cdn.example.com/icon-large.png" {
		t.Fatalf("image = %q, want large icon variant", d.Image)
	}
	if d.Developer != "ACME GmbH" {
		t.Fatalf("developer = %q, want badge suffix stripped", d.Developer)
	}
}

func TestHomeyFetchDetailsFallbacks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/en-us/app/io.bare/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<html><head>
			<meta property="og:image" content="https://cdn.example.com/og.png">
		</head><body>
			<h1>Bare App</h1>
			<div class="app-description">A very bare app.</div>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := newTestHomey(srv.URL)

	d, err := h.FetchDetails(Item{ID: "io.bare", URL: srv.URL + "/en-us/app/io.bare/"})
	if err != nil {
		t.Fatalf("FetchDetails error: %v", err)
	}
	if d.Description != "A very bare app." {
		t.Fatalf("description fallback = %q", d.Description)
	}
	if d.Image != "https://cdn.example.com/og.png" {
		t.Fatalf("image fallback = %q", d.Image)
	}
}

func TestHomeyAppID(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://homey.app/en-us/app/io.home-connect/", "io.home-connect"},
		{"https://homey.app/de-de/app/io.home-connect", "io.home-connect"},
		{"https://homey.app/en-us/apps/homey-pro/", ""},
	}
	for _, tc := range cases {
		if got := homeyAppID(tc.url); got != tc.want {
			t.Fatalf("homeyAppID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
