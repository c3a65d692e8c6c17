package fahrplan

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c3speakers/utils"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<h1>Speakers</h1>
<ul>
  <li><a href="/congress/2015/Fahrplan/speakers/10.html">Alice</a></li>
  <li><a href="/congress/2015/Fahrplan/speakers/11.html"> Bob </a></li>
  <li><a href="https://events.ccc.de/congress/2015/Fahrplan/speakers/12.en.html">Carol &amp; Co</a></li>
  <li><a href="/congress/2015/Fahrplan/schedule.html">Schedule</a></li>
</ul>
</body></html>`

func newTestExtractor() (*Extractor, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewExtractor(utils.NewTestLogger(&buf)), &buf
}

func TestExtractListing(t *testing.T) {
	e, _ := newTestExtractor()

	got, err := e.ExtractListing([]byte(listingPage))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"10": "Alice",
		"11": " Bob ",
		"12": "Carol & Co",
	}, got)
}

func TestExtractListingIsIdempotent(t *testing.T) {
	e, _ := newTestExtractor()

	first, err := e.ExtractListing([]byte(listingPage))
	require.NoError(t, err)
	second, err := e.ExtractListing([]byte(listingPage))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractListingWithoutSpeakers(t *testing.T) {
	e, _ := newTestExtractor()

	got, err := e.ExtractListing([]byte(`<html><body><a href="/about.html">About</a></body></html>`))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = e.ExtractListing(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractListingSkipsMalformedLinks(t *testing.T) {
	e, logs := newTestExtractor()

	page := `<a href="/Fahrplan/speakers/abc.html">Nobody</a>
<a href="/Fahrplan/speakers/">Index</a>
<a href="/Fahrplan/speakers/7.html">Dave</a>`

	got, err := e.ExtractListing([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"7": "Dave"}, got)
	assert.Contains(t, logs.String(), "faulty URL for speaker: /Fahrplan/speakers/abc.html")
}

func TestExtractListingLastDuplicateWins(t *testing.T) {
	e, _ := newTestExtractor()

	page := `<a href="/Fahrplan/speakers/5.html">Eve</a>
<a href="/Fahrplan/speakers/5.en.html">Eve Example</a>`

	got, err := e.ExtractListing([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"5": "Eve Example"}, got)
}

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		want   string
		wantOK bool
	}{
		{
			name:   "plain link",
			page:   `<a href="https://twitter.com/alice_42">@alice_42</a>`,
			want:   "alice_42",
			wantOK: true,
		},
		{
			name:   "at sign and query",
			page:   `<a href="http://twitter.com/@bob?lang=en">bob</a>`,
			want:   "bob",
			wantOK: true,
		},
		{
			name:   "first valid link wins",
			page:   `<a href="https://twitter.com/first">1</a><a href="https://twitter.com/second">2</a>`,
			want:   "first",
			wantOK: true,
		},
		{
			name:   "malformed link skipped",
			page:   `<a href="https://twitter.com/#!/">broken</a><a href="https://twitter.com/carol">carol</a>`,
			want:   "carol",
			wantOK: true,
		},
		{
			name:   "no twitter link",
			page:   `<a href="https://mastodon.social/@dave">dave</a>`,
			wantOK: false,
		},
		{
			name:   "only malformed",
			page:   `<a href="https://twitter.com/">home</a>`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(utils.NewTestLogger(io.Discard))
			got, ok, err := e.ExtractHandle([]byte(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
