package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c3speakers/config"
	"c3speakers/congress"
	"c3speakers/models"
	"c3speakers/utils"
)

// fahrplanSite serves a minimal 2016 Fahrplan whose speakers can change
// between runs.
type fahrplanSite struct {
	mu       sync.Mutex
	speakers map[string]string
	handles  map[string]string
}

func (f *fahrplanSite) set(speakers, handles map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speakers, f.handles = speakers, handles
}

func (f *fahrplanSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const prefix = "/2016/Fahrplan/speakers"
	switch {
	case r.URL.Path == prefix+".html":
		var b strings.Builder
		b.WriteString("<html><body><ul>")
		for _, id := range models.SortedIDs(f.speakers) {
			fmt.Fprintf(&b, `<li><a href="%s/%s.html">%s</a></li>`, prefix, id, f.speakers[id])
		}
		b.WriteString(`<li><a href="/2016/Fahrplan/events.html">Events</a></li></ul></body></html>`)
		io.WriteString(w, b.String())
	case strings.HasPrefix(r.URL.Path, prefix+"/"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix+"/"), ".html")
		if _, ok := f.speakers[id]; !ok {
			http.NotFound(w, r)
			return
		}
		body := "<html><body><p>Profile</p>"
		if h, ok := f.handles[id]; ok {
			body += fmt.Sprintf(`<a href="https://twitter.com/%s">@%s</a>`, h, h)
		}
		io.WriteString(w, body+"</body></html>")
	default:
		http.NotFound(w, r)
	}
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.DBDirPath = t.TempDir()
	cfg.RequestTimeout = 2 * time.Second
	cfg.RequestDelay = 0
	cfg.RetryBaseDelay = 0
	return cfg
}

func fixedResolver() *congress.Resolver {
	return congress.New(func() time.Time {
		return time.Date(2019, time.December, 27, 0, 0, 0, 0, time.UTC)
	})
}

func TestPipelineFirstAndSecondRun(t *testing.T) {
	site := &fahrplanSite{}
	site.set(
		map[string]string{"1": "Alice", "2": "Bob", "3": "Carol"},
		map[string]string{"1": "alice", "2": "bob"},
	)
	srv := httptest.NewServer(site)
	defer srv.Close()

	p := newPipeline(testConfig(t, srv.URL), utils.NewTestLogger(io.Discard), fixedResolver())
	ctx := context.Background()

	first, err := p.run(ctx, "2016", "", "")
	require.NoError(t, err)
	assert.Equal(t, models.Edition{Year: 2016, Number: 33}, first.Edition)
	assert.Equal(t, srv.URL+"/2016/Fahrplan/speakers.html", first.Source)
	assert.Equal(t, 3, first.Discovered)
	assert.Equal(t, 3, first.NewNames())
	assert.Equal(t, 2, first.HandlesDetected)
	assert.Equal(t, 2, first.NewHandles())
	assert.True(t, first.NameDiff.Empty())
	assert.True(t, first.HandleDiff.Empty())
	assert.False(t, first.Degraded)

	site.set(
		map[string]string{"1": "Alicia", "3": "Carol", "4": "Dave"},
		map[string]string{"1": "alicia", "3": "carol"},
	)

	second, err := p.run(ctx, "", "33c3", "")
	require.NoError(t, err)
	assert.Equal(t, 1, second.NewNames())
	assert.Equal(t, 1, second.NewHandles())
	assert.Equal(t, map[string]string{"1": "Alicia"}, second.NameDiff.Changed)
	assert.Equal(t, map[string]string{"2": "Bob"}, second.NameDiff.Removed)
	assert.Equal(t, "Alice", second.StoredNames["1"])
	assert.Equal(t, map[string]string{"1": "alicia"}, second.HandleDiff.Changed)
	assert.Equal(t, map[string]string{"2": "bob"}, second.HandleDiff.Removed)
}

func TestPipelineUsesForeignURL(t *testing.T) {
	site := &fahrplanSite{}
	site.set(map[string]string{"7": "Grace"}, nil)
	srv := httptest.NewServer(site)
	defer srv.Close()

	cfg := testConfig(t, "http://127.0.0.1:1/unused/")
	p := newPipeline(cfg, utils.NewTestLogger(io.Discard), fixedResolver())

	s, err := p.run(context.Background(), "", "", srv.URL+"/2016/Fahrplan/schedule.html")
	require.NoError(t, err)
	assert.Equal(t, 2016, s.Edition.Year)
	assert.Equal(t, 1, s.Discovered)
	assert.Equal(t, 0, s.HandlesDetected)
}

func TestPipelineNoListing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := newPipeline(testConfig(t, srv.URL), utils.NewTestLogger(io.Discard), fixedResolver())

	_, err := p.run(context.Background(), "2016", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoListing)
}

func TestPipelineRejectsBadInput(t *testing.T) {
	p := newPipeline(config.Default(), utils.NewTestLogger(io.Discard), fixedResolver())

	_, err := p.run(context.Background(), "1983", "", "")
	assert.ErrorIs(t, err, models.ErrRange)

	_, err = p.run(context.Background(), "", "", "https://example.org/nothing.html")
	assert.ErrorIs(t, err, models.ErrFormat)
}

func TestRootCmdPrintsSummary(t *testing.T) {
	site := &fahrplanSite{}
	site.set(map[string]string{"1": "Alice"}, map[string]string{"1": "alice"})
	srv := httptest.NewServer(site)
	defer srv.Close()

	t.Setenv("NO_COLOR", "1")
	root := NewRootCmd(testConfig(t, srv.URL), utils.NewTestLogger(io.Discard))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"-y", "2016", "--delay", "0s"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "C3 SPEAKERS 33C3 (2016)")
	assert.Contains(t, out.String(), "New speakers saved")
}

func TestRootCmdFlagsAreExclusive(t *testing.T) {
	root := NewRootCmd(config.Default(), utils.NewTestLogger(io.Discard))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"-y", "2016", "-c", "33c3"})

	assert.Error(t, root.Execute())
}
