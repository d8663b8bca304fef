package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const threadPage = `<!DOCTYPE html>
<html><head><title>Ren'Py - Completed - Summer &amp; Love [v1.2] [Studio] | F95zone</title></head>
<body>
<h1 class="p-title-value">Summer &amp;amp; Love [v1.2] [Studio]</h1>
<div class="js-tagList">
  <a class="tagItem" href="/tags/1">3dcg</a>
  <a class="tagItem" href="/tags/2"> romance </a>
  <a class="tagItem" href="/tags/3"></a>
</div>
<article>
  <img class="bbImage lazy" src="https://attachments.f95zone.to/2024/01/thumb/cover.png">
  <img class="bbImage" src="https://attachments.f95zone.to/2024/01/thumb/second.png">
</article>
</body></html>`

func TestParseThread(t *testing.T) {
	g, err := ParseThread(strings.NewReader(threadPage))
	require.NoError(t, err)

	require.NotNil(t, g.Name)
	assert.Equal(t, "Summer & Love", *g.Name)
	require.NotNil(t, g.Tags)
	assert.Equal(t, "3dcg, romance", *g.Tags)
	require.NotNil(t, g.Image)
	assert.Equal(t, "https://attachments.f95zone.to/2024/01/cover.png", *g.Image)
	require.NotNil(t, g.Type)
	assert.Equal(t, models.GameTypeRenpy, *g.Type)
	require.NotNil(t, g.Status)
	assert.Equal(t, models.TranslationCompleted, *g.Status)
}

func TestParseThreadEmptyPage(t *testing.T) {
	g, err := ParseThread(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Nil(t, g.Name)
	assert.Nil(t, g.Tags)
	assert.Nil(t, g.Image)
	assert.Nil(t, g.Status)
	assert.Nil(t, g.Type)
}

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		title  string
		status models.TranslationStatus
		typ    *models.GameType
	}{
		{"Unity - Abandoned - Game [v0.1]", models.TranslationAbandoned, ptr(models.GameTypeUnity)},
		{"Completed - RPGM - Game", models.TranslationCompleted, ptr(models.GameTypeRPGM)},
		{"Unreal Engine - Game [v2]", models.TranslationInProgress, ptr(models.GameTypeUnreal)},
		{"VN - Others - Game", models.TranslationInProgress, ptr(models.GameTypeOther)},
		{"Abandoned - Completed - Game", models.TranslationAbandoned, nil},
	}
	for _, tt := range tests {
		status, typ := classifyTitle(tt.title)
		require.NotNil(t, status, tt.title)
		assert.Equal(t, tt.status, *status, tt.title)
		assert.Equal(t, tt.typ, typ, tt.title)
	}

	status, typ := classifyTitle("Game without prefixes")
	assert.Nil(t, status)
	assert.Nil(t, typ)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func newForum(t *testing.T, checker string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/threads/42", func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		fmt.Fprint(w, threadPage)
	})
	mux.HandleFunc("/sam/checker.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("threads"))
		if checker == "" {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, checker)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestScraper(srv *httptest.Server, cache Cache) *Scraper {
	s := New(time.Second, cache, time.Hour, zap.NewNop())
	s.ThreadURL = srv.URL + "/threads"
	s.CheckerURL = srv.URL + "/sam/checker.php"
	return s
}

func TestScrapeWithVersionAndCache(t *testing.T) {
	srv, hits := newForum(t, `{"status":"ok","msg":{"42":"v1.2"}}`)
	cache := &memoryCache{data: map[string][]byte{}}
	s := newTestScraper(srv, cache)
	ctx := context.Background()

	g, err := s.Scrape(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, g.ThreadID)
	require.NotNil(t, g.Version)
	assert.Equal(t, "v1.2", *g.Version)

	again, err := s.Scrape(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, g, again)
	assert.Equal(t, 1, *hits)
}

func TestScrapeVersionFailureIsNotFatal(t *testing.T) {
	for _, checker := range []string{"", `{"status":"error","msg":"Unknown thread"}`, `{"status":"ok","msg":{}}`} {
		srv, _ := newForum(t, checker)
		g, err := newTestScraper(srv, nil).Scrape(context.Background(), 42)
		require.NoError(t, err, checker)
		assert.Nil(t, g.Version, checker)
		assert.Equal(t, "Summer & Love", *g.Name)
	}
}

func TestScrapeErrors(t *testing.T) {
	srv, _ := newForum(t, "")
	s := newTestScraper(srv, nil)

	_, err := s.Scrape(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidThread)

	_, err = s.Scrape(context.Background(), 7)
	assert.Error(t, err)
}
