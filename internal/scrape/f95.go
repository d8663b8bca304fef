// Package scrape reads game metadata from F95Zone threads.
package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	UserAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) f95-france/1.0"
	DefaultThreadURL  = "https://f95zone.to/threads"
	DefaultCheckerURL = "https://f95zone.to/sam/checker.php"
)

var ErrInvalidThread = errors.New("invalid thread id")

// Game is what a thread page tells about a game. Fields the page does not carry are nil.
type Game struct {
	ThreadID int                       `json:"thread_id"`
	Name     *string                   `json:"name"`
	Version  *string                   `json:"version"`
	Status   *models.TranslationStatus `json:"status"`
	Tags     *string                   `json:"tags"`
	Type     *models.GameType          `json:"type"`
	Image    *string                   `json:"image"`
}

// Scraper fetches thread pages and the version checker, caching results when a Cache is set
type Scraper struct {
	ThreadURL  string
	CheckerURL string

	client   *http.Client
	cache    Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

// New creates a Scraper. cache may be nil.
func New(timeout time.Duration, cache Cache, cacheTTL time.Duration, log *zap.Logger) *Scraper {
	return &Scraper{
		ThreadURL:  DefaultThreadURL,
		CheckerURL: DefaultCheckerURL,
		client:     &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// Scrape returns the metadata of thread threadID. A failing version lookup
// leaves Version nil; a failing thread fetch is an error.
func (s *Scraper) Scrape(ctx context.Context, threadID int) (*Game, error) {
	if threadID <= 0 {
		return nil, ErrInvalidThread
	}
	key := "scrape:f95:" + strconv.Itoa(threadID)
	if s.cache != nil {
		if b, err := s.cache.Get(ctx, key); err == nil {
			var g Game
			if json.Unmarshal(b, &g) == nil {
				return &g, nil
			}
		} else if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("scrape cache read failed", zap.Error(err))
		}
	}

	body, err := s.get(ctx, fmt.Sprintf("%s/%d", s.ThreadURL, threadID))
	if err != nil {
		return nil, fmt.Errorf("fetch thread %d: %w", threadID, err)
	}
	defer body.Close()
	g, err := ParseThread(body)
	if err != nil {
		return nil, err
	}
	g.ThreadID = threadID

	if v, err := s.version(ctx, threadID); err != nil {
		s.log.Warn("version lookup failed", zap.Int("thread_id", threadID), zap.Error(err))
	} else {
		g.Version = v
	}

	if s.cache != nil {
		if b, err := json.Marshal(g); err == nil {
			if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
				s.log.Warn("scrape cache write failed", zap.Error(err))
			}
		}
	}
	return g, nil
}

func (s *Scraper) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

type checkerResponse struct {
	Status string          `json:"status"`
	Msg    json.RawMessage `json:"msg"`
}

func (s *Scraper) version(ctx context.Context, threadID int) (*string, error) {
	id := strconv.Itoa(threadID)
	body, err := s.get(ctx, s.CheckerURL+"?threads="+id)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp checkerResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("checker status %q", resp.Status)
	}
	// msg is an error string when the lookup fails
	var versions map[string]string
	if err := json.Unmarshal(resp.Msg, &versions); err != nil {
		return nil, fmt.Errorf("checker message: %w", err)
	}
	v, ok := versions[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

var titleToken = regexp.MustCompile(`([\w\\']+)\s-`)

var engineTypes = map[string]models.GameType{
	"Ren'Py": models.GameTypeRenpy,
	"RPGM":   models.GameTypeRPGM,
	"Unity":  models.GameTypeUnity,
	"Engine": models.GameTypeUnreal,
	"Flash":  models.GameTypeFlash,
	"HTML":   models.GameTypeHTML,
	"QSP":    models.GameTypeQSP,
	"Others": models.GameTypeOther,
}

// ParseThread extracts game metadata from a thread page
func ParseThread(r io.Reader) (*Game, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse thread page: %w", err)
	}
	g := &Game{}

	var tags []string
	for _, n := range findAll(doc, func(n *html.Node) bool { return hasClass(n, "tagItem") }) {
		if t := strings.TrimSpace(textContent(n)); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > 0 {
		g.Tags = ptr(strings.Join(tags, ", "))
	}

	if title := findFirst(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "title" }); title != nil {
		g.Status, g.Type = classifyTitle(textContent(title))
	}

	if n := findFirst(doc, func(n *html.Node) bool { return hasClass(n, "p-title-value") }); n != nil {
		name, _, _ := strings.Cut(textContent(n), "[")
		if name = html.UnescapeString(strings.TrimSpace(name)); name != "" {
			g.Name = &name
		}
	}

	img := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "img" && hasClass(n, "bbImage")
	})
	if src := attr(img, "src"); src != "" {
		g.Image = ptr(strings.Replace(src, "thumb/", "", 1))
	}
	return g, nil
}

// classifyTitle reads the status and engine from the "Token - " prefixes of a page title.
// Status is only refined while it is still in progress.
func classifyTitle(title string) (*models.TranslationStatus, *models.GameType) {
	var (
		status *models.TranslationStatus
		typ    *models.GameType
	)
	for _, m := range titleToken.FindAllStringSubmatch(title, -1) {
		token := m[1]
		if status == nil || *status == models.TranslationInProgress {
			switch token {
			case "Abandoned":
				status = ptr(models.TranslationAbandoned)
			case "Completed":
				status = ptr(models.TranslationCompleted)
			default:
				status = ptr(models.TranslationInProgress)
			}
		}
		if t, ok := engineTypes[token]; ok {
			typ = ptr(t)
		}
	}
	return status, typ
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func ptr[T any](v T) *T { return &v }
