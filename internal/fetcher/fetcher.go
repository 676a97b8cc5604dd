// Package fetcher discovers ranked article links for a topic on a news
// index and extracts body text from the linked pages through a real
// rendering engine. Per-link failures are logged and skipped; an empty
// result is the caller's signal that no source material exists.
package fetcher

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Rotating a handful of common desktop agents is enough to avoid the
// index's trivial bot filtering; the rendering engine handles the rest.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// contentClass matches class attributes that usually wrap article bodies.
var contentClass = regexp.MustCompile(`(?i)post|article|content|body`)

// Fetcher retrieves article links from a news index and renders the
// linked pages to extract their text.
type Fetcher struct {
	cfg        config.FetcherConfig
	httpClient *http.Client
	renderer   domain.PageRenderer
}

// NewFetcher creates a Fetcher. The renderer is only needed for
// ExtractText; discovery uses a plain bounded-timeout HTTP client.
func NewFetcher(cfg config.FetcherConfig, renderer domain.PageRenderer) *Fetcher {
	return &Fetcher{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		renderer:   renderer,
	}
}

// FindArticles queries the news index for the topic and returns up to
// max entries that carry both a title and an http(s) link. Discovery
// failures yield an empty list, never an error: the caller decides
// whether missing source material aborts its round.
func (f *Fetcher) FindArticles(ctx context.Context, topic string, max int) []domain.Article {
	searchURL := fmt.Sprintf("%s/search?q=%s&hl=en-IN&gl=IN&ceid=IN%%3Aen",
		strings.TrimRight(f.cfg.NewsBaseURL, "/"), url.QueryEscape(topic))

	doc, err := f.fetchDocument(ctx, searchURL)
	if err != nil {
		logger.Get().Warn("News index fetch failed",
			zap.String("topic", topic), zap.String("url", searchURL), zap.Error(err))
		return nil
	}

	var articles []domain.Article
	doc.Find("article").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(articles) >= max {
			return false
		}
		link, title := f.entryLinkAndTitle(s)
		if link == "" || title == "" {
			return true
		}
		articles = append(articles, domain.Article{Title: title, Link: link})
		return true
	})

	logger.Get().Info("News discovery finished",
		zap.String("topic", topic), zap.Int("found", len(articles)))
	return articles
}

// entryLinkAndTitle pairs the entry's first usable anchor with the
// nearest heading-like element. Entries missing either are discarded.
func (f *Fetcher) entryLinkAndTitle(entry *goquery.Selection) (string, string) {
	anchor := entry.Find("a[href]").First()
	if anchor.Length() == 0 {
		return "", ""
	}
	href, _ := anchor.Attr("href")
	link := f.resolveLink(href)
	if !strings.HasPrefix(link, "http") {
		return "", ""
	}

	titleSel := anchor.Find("h3, h4").First()
	if titleSel.Length() == 0 {
		titleSel = entry.Find("h3, h4").First()
	}
	if titleSel.Length() == 0 {
		return "", ""
	}
	return link, strings.TrimSpace(titleSel.Text())
}

func (f *Fetcher) resolveLink(href string) string {
	base := strings.TrimRight(f.cfg.NewsBaseURL, "/")
	switch {
	case strings.HasPrefix(href, "./"):
		return base + href[1:]
	case strings.HasPrefix(href, "http"):
		return href
	case href == "":
		return ""
	default:
		return base + "/" + strings.TrimLeft(href, "/")
	}
}

// ExtractText renders each link and returns the paragraph text of the
// most specific content container found. Pages whose paragraph text is
// shorter than the configured minimum are treated as extraction failures
// and skipped; no per-link failure aborts the batch.
func (f *Fetcher) ExtractText(ctx context.Context, links []string) []string {
	var contents []string
	for _, link := range links {
		html, err := f.renderer.Render(ctx, link)
		if err != nil {
			logger.Get().Warn("Page render failed", zap.String("url", link), zap.Error(err))
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			logger.Get().Warn("Rendered HTML unparseable", zap.String("url", link), zap.Error(err))
			continue
		}

		text := paragraphText(contentContainer(doc))
		if len(text) < f.cfg.MinContentLength {
			logger.Get().Warn("Extracted content too short, skipping",
				zap.String("url", link), zap.Int("length", len(text)))
			continue
		}
		logger.Get().Info("Extracted article content",
			zap.String("url", link), zap.Int("length", len(text)))
		contents = append(contents, text)
	}
	return contents
}

// contentContainer picks the most specific content element: article,
// main, role=main, then any element with a content-like class, finally
// the whole body.
func contentContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"article", "main", "[role=main]"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	var byClass *goquery.Selection
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if contentClass.MatchString(class) {
			byClass = s
			return false
		}
		return true
	})
	if byClass != nil {
		return byClass
	}
	return doc.Find("body").First()
}

func paragraphText(container *goquery.Selection) string {
	var parts []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}

func (f *Fetcher) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}
