package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quizentia_backend/internal/config"

	"github.com/PuerkitoBio/goquery"
)

// Article is the structured text extracted from one news page.
type Article struct {
	Title    string   `json:"title"`
	Content  []string `json:"content"`
	FullText string   `json:"full_text"`
}

// ScrapeService fetches article pages and the listing index from the
// configured news source.
type ScrapeService struct {
	cfg    config.ScraperConfig
	client *http.Client
}

func NewScrapeService(cfg config.ScraperConfig) *ScrapeService {
	return &ScrapeService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
	}
}

func (s *ScrapeService) get(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, target)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// FetchArticle extracts the h1 title and the story paragraphs from an
// article page. A page without a title or a story container is an error.
func (s *ScrapeService) FetchArticle(ctx context.Context, articleURL string) (*Article, error) {
	doc, err := s.get(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	titleTag := doc.Find("h1").First()
	if titleTag.Length() == 0 {
		return nil, fmt.Errorf("title not found at %s", articleURL)
	}
	title := strings.TrimSpace(titleTag.Text())

	articleDiv := doc.Find("div.details-story-wrapper").First()
	if articleDiv.Length() == 0 {
		return nil, fmt.Errorf("article container not found at %s", articleURL)
	}

	var content []string
	articleDiv.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text != "" {
			content = append(content, text)
		}
	})

	return &Article{
		Title:    title,
		Content:  content,
		FullText: strings.Join(content, "\n"),
	}, nil
}

// LatestArticleURLs scrapes the listing index and returns up to limit
// absolute article URLs in page order, deduplicated.
func (s *ScrapeService) LatestArticleURLs(ctx context.Context, limit int) ([]string, error) {
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	doc, err := s.get(ctx, s.cfg.BaseURL+s.cfg.ListingPath)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, limit)
	seen := make(map[string]bool)

	doc.Find("div.sup_crt_col_border_bottom.grid_page").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		href, ok := card.Find("a[href]").First().Attr("href")
		if !ok {
			return true
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		fullURL := base.ResolveReference(ref).String()

		if seen[fullURL] {
			return true
		}
		seen[fullURL] = true
		urls = append(urls, fullURL)

		return len(urls) < limit
	})

	return urls, nil
}
