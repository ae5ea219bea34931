package vatican

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lectio/internal/domain"
	"lectio/internal/ports"
)

const defaultBaseURL = "https://www.vaticannews.va"

// Scraper pulls the "Evangelio de hoy" page for a date and extracts its
// reading sections.
type Scraper struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.ReadingSource = (*Scraper)(nil)

// NewScraper wires an HTTP client; the timeout defaults to 15 seconds.
func NewScraper(baseURL string, client *http.Client, logger *slog.Logger) *Scraper {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Scraper{baseURL: strings.TrimSuffix(baseURL, "/"), client: client, logger: logger}
}

// FetchBlocks downloads the page for the date and language and returns its
// reading blocks in document order.
func (s *Scraper) FetchBlocks(ctx context.Context, date time.Time, languageCode string) ([]domain.ReadingBlock, error) {
	pageURL := s.pageURL(date, languageCode)
	s.debug("fetch readings page", "url", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "lectio/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request readings page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse readings page: %w", err)
	}

	return extractBlocks(doc), nil
}

// pageURL builds the per-date, per-language page address, e.g.
// https://www.vaticannews.va/es/evangelio-de-hoy/2024/12/25.html
func (s *Scraper) pageURL(date time.Time, languageCode string) string {
	return fmt.Sprintf("%s/%s/evangelio-de-hoy/%04d/%02d/%02d.html",
		s.baseURL, languageCode, date.Year(), int(date.Month()), date.Day())
}

// extractBlocks walks the reading sections of the page. Each reading lives in
// a <section> carrying both the "section--evidence" and "section--isStatic"
// classes; inside it, div.section__content holds the paragraphs:
//
//   - first <p>: title (e.g. "Lectura del santo evangelio según san Lucas")
//   - second <p>: reference (e.g. "Lucas 2, 1-14")
//   - remaining <p>: body paragraphs
//
// Sections with fewer than 3 non-empty paragraphs are incomplete and skipped.
func extractBlocks(doc *goquery.Document) []domain.ReadingBlock {
	var blocks []domain.ReadingBlock

	doc.Find("section.section--evidence.section--isStatic").Each(func(i int, section *goquery.Selection) {
		content := section.Find("div.section__content").First()
		if content.Length() == 0 {
			return
		}

		var texts []string
		content.Find("p").Each(func(j int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				texts = append(texts, text)
			}
		})

		if len(texts) < 3 {
			return
		}

		blocks = append(blocks, domain.ReadingBlock{
			Title:     texts[0],
			Reference: texts[1],
			Text:      strings.Join(texts[2:], "\n\n"),
		})
	})

	return blocks
}

func (s *Scraper) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
