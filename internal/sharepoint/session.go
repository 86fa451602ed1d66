package sharepoint

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/netanyamuni/incident-backend/pkg/logger"
)

// SessionEstablisher harvests cookies from the target site before the
// real POST. The crawl against a third-party site is inherently brittle
// best-effort scraping, so it lives behind this narrow seam and can be
// disabled or replaced without touching the submission path.
type SessionEstablisher interface {
	Establish(ctx context.Context) error
}

// Public pages visited to pick up edge-proxy and anti-bot cookies.
var sessionPages = []string{
	"https://www.netanya.muni.il/CityHall/ServicesInnovation/Pages/default.aspx",
}

// PageCrawler establishes a session by visiting public pages of the
// municipality site with browser-like headers, letting the shared cookie
// jar collect whatever the edge proxy sets.
type PageCrawler struct {
	httpClient *http.Client
	pages      []string
	log        *logger.Logger
}

// NewPageCrawler creates a session establisher sharing the client's HTTP
// transport and cookie jar. Without explicit pages the default public
// municipality pages are crawled.
func NewPageCrawler(httpClient *http.Client, log *logger.Logger, pages ...string) *PageCrawler {
	if len(pages) == 0 {
		pages = sessionPages
	}
	return &PageCrawler{
		httpClient: httpClient,
		pages:      pages,
		log:        log.WithComponent("session_establishment"),
	}
}

// Establish visits the configured pages. A non-200 page response is not
// an error; only transport failures are reported, and callers treat even
// those as non-fatal.
func (p *PageCrawler) Establish(ctx context.Context) error {
	for _, page := range p.pages {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
		if err != nil {
			return err
		}

		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		req.Header.Set("Accept-Language", "he-IL,he;q=0.9,en-US,en;q=0.8")
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Upgrade-Insecure-Requests", "1")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("session page %s: %w", page, err)
		}
		resp.Body.Close()

		p.log.Info().
			Str("page", page).
			Int("status", resp.StatusCode).
			Int("cookies", len(p.cookiesFor(page))).
			Msg("visited session page")
	}
	return nil
}

func (p *PageCrawler) cookiesFor(page string) []*http.Cookie {
	if p.httpClient.Jar == nil {
		return nil
	}
	u, err := url.Parse(page)
	if err != nil {
		return nil
	}
	return p.httpClient.Jar.Cookies(u)
}
