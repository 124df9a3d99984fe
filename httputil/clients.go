package httputil

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"gharkhoj/config"
)

type Clients struct {
	Scraping *http.Client // proxied, for target portals (healthchecks etc.)
	API      *http.Client // direct, for the search API and S3
}

func NewClients(proxyCfg *config.ProxyConfig) *Clients {
	scraping := &http.Client{
		Timeout: 15 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	if proxyCfg != nil && proxyCfg.URL != "" {
		if proxyURL, err := url.Parse(proxyCfg.URL); err == nil {
			scraping.Transport = &http.Transport{
				Proxy:             http.ProxyURL(proxyURL),
				ForceAttemptHTTP2: false,
				TLSNextProto:      make(map[string]func(string, *tls.Conn) http.RoundTripper),
			}
		}
	}

	return &Clients{
		Scraping: scraping,
		API:      &http.Client{Timeout: 30 * time.Second},
	}
}
