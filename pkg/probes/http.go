package probes

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const maxRedirects = 3

// WebInfo is what the HTTP(S) probe learned about a host's web face.
type WebInfo struct {
	Title           string
	Name            string
	Server          string
	PoweredBy       string
	WWWAuthenticate string
}

var (
	titlePattern      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// meaninglessTitles are generic error/login/redirect phrasings that carry no
// identity. A title matches on exact (case-insensitive) equality or on a
// word-boundary hit.
var meaninglessTitles = []string{
	"login", "log in", "sign in", "signin", "welcome", "home", "index",
	"redirect", "redirecting", "error", "not found", "forbidden",
	"unauthorized", "access denied", "bad request", "untitled",
	"default page", "it works", "test page", "please wait", "loading",
	"401", "403", "404", "503",
}

var meaninglessPattern = buildMeaninglessPattern()

func buildMeaninglessPattern() *regexp.Regexp {
	quoted := make([]string, len(meaninglessTitles))
	for i, phrase := range meaninglessTitles {
		quoted[i] = regexp.QuoteMeta(phrase)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// HTTPInfo fetches / over plain HTTP and extracts a display name candidate
// plus the fingerprint headers. When HTTP yields nothing at all the same
// sequence is retried over HTTPS with certificate verification disabled.
func HTTPInfo(ctx context.Context, host string, timeout time.Duration) WebInfo {
	info := fetchWebInfo(ctx, "http://"+host+"/", timeout)
	if info.Name == "" && info.Server == "" && info.PoweredBy == "" && info.WWWAuthenticate == "" {
		info = fetchWebInfo(ctx, "https://"+host+"/", timeout)
	}
	return info
}

func fetchWebInfo(ctx context.Context, url string, timeout time.Duration) WebInfo {
	var info WebInfo

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
			DisableKeepAlives: true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return info
	}
	resp, err := client.Do(req)
	if err != nil {
		return info
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	info.Server = resp.Header.Get("Server")
	info.PoweredBy = resp.Header.Get("X-Powered-By")
	info.WWWAuthenticate = resp.Header.Get("WWW-Authenticate")

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	info.Title = extractTitle(string(body))

	if info.Title != "" && !MeaninglessTitle(info.Title) {
		info.Name = info.Title
	} else if info.Server != "" {
		info.Name = serverProduct(info.Server)
	}
	return info
}

// extractTitle pulls the first title tag's contents, whitespace-collapsed.
func extractTitle(body string) string {
	matches := titlePattern.FindStringSubmatch(body)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(matches[1], " "))
}

// MeaninglessTitle reports whether a page title is generic boilerplate
// rather than something that identifies the host.
func MeaninglessTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return true
	}
	lower := strings.ToLower(title)
	for _, phrase := range meaninglessTitles {
		if lower == phrase {
			return true
		}
	}
	return meaninglessPattern.MatchString(title)
}

// serverProduct reduces a Server header to its leading product token.
func serverProduct(server string) string {
	fields := strings.Fields(strings.TrimSpace(server))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
