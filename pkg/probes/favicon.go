package probes

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spaolacci/murmur3"
)

const maxFaviconSize = 256 << 10

// FaviconHash fetches /favicon.ico over plain HTTP on port 80 and returns
// the mmh3 hash of the base64-encoded body as a decimal string, the form
// used by Shodan and fingerprint databases. Empty when there is no favicon
// to hash.
func FaviconHash(ctx context.Context, host string, timeout time.Duration) string {
	return fetchFavicon(ctx, "http://"+host+"/favicon.ico", timeout)
}

func fetchFavicon(ctx context.Context, url string, timeout time.Duration) string {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DisableKeepAlives: true,
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFaviconSize))
	if err != nil || len(body) == 0 {
		return ""
	}
	return MMH3Hash(body)
}

// MMH3Hash computes the conventional favicon fingerprint: murmur3 32-bit
// over the standard base64 encoding of the raw bytes, rendered as a signed
// decimal integer.
func MMH3Hash(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	return strconv.FormatInt(int64(int32(murmur3.Sum32([]byte(encoded)))), 10)
}
