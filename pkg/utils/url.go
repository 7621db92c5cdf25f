package utils

import (
	"math/big"
	"net/url"
	"regexp"
	"strings"
)

// pageParam only matches a whole page parameter, never per_page or subpage.
var pageParam = regexp.MustCompile(`([?&])page=(\d+)`)

// ResolveHref converts an href found on pageURL into an absolute URL.
//
// This is deliberately simpler than RFC 3986 reference resolution:
// absolute hrefs are kept, root-relative hrefs are joined with the scheme and
// host of the page, scheme-relative hrefs inherit the page's scheme, and every
// other href is appended to the page URL with a single slash.
func ResolveHref(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return pageURL
	}
	if u, err := url.Parse(href); err == nil && u.Scheme != "" {
		return href
	}

	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return strings.TrimRight(pageURL, "/") + "/" + strings.TrimLeft(href, "/")
	}

	switch {
	case strings.HasPrefix(href, "//"):
		return base.Scheme + ":" + href
	case strings.HasPrefix(href, "/"):
		return base.Scheme + "://" + base.Host + href
	default:
		return strings.TrimRight(pageURL, "/") + "/" + href
	}
}

// IncrementPageParam returns rawURL with its page=N parameter set to N+1.
// A URL without the parameter is treated as page 1 and gets page=2 appended.
func IncrementPageParam(rawURL string) string {
	if loc := pageParam.FindStringSubmatchIndex(rawURL); loc != nil {
		// Digits only, so SetString cannot fail; big.Int keeps huge values exact.
		n, _ := new(big.Int).SetString(rawURL[loc[4]:loc[5]], 10)
		return rawURL[:loc[4]] + n.Add(n, big.NewInt(1)).String() + rawURL[loc[5]:]
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "page=2"
}
