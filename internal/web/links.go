package web

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	fallbackLinkLabel = "Link 🔗"
	faviconService    = "https://www.google.com/s2/favicons?domain="
	youtubeEmbedBase  = "https://www.youtube.com/embed/"
)

// youtubeIDRe matches youtu.be/<id>, watch?v=<id>, /embed/<id>, /v/<id>
// and channel-style paths; the id is always 11 characters.
var youtubeIDRe = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/ ]{11})`)

// VideoID extracts the YouTube video id from link.
func VideoID(link string) (string, bool) {
	m := youtubeIDRe.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// EmbedURL returns the player URL for a YouTube video id.
func EmbedURL(id string) string {
	return youtubeEmbedBase + url.PathEscape(id)
}

// linkHost returns the hostname of an absolute URL.
func linkHost(link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", false
	}
	return u.Hostname(), true
}

// LinkLabel is the text shown for a product link: its hostname, or a
// generic label when the link does not parse as an absolute URL.
func LinkLabel(link string) string {
	if host, ok := linkHost(link); ok {
		return host
	}
	return fallbackLinkLabel
}

// FaviconURL returns the favicon lookup URL for link, or "" when link has
// no hostname.
func FaviconURL(link string) string {
	host, ok := linkHost(link)
	if !ok {
		return ""
	}
	return faviconService + url.QueryEscape(host)
}
