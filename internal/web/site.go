package web

import (
	"net/url"
	"strings"
)

// Site is the owner-specific copy shown around the catalog.
type Site struct {
	Title      string
	Owner      string
	Intro      string
	About      string
	Contacts   []Contact
	Activities []Activity
}

// Contact is one way to reach the site owner.
type Contact struct {
	Type   string
	Handle string
}

// Activity is one entry of the about-me timeline.
type Activity struct {
	Name        string
	Description string
}

// Href turns the contact into a link target.
func (c Contact) Href() string {
	handle := strings.TrimSpace(c.Handle)
	switch strings.ToLower(c.Type) {
	case "email":
		return "mailto:" + handle
	case "instagram":
		return "https://instagram.com/" + url.PathEscape(handle)
	case "github":
		return "https://github.com/" + url.PathEscape(handle)
	default:
		return handle
	}
}

// Label is the visible text for the contact link.
func (c Contact) Label() string {
	switch strings.ToLower(c.Type) {
	case "email":
		return c.Handle
	case "instagram", "github":
		return "@" + strings.TrimPrefix(c.Handle, "@")
	default:
		return LinkLabel(c.Handle)
	}
}
