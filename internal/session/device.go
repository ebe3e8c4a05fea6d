package session

import (
	"strings"

	"github.com/mssola/useragent"
)

// DisplayName renders a raw user-agent string as a short human-readable
// device label for session history, e.g. "Chrome on Mac OS X".
func DisplayName(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	osName := ua.OSInfo().Name
	if osName == "" {
		osName = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + osName)
}

// Location renders the coarse geolocation of a descriptor, empty when the
// lookup produced nothing.
func Location(d Descriptor) string {
	switch {
	case d.City != "" && d.Country != "":
		return d.City + ", " + d.Country
	case d.Country != "":
		return d.Country
	default:
		return d.City
	}
}
