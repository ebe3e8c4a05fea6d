package enrich

import (
	"strings"

	"precinct/internal/session"
)

// Classification is deliberately a fixed ordered substring scan, first match
// wins. The ordering is contract: "Edge" user agents also contain "Chrome",
// and every mobile Safari contains "Safari", so reordering changes results
// that downstream analytics depend on.
var (
	browserRules = []string{"Firefox", "Chrome", "Safari", "Edge"}
	osRules      = []string{"Windows", "Mac", "Linux", "Android", "iOS"}
)

var osNames = map[string]string{
	"Windows": "Windows",
	"Mac":     "MacOS",
	"Linux":   "Linux",
	"Android": "Android",
	"iOS":     "iOS",
}

const unknown = "Unknown"

// Classify derives the coarse device classification from a user-agent string.
// Device class: "Mobile" beats everything, then "Tablet"; anything else is a
// desktop.
func Classify(userAgent string) session.DeviceInfo {
	return session.DeviceInfo{
		Browser: classifyBrowser(userAgent),
		OS:      classifyOS(userAgent),
		Device:  classifyDevice(userAgent),
	}
}

func classifyBrowser(userAgent string) string {
	for _, rule := range browserRules {
		if strings.Contains(userAgent, rule) {
			return rule
		}
	}
	return unknown
}

func classifyOS(userAgent string) string {
	for _, rule := range osRules {
		if strings.Contains(userAgent, rule) {
			return osNames[rule]
		}
	}
	return unknown
}

func classifyDevice(userAgent string) string {
	if strings.Contains(userAgent, "Mobile") {
		return "Mobile"
	}
	if strings.Contains(userAgent, "Tablet") {
		return "Tablet"
	}
	return "Desktop"
}
