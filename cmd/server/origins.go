package main

import (
	"net/url"
	"strings"
)

// originHosts turns CORS origins ("https://play.example.com") into the host patterns the
// websocket upgrader matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		if o = strings.TrimSpace(o); o != "" {
			hosts = append(hosts, o)
		}
	}
	return hosts
}
