// Package rtc exposes the ICE servers clients use for their own peer
// connections. Media never passes through the relay.
package rtc

import (
	"strings"

	"github.com/dkeye/Huddle/internal/config"
	"github.com/pion/webrtc/v4"
)

func DefaultICEServers() []webrtc.ICEServer {
	return []webrtc.ICEServer{
		{
			URLs: []string{"stun:stun.l.google.com:19302"},
		},
	}
}

// ICEServers converts configured servers, skipping entries without URLs.
func ICEServers(servers []config.ICEServer) []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		urls := make([]string, 0, len(s.URLs))
		for _, u := range s.URLs {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		if len(urls) == 0 {
			continue
		}
		server := webrtc.ICEServer{
			URLs:     urls,
			Username: strings.TrimSpace(s.Username),
		}
		if s.Credential != "" {
			server.Credential = s.Credential
		}
		out = append(out, server)
	}
	if len(out) == 0 {
		return DefaultICEServers()
	}
	return out
}
