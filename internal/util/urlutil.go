package util

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidateURL parses raw and checks that it points at a playable YouTube
// video or playlist. Scheme-less input ("youtu.be/abc") is retried with https.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty URL")
	}
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u, err = u2, nil
		}
	}
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	switch host {
	case "youtu.be":
		if videoID.MatchString(strings.Trim(u.Path, "/")) {
			return u, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if hasVideo(u) {
			return u, nil
		}
	default:
		return nil, fmt.Errorf("unsupported URL %q: only YouTube links are supported (youtube.com, youtu.be)", raw)
	}
	return nil, fmt.Errorf("URL %q does not point at a video", raw)
}

// CanPlay reports whether raw is a YouTube link the editor can work with.
func CanPlay(raw string) bool {
	_, err := ValidateURL(raw)
	return err == nil
}

func hasVideo(u *url.URL) bool {
	q := u.Query()
	if videoID.MatchString(q.Get("v")) {
		return true
	}
	if q.Get("list") != "" {
		return true
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) != 2 {
		return false
	}
	switch segs[0] {
	case "shorts", "live", "embed", "v":
		return videoID.MatchString(segs[1])
	}
	return false
}
