package photoblog

import (
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title or filename to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// postURL builds the canonical shell link for a post, used by the feed and
// the sitemap.
func (a *App) postURL(p Post) string {
	q := url.Values{}
	if p.Type == TypePhoto {
		q.Set("tab", "gallery")
		q.Set("image", p.ID)
	} else {
		q.Set("tab", "blog")
		q.Set("post", p.ID)
	}
	return strings.TrimSuffix(BuildURL(a.Config.SiteURL), "/") + "/?" + q.Encode()
}
