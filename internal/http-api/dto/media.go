package dto

// MediaURLs renders a public URL for a stored file key.
type MediaURLs interface {
	URL(key string) string
}

func mediaURL(media MediaURLs, key string) string {
	if key == "" || media == nil {
		return ""
	}
	return media.URL(key)
}
