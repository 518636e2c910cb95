package client

// NormalizeType resolves a post's canonical type. An explicit known type
// always wins; otherwise the presence of an image reference makes it a photo
// post. Unknown type strings are treated as absent.
func NormalizeType(explicit string, imgURL string) PostType {
	switch PostType(explicit) {
	case TypeBlog, TypePhoto:
		return PostType(explicit)
	}
	if imgURL != "" {
		return TypePhoto
	}
	return TypeBlog
}
