// Package webutil has small URL helpers used by the public catalog and blog
// responses.
package webutil

import "strings"

// blogImagePool is a fixed set of stock photos used when a blog post has no
// image of its own. The pool is indexed deterministically so every render of
// a post shows the same picture.
var blogImagePool = []string{
	"https://images.pexels.com/photos/164938/pexels-photo-164938.jpeg?auto=compress&cs=tinysrgb",
	"https://images.pexels.com/photos/690779/pexels-photo-690779.jpeg?auto=compress&cs=tinysrgb",
	"https://images.pexels.com/photos/744318/pexels-photo-744318.jpeg?auto=compress&cs=tinysrgb",
	"https://images.pexels.com/photos/1105666/pexels-photo-1105666.jpeg?auto=compress&cs=tinysrgb",
	"https://images.pexels.com/photos/1751731/pexels-photo-1751731.jpeg?auto=compress&cs=tinysrgb",
	"https://images.pexels.com/photos/2123606/pexels-photo-2123606.jpeg?auto=compress&cs=tinysrgb",
	"https://images.pexels.com/photos/3784221/pexels-photo-3784221.jpeg?auto=compress&cs=tinysrgb",
	"https://images.pexels.com/photos/4087996/pexels-photo-4087996.jpeg?auto=compress&cs=tinysrgb",
}

// RandomBlogImage returns a stock image URL for a post id. The same id always
// maps to the same image; large selects the hero size, otherwise the card
// size.
func RandomBlogImage(id uint64, large bool) string {
	base := blogImagePool[id%uint64(len(blogImagePool))]
	if large {
		return base + "&h=400&w=800"
	}
	return base + "&h=250&w=400"
}

// ConvertToWebURL turns a stored file path into a browser-reachable URL.
// Absolute http(s) URLs pass through untouched; local paths lose their
// "public/" prefix and gain the request's scheme and host.
func ConvertToWebURL(path, scheme, host string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	p := strings.TrimPrefix(path, "public/")
	p = strings.TrimPrefix(p, "/")
	return scheme + "://" + host + "/" + p
}
