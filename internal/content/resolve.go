// Package content locates image URLs and text values inside arbitrarily
// shaped content items. Playlist feeds disagree about where an image for a
// logical key lives (extensions map, images map, media groups in two list
// forms and one map form, flat fields), so each possible location is a
// lookup strategy and the resolver tries them in a fixed priority order.
// The first success wins; later locations are never inspected.
package content

import (
	"github.com/MurthyAvanithsa/railview/internal/model"
)

// ─── Image Resolution ─────────────────────────────────────────────────────────

// imageStrategy attempts one storage location. ok is true only for a
// non-empty URL.
type imageStrategy func(item model.ContentItem, key string) (string, bool)

// imageStrategies is the priority order for image lookup.
var imageStrategies = []imageStrategy{
	imageFromExtensions,
	imageFromImagesMap,
	imageFromImageGroup,
	imageFromKeyedGroup,
	imageFromGroupMap,
	imageFromFlatField,
}

// ResolveImage returns the image URL stored under the logical key, or ""
// when the key is empty or no location holds a value.
func ResolveImage(item model.ContentItem, key string) string {
	if key == "" || item == nil {
		return ""
	}
	for _, try := range imageStrategies {
		if url, ok := try(item, key); ok {
			return url
		}
	}
	return ""
}

// extensions map: item.extensions[key]
func imageFromExtensions(item model.ContentItem, key string) (string, bool) {
	ext, _ := item["extensions"].(map[string]any)
	return nonEmptyString(ext[key])
}

// images map: item.images[key]
func imageFromImagesMap(item model.ContentItem, key string) (string, bool) {
	images, _ := item["images"].(map[string]any)
	return nonEmptyString(images[key])
}

// media_group list form: the first group typed "image", then the media_item
// whose key matches.
func imageFromImageGroup(item model.ContentItem, key string) (string, bool) {
	groups, _ := item["media_group"].([]any)
	for _, g := range groups {
		group, _ := g.(map[string]any)
		if t, _ := group["type"].(string); t != "image" {
			continue
		}
		items, _ := group["media_item"].([]any)
		for _, mi := range items {
			entry, _ := mi.(map[string]any)
			if k, _ := entry["key"].(string); k == key {
				return nonEmptyString(entry["src"])
			}
		}
		break
	}
	return "", false
}

// media_group list form: a group carrying the key itself.
func imageFromKeyedGroup(item model.ContentItem, key string) (string, bool) {
	groups, _ := item["media_group"].([]any)
	for _, g := range groups {
		group, _ := g.(map[string]any)
		if k, _ := group["key"].(string); k == key {
			return nonEmptyString(group["src"])
		}
	}
	return "", false
}

// media_group map form: indexed by key; values may be bare strings or
// objects with src/url/uri.
func imageFromGroupMap(item model.ContentItem, key string) (string, bool) {
	group, _ := item["media_group"].(map[string]any)
	v, present := group[key]
	if !present {
		return "", false
	}
	if s, ok := nonEmptyString(v); ok {
		return s, true
	}
	obj, _ := v.(map[string]any)
	for _, field := range []string{"src", "url", "uri"} {
		if s, ok := nonEmptyString(obj[field]); ok {
			return s, true
		}
	}
	return "", false
}

// flat top-level field.
func imageFromFlatField(item model.ContentItem, key string) (string, bool) {
	return nonEmptyString(item[key])
}

// ─── Text Resolution ──────────────────────────────────────────────────────────

// ResolveText returns the text value stored under the logical key, falling
// back through well-known title/description locations and finally to the
// supplied fallback. An empty key short-circuits to the fallback without
// inspecting the item at all.
func ResolveText(item model.ContentItem, key, fallback string) string {
	if key == "" || item == nil {
		return fallback
	}
	if s, ok := nonEmptyString(item[key]); ok {
		return s
	}
	ext, _ := item["extensions"].(map[string]any)
	if s, ok := nonEmptyString(ext[key]); ok {
		return s
	}
	switch key {
	case "title":
		if t := item.Title(); t != "" {
			return t
		}
		return fallback
	case "summary", "description", "desc":
		if d := item.Desc(); d != "" {
			return d
		}
		return fallback
	}
	return fallback
}

// nonEmptyString reports a non-empty string value.
func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
