package style

import (
	"github.com/MurthyAvanithsa/railview/internal/coerce"
	"github.com/MurthyAvanithsa/railview/internal/content"
	"github.com/MurthyAvanithsa/railview/internal/model"
)

// DefaultAspect is the fallback tile aspect ratio when neither the image
// block nor the container dimensions determine one.
const DefaultAspect = 16.0 / 9.0

// FindStyleForPreset normalizes every descriptor and returns the first whose
// preset name equals the requested name, compared case-insensitively.
// Duplicate names resolve to the first occurrence in source order; the audit
// package reports duplicates so that positional tie-break stays visible.
func FindStyleForPreset(name string, descriptors []model.RawDescriptor) (model.NormalizedStyle, bool) {
	for _, d := range descriptors {
		s := Normalize(d)
		if s.MatchesPreset(name) {
			return s, true
		}
	}
	return model.NormalizedStyle{}, false
}

// Aspect derives the tile aspect ratio for a style: the main image's
// declared ratio first, then explicit container width/height, then the
// 16:9 default.
func Aspect(s model.NormalizedStyle) float64 {
	if r, ok := coerce.ParseAspectRatio(s.MainImage.AspectRatio); ok {
		return r
	}
	w, h := s.Container.Width, s.Container.Height
	if w != nil && h != nil && *w > 0 && *h > 0 {
		return *w / *h
	}
	return DefaultAspect
}

// ResolveCard joins one normalized style against one content item, producing
// the fully resolved per-item visual spec. Unresolvable fields stay empty;
// disabled text elements are never resolved, regardless of item content.
func ResolveCard(s model.NormalizedStyle, item model.ContentItem) model.ResolvedCard {
	card := model.ResolvedCard{
		ItemID:      item.ID(),
		PresetName:  s.PresetName,
		AspectRatio: Aspect(s),
	}
	card.ImageURL = content.ResolveImage(item, s.MainImage.SourceKey)
	card.SecondaryImageURL = content.ResolveImage(item, s.SecondaryImage.SourceKey)
	if s.ShowTitle {
		card.Title = content.ResolveText(item, s.TitleSourceKey, item.Title())
	}
	if s.ShowDescription {
		card.Description = content.ResolveText(item, s.DescriptionSourceKey, item.Desc())
	}
	if s.ShowBadges && s.Badge != nil {
		card.BadgeLabel = s.Badge.Label
	}
	return card
}

// ResolveCards maps ResolveCard across a playlist.
func ResolveCards(s model.NormalizedStyle, items []model.ContentItem) []model.ResolvedCard {
	out := make([]model.ResolvedCard, len(items))
	for i, item := range items {
		out[i] = ResolveCard(s, item)
	}
	return out
}
