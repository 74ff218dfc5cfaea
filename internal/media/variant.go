package media

// Variant is a named output shape with a fixed target bounding box.
type Variant string

const (
	VariantOriginal  Variant = "original"
	VariantThumbnail Variant = "thumbnail"
	VariantAvatar    Variant = "avatar"
)

// Bounds returns the variant's target bounding box. Resizing fits within the
// box preserving aspect ratio and never upscales beyond source dimensions.
func (v Variant) Bounds() (width, height int) {
	switch v {
	case VariantThumbnail:
		return 300, 300
	case VariantAvatar:
		return 125, 125
	default:
		return 800, 800
	}
}

// ParseVariant maps a caller-supplied value to a Variant, defaulting to
// thumbnail for anything unknown or empty.
func ParseVariant(s string) Variant {
	switch Variant(s) {
	case VariantOriginal, VariantThumbnail, VariantAvatar:
		return Variant(s)
	default:
		return VariantThumbnail
	}
}
