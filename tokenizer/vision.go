package tokenizer

const (
	visionMaxLongEdge  = 2048
	visionMaxShortEdge = 768
	visionTileSize     = 512
	visionBaseTokens   = 85
	visionTileTokens   = 170
)

// VisionTokens estimates the prompt cost of a width x height image. The
// image is fitted into a 2048 square, then scaled so the short side is 768
// when both sides exceed 768, and finally cut into 512 pixel tiles. Detail
// "low" costs the base 85 tokens regardless of size.
func VisionTokens(width, height int, detail string) int {
	if detail == "low" {
		return visionBaseTokens
	}
	if width <= 0 || height <= 0 {
		return visionBaseTokens
	}

	w, h := float64(width), float64(height)
	if w > visionMaxLongEdge || h > visionMaxLongEdge {
		aspect := w / h
		if aspect > 1 {
			w = visionMaxLongEdge
			h = float64(int(visionMaxLongEdge / aspect))
		} else {
			h = visionMaxLongEdge
			w = float64(int(visionMaxLongEdge * aspect))
		}
	}

	aspect := w / h
	if w > visionMaxShortEdge && h > visionMaxShortEdge {
		if aspect > 1 {
			h = visionMaxShortEdge
			w = float64(int(visionMaxShortEdge * aspect))
		} else {
			w = visionMaxShortEdge
			h = float64(int(visionMaxShortEdge / aspect))
		}
	}

	tiles := ceilDiv(int(w), visionTileSize) * ceilDiv(int(h), visionTileSize)
	return visionBaseTokens + visionTileTokens*tiles
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
