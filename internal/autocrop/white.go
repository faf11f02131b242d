package autocrop

// WhiteBorder strips a near-white frame from the whole image.
//
// Every pixel is converted to luminance (see Image.Luma); pixels strictly
// darker than threshold are content. The crop is the bounding box of all
// content pixels grown by padding on every side and clamped to the image.
// An image with no content pixel is returned unchanged.
//
// This is the only pass that visits every pixel: a single bounded loop with
// no allocation.
func WhiteBorder(img *Image, threshold uint8, padding int) Result {
	const stage = "white"
	if img == nil || img.Empty() {
		return unchanged(img, stage, OutcomeSkipped)
	}
	if padding < 0 {
		padding = 0
	}

	w, h := img.Width(), img.Height()
	left, top, right, bottom := w, h, -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Luma(x, y) >= threshold {
				continue
			}
			left = min(left, x)
			right = max(right, x)
			top = min(top, y)
			bottom = max(bottom, y)
		}
	}
	if right < 0 {
		return unchanged(img, stage, OutcomeUnchanged)
	}

	r := CropRect{
		Left:   max(0, left-padding),
		Top:    max(0, top-padding),
		Right:  min(w, right+padding+1),
		Bottom: min(h, bottom+padding+1),
	}
	if r == img.Bounds() {
		return unchanged(img, stage, OutcomeUnchanged)
	}
	return Result{Image: img.Crop(r), Rect: r, Outcome: OutcomeCropped, Stage: stage, input: img.Bounds()}
}
