// Package compositor merges overlay assets onto their main asset:
// in-process alpha compositing for images, ffmpeg for videos.
package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 95

// MergeImages alpha-composites the overlay onto the base image,
// anchored at the origin and scaled to the base's dimensions when they
// differ, then re-encodes in the base's original container format.
func MergeImages(base, overlay []byte) ([]byte, error) {
	baseImg, format, err := image.Decode(bytes.NewReader(base))
	if err != nil {
		return nil, fmt.Errorf("decoding base image: %w", err)
	}

	overlayImg, _, err := image.Decode(bytes.NewReader(overlay))
	if err != nil {
		return nil, fmt.Errorf("decoding overlay image: %w", err)
	}

	bounds := baseImg.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, baseImg, bounds.Min, draw.Src)

	if overlayImg.Bounds().Dx() == bounds.Dx() && overlayImg.Bounds().Dy() == bounds.Dy() {
		draw.Draw(canvas, bounds, overlayImg, overlayImg.Bounds().Min, draw.Over)
	} else {
		draw.ApproxBiLinear.Scale(canvas, bounds, overlayImg, overlayImg.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, canvas)
	case "jpeg":
		err = jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality})
	default:
		return nil, fmt.Errorf("unsupported base image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding merged %s: %w", format, err)
	}

	return buf.Bytes(), nil
}
