// Package imagegen provides the image generation collaborator boundary.
//
// image_info.go contains the dimension probe atom. Providers return images
// in different container formats (Gemini favors PNG and WebP, DALL-E PNG),
// so the decoders for all of them are registered here.
package imagegen

import (
	"bytes"
	"fmt"
	"image"

	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

// probeImageDimensions decodes just the header of the image data and returns
// its pixel dimensions. This is a pure function; it never reads past the
// image header.
func probeImageDimensions(data []byte) (width, height int, err error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image header: %w", err)
	}
	return config.Width, config.Height, nil
}
