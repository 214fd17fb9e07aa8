package storage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	// Decoders for accepted upload formats.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	AvatarMaxSide     = 512
	AvatarJPEGQuality = 85
	AvatarContentType = "image/jpeg"

	// AvatarMaxPixels bounds the decoded size of an upload.
	AvatarMaxPixels = 40_000_000
)

var (
	// ErrUnsupportedImage is returned when the upload is not a png, jpeg or gif.
	ErrUnsupportedImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")
	// ErrImageTooLarge is returned when the image has more than AvatarMaxPixels.
	ErrImageTooLarge = errors.New("image dimensions are too large")
)

// ResizeAvatar decodes r, scales it down to fit within maxSide x maxSide
// keeping the aspect ratio, and encodes the result as JPEG. Smaller images
// are not upscaled. The header is checked against AvatarMaxPixels before any
// pixel data is decoded.
func ResizeAvatar(r io.Reader, maxSide int) ([]byte, error) {
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrUnsupportedImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > AvatarMaxPixels {
		return nil, ErrImageTooLarge
	}

	src, _, err := image.Decode(io.MultiReader(&header, r))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	bounds := src.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxSide)

	// JPEG has no alpha; paint onto white so transparent pixels do not turn black.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: AvatarJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fitWithin(width, height, maxSide int) (int, int) {
	if width <= maxSide && height <= maxSide {
		return width, height
	}
	if width >= height {
		h := height * maxSide / width
		if h < 1 {
			h = 1
		}
		return maxSide, h
	}
	w := width * maxSide / height
	if w < 1 {
		w = 1
	}
	return w, maxSide
}
