package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// ErrUnsupportedImage is returned when the uploaded payload is not a JPEG or
// PNG image.
var ErrUnsupportedImage = errors.New("unsupported image type")

// maxDimension bounds stored avatars; larger uploads are scaled down to fit.
const maxDimension = 125

// AvatarService stores uploaded profile pictures. Every upload gets a fresh
// random filename, so concurrent uploads never collide and old files are
// simply left behind.
type AvatarService struct {
	dir string
}

func NewAvatarService(dir string) *AvatarService {
	return &AvatarService{dir: dir}
}

// Save validates, resizes and writes an uploaded image, returning the stored
// filename.
func (s *AvatarService) Save(data []byte) (string, error) {
	mtype := mimetype.Detect(data)

	var ext string
	switch {
	case mtype.Is("image/jpeg"):
		ext = ".jpg"
	case mtype.Is("image/png"):
		ext = ".png"
	default:
		return "", ErrUnsupportedImage
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("error decoding image: %w", err)
	}

	dst := scaleToFit(src, maxDimension)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("error creating upload directory: %w", err)
	}

	filename := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("error creating avatar file: %w", err)
	}
	defer f.Close()

	switch ext {
	case ".jpg":
		err = jpeg.Encode(f, dst, nil)
	case ".png":
		err = png.Encode(f, dst)
	}
	if err != nil {
		return "", fmt.Errorf("error encoding avatar: %w", err)
	}

	return filename, nil
}

// scaleToFit shrinks img so neither dimension exceeds max, preserving aspect
// ratio. Images already within bounds are returned unchanged.
func scaleToFit(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	var nw, nh int
	if w > h {
		nw = max
		nh = h * max / w
	} else {
		nh = max
		nw = w * max / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
