/*
Package imagefile translates between image files on disk and the raw pixel
buffers the compute pipeline works on. Color images decode to an interleaved
blue-green-red byte buffer, three bytes per pixel, which is the byte order
the grayscale kernel's luminance weights assume. Single-channel results
encode back to the same format family as the input.

JPEG and uncompressed 8/24/32-bit BMP files are supported.
*/
package imagefile

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// Format identifies the file format family of an image.
type Format int

const (
	JPEG Format = iota
	BMP
)

func (f Format) String() string {
	if f == BMP {
		return "bmp"
	}
	return "jpeg"
}

// Descriptor describes the pixel buffer that accompanies it.
type Descriptor struct {
	Width    int
	Height   int
	Channels int
}

// ErrFileFormat reports a file that is not a supported image: an unknown
// signature, a compressed bitmap or a malformed header.
var ErrFileFormat = errors.New("imagefile: unrecognized or unsupported image format")

// bmpFileHeaderSize and bmpInfoHeaderSize are the fixed BITMAPFILEHEADER
// and BITMAPINFOHEADER sizes.
const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
)

// Decode reads an image file and flattens it to interleaved BGR bytes.
// The format is detected from the file's signature, never its extension,
// and a file without a known signature fails before anything else runs.
func Decode(path string) ([]byte, Descriptor, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Descriptor{}, 0, errors.Wrap(err, "reading "+path)
	}
	format, err := detectFormat(data)
	if err != nil {
		return nil, Descriptor{}, 0, errors.Wrap(err, path)
	}

	var img image.Image
	switch format {
	case BMP:
		if err = validateBMPHeader(data); err != nil {
			return nil, Descriptor{}, format, errors.Wrap(err, path)
		}
		img, err = bmp.Decode(bytes.NewReader(data))
	default:
		img, err = jpeg.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, Descriptor{}, format, errors.Wrap(ErrFileFormat, path+": "+err.Error())
	}

	pixels, desc := flattenBGR(img)
	return pixels, desc, format, nil
}

// EncodeGray writes a width*height single-channel buffer as a grayscale
// image in the given format family. The JPEG quality is ignored for BMP.
func EncodeGray(path string, gray []byte, desc Descriptor, format Format, quality int) error {
	if len(gray) != desc.Width*desc.Height {
		return errors.Errorf("imagefile: gray buffer is %d bytes, want %d (%dx%d)",
			len(gray), desc.Width*desc.Height, desc.Width, desc.Height)
	}
	img := &image.Gray{
		Pix:    gray,
		Stride: desc.Width,
		Rect:   image.Rect(0, 0, desc.Width, desc.Height),
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating "+path)
	}
	if format == BMP {
		err = bmp.Encode(f, img)
	} else {
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		f.Close()
		return errors.Wrap(err, "encoding "+path)
	}
	return errors.Wrap(f.Close(), "writing "+path)
}

func detectFormat(data []byte) (Format, error) {
	switch {
	case len(data) >= 2 && data[0] == 0xff && data[1] == 0xd8:
		return JPEG, nil
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return BMP, nil
	}
	return 0, errors.Wrap(ErrFileFormat, "no JPEG or BMP signature")
}

// validateBMPHeader checks the fixed-layout file header and info header
// before the data is handed to the decoder, so a malformed or compressed
// bitmap is rejected with the offending field named.
func validateBMPHeader(data []byte) error {
	if len(data) < bmpFileHeaderSize+bmpInfoHeaderSize {
		return errors.Wrapf(ErrFileFormat, "bitmap header truncated at %d bytes", len(data))
	}
	offset := binary.LittleEndian.Uint32(data[10:14])
	if offset < bmpFileHeaderSize+bmpInfoHeaderSize || offset > uint32(len(data)) {
		return errors.Wrapf(ErrFileFormat, "bitmap pixel data offset %d out of range", offset)
	}
	if infoSize := binary.LittleEndian.Uint32(data[14:18]); infoSize < bmpInfoHeaderSize {
		return errors.Wrapf(ErrFileFormat, "bitmap info header of %d bytes", infoSize)
	}
	width := int32(binary.LittleEndian.Uint32(data[18:22]))
	height := int32(binary.LittleEndian.Uint32(data[22:26]))
	if width <= 0 || height == 0 {
		return errors.Wrapf(ErrFileFormat, "bitmap dimensions %dx%d", width, height)
	}
	switch bitCount := binary.LittleEndian.Uint16(data[28:30]); bitCount {
	case 8, 24, 32:
	default:
		return errors.Wrapf(ErrFileFormat, "%d bits per pixel", bitCount)
	}
	if compression := binary.LittleEndian.Uint32(data[30:34]); compression != 0 {
		return errors.Wrapf(ErrFileFormat, "compressed bitmap (compression=%d)", compression)
	}
	return nil
}

// flattenBGR converts any decoded image to the three-channel interleaved
// BGR layout the kernel consumes.
func flattenBGR(img image.Image) ([]byte, Descriptor) {
	bounds := img.Bounds()
	desc := Descriptor{Width: bounds.Dx(), Height: bounds.Dy(), Channels: 3}
	pixels := make([]byte, desc.Width*desc.Height*desc.Channels)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels[i] = byte(b >> 8)
			pixels[i+1] = byte(g >> 8)
			pixels[i+2] = byte(r >> 8)
			i += 3
		}
	}
	return pixels, desc
}
