package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Brownie44l1/modelclassify/internal/tensor"
)

const channels = 3

var (
	ErrImageIO = errors.New("image file unreadable")
	ErrDecode  = errors.New("image could not be decoded")
)

var interpolations = map[string]resize.InterpolationFunction{
	"nearest":  resize.NearestNeighbor,
	"bilinear": resize.Bilinear,
	"bicubic":  resize.Bicubic,
	"lanczos3": resize.Lanczos3,
}

// Interpolation looks up a resampling filter by name.
func Interpolation(name string) (resize.InterpolationFunction, bool) {
	fn, ok := interpolations[strings.ToLower(name)]
	return fn, ok
}

type Preprocessor struct {
	width  int
	height int
	interp resize.InterpolationFunction
	log    *zap.Logger
}

func New(width, height int, interpolation string, log *zap.Logger) (*Preprocessor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	interp, ok := Interpolation(interpolation)
	if !ok {
		return nil, fmt.Errorf("unknown interpolation %q", interpolation)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Preprocessor{
		width:  width,
		height: height,
		interp: interp,
		log:    log,
	}, nil
}

// Load reads and decodes the image at path and converts it to a tensor.
func (p *Preprocessor) Load(path string) (tensor.Tensor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tensor.Tensor{}, fmt.Errorf("%w: %s: %v", ErrImageIO, path, err)
	}

	img, err := Decode(data)
	if err != nil {
		return tensor.Tensor{}, fmt.Errorf("%s: %w", path, err)
	}

	p.log.Debug("image decoded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	return p.FromImage(img), nil
}

// Decode sniffs the content type of data and decodes it as an image.
func Decode(data []byte) (image.Image, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: content type %s", ErrDecode, mtype.String())
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// FromImage resizes img to the target size, ignoring its aspect ratio, and
// returns a (1, 3, height, width) tensor of RGB values scaled to [0, 1].
// Channels are read without alpha premultiplication.
func (p *Preprocessor) FromImage(img image.Image) tensor.Tensor {
	if img.Bounds().Dx() != p.width || img.Bounds().Dy() != p.height {
		img = resize.Resize(uint(p.width), uint(p.height), img, p.interp)
	}
	pix := asNRGBA(img)
	bounds := pix.Bounds()

	t := tensor.New(1, channels, int64(p.height), int64(p.width))
	plane := p.width * p.height

	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			off := pix.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			pixelIndex := y*p.width + x
			t.Data[pixelIndex] = float32(pix.Pix[off]) / 255.0
			t.Data[plane+pixelIndex] = float32(pix.Pix[off+1]) / 255.0
			t.Data[2*plane+pixelIndex] = float32(pix.Pix[off+2]) / 255.0
		}
	}

	return t
}

func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	bounds := img.Bounds()
	n := image.NewNRGBA(bounds)
	draw.Draw(n, bounds, img, bounds.Min, draw.Src)
	return n
}
