package output

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/renderer"
)

// Codec selects the compression used for raw buffer archives
type Codec string

const (
	CodecZstd   Codec = "zstd"
	CodecSnappy Codec = "snappy"
)

// rawMagic starts every archive; the byte after it names the codec
var rawMagic = [4]byte{'R', 'C', 'B', '1'}

var (
	ErrUnknownCodec = errors.New("unknown codec")
	ErrNotRawBuffer = errors.New("not a raw buffer archive")
)

// Maximum pixel count (4096x4096) accepted by ReadRaw and WriteRaw
const maxRawPixels = 1 << 24

func (c Codec) id() (byte, error) {
	switch c {
	case CodecZstd, "":
		return 1, nil
	case CodecSnappy:
		return 2, nil
	default:
		return 0, fmt.Errorf("%q: %w", string(c), ErrUnknownCodec)
	}
}

// ParseCodec validates a codec name; the empty string selects zstd
func ParseCodec(name string) (Codec, error) {
	codec := Codec(name)
	if _, err := codec.id(); err != nil {
		return "", err
	}
	if codec == "" {
		return CodecZstd, nil
	}
	return codec, nil
}

// WriteRaw stores the color, depth and normal buffers as compressed
// little-endian float32 values: width and height as uint32, then each buffer
// row-major with three channels per pixel
func WriteRaw(w io.Writer, buffers *renderer.Buffers, codec Codec) error {
	id, err := codec.id()
	if err != nil {
		return err
	}
	if width, height := buffers.Color.Width, buffers.Color.Height; width*height > maxRawPixels {
		return fmt.Errorf("%dx%d buffer is too large for a raw archive", width, height)
	}

	header := append(rawMagic[:], id)
	if _, err := w.Write(header); err != nil {
		return err
	}

	var stream io.WriteCloser
	switch id {
	case 1:
		if stream, err = zstd.NewWriter(w); err != nil {
			return err
		}
	default:
		stream = snappy.NewBufferedWriter(w)
	}

	if err := writeBuffers(stream, buffers); err != nil {
		stream.Close()
		return err
	}
	return stream.Close()
}

func writeBuffers(w io.Writer, buffers *renderer.Buffers) error {
	bw := bufio.NewWriter(w)

	var size [8]byte
	binary.LittleEndian.PutUint32(size[0:4], uint32(buffers.Color.Width))
	binary.LittleEndian.PutUint32(size[4:8], uint32(buffers.Color.Height))
	if _, err := bw.Write(size[:]); err != nil {
		return err
	}

	var value [4]byte
	for _, img := range []*renderer.Image{buffers.Color, buffers.Depth, buffers.Normal} {
		for _, pixel := range img.Pixels {
			for _, channel := range [3]float64{pixel.X, pixel.Y, pixel.Z} {
				binary.LittleEndian.PutUint32(value[:], math.Float32bits(float32(channel)))
				if _, err := bw.Write(value[:]); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// ReadRaw reads an archive written by WriteRaw, detecting the codec from its header
func ReadRaw(r io.Reader) (*renderer.Buffers, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if [4]byte(header[:4]) != rawMagic {
		return nil, ErrNotRawBuffer
	}

	var stream io.Reader
	switch header[4] {
	case 1:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		stream = decoder
	case 2:
		stream = snappy.NewReader(r)
	default:
		return nil, fmt.Errorf("codec id %d: %w", header[4], ErrUnknownCodec)
	}

	return readBuffers(bufio.NewReader(stream))
}

func readBuffers(r io.Reader) (*renderer.Buffers, error) {
	var size [8]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return nil, fmt.Errorf("reading size: %w", err)
	}
	width := binary.LittleEndian.Uint32(size[0:4])
	height := binary.LittleEndian.Uint32(size[4:8])
	if uint64(width)*uint64(height) > maxRawPixels {
		return nil, fmt.Errorf("%dx%d buffer is too large: %w", width, height, ErrNotRawBuffer)
	}

	buffers := renderer.NewBuffers(int(width), int(height))
	row := make([]byte, 12)
	for _, img := range []*renderer.Image{buffers.Color, buffers.Depth, buffers.Normal} {
		for i := range img.Pixels {
			if _, err := io.ReadFull(r, row); err != nil {
				return nil, fmt.Errorf("reading pixels: %w", err)
			}
			img.Pixels[i] = core.NewVec3(
				float64(math.Float32frombits(binary.LittleEndian.Uint32(row[0:4]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(row[4:8]))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(row[8:12]))),
			)
		}
	}
	return buffers, nil
}

// WriteRawFile writes an archive to path, creating the parent directory
func WriteRawFile(path string, buffers *renderer.Buffers, codec Codec) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRaw(file, buffers, codec); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// ReadRawFile reads an archive from path
func ReadRawFile(path string) (*renderer.Buffers, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buffers, err := ReadRaw(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return buffers, nil
}

// RawExtension returns the file extension used for a codec
func RawExtension(codec Codec) string {
	if codec == CodecSnappy {
		return ".raw.sz"
	}
	return ".raw.zst"
}
