package player

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"

	sniffLen = 12
)

// Codec turns a byte source into PCM samples.
type Codec struct {
	Name       string
	Extensions []string
	// Sniff reports whether the first bytes of a source belong to this codec.
	Sniff func(header []byte) bool
	// FrameSynced codecs can start decoding at an arbitrary byte offset, so a
	// resumed session reopens the source directly at the saved offset.
	// Other codecs decode from the start and seek to the matching sample.
	FrameSynced bool
	Decode      func(r io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error)
}

// DefaultCodecs returns the codecs used when none are configured.
func DefaultCodecs() []Codec {
	return []Codec{
		{
			Name:        "MP3",
			Extensions:  []string{extMP3},
			Sniff:       sniffMP3,
			FrameSynced: true,
			Decode:      decodeGoMP3,
		},
		{
			Name:       "FLAC",
			Extensions: []string{extFLAC},
			Sniff:      func(h []byte) bool { return bytes.HasPrefix(h, []byte("fLaC")) },
			Decode:     decodeFLAC,
		},
		{
			Name:       "WAV",
			Extensions: []string{extWAV},
			Sniff: func(h []byte) bool {
				return len(h) >= 12 && string(h[0:4]) == "RIFF" && string(h[8:12]) == "WAVE"
			},
			Decode: func(r io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
				return wav.Decode(r)
			},
		},
	}
}

// sniffMP3 matches an ID3v2 tag or an MPEG audio frame sync.
func sniffMP3(h []byte) bool {
	if bytes.HasPrefix(h, []byte("ID3")) {
		return true
	}
	return len(h) >= 2 && h[0] == 0xFF && h[1]&0xE0 == 0xE0
}

func decodeFLAC(r io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	// Some taggers prepend an ID3v2 tag, which the FLAC decoder doesn't handle.
	if err := skipID3v2(r); err != nil {
		return nil, beep.Format{}, err
	}
	return flac.Decode(r)
}

// selectCodec picks a codec by file extension, then by magic bytes read at
// offset 0 of ra.
func selectCodec(codecs []Codec, name string, ra io.ReaderAt) (Codec, error) {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		for _, c := range codecs {
			for _, e := range c.Extensions {
				if e == ext {
					return c, nil
				}
			}
		}
	}

	header := make([]byte, sniffLen)
	n, err := ra.ReadAt(header, 0)
	if n == 0 && err != nil {
		return Codec{}, fmt.Errorf("%w: read header: %w", ErrDecode, err)
	}
	header = header[:n]
	for _, c := range codecs {
		if c.Sniff != nil && c.Sniff(header) {
			return c, nil
		}
	}
	return Codec{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, displayName(name))
}

// IsMusicFile reports whether path has an extension handled by the default codecs.
func IsMusicFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == extMP3 || ext == extFLAC || ext == extWAV
}

func displayName(name string) string {
	if name == "" {
		return "stream"
	}
	return name
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the source.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n < 10 {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	if string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Size is a syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
