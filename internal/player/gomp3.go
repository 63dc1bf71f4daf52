package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

const mp3BytesPerSample = 4 // go-mp3 emits interleaved 16-bit stereo

// goMP3Decoder adapts llehouerou/go-mp3 to beep.StreamSeekCloser.
type goMP3Decoder struct {
	decoder *mp3.Decoder
	closer  io.Closer
	err     error
	buf     []byte
}

// decodeGoMP3 starts decoding at the reader's current position, which may be
// in the middle of a file: the decoder resynchronizes on the next frame.
func decodeGoMP3(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	decoder, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	return &goMP3Decoder{decoder: decoder, closer: rc, buf: make([]byte, 8192)}, format, nil
}

func (d *goMP3Decoder) Stream(samples [][2]float64) (int, bool) {
	if d.err != nil {
		return 0, false
	}

	want := len(samples) * mp3BytesPerSample
	if len(d.buf) < want {
		d.buf = make([]byte, want)
	}

	read, err := io.ReadFull(d.decoder, d.buf[:want])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = err
		return 0, false
	}

	n := read / mp3BytesPerSample
	if n == 0 {
		return 0, false
	}
	for i := range n {
		off := i * mp3BytesPerSample
		left := int16(binary.LittleEndian.Uint16(d.buf[off:]))    //nolint:gosec // audio samples
		right := int16(binary.LittleEndian.Uint16(d.buf[off+2:])) //nolint:gosec // audio samples
		samples[i][0] = float64(left) / 32768
		samples[i][1] = float64(right) / 32768
	}
	return n, true
}

func (d *goMP3Decoder) Err() error {
	return d.err
}

func (d *goMP3Decoder) Len() int {
	return int(max(0, d.decoder.SampleCount()))
}

func (d *goMP3Decoder) Position() int {
	return int(d.decoder.SamplePosition())
}

func (d *goMP3Decoder) Seek(p int) error {
	p = max(0, min(p, d.Len()))
	if err := d.decoder.SeekToSample(int64(p)); err != nil {
		return err
	}
	d.err = nil
	return nil
}

func (d *goMP3Decoder) Close() error {
	return d.closer.Close()
}
