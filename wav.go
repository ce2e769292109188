package main

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavWriter records the resampled stereo stream into a RIFF/WAVE file.
type wavWriter struct {
	w   io.WriteSeeker
	enc *wav.Encoder
	buf audio.IntBuffer
}

func newWavWriter(w io.WriteSeeker, sampleRate int) *wavWriter {
	return &wavWriter{
		w:   w,
		enc: wav.NewEncoder(w, sampleRate, 16, 2, 1),
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}
}

func (ww *wavWriter) writeSamples(samples []int16) error {
	ww.buf.Data = ww.buf.Data[:0]
	for _, s := range samples {
		ww.buf.Data = append(ww.buf.Data, int(s))
	}
	return ww.enc.Write(&ww.buf)
}

// Close finalizes the container sizes and closes the underlying file.
func (ww *wavWriter) Close() error {
	if err := ww.enc.Close(); err != nil {
		return err
	}
	if c, ok := ww.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
