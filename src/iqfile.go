package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Read and write interleaved I/Q recordings.
 *
 * Description:	Formats, all little endian where it matters:
 *
 *		cu8	unsigned 8 bit, offset 127.5, as from rtl_sdr.
 *		cs16	signed 16 bit.
 *		cf32	32 bit float, as from GNU Radio file sinks.
 *
 *		Integer formats are scaled to about +-1.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

type IQFormat int

const (
	IQFormatCU8 IQFormat = iota
	IQFormatCS16
	IQFormatCF32
)

func ParseIQFormat(s string) (IQFormat, error) {
	switch strings.ToLower(s) {
	case "cu8", "u8":
		return IQFormatCU8, nil
	case "cs16", "s16":
		return IQFormatCS16, nil
	case "cf32", "f32", "fc32":
		return IQFormatCF32, nil
	default:
		return IQFormatCU8, fmt.Errorf("%q: %w", s, ErrUnknownIQFormat)
	}
}

func (f IQFormat) String() string {
	switch f {
	case IQFormatCU8:
		return "cu8"
	case IQFormatCS16:
		return "cs16"
	case IQFormatCF32:
		return "cf32"
	default:
		return fmt.Sprintf("IQFormat(%d)", int(f))
	}
}

// BytesPerSample is for one complex sample.
func (f IQFormat) BytesPerSample() int {
	switch f {
	case IQFormatCS16:
		return 4
	case IQFormatCF32:
		return 8
	default:
		return 2
	}
}

type IQReader struct {
	r      *bufio.Reader
	format IQFormat
	raw    []byte
}

func NewIQReader(r io.Reader, format IQFormat) *IQReader {
	return &IQReader{
		r:      bufio.NewReader(r),
		format: format,
	}
}

/*------------------------------------------------------------------
 *
 * Name:	Read
 *
 * Purpose:	Fill dst with samples.
 *
 * Returns:	Number of samples read and io.EOF at the end.  A partial
 *		sample at the end of the stream is dropped.
 *
 *------------------------------------------------------------------*/

func (r *IQReader) Read(dst []complex128) (int, error) {
	var bps = r.format.BytesPerSample()
	var need = len(dst) * bps

	if cap(r.raw) < need {
		r.raw = make([]byte, need)
	}
	var raw = r.raw[:need]

	var got, err = io.ReadFull(r.r, raw)
	var n = got / bps

	for i := 0; i < n; i++ {
		dst[i] = r.decode(raw[i*bps : (i+1)*bps])
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
		if n == 0 {
			err = io.EOF
		}
	}

	return n, err
}

func (r *IQReader) decode(b []byte) complex128 {
	switch r.format {
	case IQFormatCS16:
		var i = int16(binary.LittleEndian.Uint16(b[0:]))
		var q = int16(binary.LittleEndian.Uint16(b[2:]))
		return complex(float64(i)/32768, float64(q)/32768)
	case IQFormatCF32:
		var i = math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))
		var q = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
		return complex(float64(i), float64(q))
	default:
		return complex((float64(b[0])-127.5)/127.5, (float64(b[1])-127.5)/127.5)
	}
}

type IQWriter struct {
	w      *bufio.Writer
	format IQFormat
	buf    [8]byte
}

func NewIQWriter(w io.Writer, format IQFormat) *IQWriter {
	return &IQWriter{
		w:      bufio.NewWriter(w),
		format: format,
	}
}

func (w *IQWriter) Write(samples []complex128) error {
	var bps = w.format.BytesPerSample()

	for _, x := range samples {
		var b = w.buf[:bps]

		switch w.format {
		case IQFormatCS16:
			binary.LittleEndian.PutUint16(b[0:], uint16(toInt16(real(x))))
			binary.LittleEndian.PutUint16(b[2:], uint16(toInt16(imag(x))))
		case IQFormatCF32:
			binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(real(x))))
			binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(imag(x))))
		default:
			b[0] = toUint8(real(x))
			b[1] = toUint8(imag(x))
		}

		if _, err := w.w.Write(b); err != nil {
			return fmt.Errorf("writing %s samples: %w", w.format, err)
		}
	}

	return nil
}

func (w *IQWriter) Flush() error {
	return w.w.Flush()
}

func toInt16(v float64) int16 {
	return int16(math.Round(clamp(v*32768, -32768, 32767)))
}

func toUint8(v float64) uint8 {
	return uint8(math.Round(clamp(v*127.5+127.5, 0, 255)))
}
