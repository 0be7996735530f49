// Package jpegquality estimates the encoding quality of a JPEG stream from
// its quantization tables, inverting the scaling formula used by libjpeg.
package jpegquality

import (
	"bytes"
	"errors"
	"io"
	"math"
)

// Parsing errors.
var (
	ErrInvalidJPEG  = errors.New("invalid JPEG header")
	ErrWrongTable   = errors.New("wrong size for quantization table")
	ErrShortSegment = errors.New("short segment length")
	ErrShortDQT     = errors.New("section DQT is too short")

	errMissingDQT = errors.New("no quantization tables found")
)

const (
	markerSOI = 0xffd8
	markerEOI = 0xffd9
	markerSOS = 0xffda
	markerDQT = 0xffdb
)

// Sums of the Annex K reference tables. The zig-zag storage order of a DQT
// segment does not affect sums.
const (
	lumSum = 3688
	chrSum = 5505
)

type jpegReader struct {
	rs      io.ReadSeeker
	quality int
}

// New parses the JPEG stream and estimates its encoding quality. The reader
// is rewound first, so repeated calls on the same stream are safe.
func New(rs io.ReadSeeker) (*jpegReader, error) {
	jr := &jpegReader{rs: rs}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if jr.readMarker() != markerSOI {
		return nil, ErrInvalidJPEG
	}
	if err := jr.scanSegments(); err != nil {
		return nil, err
	}
	if jr.quality == 0 {
		return nil, errMissingDQT
	}
	return jr, nil
}

// NewWithBytes parses an in-memory JPEG.
func NewWithBytes(data []byte) (*jpegReader, error) {
	return New(bytes.NewReader(data))
}

// Quality returns the estimated encoding quality in [1, 100].
func (jr *jpegReader) Quality() int {
	return jr.quality
}

// scanSegments walks marker segments up to the scan data, feeding every DQT
// into the quality estimate.
func (jr *jpegReader) scanSegments() error {
	for {
		marker := jr.readMarker()
		if marker == 0 {
			if jr.quality != 0 {
				return nil
			}
			return errMissingDQT
		}
		if marker == markerEOI || marker == markerSOS {
			return nil
		}
		length := jr.readLength()
		if length < 2 {
			return ErrShortSegment
		}
		if marker != markerDQT {
			if _, err := jr.rs.Seek(int64(length-2), io.SeekCurrent); err != nil {
				return err
			}
			continue
		}
		if err := jr.readDQT(length); err != nil {
			return err
		}
	}
}

// readMarker reads the next two byte marker, skipping fill bytes. Returns
// zero when the stream ends or is not positioned at a marker.
func (jr *jpegReader) readMarker() int {
	var buf [2]byte
	for {
		if _, err := io.ReadFull(jr.rs, buf[:]); err != nil {
			return 0
		}
		if buf[0] != 0xff || buf[1] == 0x00 {
			return 0
		}
		if buf[1] == 0xff {
			// fill byte, the marker starts one byte later
			if _, err := jr.rs.Seek(-1, io.SeekCurrent); err != nil {
				return 0
			}
			continue
		}
		return int(buf[0])<<8 | int(buf[1])
	}
}

func (jr *jpegReader) readLength() int {
	var buf [2]byte
	if _, err := io.ReadFull(jr.rs, buf[:]); err != nil {
		return 0
	}
	return int(buf[0])<<8 | int(buf[1])
}

// readDQT consumes one DQT segment which may carry several tables. The
// luminance table, when present, decides the reported quality.
func (jr *jpegReader) readDQT(length int) error {
	remaining := length - 2
	for remaining > 0 {
		var pqtq [1]byte
		if _, err := io.ReadFull(jr.rs, pqtq[:]); err != nil {
			return ErrShortDQT
		}
		remaining--

		precision := int(pqtq[0] >> 4) // 0: 8-bit entries, 1: 16-bit
		index := int(pqtq[0] & 0x0f)
		if precision > 1 || index > 3 {
			return ErrWrongTable
		}
		size := 64 * (precision + 1)
		if remaining < size {
			return ErrShortDQT
		}
		table := make([]byte, size)
		if _, err := io.ReadFull(jr.rs, table); err != nil {
			return ErrShortDQT
		}
		remaining -= size

		var sum int
		if precision == 0 {
			for _, v := range table {
				sum += int(v)
			}
		} else {
			for i := 0; i < size; i += 2 {
				sum += int(table[i])<<8 | int(table[i+1])
			}
		}
		if q := estimate(index, sum); index == 0 || jr.quality == 0 {
			jr.quality = q
		}
	}
	return nil
}

// estimate inverts the libjpeg table scaling: every entry of the reference
// table is scaled as (v*scale+50)/100, so the entry sum recovers the scale
// and with it the quality setting.
func estimate(index, sum int) int {
	ref := float64(lumSum)
	if index > 0 {
		ref = float64(chrSum)
	}
	scale := (float64(sum)*100 - 3200) / ref
	var q float64
	switch {
	case scale <= 0:
		return 100
	case scale <= 100:
		q = (200 - scale) / 2
	default:
		q = 5000 / scale
	}
	return int(math.Round(math.Min(100, math.Max(1, q))))
}
