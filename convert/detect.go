package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// sceneType identifies scene JSON serializations by content. Stock matchers
// are magic-bytes oriented and know nothing about them, so we register our own.
var sceneType = filetype.NewType("scene", "application/x-scene+json")

func init() {
	filetype.AddMatcher(sceneType, func(buf []byte) bool {
		head := bytes.TrimLeft(buf, " \t\r\n")
		if len(head) == 0 || head[0] != '{' {
			return false
		}
		return bytes.Contains(head, []byte(`"roots"`))
	})
}

// srcEncoding identifies source document encoding by its byte order mark.
type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// scanHeadSize is how much of the file beginning is examined during encoding
// and content detection.
const scanHeadSize = 512

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF sniffs the byte order mark. UTF-32LE has to be checked ahead of
// UTF-16LE, the shorter mark is a prefix of the longer one.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	default:
		return encUnknown
	}
}

// selectReader wraps the reader with a decoding transformer matching detected
// source encoding. JSON decoding accepts UTF-8 only, everything else has to be
// converted and the mark itself dropped.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder())
	default:
		// this should never happen
		panic("unsupported source encoding requested")
	}
}

// isArchiveFile checks if file is a zip archive.
func isArchiveFile(fname string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(fname), ".zip") {
		return false, nil
	}

	f, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, scanHeadSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}

	kind, err := filetype.Match(buf[:n])
	if err != nil {
		return false, nil
	}
	return kind == matchers.TypeZip, nil
}

// isSceneFile checks if file is a scene document and detects its encoding.
func isSceneFile(fname string) (bool, srcEncoding, error) {
	if !strings.EqualFold(filepath.Ext(fname), ".json") {
		return false, encUnknown, nil
	}

	f, err := os.Open(fname)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	return isScene(f)
}

// isSceneInArchive checks if file inside zip archive is a scene document and
// detects its encoding.
func isSceneInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !strings.EqualFold(filepath.Ext(f.FileHeader.Name), ".json") {
		return false, encUnknown, nil
	}

	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	return isScene(r)
}

func isScene(r io.Reader) (bool, srcEncoding, error) {
	buf := make([]byte, scanHeadSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, encUnknown, err
	}
	buf = buf[:n]

	enc := detectUTF(buf)

	// Content sniffing should see UTF-8 regardless of the source encoding.
	head, err := io.ReadAll(selectReader(bytes.NewReader(buf), enc))
	if err != nil {
		return false, encUnknown, err
	}
	if !filetype.IsType(head, sceneType) {
		return false, encUnknown, nil
	}
	return true, enc, nil
}
