package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"dsc/common"
	"dsc/config"
	"dsc/state"
)

const sampleScene = `{
  "id": "00000000-0000-0000-0000-000000000001",
  "name": "Sample",
  "schema": 1,
  "roots": [
    {
      "id": "1:1", "name": "Screen", "kind": "frame",
      "width": 375, "height": 812,
      "children": [
        {
          "id": "1:2", "name": "Card", "kind": "rectangle",
          "x": 50, "y": 50, "width": 100, "height": 100
        },
        {
          "id": "1:3", "name": "Label", "kind": "text",
          "x": 16, "y": 200, "width": 120, "height": 24,
          "text": {"family": "Inter", "size": 16, "characters": "Hello"}
        }
      ]
    }
  ]
}`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

// paddedScene returns scene content that's at least 512 bytes so archive
// entries are detected the same way as plain files
func paddedScene(t *testing.T) []byte {
	t.Helper()
	sceneBase := `{"id":"00000000-0000-0000-0000-000000000001","name":"Archive Sample","schema":1,` +
		`"roots":[{"id":"1:1","name":"Frame","kind":"frame","width":100,"height":100}],"note":"`
	padding := make([]byte, 512-len(sceneBase)-len(`"}`))
	for i := range padding {
		padding[i] = byte('A' + (i % 26))
	}
	return []byte(sceneBase + string(padding) + `"}`)
}

func readerForEncoding(t *testing.T, data []byte, enc srcEncoding) *bytes.Reader {
	t.Helper()
	var encoded []byte
	switch enc {
	case encUnknown:
		encoded = data
	case encUTF8:
		encoded = append([]byte{0xEF, 0xBB, 0xBF}, data...)
	case encUTF16BigEndian:
		encoded = encodeWithTransformer(t, data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder())
	case encUTF16LittleEndian:
		encoded = encodeWithTransformer(t, data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder())
	case encUTF32BigEndian:
		encoded = encodeWithTransformer(t, data, utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewEncoder())
	case encUTF32LittleEndian:
		encoded = encodeWithTransformer(t, data, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewEncoder())
	default:
		t.Fatalf("unsupported encoding: %v", enc)
	}
	return bytes.NewReader(encoded)
}

func encodeWithTransformer(t *testing.T, data []byte, encoder transform.Transformer) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, encoder)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("finalize encoded sample: %v", err)
	}
	return buf.Bytes()
}

// TestProcess_NonExistentPath tests process with non-existent path
func TestProcess_NonExistentPath(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	err := process(ctx, "/nonexistent/path/file.json", "/tmp", common.OutputFmtCss, logger)
	if err == nil {
		t.Fatal("Expected error for non-existent path, got nil")
	}
	expectedMsg := "input source was not found"
	if !strings.Contains(err.Error(), expectedMsg) {
		t.Errorf("Expected error containing '%s', got: %v", expectedMsg, err)
	}
}

// TestProcess_CancelledContext tests process with cancelled context
func TestProcess_CancelledContext(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cancel() // Cancel immediately

	tmpDir := t.TempDir()
	err := process(cancelCtx, tmpDir, tmpDir, common.OutputFmtCss, logger)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

// TestProcess_Directory tests process with a directory
func TestProcess_Directory(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()
	dstDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.json")
	if err := os.WriteFile(testFile, []byte(sampleScene), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err := process(ctx, tmpDir, dstDir, common.OutputFmtCss, logger)
	if err != nil {
		t.Errorf("process() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "test.css")); err != nil {
		t.Errorf("output was not created: %v", err)
	}
}

// TestProcess_DirectoryWithTail tests process with directory path that has a tail
func TestProcess_DirectoryWithTail(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()
	// Create a directory with a tail (invalid case)
	invalidPath := filepath.Join(tmpDir, "subdir")
	if err := os.MkdirAll(invalidPath, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Add a non-existent tail to the directory path
	pathWithTail := filepath.Join(invalidPath, "nonexistent.json")

	err := process(ctx, pathWithTail, tmpDir, common.OutputFmtCss, logger)
	if err == nil {
		t.Fatal("Expected error for directory with tail, got nil")
	}
}

// TestProcess_SingleFile tests process with a single scene file
func TestProcess_SingleFile(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()
	dstDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "home.json")
	if err := os.WriteFile(testFile, []byte(sampleScene), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err := process(ctx, testFile, dstDir, common.OutputFmtCss, logger)
	if err != nil {
		t.Errorf("process() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "home.css")); err != nil {
		t.Errorf("output was not created: %v", err)
	}
}

// TestProcess_Archive tests process with a ZIP archive
func TestProcess_Archive(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()
	dstDir := t.TempDir()

	// Create a ZIP archive
	zipPath := filepath.Join(tmpDir, "designs.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	f, err := w.CreateHeader(&zip.FileHeader{
		Name:   "design.json",
		Method: zip.Store,
	})
	if err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	}
	if _, err := f.Write(paddedScene(t)); err != nil {
		t.Fatalf("Failed to write to zip: %v", err)
	}
	w.Close()
	zipFile.Close()

	err = process(ctx, zipPath, dstDir, common.OutputFmtCss, logger)
	if err != nil {
		t.Errorf("process() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "design.css")); err != nil {
		t.Errorf("output was not created: %v", err)
	}
}

// TestProcess_ArchiveWithPath tests process with path inside archive
func TestProcess_ArchiveWithPath(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()
	dstDir := t.TempDir()

	// Create a ZIP archive with a subdirectory
	zipPath := filepath.Join(tmpDir, "designs.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	f, err := w.CreateHeader(&zip.FileHeader{
		Name:   "subdir/design.json",
		Method: zip.Store,
	})
	if err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	}
	if _, err := f.Write(paddedScene(t)); err != nil {
		t.Fatalf("Failed to write to zip: %v", err)
	}
	w.Close()
	zipFile.Close()

	// Process with a path inside the archive
	pathInArchive := zipPath + string(filepath.Separator) + "subdir"
	err = process(ctx, pathInArchive, dstDir, common.OutputFmtCss, logger)
	if err != nil {
		t.Errorf("process() error = %v", err)
	}
}

// TestProcess_NonSceneFile tests process with a file that is not a scene
func TestProcess_NonSceneFile(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("not a scene file"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err := process(ctx, testFile, tmpDir, common.OutputFmtCss, logger)
	if err == nil {
		t.Fatal("Expected error for non-scene file, got nil")
	}
	expectedMsg := "input was not recognized as scene document"
	if !strings.Contains(err.Error(), expectedMsg) {
		t.Errorf("Expected error containing '%s', got: %v", expectedMsg, err)
	}
}

// TestProcess_EmptyDirectory tests process with empty directory
func TestProcess_EmptyDirectory(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()
	dstDir := t.TempDir()

	err := process(ctx, tmpDir, dstDir, common.OutputFmtCss, logger)
	if err != nil {
		t.Errorf("process() should handle empty directory, got error: %v", err)
	}
}

// TestProcess_DifferentFormats tests process with different output formats
func TestProcess_DifferentFormats(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "home.json")
	if err := os.WriteFile(testFile, []byte(sampleScene), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	formats := []common.OutputFmt{common.OutputFmtCss, common.OutputFmtBundle}
	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			dstDir := t.TempDir()
			err := process(ctx, testFile, dstDir, format, logger)
			if err != nil {
				t.Errorf("process() with format %s error = %v", format, err)
			}
			if _, err := os.Stat(filepath.Join(dstDir, "home"+format.Ext())); err != nil {
				t.Errorf("output was not created: %v", err)
			}
		})
	}
}

// TestProcessDir_EmptyDir tests processDir with empty directory
func TestProcessDir_EmptyDir(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()

	err := processDir(ctx, tmpDir, tmpDir, common.OutputFmtCss, logger)
	if err != nil {
		t.Errorf("Expected no error for empty directory, got %v", err)
	}
}

// TestProcessDir_NonExistent tests processDir with non-existent directory
func TestProcessDir_NonExistent(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	// processDir uses filepath.Walk which logs warnings but doesn't fail
	// on non-existent directories
	err := processDir(ctx, "/nonexistent-dir-12345", "/tmp", common.OutputFmtCss, logger)
	// The function may return an error from filepath.Walk
	// Just verify it doesn't panic
	_ = err
}

// TestProcessDir_WithCancelledContext tests processDir with cancelled context
func TestProcessDir_WithCancelledContext(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	tmpDir := t.TempDir()
	// Create a dummy file
	testFile := filepath.Join(tmpDir, "test.json")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cancel() // Cancel context

	// processDir should handle context cancellation gracefully
	err := processDir(cancelCtx, tmpDir, tmpDir, common.OutputFmtCss, logger)
	// The function may or may not return an error depending on timing
	// Just ensure it doesn't panic
	_ = err
}

// TestParseOutputFmt tests ParseOutputFmt function
func TestParseOutputFmt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    common.OutputFmt
		wantErr bool
	}{
		{"css", "css", common.OutputFmtCss, false},
		{"CSS uppercase", "CSS", common.OutputFmtCss, false},
		{"bundle", "bundle", common.OutputFmtBundle, false},
		{"BUNDLE uppercase", "BUNDLE", common.OutputFmtBundle, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := common.ParseOutputFmt(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseOutputFmt() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseOutputFmt() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestOutputFmt_Properties tests OutputFmt String, Ext, and Bundled methods
func TestOutputFmt_Properties(t *testing.T) {
	tests := []struct {
		name    string
		fmt     common.OutputFmt
		want    string
		ext     string
		bundled bool
	}{
		{"css", common.OutputFmtCss, "css", ".css", false},
		{"bundle", common.OutputFmtBundle, "bundle", ".zip", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fmt.String(); got != tt.want {
				t.Errorf("OutputFmt.String() = %v, want %v", got, tt.want)
			}
			if got := tt.fmt.Ext(); got != tt.ext {
				t.Errorf("OutputFmt.Ext() = %v, want %v", got, tt.ext)
			}
			if got := tt.fmt.Bundled(); got != tt.bundled {
				t.Errorf("OutputFmt.Bundled() = %v, want %v", got, tt.bundled)
			}
		})
	}
}

// TestProcessScene tests processScene with all supported source encodings
func TestProcessScene(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	sample := []byte(sampleScene)

	// Basic UTF-8 without BOM
	dst := t.TempDir()
	err := processScene(ctx, selectReader(readerForEncoding(t, sample, encUnknown), encUnknown), "sample.json", dst, common.OutputFmtCss, logger)
	if err != nil {
		t.Errorf("processScene() error = %v", err)
	}

	// Test with different encodings
	encodings := []srcEncoding{encUTF8, encUTF16BigEndian, encUTF16LittleEndian, encUTF32BigEndian, encUTF32LittleEndian}
	for i, enc := range encodings {
		testName := "encoding_" + string(rune('0'+i))
		t.Run(testName, func(t *testing.T) {
			dst := t.TempDir()
			err := processScene(ctx, selectReader(readerForEncoding(t, sample, enc), enc), "sample.json", dst, common.OutputFmtCss, logger)
			if err != nil {
				t.Errorf("processScene() with encoding %v error = %v", enc, err)
			}
		})
	}
}

// TestProcessScene_Overwrite tests the existing output handling
func TestProcessScene_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	sample := []byte(sampleScene)

	dst := t.TempDir()
	existing := filepath.Join(dst, "sample.css")
	if err := os.WriteFile(existing, []byte("old content"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	err := processScene(ctx, readerForEncoding(t, sample, encUnknown), "sample.json", dst, common.OutputFmtCss, logger)
	if err == nil {
		t.Fatal("Expected error for existing output, got nil")
	}
	if !strings.Contains(err.Error(), "output file already exists") {
		t.Errorf("Expected 'output file already exists' error, got: %v", err)
	}

	env.Overwrite = true
	err = processScene(ctx, readerForEncoding(t, sample, encUnknown), "sample.json", dst, common.OutputFmtCss, logger)
	if err != nil {
		t.Fatalf("processScene() with overwrite error = %v", err)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("output missing after overwrite: %v", err)
	}
	if string(data) == "old content" {
		t.Error("output was not replaced")
	}
}

// TestProcessScene_InvalidInput tests processScene error reporting
func TestProcessScene_InvalidInput(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	dst := t.TempDir()
	err := processScene(ctx, strings.NewReader(`{"id": "x", "roots": [`), "broken.json", dst, common.OutputFmtCss, logger)
	if err == nil {
		t.Fatal("Expected error for broken input, got nil")
	}
	if !strings.Contains(err.Error(), "unable to parse scene source") {
		t.Errorf("Expected 'unable to parse scene source' error, got: %v", err)
	}
}

// TestProcessScene_WithPanic tests processScene panic recovery
func TestProcessScene_WithPanic(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	sample := []byte(sampleScene)

	// The current implementation has panic recovery
	// This test ensures panic recovery works correctly
	// Since the actual implementation returns nil, this just verifies no panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("processScene() should not panic, but got: %v", r)
		}
	}()

	dst := t.TempDir()
	err := processScene(ctx, selectReader(readerForEncoding(t, sample, encUnknown), encUnknown), "sample.json", dst, common.OutputFmtCss, logger)
	_ = err
}
