package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/disintegration/imaging"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"dsc/config"
	"dsc/content"
	"dsc/convert/styles"
	"dsc/css"
	"dsc/misc"
	"dsc/scene"
	"dsc/state"
	"dsc/utils/images"
)

const (
	shapesDir   = "shapes"
	assetsDir   = "assets"
	previewsDir = "previews"
)

// Generate creates the bundle output file: a zip archive holding the
// stylesheet, one SVG per shape node, the decoded scene assets, and
// optionally rasterized shape previews.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	log.Info("Generating bundle", zap.Stringer("format", c.OutputFormat), zap.String("output", outputPath))

	_, tmpName := filepath.Split(outputPath)
	tmpName = filepath.Join(c.WorkDir, tmpName)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	res, err := styles.NewGenerator(log, c.Assets).Convert(c.Doc)
	if err != nil {
		return fmt.Errorf("unable to convert scene: %w", err)
	}

	if err := writeStylesheet(zw, c, res, env.ExtraStyle, cfg, log); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}

	if err := writeShapes(zw, res.Paths); err != nil {
		return fmt.Errorf("unable to write shapes: %w", err)
	}

	if err := writeAssets(zw, c.Assets); err != nil {
		return fmt.Errorf("unable to write assets: %w", err)
	}

	if cfg.Images.Previews.Generate {
		if err := writePreviews(zw, res.Paths, &cfg.Images.Previews, log); err != nil {
			return fmt.Errorf("unable to write previews: %w", err)
		}
	}

	// Store scene dump for debugging
	if env.Rpt != nil {
		if err := writeDataToZip(zw, "scene.txt", []byte(c.String())); err != nil {
			return fmt.Errorf("unable to write scene dump: %w", err)
		}
	}

	// make sure buffers are flushed before continuing
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	// clean temporary file
	defer os.Remove(tmpName)

	if cfg.FixZip {
		return copyZipWithoutDataDescriptors(tmpName, outputPath)
	}
	return copyFile(tmpName, outputPath)
}

func writeStylesheet(zw *zip.Writer, c *content.Content, res *styles.Result, extra []byte, cfg *config.DocumentConfig, log *zap.Logger) error {
	sheet := res.Sheet
	if len(extra) > 0 {
		sheet.Merge(css.NewParser(log).Parse(extra, cfg.StylesheetPath))
	}
	if len(c.Assets) > 0 {
		names := make(map[string]bool, len(c.Assets))
		for _, a := range c.Assets {
			names[a.Filename] = true
		}
		sheet.RewriteURLs(func(u string) string {
			if names[u] {
				// URLs always use forward slashes
				return path.Join(assetsDir, u)
			}
			return u
		})
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "/* Generated by %s %s from %q. Do not edit. */\n\n", misc.GetAppName(), misc.GetVersion(), filepath.Base(c.SrcName))
	if _, err := sheet.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, "stylesheet.css", buf.Bytes())
}

// shapeSVG builds a standalone SVG document for one synthesized shape path.
func shapeSVG(rec *styles.PathRecord) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("viewBox", rec.ViewBox)
	p := svg.CreateElement("path")
	p.CreateAttr("d", rec.Path)
	return doc
}

func writeShapes(zw *zip.Writer, paths []styles.PathRecord) error {
	for i := range paths {
		rec := &paths[i]
		data, err := shapeSVG(rec).WriteToBytes()
		if err != nil {
			return fmt.Errorf("unable to serialize shape %s: %w", rec.NodeID, err)
		}
		name := path.Join(shapesDir, styles.SafeNodeID(rec.NodeID)+".svg")
		if err := writeDataToZip(zw, name, data); err != nil {
			return fmt.Errorf("unable to write shape %s: %w", rec.NodeID, err)
		}
	}
	return nil
}

func writeAssets(zw *zip.Writer, assets scene.SceneAssets) error {
	for ref, a := range assets {
		name := path.Join(assetsDir, a.Filename)
		if err := writeDataToZip(zw, name, a.Data); err != nil {
			return fmt.Errorf("unable to write asset %s: %w", ref, err)
		}
	}
	return nil
}

// writePreviews rasterizes each shape to a PNG. A shape that cannot be
// rasterized is skipped with a warning, previews are a convenience and must
// not fail the conversion.
func writePreviews(zw *zip.Writer, paths []styles.PathRecord, cfg *config.PreviewsConfig, log *zap.Logger) error {
	for i := range paths {
		rec := &paths[i]

		data, err := shapeSVG(rec).WriteToBytes()
		if err != nil {
			return fmt.Errorf("unable to serialize shape %s: %w", rec.NodeID, err)
		}

		img, err := rasterize(data, cfg)
		if err != nil {
			log.Warn("Unable to rasterize shape preview", zap.String("id", rec.NodeID), zap.Error(err))
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			log.Warn("Unable to encode shape preview", zap.String("id", rec.NodeID), zap.Error(err))
			continue
		}

		name := path.Join(previewsDir, styles.SafeNodeID(rec.NodeID)+".png")
		if err := writeDataToZip(zw, name, buf.Bytes()); err != nil {
			return fmt.Errorf("unable to write preview %s: %w", rec.NodeID, err)
		}
	}
	return nil
}

func rasterize(data []byte, cfg *config.PreviewsConfig) (image.Image, error) {
	switch cfg.Resize {
	case config.ImageResizeModeStretch:
		img, err := images.RasterizeSVGToImage(data, cfg.Width, cfg.Height, 0)
		if err != nil {
			return nil, err
		}
		return imaging.Resize(img, cfg.Width, cfg.Height, imaging.Lanczos), nil
	case config.ImageResizeModeKeepAR:
		return images.RasterizeSVGToImage(data, cfg.Width, cfg.Height, 0)
	default:
		// no resizing, rasterize at the shape's own dimensions
		return images.RasterizeSVGToImage(data, 0, 0, 0)
	}
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destinationFile.Close()

	if _, err = io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err = destinationFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}
