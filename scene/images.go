package scene

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"mime"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"dsc/config"
	"dsc/jpegquality"
	"dsc/utils/images"
)

//go:embed broken.png
var brokenImagePNG []byte

// Asset processing functions for scene documents.

// mimeToExt returns file extension for common image MIME types
func mimeToExt(mimeType string) string {
	// Handle common types directly to prefer standard extensions
	switch strings.ToLower(mimeType) {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	case "image/webp":
		return "webp"
	case "image/tiff":
		return "tiff"
	}
	// Fallback to mime package for other types
	exts, err := mime.ExtensionsByType(mimeType)
	if err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "img"
}

// PrepareAssets processes all binary assets of the document and builds the
// asset index keyed by reference. Assets are numbered in natural reference
// order so output names are stable between runs. Never returns an error -
// broken assets are substituted with a placeholder.
func (d *Document) PrepareAssets(cfg *config.ImagesConfig, log *zap.Logger) SceneAssets {
	index := make(SceneAssets, len(d.Assets))

	refs := make([]string, 0, len(d.Assets))
	for ref := range d.Assets {
		refs = append(refs, ref)
	}
	sort.Sort(natural.StringSlice(refs))

	num := 1
	for _, ref := range refs {
		sa := d.Assets[ref].PrepareAsset(ref, cfg, log)
		sa.Filename = fmt.Sprintf("img%05d.%s", num, mimeToExt(sa.MimeType))
		num++
		index[ref] = sa
	}
	return index
}

// handleAssetError is a unified error handler for all asset processing failures.
// It logs the error and substitutes the asset with a placeholder.
func (a *Asset) handleAssetError(ref string, sa *SceneAsset, operation string, err error, log *zap.Logger) *SceneAsset {
	if err != nil {
		log.Warn("Unable to "+operation+" asset", zap.String("ref", ref), zap.String("content-type", a.ContentType), zap.Error(err))
	} else {
		log.Warn("Unable to "+operation+" asset", zap.String("ref", ref), zap.String("content-type", a.ContentType))
	}

	log.Debug("Substituting asset with broken.png", zap.String("ref", ref))
	sa.Data = brokenImagePNG
	sa.MimeType = "image/png"
	if img, _, decErr := image.Decode(bytes.NewReader(brokenImagePNG)); decErr == nil {
		sa.Dim.Width = img.Bounds().Dx()
		sa.Dim.Height = img.Bounds().Dy()
	}
	return sa
}

func encodeAsset(ref string, img image.Image, imgType string, cfg *config.ImagesConfig, log *zap.Logger) ([]byte, error) {
	var buf = new(bytes.Buffer)
	var err error

	// Single channel data compresses much better, do not waste bytes on color
	// planes when the source has none.
	if cfg.Optimize && images.IsGrayscale(img) {
		gray := image.NewGray(img.Bounds())
		draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
		img = gray
	}

	switch imgType {
	case "png":
		err = imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
		if err != nil {
			return nil, fmt.Errorf("unable to encode processed PNG, ref - %s: %w", ref, err)
		}
		return buf.Bytes(), nil
	case "jpeg":
		err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(cfg.JPEGQuality))
		if err != nil {
			return nil, fmt.Errorf("unable to encode processed JPEG, ref - %s: %w", ref, err)
		}
		// Go's encoder writes no JFIF APP0 segment, add one with the CSS
		// reference density.
		data, added, err := images.EnsureJFIFAPP0(buf.Bytes(), images.DpiPxPerInch, 96, 96)
		if err != nil {
			return nil, fmt.Errorf("unable to finalize processed JPEG, ref - %s: %w", ref, err)
		}
		if added {
			log.Debug("Inserting jpeg JFIF APP0 marker segment", zap.String("ref", ref))
		}
		return data, nil
	default:
		log.Warn("Unable to process asset - unsupported format, skipping", zap.String("ref", ref), zap.String("type", imgType))
		return nil, nil
	}
}

// PrepareAsset performs required asset modifications leaving original data
// intact if no changes were requested. If the asset is decodable its mime
// type is always normalized. Never returns an error - uses placeholder for
// broken assets.
func (a *Asset) PrepareAsset(ref string, cfg *config.ImagesConfig, log *zap.Logger) *SceneAsset {

	sa := &SceneAsset{
		MimeType: a.ContentType,
		Data:     a.Data,
	}

	// Exporters do not always bother with a content type
	if len(sa.MimeType) == 0 {
		if kind, err := filetype.Match(a.Data); err == nil && kind != filetype.Unknown {
			sa.MimeType = kind.MIME.Value
			log.Debug("Sniffed asset content type", zap.String("ref", ref), zap.String("content-type", sa.MimeType))
		}
	}

	// Special case - do not touch SVG
	if strings.HasSuffix(strings.ToLower(sa.MimeType), "svg") {
		sa.MimeType = "image/svg+xml"
		return sa
	}

	assetChanged := false
	img, imgType, imgDecodingErr := image.Decode(bytes.NewReader(a.Data))
	if imgDecodingErr != nil {
		return a.handleAssetError(ref, sa, "decode", imgDecodingErr, log)
	}
	sa.MimeType = mime.TypeByExtension("." + imgType)
	sa.Dim.Width = img.Bounds().Dx()
	sa.Dim.Height = img.Bounds().Dy()

	// Scaling
	if cfg.ScaleFactor > 0.0 && cfg.ScaleFactor != 1.0 {
		if imgType == "png" || imgType == "jpeg" {
			resizedImg := imaging.Resize(img, 0, int(float64(img.Bounds().Dy())*cfg.ScaleFactor), imaging.Linear)
			if resizedImg == nil {
				return a.handleAssetError(ref, sa, "resize", nil, log)
			}
			img = resizedImg
			sa.Dim.Width = img.Bounds().Dx()
			sa.Dim.Height = img.Bounds().Dy()
			assetChanged = true
		}
	}

	// Clamping oversized assets
	if cfg.MaxDimension > 0 && (sa.Dim.Width > cfg.MaxDimension || sa.Dim.Height > cfg.MaxDimension) {
		resizedImg := imaging.Fit(img, cfg.MaxDimension, cfg.MaxDimension, imaging.Lanczos)
		if resizedImg == nil {
			return a.handleAssetError(ref, sa, "fit", nil, log)
		}
		log.Debug("Clamping oversized asset",
			zap.String("ref", ref),
			zap.Int("width", sa.Dim.Width), zap.Int("height", sa.Dim.Height),
			zap.Int("max", cfg.MaxDimension))
		img = resizedImg
		sa.Dim.Width = img.Bounds().Dx()
		sa.Dim.Height = img.Bounds().Dy()
		assetChanged = true
	}

	// Compression & image quality
	if cfg.Optimize {
		switch imgType {
		case "jpeg":
			jr, err := jpegquality.NewWithBytes(a.Data)
			if err != nil {
				log.Warn("Unable to detect JPEG quality level, skipping...", zap.String("ref", ref), zap.Error(err))
				break
			}

			q := jr.Quality()
			if q <= cfg.JPEGQuality {
				log.Debug("JPEG quality level already lower than requested, skipping...",
					zap.String("ref", ref), zap.Int("detected", q), zap.Int("requested", cfg.JPEGQuality))
				break
			}

			log.Debug("JPEG quality level higher than requested, reencoding...",
				zap.String("ref", ref), zap.Int("detected", q), zap.Int("requested", cfg.JPEGQuality))

			assetChanged = true
		case "png":
			assetChanged = true
		}
	}

	if !assetChanged {
		return sa
	}

	data, err := encodeAsset(ref, img, imgType, cfg, log)
	if err != nil {
		return a.handleAssetError(ref, sa, "encode", err, log)
	}
	if data != nil {
		sa.Data = data
	}

	return sa
}
