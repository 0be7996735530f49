package sheet

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"dsc/config"
	"dsc/content"
	"dsc/convert/styles"
	"dsc/css"
	"dsc/misc"
	"dsc/scene"
	"dsc/state"
)

// Generate creates the stylesheet output: the CSS file itself, an SVG sprite
// with the synthesized shape paths next to it, and an assets directory with
// the decoded scene assets when the document carries any.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	log.Info("Generating stylesheet", zap.Stringer("format", c.OutputFormat), zap.String("output", outputPath))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	res, err := styles.NewGenerator(log, c.Assets).Convert(c.Doc)
	if err != nil {
		return fmt.Errorf("unable to convert scene: %w", err)
	}

	sheet := res.Sheet
	if len(env.ExtraStyle) > 0 {
		sheet.Merge(css.NewParser(log).Parse(env.ExtraStyle, cfg.StylesheetPath))
	}

	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	assetsDir := filepath.Base(base) + "_assets"
	if len(c.Assets) > 0 {
		sheet.RewriteURLs(assetRewriter(assetsDir, c.Assets))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "/* Generated by %s %s from %q. Do not edit. */\n\n", misc.GetAppName(), misc.GetVersion(), filepath.Base(c.SrcName))
	if _, err := sheet.WriteTo(&buf); err != nil {
		return fmt.Errorf("unable to serialize stylesheet: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}

	if len(res.Paths) > 0 {
		if err := writeSprite(base+".svg", res.Paths); err != nil {
			return fmt.Errorf("unable to write shape sprite: %w", err)
		}
	}

	if len(c.Assets) > 0 {
		if err := writeAssets(filepath.Join(filepath.Dir(outputPath), assetsDir), c.Assets); err != nil {
			return fmt.Errorf("unable to write assets: %w", err)
		}
	}
	return nil
}

// assetRewriter maps bare prepared asset file names into the assets
// directory, leaving every other reference untouched.
func assetRewriter(assetsDir string, assets scene.SceneAssets) func(string) string {
	names := make(map[string]bool, len(assets))
	for _, a := range assets {
		names[a.Filename] = true
	}
	return func(u string) string {
		if names[u] {
			// URLs always use forward slashes
			return path.Join(assetsDir, u)
		}
		return u
	}
}

// writeSprite stores all shape paths in a single SVG file as symbols, one per
// node, addressable by a sanitized node id.
func writeSprite(name string, paths []styles.PathRecord) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")

	for i := range paths {
		rec := &paths[i]
		symbol := svg.CreateElement("symbol")
		symbol.CreateAttr("id", "shape-"+styles.SafeNodeID(rec.NodeID))
		symbol.CreateAttr("viewBox", rec.ViewBox)
		p := symbol.CreateElement("path")
		p.CreateAttr("d", rec.Path)
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := doc.WriteTo(f); err != nil {
		return err
	}
	return f.Close()
}

func writeAssets(dir string, assets scene.SceneAssets) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for ref, a := range assets {
		if err := os.WriteFile(filepath.Join(dir, a.Filename), a.Data, 0644); err != nil {
			return fmt.Errorf("unable to write asset %s: %w", ref, err)
		}
	}
	return nil
}
