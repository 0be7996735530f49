package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dsc/common"
	"dsc/misc"
	"dsc/scene"
	"dsc/state"
)

// Content encapsulates the parsed scene document together with everything
// derived from it during preparation.
type Content struct {
	SrcName      string
	OutputFormat common.OutputFmt

	Doc    *scene.Document
	Assets scene.SceneAssets

	NodeCount int
	WorkDir   string
}

// Prepare reads, parses, and prepares a scene document for conversion.
func Prepare(ctx context.Context, r io.Reader, srcName string, outputFormat common.OutputFmt, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	// Keep the raw serialization around when a problem report was requested,
	// parsing consumes the reader
	var raw bytes.Buffer
	in := r
	if env.Rpt != nil {
		in = io.TeeReader(r, &raw)
	}

	doc, err := scene.Parse(in, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse scene: %w", err)
	}

	// Make sure document ID is not empty and is valid UUID
	var refID uuid.UUID
	if _, err := uuid.Parse(doc.ID); err != nil {
		if refID, err = uuid.NewV7(); err != nil {
			return nil, fmt.Errorf("unable to generate new document UUID: %w", err)
		}
		log.Warn("Document has invalid ID, correcting", zap.String("old_id", doc.ID), zap.Stringer("new_id", refID))
	}
	if refID != uuid.Nil {
		doc.ID = refID.String()
	}

	tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), doc.ID), tmpDir)

	baseSrcName := filepath.Base(srcName)

	// Save parsed document to file for debugging
	if env.Rpt != nil {
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName), raw.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("unable to write input doc for debugging: %w", err)
		}
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName+"_pristine"), []byte(doc.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write parsed doc for debugging: %w", err)
		}
	}

	// Wire up parent pointers and variant group membership
	count := doc.Normalize(log)

	// Process all binary assets creating actual images and reference index
	allAssets := doc.PrepareAssets(&env.Cfg.Document.Images, log)

	// Filter assets to only include those actually painted somewhere
	assets := filterReferencedAssets(doc, allAssets, log)

	c := &Content{
		SrcName:      srcName,
		OutputFormat: outputFormat,
		Doc:          doc,
		Assets:       assets,
		NodeCount:    count,
		WorkDir:      tmpDir,
	}

	// Save prepared document to file for debugging
	if env.Rpt != nil {
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName+"_prepared"), []byte(c.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write prepared doc for debugging: %w", err)
		}
	}

	return c, nil
}

// filterReferencedAssets returns only assets that are actually used by a
// visible image paint somewhere in the document
func filterReferencedAssets(doc *scene.Document, allAssets scene.SceneAssets, log *zap.Logger) scene.SceneAssets {
	referenced := make(map[string]bool)

	doc.Walk(func(n *scene.Node) bool {
		for _, paints := range [][]scene.Paint{n.Fills, n.Strokes} {
			for i := range paints {
				p := &paints[i]
				if p.Kind != scene.PaintImage || len(p.AssetRef) == 0 || !p.On() {
					continue
				}
				referenced[p.AssetRef] = true
			}
		}
		return true
	})

	// Build filtered index
	filtered := make(scene.SceneAssets)
	for ref := range referenced {
		if sa, exists := allAssets[ref]; exists {
			filtered[ref] = sa
			continue
		}
		log.Debug("Referenced asset not found in prepared assets", zap.String("ref", ref))
	}

	log.Debug("Filtered assets index", zap.Int("total", len(allAssets)), zap.Int("referenced", len(filtered)))
	for ref, sa := range allAssets {
		if _, exists := filtered[ref]; !exists {
			log.Debug("Excluding unreferenced asset", zap.String("ref", ref), zap.String("type", sa.MimeType))
		}
	}

	return filtered
}
