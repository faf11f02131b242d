package batch

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jameslewellyn/recipe-scan-tool/internal/archive"
	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
	"github.com/jameslewellyn/recipe-scan-tool/internal/imaging"
	"github.com/jameslewellyn/recipe-scan-tool/internal/ocr"
)

// Crop loads item, flattens it onto white and runs the pipeline. Every
// stage is logged; scan-limit stages are logged at warn level so the card
// can be checked by hand.
func Crop(item Item, p *autocrop.Pipeline, log zerolog.Logger) (autocrop.PipelineResult, error) {
	src, err := item.Load()
	if err != nil {
		return autocrop.PipelineResult{}, err
	}
	res := p.Run(autocrop.NewImage(imaging.Flatten(src)))
	logStages(log, item, res)
	return res, nil
}

func logStages(log zerolog.Logger, item Item, res autocrop.PipelineResult) {
	for _, s := range res.Stages {
		ev := log.Debug()
		if s.Outcome.Uncertain() {
			ev = log.Warn()
		}
		ev = ev.Str("item", item.String()).
			Str("stage", s.Stage).
			Stringer("outcome", s.Outcome).
			Stringer("rect", s.Rect)
		if s.Stage != "white" {
			ev = ev.Str("margin_color", s.MarginColor.Hex()).Int("depth", s.Scan.Depth)
		}
		if s.Outcome.Uncertain() {
			ev.Msg("margin reached scan limit; check crop")
		} else {
			ev.Msg("stage done")
		}
	}
	log.Info().
		Str("item", item.String()).
		Stringer("crop", res.Rect).
		Bool("uncertain", res.Uncertain).
		Msg("cropped")
}

// Cropper crops cards and writes them into a directory under their
// original names. Call Plan before processing so that cards whose names
// collide in the output directory get distinct files.
type Cropper struct {
	Pipeline *autocrop.Pipeline
	OutDir   string
	Log      zerolog.Logger

	paths map[string]string // item key -> output path
}

// Plan assigns output paths to items in order. Later items whose output
// name is already taken get a numeric suffix (see imaging.UniquePaths).
func (c *Cropper) Plan(items []Item) {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	c.paths = make(map[string]string, len(items))
	for i, p := range imaging.UniquePaths(c.OutDir, names) {
		c.paths[itemKey(items[i])] = p
	}
}

// OutputPath is where Process writes item.
func (c *Cropper) OutputPath(item Item) string {
	if p, ok := c.paths[itemKey(item)]; ok {
		return p
	}
	return imaging.SavePath(c.OutDir, item.Name)
}

// Process is an ItemFunc.
func (c *Cropper) Process(_ context.Context, item Item) error {
	res, err := Crop(item, c.Pipeline, c.Log)
	if err != nil {
		return err
	}
	out := c.OutputPath(item)
	if err := imaging.Save(res.Image.NRGBA(), out); err != nil {
		return err
	}
	c.Log.Debug().Str("item", item.String()).Str("path", out).Msg("saved")
	return nil
}

func itemKey(it Item) string {
	return fmt.Sprintf("%s#%d", it.Source, it.Page)
}

// Processor runs the full notecard flow and archives every card.
type Processor struct {
	Pipeline      *autocrop.Pipeline
	Archive       *archive.Archive
	MediumSize    int
	ThumbnailSize int
	Rotation      imaging.Rotation

	// Recognizer suggests titles when set. OCR failures are logged and do
	// not fail the card.
	Recognizer *ocr.Recognizer

	Log zerolog.Logger

	hashes sync.Map // source path -> hex SHA-256
}

// Process is an ItemFunc. Failed cards are recorded in the archive too.
func (p *Processor) Process(ctx context.Context, item Item) error {
	entry := archive.Entry{
		Source:       item.Source,
		SourceSHA256: p.sourceHash(item.Source),
		Page:         item.Page,
		Rotation:     int(p.Rotation),
	}

	v, err := p.render(ctx, item, &entry)
	if err != nil {
		p.Archive.Fail(entry, err)
		return err
	}
	if _, err := p.Archive.Add(entry, v); err != nil {
		p.Archive.Fail(entry, err)
		return err
	}
	return nil
}

func (p *Processor) render(ctx context.Context, item Item, entry *archive.Entry) (*imaging.Variants, error) {
	res, err := Crop(item, p.Pipeline, p.Log)
	if err != nil {
		return nil, err
	}
	entry.Crop = res.Rect
	entry.Stages = archive.StagesFrom(res)
	entry.Uncertain = res.Uncertain

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	card, err := imaging.Rotate(res.Image.NRGBA(), p.Rotation)
	if err != nil {
		return nil, err
	}

	if p.Recognizer != nil {
		entry.Title = p.suggestTitle(item, card)
	}

	v, err := imaging.MakeVariants(card, p.MediumSize, p.ThumbnailSize)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", filepath.Base(item.Name), err)
	}
	return v, nil
}

// sourceHash hashes each source file once; pages of one PDF share it. An
// unreadable source yields "" and fails later at load.
func (p *Processor) sourceHash(path string) string {
	if h, ok := p.hashes.Load(path); ok {
		return h.(string)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	h, _ := p.hashes.LoadOrStore(path, imaging.SHA256Hex(data))
	return h.(string)
}

func (p *Processor) suggestTitle(item Item, card image.Image) string {
	s, err := p.Recognizer.SuggestTitle(card)
	if err != nil {
		p.Log.Warn().Err(err).Str("item", item.String()).Msg("title suggestion failed")
		return ""
	}
	if !s.Found {
		return ""
	}
	p.Log.Debug().Str("item", item.String()).Str("title", s.Title).Float64("confidence", s.Confidence).Msg("title suggested")
	return s.Title
}
