package server

import (
	"encoding/json"
	"fmt"

	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
	"github.com/jameslewellyn/recipe-scan-tool/internal/config"
	"github.com/jameslewellyn/recipe-scan-tool/internal/imaging"
	"github.com/jameslewellyn/recipe-scan-tool/internal/ocr"
	"github.com/jameslewellyn/recipe-scan-tool/internal/pdfpages"
)

// previewSize bounds the longest side of images returned to the client.
const previewSize = 800

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "autocrop_pipeline").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills optional parameters from the server configuration
//  3. Loads images from cache as needed
//  4. Calls the appropriate autocrop/imaging/pdfpages/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	// Autocrop
	case "autocrop_white_border":
		return s.handleWhiteBorder(args)
	case "autocrop_grey_margin":
		return s.handleGreyMargin(args)
	case "autocrop_pipeline":
		return s.handlePipeline(args)
	case "autocrop_diagnose":
		return s.handleDiagnose(args)

	// PDF
	case "pdf_extract_pages":
		return s.handlePDFExtractPages(args)

	// OCR
	case "notecard_ocr":
		return s.handleNotecardOCR(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func parseSide(name string) (autocrop.Side, error) {
	side, ok := autocrop.ParseSide(name)
	if !ok {
		return 0, fmt.Errorf("invalid side %q: must be left, right, top or bottom", name)
	}
	return side, nil
}

// parseBorderColor returns nil for an empty string.
func parseBorderColor(hex string) (*autocrop.RGBColor, error) {
	if hex == "" {
		return nil, nil
	}
	c, err := autocrop.ParseHex(hex)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func checkByte(name string, v int) error {
	if v < 0 || v > 255 {
		return fmt.Errorf("%s must be 0-255, got %d", name, v)
	}
	return nil
}

func preview(img *autocrop.Image, want bool) (*imaging.EncodedImage, error) {
	if !want {
		return nil, nil
	}
	return imaging.OverlayPreview(img.NRGBA(), previewSize)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(a.Path)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Load(a.Path); err != nil {
		return nil, err
	}
	return info, nil
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageDominantColorsArgs struct {
	Path   string             `json:"path"`
	Count  int                `json:"count"`
	Region *autocrop.CropRect `json:"region,omitempty"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(img, a.Count, a.Region)
}

// === Autocrop Handlers ===

type whiteBorderArgs struct {
	Path      string `json:"path"`
	Threshold *int   `json:"threshold"`
	Padding   *int   `json:"padding"`
	Preview   bool   `json:"preview"`
}

// WhiteBorderResult is the autocrop_white_border response.
type WhiteBorderResult struct {
	Outcome autocrop.Outcome      `json:"outcome"`
	Changed bool                  `json:"changed"`
	Rect    autocrop.CropRect     `json:"rect"`
	Width   int                   `json:"width"`
	Height  int                   `json:"height"`
	Preview *imaging.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) handleWhiteBorder(args json.RawMessage) (interface{}, error) {
	var a whiteBorderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	threshold := s.cfg.Autocrop.WhiteThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if err := checkByte("threshold", threshold); err != nil {
		return nil, err
	}
	padding := s.cfg.Autocrop.Padding
	if a.Padding != nil {
		padding = *a.Padding
	}
	if padding < 0 {
		return nil, fmt.Errorf("padding must not be negative, got %d", padding)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res := autocrop.WhiteBorder(img, uint8(threshold), padding)

	out := &WhiteBorderResult{
		Outcome: res.Outcome,
		Changed: res.Changed(),
		Rect:    res.Rect,
		Width:   res.Image.Width(),
		Height:  res.Image.Height(),
	}
	if out.Preview, err = preview(res.Image, a.Preview); err != nil {
		return nil, err
	}
	return out, nil
}

type greyMarginArgs struct {
	Path        string `json:"path"`
	Side        string `json:"side"`
	BorderColor string `json:"border_color"`
	Tolerance   *int   `json:"tolerance"`
	Preview     bool   `json:"preview"`
}

// GreyMarginResult is the autocrop_grey_margin response.
type GreyMarginResult struct {
	Side        autocrop.Side         `json:"side"`
	Outcome     autocrop.Outcome      `json:"outcome"`
	Changed     bool                  `json:"changed"`
	Uncertain   bool                  `json:"uncertain"`
	Rect        autocrop.CropRect     `json:"rect"`
	MarginColor imaging.ColorResult   `json:"margin_color"`
	Scan        autocrop.ScanResult   `json:"scan"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	Preview     *imaging.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) scanConfig(tolerance *int) (autocrop.ScanConfig, error) {
	cfg := s.cfg.ScanConfig()
	if tolerance != nil {
		if err := checkByte("tolerance", *tolerance); err != nil {
			return cfg, err
		}
		cfg.Tolerance = uint8(*tolerance)
	}
	return cfg, nil
}

func (s *Server) handleGreyMargin(args json.RawMessage) (interface{}, error) {
	var a greyMarginArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	side, err := parseSide(a.Side)
	if err != nil {
		return nil, err
	}
	border, err := parseBorderColor(a.BorderColor)
	if err != nil {
		return nil, err
	}
	cfg, err := s.scanConfig(a.Tolerance)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res := autocrop.GreyMargin(img, side, border, cfg)

	out := &GreyMarginResult{
		Side:        side,
		Outcome:     res.Outcome,
		Changed:     res.Changed(),
		Uncertain:   res.Outcome.Uncertain(),
		Rect:        res.Rect,
		MarginColor: imaging.NewColorResult(res.MarginColor),
		Scan:        res.Scan,
		Width:       res.Image.Width(),
		Height:      res.Image.Height(),
	}
	if out.Preview, err = preview(res.Image, a.Preview); err != nil {
		return nil, err
	}
	return out, nil
}

type pipelineArgs struct {
	Path        string   `json:"path"`
	Sides       []string `json:"sides"`
	BorderColor string   `json:"border_color"`
	SkipWhite   bool     `json:"skip_white"`
	Preview     bool     `json:"preview"`
}

// PipelineResult is the autocrop_pipeline response.
type PipelineResult struct {
	Rect      autocrop.CropRect     `json:"rect"`
	Changed   bool                  `json:"changed"`
	Uncertain bool                  `json:"uncertain"`
	Stages    []autocrop.Result     `json:"stages"`
	Width     int                   `json:"width"`
	Height    int                   `json:"height"`
	Preview   *imaging.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) handlePipeline(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := s.cfg.PipelineConfig()
	if a.Sides != nil {
		sides, err := config.ParseSides(a.Sides)
		if err != nil {
			return nil, err
		}
		cfg.Sides = sides
	}
	if a.BorderColor != "" {
		border, err := parseBorderColor(a.BorderColor)
		if err != nil {
			return nil, err
		}
		cfg.BorderColor = border
	}
	if a.SkipWhite {
		cfg.SkipWhite = true
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res := autocrop.NewPipeline(cfg).Run(img)

	out := &PipelineResult{
		Rect:      res.Rect,
		Changed:   res.Changed(),
		Uncertain: res.Uncertain,
		Stages:    res.Stages,
		Width:     res.Image.Width(),
		Height:    res.Image.Height(),
	}
	if out.Preview, err = preview(res.Image, a.Preview); err != nil {
		return nil, err
	}
	return out, nil
}

type diagnoseArgs struct {
	Path    string `json:"path"`
	Side    string `json:"side"`
	Lines   int    `json:"lines"`
	Overlay bool   `json:"overlay"`
}

// DiagnoseResult is the autocrop_diagnose response.
type DiagnoseResult struct {
	Profile     autocrop.EdgeProfile  `json:"profile"`
	MarginColor string                `json:"margin_color"`
	Outcome     autocrop.Outcome      `json:"outcome"`
	Rect        autocrop.CropRect     `json:"rect"`
	Overlay     *imaging.EncodedImage `json:"overlay,omitempty"`
}

func (s *Server) handleDiagnose(args json.RawMessage) (interface{}, error) {
	var a diagnoseArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	side, err := parseSide(a.Side)
	if err != nil {
		return nil, err
	}
	if a.Lines == 0 {
		a.Lines = 50
	}
	if a.Lines < 0 {
		return nil, fmt.Errorf("lines must be positive, got %d", a.Lines)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cfg := s.cfg.ScanConfig()
	prof := autocrop.ProfileEdge(img, side, cfg, a.Lines)
	res := autocrop.GreyMargin(img, side, nil, cfg)

	out := &DiagnoseResult{
		Profile:     prof,
		MarginColor: prof.MarginColor.Hex(),
		Outcome:     res.Outcome,
		Rect:        res.Rect,
	}
	if a.Overlay {
		lines := append(
			[]imaging.Boundary{imaging.EdgeBoundary(side, prof.Scan.Depth, img.Width(), img.Height(), imaging.MarginColor)},
			imaging.RectBoundaries(res.Rect, imaging.CropColor)...,
		)
		overlay := imaging.CropOverlay(img, lines, true)
		if out.Overlay, err = imaging.OverlayPreview(overlay, previewSize); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// === PDF Handlers ===

type pdfExtractPagesArgs struct {
	Path      string `json:"path"`
	OutputDir string `json:"output_dir"`
}

// PDFPage describes one page in the pdf_extract_pages response.
type PDFPage struct {
	Page   int    `json:"page"`
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Saved  string `json:"saved,omitempty"`
	Error  string `json:"error,omitempty"`
}

// PDFExtractResult is the pdf_extract_pages response.
type PDFExtractResult struct {
	Path      string    `json:"path"`
	PageCount int       `json:"page_count"`
	Images    int       `json:"images"`
	Pages     []PDFPage `json:"pages"`
}

func (s *Server) handlePDFExtractPages(args json.RawMessage) (interface{}, error) {
	var a pdfExtractPagesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	doc, err := pdfpages.ExtractFile(a.Path)
	if err != nil {
		return nil, err
	}

	out := &PDFExtractResult{
		Path:      a.Path,
		PageCount: doc.PageCount,
		Images:    doc.Images(),
		Pages:     make([]PDFPage, 0, len(doc.Pages)),
	}
	for _, p := range doc.Pages {
		page := PDFPage{Page: p.Number}
		if p.Image == nil {
			page.Error = p.Err.Error()
			out.Pages = append(out.Pages, page)
			continue
		}
		page.Name = pdfpages.FileName(a.Path, p)
		page.Width, page.Height = p.Image.Bounds().Dx(), p.Image.Bounds().Dy()
		if a.OutputDir != "" {
			saved, err := pdfpages.Save(a.OutputDir, a.Path, p)
			if err != nil {
				return nil, err
			}
			page.Saved = saved
		}
		out.Pages = append(out.Pages, page)
	}
	return out, nil
}

// === OCR Handlers ===

type notecardOCRArgs struct {
	Path string `json:"path"`
	Crop *bool  `json:"crop"`
}

// NotecardOCRResult is the notecard_ocr response.
type NotecardOCRResult struct {
	Title ocr.TitleSuggestion `json:"title"`
	Text  *ocr.OCRResult      `json:"text"`
	Rect  autocrop.CropRect   `json:"rect"`
}

func (s *Server) handleNotecardOCR(args json.RawMessage) (interface{}, error) {
	var a notecardOCRArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	rect := img.Bounds()
	if a.Crop == nil || *a.Crop {
		res := autocrop.NewPipeline(s.cfg.PipelineConfig()).Run(img)
		img, rect = res.Image, res.Rect
	}

	text, err := s.recognizer.Recognize(img.NRGBA())
	if err != nil {
		return nil, err
	}
	return &NotecardOCRResult{
		Title: ocr.PickTitle(text.Lines, s.cfg.OCR.MinConfidence),
		Text:  text,
		Rect:  rect,
	}, nil
}
