package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(what string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the " + what,
	}
}

var sideNames = []string{"left", "right", "top", "bottom"}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Read an image file's header and return its dimensions, format, colour depth and size on disk. The decoded image is cached for the other tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate. Transparent images are flattened onto white first, as the autocrop tools see them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the most common colors of an image or region, quantised to 16 levels per channel. Useful for picking a border colour by hand.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": rectSchema("Optional region to analyze"),
				},
				"required": []string{"path"},
			},
		},

		// Autocrop
		{
			Name:        "autocrop_white_border",
			Description: "Remove the white scanner border: crop to the bounding box of all pixels darker than the threshold, backed off by the padding.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Luminance (0-255) below which a pixel counts as content. Default from config (250)",
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels to keep around the content. Default from config (2)",
					},
					"preview": previewProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "autocrop_grey_margin",
			Description: "Remove a uniform grey margin from one side. The margin colour is sampled from the edge unless border_color is given. Reports scan_limit_reached when the margin never ended within the scan range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"side": map[string]interface{}{
						"type":        "string",
						"enum":        sideNames,
						"description": "Side to scan inward from",
					},
					"border_color": map[string]interface{}{
						"type":        "string",
						"description": "Margin colour as #RRGGBB. Sampled from the edge when omitted",
					},
					"tolerance": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum RGB distance still counted as margin. Default from config (60)",
					},
					"preview": previewProperty(),
				},
				"required": []string{"path", "side"},
			},
		},
		{
			Name:        "autocrop_pipeline",
			Description: "Run the full notecard crop: white border, then the grey-margin pass for each side in order. Returns every stage's outcome and the final crop in the input's coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"sides": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string", "enum": sideNames},
						"description": "Grey-margin passes in order. Default from config (left, right)",
					},
					"border_color": map[string]interface{}{
						"type":        "string",
						"description": "Margin colour as #RRGGBB for every side. Sampled per side when omitted",
					},
					"skip_white": map[string]interface{}{
						"type":        "boolean",
						"description": "Skip the white-border pass",
						"default":     false,
					},
					"preview": previewProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "autocrop_diagnose",
			Description: "Explain a grey-margin decision: sampled margin colour with per-channel min/max/variance, and match ratio and mean distance for the first lines inward from the side. Optionally returns an overlay marking the detected boundary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"side": map[string]interface{}{
						"type":        "string",
						"enum":        sideNames,
						"description": "Side to diagnose",
					},
					"lines": map[string]interface{}{
						"type":        "integer",
						"description": "Number of lines to profile. Default 50",
						"default":     50,
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Return a PNG with the detected content edge (blue) and the resulting crop (red)",
						"default":     false,
					},
				},
				"required": []string{"path", "side"},
			},
		},

		// PDF
		{
			Name:        "pdf_extract_pages",
			Description: "Extract the first image of every page of a PDF. Pages without an image are reported, not fatal. With output_dir the images are written as <name>_page<N><ext>.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("PDF file"),
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional directory to write the page images to",
					},
				},
				"required": []string{"path"},
			},
		},

		// OCR
		{
			Name:        "notecard_ocr",
			Description: "Recognise the text of a notecard and suggest a title from its first line. The card is cropped with the configured pipeline first unless crop is false.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("image file"),
					"crop": map[string]interface{}{
						"type":        "boolean",
						"description": "Crop the card before recognition. Default true",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

func rectSchema(description string) map[string]interface{} {
	coord := func(d string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": d}
	}
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"left":   coord("Left edge X coordinate (0-based)"),
			"top":    coord("Top edge Y coordinate (0-based)"),
			"right":  coord("Right edge X coordinate (exclusive)"),
			"bottom": coord("Bottom edge Y coordinate (exclusive)"),
		},
		"required": []string{"left", "top", "right", "bottom"},
	}
}

func previewProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Also return the cropped image as base64 PNG, shrunk to fit 800px",
		"default":     false,
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
