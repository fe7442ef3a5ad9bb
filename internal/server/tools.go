package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func colorProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description + ` as hex "#rrggbb" or "#rgb"`,
	}
}

func limitsProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "number"},
		"minItems":    2,
		"maxItems":    2,
		"description": description,
	}
}

// chartProperties are the calibration arguments shared by chart_check and
// chart_extract.
func chartProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":       pathProperty(),
		"x_limits":   limitsProperty("Axis values [lo, hi] at the two x reference pixels. Default [0, 1]"),
		"y_limits":   limitsProperty("Axis values [lo, hi] at the lower and upper y reference pixels. Default [0, 1]"),
		"x_color":    colorProperty("Color of the two x-axis reference pixels. Default pure blue"),
		"y_color":    colorProperty("Color of the two y-axis reference pixels. Default pure red"),
		"data_color": colorProperty("Color of the data point pixels. Default pure green"),
		"reference_sort": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"y", "both", "none"},
			"description": "Which reference pairs to sort ascending before calibrating. 'y' (default) keeps the x pair in scan order",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	extract := chartProperties()
	extract["debug"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Include a trace of every calibration stage in the result",
	}

	return []Tool{
		// Image inspection
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether the format is lossy. Annotation colors only survive lossless formats such as PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate. The returned hex can be passed back as a calibration color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
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
			Description: "List the most frequent colors with their pixel counts. Exact counting (the default) shows whether an annotation color appears the expected number of times.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of colors to return. Default 5",
						"default":     5,
					},
					"exact": map[string]interface{}{
						"type":        "boolean",
						"description": "Count exact colors (true, default) or group shades in steps of 16 (false)",
						"default":     true,
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional region to analyze; (x1,y1) inclusive, (x2,y2) exclusive",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_find_pixels",
			Description: "Find every pixel exactly matching a color, in top-to-bottom, left-to-right order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"color": colorProperty("Color to match"),
				},
				"required": []string{"path", "color"},
			},
		},
		{
			Name:        "image_zoom",
			Description: "Return a magnified crop around a pixel as base64 PNG. Pixels are enlarged without smoothing so single annotation pixels stay visible.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Center X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Center Y coordinate (0-based)",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels to include on each side of the center. Default 10",
						"default":     10,
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer magnification factor. Default 8",
						"default":     8,
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Chart digitizing
		{
			Name:        "chart_check",
			Description: "Count the reference and data pixels of an annotated chart and report whether it can be calibrated, without extracting data.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": chartProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "chart_extract",
			Description: "Extract data values from an annotated chart. Mark two x-axis positions and two y-axis positions with single reference pixels and each data point with one data pixel; the result lists x and y values sorted by x.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": extract,
				"required":   []string{"path"},
			},
		},
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
