package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ironsheep/datathief-mcp/internal/datathief"
	"github.com/ironsheep/datathief-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "chart_extract").
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
		return s.toolError(req.ID, params.Name, err)
	}
	text, err := marshalResult(result)
	if err != nil {
		return s.toolError(req.ID, params.Name, err)
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

func (s *Server) toolError(id interface{}, name string, err error) *MCPResponse {
	if s.cfg.Debug() {
		log.Printf("tool %s failed: %v", name, err)
	}
	return s.errorResponse(id, -32000, "Tool execution failed", err.Error())
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image inspection
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_find_pixels":
		return s.handleImageFindPixels(args)
	case "image_zoom":
		return s.handleImageZoom(args)

	// Chart digitizing
	case "chart_check":
		return s.handleChartCheck(args)
	case "chart_extract":
		return s.handleChartExtract(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// marshalResult converts a tool result to a pretty-printed JSON string.
func marshalResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Image Inspection Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	grid, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(grid, a.X, a.Y)
}

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type imageDominantColorsArgs struct {
	Path   string      `json:"path"`
	Count  int         `json:"count"`
	Exact  *bool       `json:"exact,omitempty"`
	Region *regionArgs `json:"region,omitempty"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	exact := true
	if a.Exact != nil {
		exact = *a.Exact
	}
	grid, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}

	var region *imaging.Region
	if a.Region != nil {
		region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.DominantColors(grid, a.Count, region, exact)
}

type imageFindPixelsArgs struct {
	Path  string `json:"path"`
	Color string `json:"color"`
}

type findPixelsResult struct {
	Color  string          `json:"color"`
	Count  int             `json:"count"`
	Pixels []imaging.Point `json:"pixels"`
}

func (s *Server) handleImageFindPixels(args json.RawMessage) (interface{}, error) {
	var a imageFindPixelsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := imaging.ParseColor(a.Color)
	if err != nil {
		return nil, err
	}
	grid, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}

	set := imaging.FindPixels(grid, c)
	return &findPixelsResult{Color: c.Hex(), Count: set.Len(), Pixels: set.Points()}, nil
}

type imageZoomArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Radius int    `json:"radius"`
	Scale  int    `json:"scale"`
}

func (s *Server) handleImageZoom(args json.RawMessage) (interface{}, error) {
	var a imageZoomArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 10
	}
	if a.Scale == 0 {
		a.Scale = 8
	}
	grid, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Zoom(grid, imaging.Point{X: a.X, Y: a.Y}, a.Radius, a.Scale)
}

// === Chart Digitizing Handlers ===

// chartArgs are the calibration arguments shared by chart tools. Omitted
// values fall back to the server configuration.
type chartArgs struct {
	Path          string    `json:"path"`
	XLimits       []float64 `json:"x_limits,omitempty"`
	YLimits       []float64 `json:"y_limits,omitempty"`
	XColor        string    `json:"x_color,omitempty"`
	YColor        string    `json:"y_color,omitempty"`
	DataColor     string    `json:"data_color,omitempty"`
	ReferenceSort string    `json:"reference_sort,omitempty"`
	Debug         bool      `json:"debug,omitempty"`
}

// options merges the arguments over the configured defaults.
func (s *Server) options(a chartArgs) (datathief.Options, error) {
	opts := s.cfg.Options()

	for _, l := range []struct {
		name string
		src  []float64
		dst  *datathief.AxisLimits
	}{
		{"x_limits", a.XLimits, &opts.XLimits},
		{"y_limits", a.YLimits, &opts.YLimits},
	} {
		if l.src == nil {
			continue
		}
		if len(l.src) != 2 {
			return opts, fmt.Errorf("%s must have exactly 2 values, got %d", l.name, len(l.src))
		}
		limits := datathief.AxisLimits{Lo: l.src[0], Hi: l.src[1]}
		if err := limits.Validate(); err != nil {
			return opts, fmt.Errorf("%s: %w", l.name, err)
		}
		*l.dst = limits
	}

	for _, c := range []struct {
		name string
		src  string
		dst  *imaging.Color
	}{
		{"x_color", a.XColor, &opts.XColor},
		{"y_color", a.YColor, &opts.YColor},
		{"data_color", a.DataColor, &opts.DataColor},
	} {
		if c.src == "" {
			continue
		}
		parsed, err := imaging.ParseColor(c.src)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = parsed
	}

	if a.ReferenceSort != "" {
		mode, err := datathief.ParseReferenceSort(a.ReferenceSort)
		if err != nil {
			return opts, err
		}
		opts.ReferenceSort = mode
	}

	opts.Debug = a.Debug || s.cfg.Debug()
	return opts, nil
}

type colorCount struct {
	Color string `json:"color"`
	Count int    `json:"count"`
	OK    bool   `json:"ok"`
}

type chartCheckResult struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	XRef    colorCount `json:"x_reference"`
	YRef    colorCount `json:"y_reference"`
	Data    colorCount `json:"data"`
	Ready   bool       `json:"ready"`
	Problem string     `json:"problem,omitempty"`
}

// handleChartCheck reports whether an image is annotated well enough to
// calibrate, without failing on bad annotations.
func (s *Server) handleChartCheck(args json.RawMessage) (interface{}, error) {
	var a chartArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.options(a)
	if err != nil {
		return nil, err
	}
	opts.Debug = false
	grid, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}

	nx := imaging.CountPixels(grid, opts.XColor)
	ny := imaging.CountPixels(grid, opts.YColor)
	nd := imaging.CountPixels(grid, opts.DataColor)

	res := &chartCheckResult{
		Width:  grid.Width(),
		Height: grid.Height(),
		XRef:   colorCount{Color: opts.XColor.Hex(), Count: nx, OK: nx == 2},
		YRef:   colorCount{Color: opts.YColor.Hex(), Count: ny, OK: ny == 2},
		Data:   colorCount{Color: opts.DataColor.Hex(), Count: nd, OK: true},
	}
	if _, err := datathief.Calibrate(grid, opts); err != nil {
		res.Problem = err.Error()
	} else {
		res.Ready = true
	}
	return res, nil
}

type chartExtractResult struct {
	X          []float64                 `json:"x"`
	Y          []float64                 `json:"y"`
	Count      int                       `json:"count"`
	Reference  datathief.ReferencePixels `json:"reference_pixels"`
	XTransform datathief.AxisTransform   `json:"x_transform"`
	YTransform datathief.AxisTransform   `json:"y_transform"`
	Debug      string                    `json:"debug,omitempty"`
}

func (s *Server) handleChartExtract(args json.RawMessage) (interface{}, error) {
	var a chartArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.options(a)
	if err != nil {
		return nil, err
	}
	grid, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}

	// stdout carries the protocol, so debug output is returned to the caller.
	var debug bytes.Buffer
	opts.Logger = log.New(&debug, "", 0)

	c, err := datathief.Run(grid, opts)
	if err != nil {
		return nil, err
	}

	return &chartExtractResult{
		X:          c.Result.X,
		Y:          c.Result.Y,
		Count:      c.Result.Len(),
		Reference:  c.Reference,
		XTransform: c.X,
		YTransform: c.Y,
		Debug:      debug.String(),
	}, nil
}
