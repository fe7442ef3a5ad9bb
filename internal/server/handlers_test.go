package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/datathief-mcp/internal/config"
)

// createTestImageFile creates a solid test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writePNG(t, img)
}

// createChartFile writes a white 10x10 chart with x references at columns 1
// and 8, y references at rows 1 and 8, and data pixels at (1,8) and (8,1).
func createChartFile(t *testing.T) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	blue := color.NRGBA{0, 0, 255, 255}
	red := color.NRGBA{255, 0, 0, 255}
	green := color.NRGBA{0, 255, 0, 255}

	img.Set(1, 0, blue)
	img.Set(8, 0, blue)
	img.Set(0, 1, red)
	img.Set(0, 8, red)
	img.Set(8, 1, green)
	img.Set(1, 8, green)
	return writePNG(t, img)
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request through the router.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool call.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v (%v)", resp.Error.Message, resp.Error.Data)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should hold one item, got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

func requireToolError(t *testing.T, resp *MCPResponse, code int, substr string) {
	t.Helper()

	if resp.Error == nil {
		t.Fatal("Expected an error response")
	}
	if resp.Error.Code != code {
		t.Errorf("Error code: got %d, want %d", resp.Error.Code, code)
	}
	data, _ := resp.Error.Data.(string)
	if !strings.Contains(data, substr) {
		t.Errorf("Error data %q should contain %q", data, substr)
	}
}

func approxEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
		Lossy  bool   `json:"lossy"`
	}
	decodeToolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.Lossy {
		t.Error("png should not be reported as lossy")
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(nil)

	resp := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	requireToolError(t, resp, -32000, "failed to open image")
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New(nil)

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	requireToolError(t, resp, -32000, "unknown tool: nonexistent_tool")
}

func TestHandleToolsCall_MissingArguments(t *testing.T) {
	s := New(nil)

	paramsJSON, _ := json.Marshal(map[string]interface{}{"name": "image_load"})
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: paramsJSON})
	requireToolError(t, resp, -32000, "missing arguments")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`"not an object"`)})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("Expected invalid params error, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{255, 128, 64, 255})

	var res struct {
		Hex string `json:"hex"`
		RGB struct {
			R, G, B int
		} `json:"rgb"`
	}
	decodeToolResult(t, callTool(t, s, "image_sample_color", map[string]interface{}{
		"path": imgPath,
		"x":    50,
		"y":    50,
	}), &res)

	if res.Hex != "#FF8040" {
		t.Errorf("hex: got %s, want #FF8040", res.Hex)
	}
	if res.RGB.R != 255 || res.RGB.G != 128 || res.RGB.B != 64 {
		t.Errorf("rgb: got %+v", res.RGB)
	}
}

func TestHandleToolsCall_SampleColor_OutOfBounds(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{0, 0, 0, 255})

	resp := callTool(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 10, "y": 0})
	if resp.Error == nil {
		t.Fatal("Expected error for out of bounds coordinate")
	}
}

func TestHandleToolsCall_DominantColors(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	var res struct {
		Colors []struct {
			Hex   string `json:"hex"`
			Count int    `json:"count"`
		} `json:"colors"`
	}
	decodeToolResult(t, callTool(t, s, "image_dominant_colors", map[string]interface{}{
		"path":  imgPath,
		"count": 10,
	}), &res)

	counts := make(map[string]int)
	for _, c := range res.Colors {
		counts[c.Hex] = c.Count
	}
	want := map[string]int{"#FFFFFF": 94, "#0000FF": 2, "#FF0000": 2, "#00FF00": 2}
	for hex, n := range want {
		if counts[hex] != n {
			t.Errorf("count of %s: got %d, want %d", hex, counts[hex], n)
		}
	}
	if res.Colors[0].Hex != "#FFFFFF" {
		t.Errorf("most frequent color: got %s, want #FFFFFF", res.Colors[0].Hex)
	}
}

func TestHandleToolsCall_DominantColors_WithRegion(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	var res struct {
		Colors []struct {
			Hex   string `json:"hex"`
			Count int    `json:"count"`
		} `json:"colors"`
	}
	decodeToolResult(t, callTool(t, s, "image_dominant_colors", map[string]interface{}{
		"path":   imgPath,
		"region": map[string]int{"x1": 0, "y1": 0, "x2": 10, "y2": 1},
	}), &res)

	// Top row: two x references, eight white pixels
	if len(res.Colors) != 2 {
		t.Fatalf("colors: got %d, want 2", len(res.Colors))
	}
	if res.Colors[1].Hex != "#0000FF" || res.Colors[1].Count != 2 {
		t.Errorf("second color: got %+v", res.Colors[1])
	}
}

func TestHandleToolsCall_FindPixels(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	var res findPixelsResult
	decodeToolResult(t, callTool(t, s, "image_find_pixels", map[string]interface{}{
		"path":  imgPath,
		"color": "0F0",
	}), &res)

	if res.Color != "#00FF00" {
		t.Errorf("color: got %s, want #00FF00", res.Color)
	}
	if res.Count != 2 || len(res.Pixels) != 2 {
		t.Fatalf("count: got %d (%d pixels), want 2", res.Count, len(res.Pixels))
	}
	// Row-major order: (8,1) comes before (1,8)
	if res.Pixels[0].X != 8 || res.Pixels[0].Y != 1 || res.Pixels[1].X != 1 || res.Pixels[1].Y != 8 {
		t.Errorf("pixels: got %+v", res.Pixels)
	}
}

func TestHandleToolsCall_FindPixels_InvalidColor(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	resp := callTool(t, s, "image_find_pixels", map[string]interface{}{"path": imgPath, "color": "green"})
	if resp.Error == nil {
		t.Fatal("Expected error for invalid color")
	}
}

func TestHandleToolsCall_Zoom(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	var res struct {
		X1          int    `json:"x1"`
		X2          int    `json:"x2"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		Scale       int    `json:"scale"`
		ImageBase64 string `json:"image_base64"`
		MimeType    string `json:"mime_type"`
	}
	decodeToolResult(t, callTool(t, s, "image_zoom", map[string]interface{}{
		"path": imgPath,
		"x":    5,
		"y":    5,
	}), &res)

	// Default radius 10 clips to the whole 10x10 image, default scale 8
	if res.X1 != 0 || res.X2 != 10 {
		t.Errorf("crop: got x %d..%d, want 0..10", res.X1, res.X2)
	}
	if res.Width != 80 || res.Height != 80 || res.Scale != 8 {
		t.Errorf("zoom: got %dx%d at %dx, want 80x80 at 8x", res.Width, res.Height, res.Scale)
	}
	if res.MimeType != "image/png" || res.ImageBase64 == "" {
		t.Errorf("image: got mime %s, %d bytes", res.MimeType, len(res.ImageBase64))
	}
}

func TestHandleToolsCall_ChartExtract(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	var res chartExtractResult
	decodeToolResult(t, callTool(t, s, "chart_extract", map[string]interface{}{
		"path":     imgPath,
		"x_limits": []float64{0, 10},
		"y_limits": []float64{0, 100},
	}), &res)

	if res.Count != 2 {
		t.Fatalf("count: got %d, want 2", res.Count)
	}
	if !approxEqual(res.X, []float64{0, 10}) {
		t.Errorf("x: got %v, want [0 10]", res.X)
	}
	if !approxEqual(res.Y, []float64{0, 100}) {
		t.Errorf("y: got %v, want [0 100]", res.Y)
	}
	if res.Reference.Y[0] != 2 || res.Reference.Y[1] != 9 {
		t.Errorf("flipped y references: got %v, want [2 9]", res.Reference.Y)
	}
	if res.Debug != "" {
		t.Errorf("debug output without debug flag: %q", res.Debug)
	}
}

func TestHandleToolsCall_ChartExtract_Defaults(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	var res chartExtractResult
	decodeToolResult(t, callTool(t, s, "chart_extract", map[string]interface{}{"path": imgPath}), &res)

	if !approxEqual(res.X, []float64{0, 1}) || !approxEqual(res.Y, []float64{0, 1}) {
		t.Errorf("unit limits: got x=%v y=%v", res.X, res.Y)
	}
}

func TestHandleToolsCall_ChartExtract_ConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.XLimits.Hi = 10
	cfg.YLimits.Hi = 100
	s := New(cfg)
	imgPath := createChartFile(t)

	var res chartExtractResult
	decodeToolResult(t, callTool(t, s, "chart_extract", map[string]interface{}{"path": imgPath}), &res)

	if !approxEqual(res.X, []float64{0, 10}) || !approxEqual(res.Y, []float64{0, 100}) {
		t.Errorf("configured limits: got x=%v y=%v", res.X, res.Y)
	}
}

func TestHandleToolsCall_ChartExtract_Debug(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	var res chartExtractResult
	decodeToolResult(t, callTool(t, s, "chart_extract", map[string]interface{}{
		"path":  imgPath,
		"debug": true,
	}), &res)

	for _, want := range []string{"Image shape: (10, 10, 4)", "For variable x:", "For variable y:"} {
		if !strings.Contains(res.Debug, want) {
			t.Errorf("debug output should contain %q:\n%s", want, res.Debug)
		}
	}
}

func TestHandleToolsCall_ChartExtract_CustomColors(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	// Swap the roles of the x references and the data pixels
	var res chartExtractResult
	decodeToolResult(t, callTool(t, s, "chart_extract", map[string]interface{}{
		"path":       imgPath,
		"x_color":    "#00ff00",
		"data_color": "#0000ff",
	}), &res)

	if res.Count != 2 {
		t.Errorf("count: got %d, want 2", res.Count)
	}
}

func TestHandleToolsCall_ChartExtract_WrongReferenceCount(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{255, 255, 255, 255})

	resp := callTool(t, s, "chart_extract", map[string]interface{}{"path": imgPath})
	requireToolError(t, resp, -32000, "wrong number of x coordinates found (0)")
}

func TestHandleToolsCall_ChartExtract_InvalidArguments(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	tests := []struct {
		name   string
		args   map[string]interface{}
		substr string
	}{
		{"short limits", map[string]interface{}{"path": imgPath, "x_limits": []float64{1}}, "x_limits must have exactly 2 values"},
		{"bad color", map[string]interface{}{"path": imgPath, "y_color": "#12"}, "y_color"},
		{"bad sort", map[string]interface{}{"path": imgPath, "reference_sort": "sideways"}, "sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "chart_extract", tt.args)
			requireToolError(t, resp, -32000, tt.substr)
		})
	}
}

func TestHandleToolsCall_ChartCheck(t *testing.T) {
	s := New(nil)

	var ready chartCheckResult
	decodeToolResult(t, callTool(t, s, "chart_check", map[string]interface{}{"path": createChartFile(t)}), &ready)

	if !ready.Ready || ready.Problem != "" {
		t.Errorf("annotated chart should be ready, problem: %q", ready.Problem)
	}
	if ready.XRef.Count != 2 || !ready.XRef.OK || ready.YRef.Count != 2 || ready.Data.Count != 2 {
		t.Errorf("counts: got %+v", ready)
	}

	var blank chartCheckResult
	decodeToolResult(t, callTool(t, s, "chart_check", map[string]interface{}{
		"path": createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255}),
	}), &blank)

	if blank.Ready {
		t.Error("chart without x references should not be ready")
	}
	if blank.XRef.OK || blank.XRef.Count != 0 {
		t.Errorf("x reference: got %+v", blank.XRef)
	}
	if blank.YRef.Count != 100 || blank.YRef.OK {
		t.Errorf("y reference: got %+v", blank.YRef)
	}
	if !strings.Contains(blank.Problem, "x coordinates") {
		t.Errorf("problem: got %q", blank.Problem)
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New(nil)
	imgPath := createChartFile(t)

	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			args, _ := json.Marshal(map[string]interface{}{
				"path":  imgPath,
				"x":     1,
				"y":     1,
				"color": "#ffffff",
			})
			if _, err := s.executeTool(tool.Name, args); err != nil {
				t.Errorf("executeTool(%s) failed: %v", tool.Name, err)
			}
		})
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("chart_extract", json.RawMessage(`{invalid`))
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "invalid arguments") {
		t.Errorf("error: got %v", err)
	}
}

func TestHandleToolsCall_ChartExtract_NonFiniteConfigLimits(t *testing.T) {
	cfg := config.Default()
	cfg.YLimits.Hi = math.Inf(1)
	s := New(cfg)

	resp := callTool(t, s, "chart_extract", map[string]interface{}{"path": createChartFile(t)})
	requireToolError(t, resp, -32000, "axis limits must be finite")
}

func TestMarshalResult(t *testing.T) {
	text, err := marshalResult(map[string]int{"count": 2})
	if err != nil {
		t.Fatalf("marshalResult failed: %v", err)
	}
	if !strings.Contains(text, `"count": 2`) {
		t.Errorf("text: got %s", text)
	}

	if _, err := marshalResult([]float64{math.NaN()}); err == nil {
		t.Error("Expected error for a result that cannot be encoded")
	}
}
