package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/sneakyimage/internal/imaging"
	"github.com/ironsheep/sneakyimage/internal/steg"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "steg_encode").
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
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/steg function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Inspection
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_pixel":
		return s.handleImageSamplePixel(args)
	case "image_bit_plane":
		return s.handleImageBitPlane(args)

	// Steganography
	case "steg_capacity":
		return s.handleStegCapacity(args)
	case "steg_encode":
		return s.handleStegEncode(args)
	case "steg_decode":
		return s.handleStegDecode(args)
	case "steg_compare":
		return s.handleStegCompare(args)

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

// === Image Inspection Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

type imageLoadResult struct {
	*imaging.ImageInfo
	Capacity steg.Capacity `json:"capacity"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	return &imageLoadResult{
		ImageInfo: info,
		Capacity:  steg.CapacityOf(info.Width, info.Height),
	}, nil
}

type imageSamplePixelArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSamplePixel(args json.RawMessage) (interface{}, error) {
	var a imageSamplePixelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SamplePixel(img, a.X, a.Y)
}

type imageBitPlaneArgs struct {
	Path    string `json:"path"`
	Channel string `json:"channel"`
	Bit     int    `json:"bit"`
	Region  string `json:"region"`
	X1      int    `json:"x1"`
	Y1      int    `json:"y1"`
	X2      int    `json:"x2"`
	Y2      int    `json:"y2"`
	Scale   int    `json:"scale"`
}

func (s *Server) handleImageBitPlane(args json.RawMessage) (interface{}, error) {
	var a imageBitPlaneArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Channel == "" {
		a.Channel = "rgb"
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	if a.X2 == 0 && a.Y2 == 0 {
		return imaging.BitPlaneRegion(img, a.Region, a.Channel, a.Bit, a.Scale)
	}
	return imaging.BitPlane(img, a.X1, a.Y1, a.X2, a.Y2, a.Channel, a.Bit, a.Scale)
}

// === Steganography Handlers ===

type stegCapacityArgs struct {
	Path    string  `json:"path"`
	Message *string `json:"message"`
}

type stegCapacityResult struct {
	steg.Capacity
	MessageBytes *int    `json:"message_bytes,omitempty"`
	RequiredBits *uint64 `json:"required_bits,omitempty"`
	Fits         *bool   `json:"fits,omitempty"`
}

func (s *Server) handleStegCapacity(args json.RawMessage) (interface{}, error) {
	var a stegCapacityArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dims, err := imaging.GetDimensions(s.cache, a.Path)
	if err != nil {
		return nil, err
	}

	result := &stegCapacityResult{Capacity: steg.CapacityOf(dims.Width, dims.Height)}
	if a.Message != nil {
		n := len(*a.Message)
		required := steg.RequiredBits(n)
		_, planErr := steg.Plan(dims.Width, dims.Height, n)
		fits := planErr == nil

		result.MessageBytes = &n
		result.RequiredBits = &required
		result.Fits = &fits
	}
	return result, nil
}

type stegEncodeArgs struct {
	InputPath     string `json:"input_path"`
	OutputPath    string `json:"output_path"`
	Message       string `json:"message"`
	PayloadBase64 string `json:"payload_base64"`
}

type stegEncodeResult struct {
	OutputPath   string `json:"output_path"`
	PayloadBytes int    `json:"payload_bytes"`
	RequiredBits uint64 `json:"required_bits"`
}

func (s *Server) handleStegEncode(args json.RawMessage) (interface{}, error) {
	var a stegEncodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.InputPath == "" || a.OutputPath == "" {
		return nil, fmt.Errorf("input_path and output_path are required")
	}

	payload := []byte(a.Message)
	if a.PayloadBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(a.PayloadBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode payload_base64: %w", err)
		}
		payload = decoded
	}

	if err := steg.EncodeBytesFile(a.InputPath, payload, a.OutputPath); err != nil {
		return nil, err
	}
	s.cache.Evict(a.OutputPath)

	return &stegEncodeResult{
		OutputPath:   a.OutputPath,
		PayloadBytes: len(payload),
		RequiredBits: steg.RequiredBits(len(payload)),
	}, nil
}

type stegDecodeArgs struct {
	Path string `json:"path"`
	Raw  bool   `json:"raw"`
}

type stegDecodeResult struct {
	Message       *string `json:"message,omitempty"`
	PayloadBase64 *string `json:"payload_base64,omitempty"`
	PayloadBytes  int     `json:"payload_bytes"`
}

func (s *Server) handleStegDecode(args json.RawMessage) (interface{}, error) {
	var a stegDecodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	g := imaging.NewGrid(img)

	if a.Raw {
		payload, err := steg.ExtractBytes(g)
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(payload)
		return &stegDecodeResult{PayloadBase64: &encoded, PayloadBytes: len(payload)}, nil
	}

	message, err := steg.Extract(g)
	if err != nil {
		return nil, err
	}
	return &stegDecodeResult{Message: &message, PayloadBytes: len(message)}, nil
}

type stegCompareArgs struct {
	OriginalPath string `json:"original_path"`
	ModifiedPath string `json:"modified_path"`
	DiffMap      bool   `json:"diff_map"`
	Scale        int    `json:"scale"`
}

type stegCompareResult struct {
	*imaging.CompareResult
	DiffMap *imaging.DiffMapResult `json:"diff_map,omitempty"`
}

func (s *Server) handleStegCompare(args json.RawMessage) (interface{}, error) {
	var a stegCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}

	original, err := s.cache.Load(a.OriginalPath)
	if err != nil {
		return nil, err
	}
	modified, err := s.cache.Load(a.ModifiedPath)
	if err != nil {
		return nil, err
	}

	cmp, err := imaging.Compare(original, modified)
	if err != nil {
		return nil, err
	}

	result := &stegCompareResult{CompareResult: cmp}
	if a.DiffMap {
		encoded, err := imaging.EncodeDiffMap(imaging.ScaleDiffMap(cmp.DiffMap, a.Scale))
		if err != nil {
			return nil, err
		}
		result.DiffMap = encoded
	}
	return result, nil
}
