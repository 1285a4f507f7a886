package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Inspection
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, colour model and LSB capacity. Reports whether the format can be written back without losing hidden bits.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_pixel",
			Description: "Get the exact non-premultiplied RGBA value at a pixel, with hex, HSL and the low bit of each colour channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
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
			Name:        "image_bit_plane",
			Description: "Render one bit plane of an image region as a base64-encoded PNG, white where the bit is set. The LSB plane of a stego image shows the embedded data as noise at the top.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"channel": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"r", "g", "b", "a", "rgb"},
						"description": "Channel to render. \"rgb\" colours each channel's bit separately. Default rgb",
						"default":     "rgb",
					},
					"bit": map[string]interface{}{
						"type":        "integer",
						"description": "Bit to render, 0 (least significant) to 7. Default 0",
						"default":     0,
					},
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"full", "top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named region. Ignored when x2 and y2 are given. Default full",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer enlargement factor, nearest-neighbour. Default 1",
						"default":     1,
					},
				},
				"required": []string{"path"},
			},
		},

		// Steganography
		{
			Name:        "steg_capacity",
			Description: "Report how many bits an image can carry and the largest message it can hide. If a message is given, also report whether it fits.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the cover image"),
					"message": map[string]interface{}{
						"type":        "string",
						"description": "Optional message to check against the capacity",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "steg_encode",
			Description: "Hide a message in the least significant bits of an image and save the result. The output must be a lossless format (png, tiff, bmp).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"input_path":  pathProperty("Absolute path to the cover image"),
					"output_path": pathProperty("Absolute path for the stego image. May equal input_path"),
					"message": map[string]interface{}{
						"type":        "string",
						"description": "Text message to hide",
					},
					"payload_base64": map[string]interface{}{
						"type":        "string",
						"description": "Binary payload to hide, base64 encoded. Used instead of message",
					},
				},
				"required": []string{"input_path", "output_path"},
			},
		},
		{
			Name:        "steg_decode",
			Description: "Recover the message hidden in an image. Any image decodes to something; without a hidden message the result is usually a truncation or malformed-text error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the stego image"),
					"raw": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the payload as base64 without UTF-8 validation. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "steg_compare",
			Description: "Compare a cover image with its stego version: changed pixels, last changed pixel index, largest channel and perceptual (CIEDE2000) difference, and whether every change is confined to the low bits.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"original_path": pathProperty("Absolute path to the cover image"),
					"modified_path": pathProperty("Absolute path to the stego image"),
					"diff_map": map[string]interface{}{
						"type":        "boolean",
						"description": "Include a base64 PNG marking every changed channel. Default false",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer enlargement factor for the diff map. Default 1",
						"default":     1,
					},
				},
				"required": []string{"original_path", "modified_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
