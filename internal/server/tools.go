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

func intProperty(description string, def int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"default":     def,
	}
}

// houghProperties returns the detection parameters shared by the hough_*
// tools, with extra merged in.
func houghProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),
		"edges_precomputed": map[string]interface{}{
			"type":        "boolean",
			"description": "Treat the image as an edge map already (bright pixels are edges) and skip Canny",
			"default":     false,
		},
		"vote_threshold":   intProperty("A peak must have strictly more votes than this", 95),
		"theta_min":        intProperty("First normal angle in degrees (inclusive)", -90),
		"theta_max":        intProperty("Last normal angle in degrees (exclusive)", 90),
		"theta_step":       intProperty("Angle step in degrees", 1),
		"window_height":    intProperty("Suppression window size along rho", 5),
		"window_width":     intProperty("Suppression window size along theta", 5),
		"extension_length": intProperty("Distance in pixels from the foot of the normal to each endpoint", 1000),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "hough_edge_detect",
			Description: "Run Canny edge detection and return the binary edge mask as base64 PNG (edges white) with the number of edge pixels. This is the input the line detector votes with.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty(),
					"threshold_low":  intProperty("Weak edge threshold on the Sobel magnitude", 40),
					"threshold_high": intProperty("Strong edge threshold on the Sobel magnitude", 120),
					"blur_radius": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian pre-blur radius in pixels. 0 disables blurring",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "hough_detect_lines",
			Description: "Detect straight lines with the classical Hough transform. Returns each line as two far-apart endpoints plus its rho, theta and vote count. Endpoints may lie outside the image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": houghProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "hough_render_lines",
			Description: "Detect lines and draw them over a grayscale copy of the image. Returns the rendered image as base64 PNG along with the lines.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": houghProperties(map[string]interface{}{
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Line colour as #RRGGBB",
						"default":     "#FF0000",
					},
					"line_thickness": intProperty("Line thickness in pixels", 2),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "hough_accumulator",
			Description: "Plot the Hough accumulator as a heat map (theta in degrees across, rho down) and list the detected peaks. Useful for tuning vote_threshold and the suppression window.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": houghProperties(map[string]interface{}{
					"plot_width":  intProperty("Heat map width in pixels", defaultPlotWidth),
					"plot_height": intProperty("Heat map height in pixels", defaultPlotHeight),
				}),
				"required": []string{"path"},
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
