// Package shaders embeds the GLSL sources used by the scene renderers.
package shaders

import _ "embed"

// Terrain shaders. Uniform names match the terrain shader parameter names.
var (
	//go:embed terrain.vert
	TerrainVertexShader string

	//go:embed terrain.frag
	TerrainFragmentShader string
)

// Depth-only shaders for the shadow pass.
var (
	//go:embed shadow.vert
	ShadowVertexShader string

	//go:embed shadow.frag
	ShadowFragmentShader string
)

// Marker shaders draw placed objects as flat-shaded boxes.
var (
	//go:embed marker.vert
	MarkerVertexShader string

	//go:embed marker.frag
	MarkerFragmentShader string
)
