// Package shaders embeds the GLSL sources of the render variants.
package shaders

import _ "embed"

var (
	//go:embed default.vert
	DefaultVertex string

	//go:embed skin.vert
	SkinVertex string

	//go:embed height_map.vert
	HeightMapVertex string

	//go:embed height_map_instanced.vert
	HeightMapInstancedVertex string

	//go:embed lit.frag
	LitFragment string

	//go:embed default_depth.vert
	DefaultDepthVertex string

	//go:embed skin_depth.vert
	SkinDepthVertex string

	//go:embed depth.frag
	DepthFragment string

	//go:embed overlay_quad.vert
	OverlayQuadVertex string

	//go:embed overlay_quad.frag
	OverlayQuadFragment string
)
