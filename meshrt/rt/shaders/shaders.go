package shaders

import (
	_ "embed"
)

// RenderEntryPoint is the compute entry point every render kernel exports.
const RenderEntryPoint = "render"

//go:embed render.wgsl
var RenderWGSL string
