package renderer

// Mesh vertices are in map pixels, y down.
const meshVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform vec2 uPan;
uniform vec2 uViewport;

out vec4 vColor;

void main() {
	vec2 screen = aPos - uPan;
	vec2 ndc = screen / uViewport * 2.0 - 1.0;
	gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
	vColor = aColor;
}
`

const meshFragmentShader = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

// The minimap quad is generated from gl_VertexID. The texture is sampled
// through a 45 degree turn so that cell (0, 0) sits at the top corner.
const miniVertexShader = `
#version 410 core

uniform vec4 uRect;
uniform vec2 uViewport;

out vec2 vUV;

void main() {
	vec2 corner = vec2(gl_VertexID & 1, gl_VertexID >> 1);
	vec2 screen = uRect.xy + corner * uRect.zw;
	vec2 ndc = screen / uViewport * 2.0 - 1.0;
	gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
	vUV = corner;
}
`

const miniFragmentShader = `
#version 410 core

in vec2 vUV;
uniform sampler2D uTexture;
out vec4 FragColor;

void main() {
	// Undo the diamond: u runs along +i (down-right), v along +j (down-left).
	vec2 uv = vec2(vUV.x + vUV.y - 0.5, vUV.y - vUV.x + 0.5);
	if (uv.x < 0.0 || uv.x > 1.0 || uv.y < 0.0 || uv.y > 1.0) {
		discard;
	}
	FragColor = texture(uTexture, uv);
}
`
