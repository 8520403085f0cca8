package egl

// The vertex shader draws one triangle covering the whole viewport, without
// any vertex buffer; the texture is flipped so that the first row of the
// image ends up at the top.
const vertexShaderSource = `#version 300 es
out vec2 v_uv;
void main() {
	vec2 pos = vec2(float((gl_VertexID << 1) & 2), float(gl_VertexID & 2));
	v_uv = vec2(pos.x, 1.0 - pos.y);
	gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

const fragmentShaderSource = `#version 300 es
#extension GL_OES_EGL_image_external_essl3 : require
precision mediump float;
uniform samplerExternalOES u_texture;
in vec2 v_uv;
out vec4 o_color;
void main() {
	o_color = texture(u_texture, v_uv);
}
`
