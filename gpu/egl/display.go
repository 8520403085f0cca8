//go:build linux

// display.go implements the GPU collaborators on a headless EGL/GLES3 context.

// Package egl implements gpu.ImageImporter, gpu.Renderer and gpu.Surface on
// top of EGL and OpenGL ES 3, loaded at runtime with purego (no cgo).
package egl

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"github.com/xaionaro-go/hwplayer/gpu"
	"github.com/xaionaro-go/hwplayer/logger"
)

const maxGLErrorFlags = 16

type Config struct {
	Width           uint32
	Height          uint32
	EGLLibraryPath  string
	GLESLibraryPath string
}

// Display owns an EGL display, a GLES3 context and a pbuffer surface of the
// configured size. The context is current on the OS thread that called New,
// so a Display must only be used from that goroutine.
type Display struct {
	lib *library
	cfg Config

	display uintptr
	config  uintptr
	context uintptr
	surface uintptr

	program         uint32
	textureUniform  int32
	externalTexture uint32
}

var (
	_ gpu.ImageImporter = (*Display)(nil)
	_ gpu.Renderer      = (*Display)(nil)
	_ gpu.Surface       = (*Display)(nil)
)

func New(
	ctx context.Context,
	cfg Config,
) (_ret *Display, _err error) {
	logger.Debugf(ctx, "New(%dx%d)", cfg.Width, cfg.Height)
	defer func() { logger.Debugf(ctx, "/New(%dx%d): %v", cfg.Width, cfg.Height, _err) }()

	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, ErrInit{Step: InitStepDisplay, Err: fmt.Errorf("invalid surface size %dx%d", cfg.Width, cfg.Height)}
	}

	lib, err := loadLibrary(cfg.EGLLibraryPath, cfg.GLESLibraryPath)
	if err != nil {
		return nil, ErrInit{Step: InitStepLibrary, Err: err}
	}

	runtime.LockOSThread()
	d := &Display{lib: lib, cfg: cfg}
	defer func() {
		if _err != nil {
			d.release(ctx)
		}
	}()

	if err := d.initDisplay(ctx); err != nil {
		return nil, err
	}
	if err := lib.registerExtensions(); err != nil {
		return nil, ErrInit{Step: InitStepFunctions, Err: err}
	}
	if err := d.initContext(ctx); err != nil {
		return nil, err
	}
	if err := d.initProgram(ctx); err != nil {
		return nil, ErrInit{Step: InitStepShaders, Err: err}
	}
	return d, nil
}

func (d *Display) eglError(funcName string) error {
	return ErrEGL{Func: funcName, Code: d.lib.eglGetError()}
}

func (d *Display) glError(op string) error {
	code := d.lib.glGetError()
	if code == glNoError {
		return nil
	}
	// only the first flag is reported, the rest is drained
	for i := 0; i < maxGLErrorFlags && d.lib.glGetError() != glNoError; i++ {
	}
	return ErrGL{Op: op, Code: code}
}

func (d *Display) initDisplay(ctx context.Context) error {
	d.display = d.lib.eglGetDisplay(eglDefaultDisplay)
	if d.display == 0 {
		return ErrInit{Step: InitStepDisplay, Err: d.eglError("eglGetDisplay")}
	}
	var major, minor int32
	if d.lib.eglInitialize(d.display, &major, &minor) == eglFalse {
		err := d.eglError("eglInitialize")
		d.display = 0
		return ErrInit{Step: InitStepDisplay, Err: err}
	}
	logger.Debugf(ctx, "EGL %d.%d initialized (vendor: %s)", major, minor, d.lib.eglQueryString(d.display, eglVendor))
	return nil
}

func (d *Display) initContext(ctx context.Context) error {
	if d.lib.eglBindAPI(eglOpenGLESAPI) == eglFalse {
		return ErrInit{Step: InitStepContext, Err: d.eglError("eglBindAPI")}
	}

	attrs := configAttributes()
	var numConfigs int32
	if d.lib.eglChooseConfig(d.display, &attrs[0], &d.config, 1, &numConfigs) == eglFalse {
		return ErrInit{Step: InitStepContext, Err: d.eglError("eglChooseConfig")}
	}
	if numConfigs < 1 {
		return ErrInit{Step: InitStepContext, Err: fmt.Errorf("no EGL config supports a GLES3 pbuffer")}
	}

	surfaceAttrs := pbufferAttributes(d.cfg.Width, d.cfg.Height)
	d.surface = d.lib.eglCreatePbufferSurface(d.display, d.config, &surfaceAttrs[0])
	if d.surface == eglNoSurface {
		return ErrInit{Step: InitStepContext, Err: d.eglError("eglCreatePbufferSurface")}
	}

	contextAttrs := contextAttributes()
	d.context = d.lib.eglCreateContext(d.display, d.config, eglNoContext, &contextAttrs[0])
	if d.context == eglNoContext {
		return ErrInit{Step: InitStepContext, Err: d.eglError("eglCreateContext")}
	}
	if d.lib.eglMakeCurrent(d.display, d.surface, d.surface, d.context) == eglFalse {
		return ErrInit{Step: InitStepContext, Err: d.eglError("eglMakeCurrent")}
	}
	logger.Debugf(ctx, "a GLES3 context is current on a %dx%d pbuffer", d.cfg.Width, d.cfg.Height)
	return nil
}

func cString(s string) []byte {
	return append([]byte(s), 0)
}

func (d *Display) compileShader(shaderType uint32, source string) (uint32, error) {
	shader := d.lib.glCreateShader(shaderType)
	if shader == 0 {
		return 0, fmt.Errorf("glCreateShader(0x%X) failed: %w", shaderType, d.glError("glCreateShader"))
	}
	src := cString(source)
	srcPtr := &src[0]
	d.lib.glShaderSource(shader, 1, &srcPtr, nil)
	runtime.KeepAlive(src)
	d.lib.glCompileShader(shader)

	var status int32
	d.lib.glGetShaderiv(shader, glCompileStatus, &status)
	if status == 0 {
		log := d.infoLog(shader, d.lib.glGetShaderiv, d.lib.glGetShaderInfoLog)
		d.lib.glDeleteShader(shader)
		return 0, fmt.Errorf("unable to compile the shader: %s", log)
	}
	return shader, nil
}

func (d *Display) infoLog(
	object uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *byte),
) string {
	var size int32
	getiv(object, glInfoLogLength, &size)
	if size <= 0 {
		return "<no info log>"
	}
	buf := make([]byte, size)
	var written int32
	getLog(object, size, &written, &buf[0])
	return string(bytes.TrimRight(buf[:written], "\x00"))
}

func (d *Display) initProgram(ctx context.Context) error {
	vs, err := d.compileShader(glVertexShader, vertexShaderSource)
	if err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	defer d.lib.glDeleteShader(vs)
	fs, err := d.compileShader(glFragmentShader, fragmentShaderSource)
	if err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}
	defer d.lib.glDeleteShader(fs)

	program := d.lib.glCreateProgram()
	d.lib.glAttachShader(program, vs)
	d.lib.glAttachShader(program, fs)
	d.lib.glLinkProgram(program)
	var status int32
	d.lib.glGetProgramiv(program, glLinkStatus, &status)
	if status == 0 {
		log := d.infoLog(program, d.lib.glGetProgramiv, d.lib.glGetProgramInfoLog)
		d.lib.glDeleteProgram(program)
		return fmt.Errorf("unable to link the program: %s", log)
	}
	d.program = program
	d.textureUniform = d.lib.glGetUniformLocation(program, "u_texture")

	d.lib.glGenTextures(1, &d.externalTexture)
	d.lib.glBindTexture(glTextureExternalOES, d.externalTexture)
	d.lib.glTexParameteri(glTextureExternalOES, glTextureMinFilter, glLinear)
	d.lib.glTexParameteri(glTextureExternalOES, glTextureMagFilter, glLinear)
	d.lib.glTexParameteri(glTextureExternalOES, glTextureWrapS, glClampToEdge)
	d.lib.glTexParameteri(glTextureExternalOES, glTextureWrapT, glClampToEdge)
	d.lib.glBindTexture(glTextureExternalOES, 0)
	if err := d.glError("external texture setup"); err != nil {
		return err
	}
	logger.Debugf(ctx, "the presentation program is linked (program: %d, texture: %d)", d.program, d.externalTexture)
	return nil
}

func (d *Display) ImportDMABuf(
	ctx context.Context,
	params gpu.ImportParams,
) (_ret gpu.Image, _err error) {
	logger.Tracef(ctx, "ImportDMABuf(%s)", params)
	defer func() { logger.Tracef(ctx, "/ImportDMABuf(%s): %v %v", params, _ret, _err) }()

	attrs, err := importAttributes(params)
	if err != nil {
		return 0, err
	}
	img := d.lib.eglCreateImageKHR(d.display, eglNoContext, eglLinuxDMABuf, 0, &attrs[0])
	if img == 0 {
		return 0, d.eglError("eglCreateImageKHR")
	}
	return gpu.Image(img), nil
}

func (d *Display) DestroyImage(ctx context.Context, img gpu.Image) error {
	if d.lib.eglDestroyImageKHR(d.display, uintptr(img)) == eglFalse {
		return d.eglError("eglDestroyImageKHR")
	}
	return nil
}

func (d *Display) CreateTarget(
	ctx context.Context,
	width, height uint32,
) (_ret *gpu.Target, _err error) {
	logger.Debugf(ctx, "CreateTarget(%dx%d)", width, height)
	defer func() { logger.Debugf(ctx, "/CreateTarget(%dx%d): %s %v", width, height, _ret, _err) }()

	target := &gpu.Target{Width: width, Height: height}
	d.lib.glGenTextures(1, &target.Texture)
	d.lib.glBindTexture(glTexture2D, target.Texture)
	d.lib.glTexImage2D(glTexture2D, 0, int32(glRGBA), int32(width), int32(height), 0, glRGBA, glUnsignedByte, 0)
	d.lib.glTexParameteri(glTexture2D, glTextureMinFilter, glLinear)
	d.lib.glTexParameteri(glTexture2D, glTextureMagFilter, glLinear)
	d.lib.glBindTexture(glTexture2D, 0)

	d.lib.glGenFramebuffers(1, &target.Framebuffer)
	d.lib.glBindFramebuffer(glFramebuffer, target.Framebuffer)
	d.lib.glFramebufferTexture2D(glFramebuffer, glColorAttachment0, glTexture2D, target.Texture, 0)
	status := d.lib.glCheckFramebufferStatus(glFramebuffer)
	d.lib.glBindFramebuffer(glFramebuffer, 0)
	if status != glFramebufferComplete {
		_ = d.DestroyTarget(ctx, target)
		return nil, fmt.Errorf("the framebuffer is incomplete: 0x%04X", status)
	}
	if err := d.glError("CreateTarget"); err != nil {
		_ = d.DestroyTarget(ctx, target)
		return nil, err
	}
	return target, nil
}

func (d *Display) DestroyTarget(ctx context.Context, target *gpu.Target) error {
	if target == nil {
		return nil
	}
	if target.Framebuffer != 0 {
		d.lib.glDeleteFramebuffers(1, &target.Framebuffer)
		target.Framebuffer = 0
	}
	if target.Texture != 0 {
		d.lib.glDeleteTextures(1, &target.Texture)
		target.Texture = 0
	}
	return d.glError("DestroyTarget")
}

func (d *Display) DrawExternal(
	ctx context.Context,
	target *gpu.Target,
	img gpu.Image,
) error {
	d.lib.glBindFramebuffer(glFramebuffer, target.Framebuffer)
	d.lib.glViewport(0, 0, int32(target.Width), int32(target.Height))
	d.lib.glClearColor(0, 0, 0, 1)
	d.lib.glClear(glColorBufferBit)

	d.lib.glUseProgram(d.program)
	d.lib.glActiveTexture(glTexture0)
	d.lib.glBindTexture(glTextureExternalOES, d.externalTexture)
	d.lib.glEGLImageTargetTexture2DOES(glTextureExternalOES, uintptr(img))
	d.lib.glUniform1i(d.textureUniform, 0)
	d.lib.glDrawArrays(glTriangles, 0, 3)

	d.lib.glBindTexture(glTextureExternalOES, 0)
	d.lib.glUseProgram(0)
	d.lib.glBindFramebuffer(glFramebuffer, 0)
	return d.glError("DrawExternal")
}

func (d *Display) CreateFence(ctx context.Context) (gpu.Fence, error) {
	attrs := []int32{eglNone}
	sync := d.lib.eglCreateSyncKHR(d.display, eglSyncFenceKHR, &attrs[0])
	if sync == 0 {
		return 0, d.eglError("eglCreateSyncKHR")
	}
	return gpu.Fence(sync), nil
}

func (d *Display) WaitFence(ctx context.Context, fence gpu.Fence) error {
	switch r := d.lib.eglClientWaitSyncKHR(d.display, uintptr(fence), eglSyncFlushCommandsBitKHR, eglForeverKHR); r {
	case eglConditionSatisfiedKHR:
		return nil
	case eglTimeoutExpiredKHR:
		return fmt.Errorf("eglClientWaitSyncKHR: timeout expired")
	default:
		return d.eglError("eglClientWaitSyncKHR")
	}
}

func (d *Display) DestroyFence(ctx context.Context, fence gpu.Fence) error {
	if d.lib.eglDestroySyncKHR(d.display, uintptr(fence)) == eglFalse {
		return d.eglError("eglDestroySyncKHR")
	}
	return nil
}

// PollEvents is a no-op: a pbuffer surface has no window system events.
func (d *Display) PollEvents(ctx context.Context) error {
	return ctx.Err()
}

func (d *Display) ShouldClose() bool {
	return false
}

// Present blits the target onto the pbuffer surface and swaps it.
func (d *Display) Present(ctx context.Context, target *gpu.Target) error {
	d.lib.glBindFramebuffer(glReadFramebuffer, target.Framebuffer)
	d.lib.glBindFramebuffer(glDrawFramebuffer, 0)
	d.lib.glBlitFramebuffer(
		0, 0, int32(target.Width), int32(target.Height),
		0, 0, int32(d.cfg.Width), int32(d.cfg.Height),
		glColorBufferBit, uint32(glLinear),
	)
	d.lib.glBindFramebuffer(glFramebuffer, 0)
	if err := d.glError("Present"); err != nil {
		return err
	}
	if d.lib.eglSwapBuffers(d.display, d.surface) == eglFalse {
		return d.eglError("eglSwapBuffers")
	}
	return nil
}

func (d *Display) String() string {
	return fmt.Sprintf("EGL(%dx%d)", d.cfg.Width, d.cfg.Height)
}

func (d *Display) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	if d.lib == nil {
		return nil
	}
	d.release(ctx)
	return nil
}

func (d *Display) release(ctx context.Context) {
	if d.context != eglNoContext {
		if d.externalTexture != 0 {
			d.lib.glDeleteTextures(1, &d.externalTexture)
			d.externalTexture = 0
		}
		if d.program != 0 {
			d.lib.glDeleteProgram(d.program)
			d.program = 0
		}
		d.lib.eglMakeCurrent(d.display, eglNoSurface, eglNoSurface, eglNoContext)
		d.lib.eglDestroyContext(d.display, d.context)
		d.context = eglNoContext
	}
	if d.surface != eglNoSurface {
		d.lib.eglDestroySurface(d.display, d.surface)
		d.surface = eglNoSurface
	}
	if d.display != 0 {
		if d.lib.eglTerminate(d.display) == eglFalse {
			logger.Warnf(ctx, "unable to terminate the EGL display: %v", d.eglError("eglTerminate"))
		}
		d.display = 0
	}
	d.lib.close()
	d.lib = nil
	runtime.UnlockOSThread()
}
