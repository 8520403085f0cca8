//go:build linux

// library.go binds libEGL and libGLESv2 with purego.

package egl

import (
	"fmt"
	"os"

	"github.com/ebitengine/purego"
)

const (
	envEGLLibraryPath   = "HWPLAYER_EGL_LIB_PATH"
	envGLESLibraryPath  = "HWPLAYER_GLES_LIB_PATH"
	defaultEGLLibrary   = "libEGL.so.1"
	defaultGLESLibrary  = "libGLESv2.so.2"
	fallbackEGLLibrary  = "libEGL.so"
	fallbackGLESLibrary = "libGLESv2.so"
)

type library struct {
	eglHandle  uintptr
	glesHandle uintptr

	eglGetDisplay           func(native uintptr) uintptr
	eglInitialize           func(dpy uintptr, major *int32, minor *int32) uint32
	eglTerminate            func(dpy uintptr) uint32
	eglQueryString          func(dpy uintptr, name int32) string
	eglBindAPI              func(api uint32) uint32
	eglChooseConfig         func(dpy uintptr, attrs *int32, configs *uintptr, size int32, num *int32) uint32
	eglCreateContext        func(dpy uintptr, config uintptr, share uintptr, attrs *int32) uintptr
	eglDestroyContext       func(dpy uintptr, ctx uintptr) uint32
	eglCreatePbufferSurface func(dpy uintptr, config uintptr, attrs *int32) uintptr
	eglDestroySurface       func(dpy uintptr, surface uintptr) uint32
	eglMakeCurrent          func(dpy uintptr, draw uintptr, read uintptr, ctx uintptr) uint32
	eglSwapBuffers          func(dpy uintptr, surface uintptr) uint32
	eglGetError             func() int32
	eglGetProcAddress       func(name string) uintptr

	// extension entry points, resolved through eglGetProcAddress
	eglCreateImageKHR            func(dpy uintptr, ctx uintptr, target uint32, buffer uintptr, attrs *int32) uintptr
	eglDestroyImageKHR           func(dpy uintptr, image uintptr) uint32
	eglCreateSyncKHR             func(dpy uintptr, syncType uint32, attrs *int32) uintptr
	eglClientWaitSyncKHR         func(dpy uintptr, sync uintptr, flags int32, timeout uint64) int32
	eglDestroySyncKHR            func(dpy uintptr, sync uintptr) uint32
	glEGLImageTargetTexture2DOES func(target uint32, image uintptr)

	glGetError               func() uint32
	glGenTextures            func(n int32, textures *uint32)
	glDeleteTextures         func(n int32, textures *uint32)
	glBindTexture            func(target uint32, texture uint32)
	glActiveTexture          func(texture uint32)
	glTexParameteri          func(target uint32, pname uint32, param int32)
	glTexImage2D             func(target uint32, level int32, internalFormat int32, width int32, height int32, border int32, format uint32, pixelType uint32, pixels uintptr)
	glGenFramebuffers        func(n int32, framebuffers *uint32)
	glDeleteFramebuffers     func(n int32, framebuffers *uint32)
	glBindFramebuffer        func(target uint32, framebuffer uint32)
	glFramebufferTexture2D   func(target uint32, attachment uint32, texTarget uint32, texture uint32, level int32)
	glCheckFramebufferStatus func(target uint32) uint32
	glBlitFramebuffer        func(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask uint32, filter uint32)
	glViewport               func(x, y, width, height int32)
	glClearColor             func(r, g, b, a float32)
	glClear                  func(mask uint32)
	glDrawArrays             func(mode uint32, first int32, count int32)
	glFlush                  func()

	glCreateShader       func(shaderType uint32) uint32
	glShaderSource       func(shader uint32, count int32, sources **byte, lengths *int32)
	glCompileShader      func(shader uint32)
	glGetShaderiv        func(shader uint32, pname uint32, params *int32)
	glGetShaderInfoLog   func(shader uint32, bufSize int32, length *int32, infoLog *byte)
	glDeleteShader       func(shader uint32)
	glCreateProgram      func() uint32
	glAttachShader       func(program uint32, shader uint32)
	glLinkProgram        func(program uint32)
	glGetProgramiv       func(program uint32, pname uint32, params *int32)
	glGetProgramInfoLog  func(program uint32, bufSize int32, length *int32, infoLog *byte)
	glUseProgram         func(program uint32)
	glDeleteProgram      func(program uint32)
	glGetUniformLocation func(program uint32, name string) int32
	glUniform1i          func(location int32, value int32)
}

func libraryCandidates(override, envName string, defaults ...string) []string {
	var paths []string
	if override != "" {
		paths = append(paths, override)
	}
	if envPath := os.Getenv(envName); envPath != "" {
		paths = append(paths, envPath)
	}
	return append(paths, defaults...)
}

func dlopenFirst(paths []string) (uintptr, error) {
	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return handle, nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("unable to load any of %v: %w", paths, lastErr)
}

func loadLibrary(eglPath, glesPath string) (*library, error) {
	eglHandle, err := dlopenFirst(libraryCandidates(eglPath, envEGLLibraryPath, defaultEGLLibrary, fallbackEGLLibrary))
	if err != nil {
		return nil, err
	}
	glesHandle, err := dlopenFirst(libraryCandidates(glesPath, envGLESLibraryPath, defaultGLESLibrary, fallbackGLESLibrary))
	if err != nil {
		purego.Dlclose(eglHandle)
		return nil, err
	}
	lib := &library{eglHandle: eglHandle, glesHandle: glesHandle}
	if err := lib.registerCore(); err != nil {
		lib.close()
		return nil, err
	}
	return lib, nil
}

func (lib *library) close() {
	purego.Dlclose(lib.glesHandle)
	purego.Dlclose(lib.eglHandle)
}

func (lib *library) registerCore() (_err error) {
	// RegisterLibFunc panics on a missing symbol
	defer func() {
		if r := recover(); r != nil {
			_err = fmt.Errorf("unable to register the EGL/GLES symbols: %v", r)
		}
	}()

	e := lib.eglHandle
	purego.RegisterLibFunc(&lib.eglGetDisplay, e, "eglGetDisplay")
	purego.RegisterLibFunc(&lib.eglInitialize, e, "eglInitialize")
	purego.RegisterLibFunc(&lib.eglTerminate, e, "eglTerminate")
	purego.RegisterLibFunc(&lib.eglQueryString, e, "eglQueryString")
	purego.RegisterLibFunc(&lib.eglBindAPI, e, "eglBindAPI")
	purego.RegisterLibFunc(&lib.eglChooseConfig, e, "eglChooseConfig")
	purego.RegisterLibFunc(&lib.eglCreateContext, e, "eglCreateContext")
	purego.RegisterLibFunc(&lib.eglDestroyContext, e, "eglDestroyContext")
	purego.RegisterLibFunc(&lib.eglCreatePbufferSurface, e, "eglCreatePbufferSurface")
	purego.RegisterLibFunc(&lib.eglDestroySurface, e, "eglDestroySurface")
	purego.RegisterLibFunc(&lib.eglMakeCurrent, e, "eglMakeCurrent")
	purego.RegisterLibFunc(&lib.eglSwapBuffers, e, "eglSwapBuffers")
	purego.RegisterLibFunc(&lib.eglGetError, e, "eglGetError")
	purego.RegisterLibFunc(&lib.eglGetProcAddress, e, "eglGetProcAddress")

	g := lib.glesHandle
	purego.RegisterLibFunc(&lib.glGetError, g, "glGetError")
	purego.RegisterLibFunc(&lib.glGenTextures, g, "glGenTextures")
	purego.RegisterLibFunc(&lib.glDeleteTextures, g, "glDeleteTextures")
	purego.RegisterLibFunc(&lib.glBindTexture, g, "glBindTexture")
	purego.RegisterLibFunc(&lib.glActiveTexture, g, "glActiveTexture")
	purego.RegisterLibFunc(&lib.glTexParameteri, g, "glTexParameteri")
	purego.RegisterLibFunc(&lib.glTexImage2D, g, "glTexImage2D")
	purego.RegisterLibFunc(&lib.glGenFramebuffers, g, "glGenFramebuffers")
	purego.RegisterLibFunc(&lib.glDeleteFramebuffers, g, "glDeleteFramebuffers")
	purego.RegisterLibFunc(&lib.glBindFramebuffer, g, "glBindFramebuffer")
	purego.RegisterLibFunc(&lib.glFramebufferTexture2D, g, "glFramebufferTexture2D")
	purego.RegisterLibFunc(&lib.glCheckFramebufferStatus, g, "glCheckFramebufferStatus")
	purego.RegisterLibFunc(&lib.glBlitFramebuffer, g, "glBlitFramebuffer")
	purego.RegisterLibFunc(&lib.glViewport, g, "glViewport")
	purego.RegisterLibFunc(&lib.glClearColor, g, "glClearColor")
	purego.RegisterLibFunc(&lib.glClear, g, "glClear")
	purego.RegisterLibFunc(&lib.glDrawArrays, g, "glDrawArrays")
	purego.RegisterLibFunc(&lib.glFlush, g, "glFlush")
	purego.RegisterLibFunc(&lib.glCreateShader, g, "glCreateShader")
	purego.RegisterLibFunc(&lib.glShaderSource, g, "glShaderSource")
	purego.RegisterLibFunc(&lib.glCompileShader, g, "glCompileShader")
	purego.RegisterLibFunc(&lib.glGetShaderiv, g, "glGetShaderiv")
	purego.RegisterLibFunc(&lib.glGetShaderInfoLog, g, "glGetShaderInfoLog")
	purego.RegisterLibFunc(&lib.glDeleteShader, g, "glDeleteShader")
	purego.RegisterLibFunc(&lib.glCreateProgram, g, "glCreateProgram")
	purego.RegisterLibFunc(&lib.glAttachShader, g, "glAttachShader")
	purego.RegisterLibFunc(&lib.glLinkProgram, g, "glLinkProgram")
	purego.RegisterLibFunc(&lib.glGetProgramiv, g, "glGetProgramiv")
	purego.RegisterLibFunc(&lib.glGetProgramInfoLog, g, "glGetProgramInfoLog")
	purego.RegisterLibFunc(&lib.glUseProgram, g, "glUseProgram")
	purego.RegisterLibFunc(&lib.glDeleteProgram, g, "glDeleteProgram")
	purego.RegisterLibFunc(&lib.glGetUniformLocation, g, "glGetUniformLocation")
	purego.RegisterLibFunc(&lib.glUniform1i, g, "glUniform1i")
	return nil
}

// registerExtensions resolves the extension entry points; it requires an
// initialized display (some implementations return NULL before that).
func (lib *library) registerExtensions() error {
	procs := []struct {
		fn   any
		name string
	}{
		{&lib.eglCreateImageKHR, "eglCreateImageKHR"},
		{&lib.eglDestroyImageKHR, "eglDestroyImageKHR"},
		{&lib.eglCreateSyncKHR, "eglCreateSyncKHR"},
		{&lib.eglClientWaitSyncKHR, "eglClientWaitSyncKHR"},
		{&lib.eglDestroySyncKHR, "eglDestroySyncKHR"},
		{&lib.glEGLImageTargetTexture2DOES, "glEGLImageTargetTexture2DOES"},
	}
	for _, proc := range procs {
		ptr := lib.eglGetProcAddress(proc.name)
		if ptr == 0 {
			return fmt.Errorf("eglGetProcAddress(%s) returned NULL", proc.name)
		}
		purego.RegisterFunc(proc.fn, ptr)
	}
	return nil
}
