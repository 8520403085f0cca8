package egl

import (
	"fmt"
)

type InitStep int

const (
	InitStepUndefined = InitStep(iota)
	InitStepLibrary
	InitStepDisplay
	InitStepContext
	InitStepFunctions
	InitStepShaders
)

func (s InitStep) String() string {
	switch s {
	case InitStepUndefined:
		return "undefined"
	case InitStepLibrary:
		return "library"
	case InitStepDisplay:
		return "display"
	case InitStepContext:
		return "context"
	case InitStepFunctions:
		return "functions"
	case InitStepShaders:
		return "shaders"
	}
	return fmt.Sprintf("unknown_step_%d", int(s))
}

type ErrInit struct {
	Step InitStep
	Err  error
}

func (e ErrInit) Error() string {
	return fmt.Sprintf("unable to initialize EGL (step: %s): %v", e.Step, e.Err)
}

func (e ErrInit) Unwrap() error {
	return e.Err
}

// ErrEGL is a failed EGL call with the value of eglGetError.
type ErrEGL struct {
	Func string
	Code int32
}

func (e ErrEGL) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Func, eglErrorName(e.Code))
}

// ErrGL is a GL error flagged after a sequence of GL calls.
type ErrGL struct {
	Op   string
	Code uint32
}

func (e ErrGL) Error() string {
	return fmt.Sprintf("%s: GL error 0x%04X", e.Op, e.Code)
}

func eglErrorName(code int32) string {
	switch code {
	case eglSuccess:
		return "EGL_SUCCESS"
	case eglNotInitialized:
		return "EGL_NOT_INITIALIZED"
	case eglBadAccess:
		return "EGL_BAD_ACCESS"
	case eglBadAlloc:
		return "EGL_BAD_ALLOC"
	case eglBadAttribute:
		return "EGL_BAD_ATTRIBUTE"
	case eglBadConfig:
		return "EGL_BAD_CONFIG"
	case eglBadContext:
		return "EGL_BAD_CONTEXT"
	case eglBadCurrentSurface:
		return "EGL_BAD_CURRENT_SURFACE"
	case eglBadDisplay:
		return "EGL_BAD_DISPLAY"
	case eglBadMatch:
		return "EGL_BAD_MATCH"
	case eglBadNativePixmap:
		return "EGL_BAD_NATIVE_PIXMAP"
	case eglBadNativeWindow:
		return "EGL_BAD_NATIVE_WINDOW"
	case eglBadParameter:
		return "EGL_BAD_PARAMETER"
	case eglBadSurface:
		return "EGL_BAD_SURFACE"
	case eglContextLost:
		return "EGL_CONTEXT_LOST"
	}
	return fmt.Sprintf("EGL_ERROR(0x%04X)", code)
}
