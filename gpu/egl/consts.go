package egl

// EGL
const (
	eglFalse = uint32(0)
	eglTrue  = uint32(1)

	eglSuccess           = int32(0x3000)
	eglNotInitialized    = int32(0x3001)
	eglBadAccess         = int32(0x3002)
	eglBadAlloc          = int32(0x3003)
	eglBadAttribute      = int32(0x3004)
	eglBadConfig         = int32(0x3005)
	eglBadContext        = int32(0x3006)
	eglBadCurrentSurface = int32(0x3007)
	eglBadDisplay        = int32(0x3008)
	eglBadMatch          = int32(0x3009)
	eglBadNativePixmap   = int32(0x300A)
	eglBadNativeWindow   = int32(0x300B)
	eglBadParameter      = int32(0x300C)
	eglBadSurface        = int32(0x300D)
	eglContextLost       = int32(0x300E)

	eglAlphaSize      = int32(0x3021)
	eglBlueSize       = int32(0x3022)
	eglGreenSize      = int32(0x3023)
	eglRedSize        = int32(0x3024)
	eglSurfaceType    = int32(0x3033)
	eglNone           = int32(0x3038)
	eglRenderableType = int32(0x3040)
	eglVendor         = int32(0x3053)
	eglHeight         = int32(0x3056)
	eglWidth          = int32(0x3057)

	eglPbufferBit     = int32(0x0001)
	eglOpenGLES3Bit   = int32(0x0040)
	eglOpenGLESAPI    = uint32(0x30A0)
	eglContextMajor   = int32(0x3098)
	eglContextMinor   = int32(0x30FB)
	eglDefaultDisplay = uintptr(0)
	eglNoContext      = uintptr(0)
	eglNoSurface      = uintptr(0)
)

// EGL_EXT_image_dma_buf_import
const (
	eglLinuxDMABuf        = uint32(0x3270)
	eglLinuxDRMFourCC     = int32(0x3271)
	eglDMABufPlane0FD     = int32(0x3272)
	eglDMABufPlane0Offset = int32(0x3273)
	eglDMABufPlane0Pitch  = int32(0x3274)
	eglDMABufPlane1FD     = int32(0x3275)
	eglDMABufPlane1Offset = int32(0x3276)
	eglDMABufPlane1Pitch  = int32(0x3277)
	eglDMABufPlane2FD     = int32(0x3278)
	eglDMABufPlane2Offset = int32(0x3279)
	eglDMABufPlane2Pitch  = int32(0x327A)
	eglYUVColorSpaceHint  = int32(0x327B)
	eglSampleRangeHint    = int32(0x327C)
	eglITURec601          = int32(0x327F)
	eglITURec709          = int32(0x3280)
	eglITURec2020         = int32(0x3281)
	eglYUVFullRange       = int32(0x3282)
	eglYUVNarrowRange     = int32(0x3283)
)

// EGL_KHR_fence_sync
const (
	eglSyncFenceKHR            = uint32(0x30F9)
	eglSyncFlushCommandsBitKHR = int32(0x0001)
	eglForeverKHR              = uint64(0xFFFFFFFFFFFFFFFF)
	eglConditionSatisfiedKHR   = int32(0x30F6)
	eglTimeoutExpiredKHR       = int32(0x30F5)
)

// GLES
const (
	glNoError             = uint32(0)
	glTexture2D           = uint32(0x0DE1)
	glTextureExternalOES  = uint32(0x8D65)
	glTexture0            = uint32(0x84C0)
	glTextureMinFilter    = uint32(0x2801)
	glTextureMagFilter    = uint32(0x2800)
	glTextureWrapS        = uint32(0x2802)
	glTextureWrapT        = uint32(0x2803)
	glLinear              = int32(0x2601)
	glClampToEdge         = int32(0x812F)
	glRGBA                = uint32(0x1908)
	glUnsignedByte        = uint32(0x1401)
	glFramebuffer         = uint32(0x8D40)
	glReadFramebuffer     = uint32(0x8CA8)
	glDrawFramebuffer     = uint32(0x8CA9)
	glColorAttachment0    = uint32(0x8CE0)
	glFramebufferComplete = uint32(0x8CD5)
	glColorBufferBit      = uint32(0x4000)
	glTriangles           = uint32(0x0004)
	glVertexShader        = uint32(0x8B31)
	glFragmentShader      = uint32(0x8B30)
	glCompileStatus       = uint32(0x8B81)
	glLinkStatus          = uint32(0x8B82)
	glInfoLogLength       = uint32(0x8B84)
)
