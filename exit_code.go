// exit_code.go enumerates the pipeline steps that may fail fatally and their process exit codes.

package hwplayer

import (
	"fmt"
)

const (
	ExitCodeOK    = 0
	ExitCodeUsage = 1
)

// Step is a pipeline step that may fail fatally.
type Step int

const (
	StepUndefined = Step(iota)
	StepOpenInput
	StepStreamInfo
	StepNoVideoStream
	StepDisplay
	StepContext
	StepFunctions
	StepOverlay
	StepShaders
	StepPacketInit
	StepDecoderCreate
	StepSplitMode
	StepDecoderInit
	StepParameterSets
	StepRewind
	StepRead
	StepSubmit
	StepGetFrame
	StepBufferGroup
	StepMissingBuffer
	StepPixelFormat
	StepImageImport
	StepRenderTarget
	StepDraw
	StepPresent
	endOfStep
)

var stepInfos = map[Step]struct {
	name     string
	exitCode int
}{
	StepUndefined:     {"undefined", 1},
	StepOpenInput:     {"open_input", 4},
	StepStreamInfo:    {"stream_info", 5},
	StepNoVideoStream: {"no_video_stream", 6},
	StepDisplay:       {"display", 7},
	StepContext:       {"context", 8},
	StepFunctions:     {"functions", 9},
	StepOverlay:       {"overlay", 10},
	StepShaders:       {"shaders", 11},
	StepPacketInit:    {"packet_init", 21},
	StepDecoderCreate: {"decoder_create", 22},
	StepSplitMode:     {"split_mode", 23},
	StepDecoderInit:   {"decoder_init", 24},
	StepParameterSets: {"parameter_sets", 25},
	StepRewind:        {"rewind", 26},
	StepRead:          {"read", 27},
	StepSubmit:        {"submit", 28},
	StepGetFrame:      {"get_frame", 29},
	StepBufferGroup:   {"buffer_group", 30},
	StepMissingBuffer: {"missing_buffer", 31},
	StepPixelFormat:   {"pixel_format", 32},
	StepImageImport:   {"image_import", 33},
	StepRenderTarget:  {"render_target", 34},
	StepDraw:          {"draw", 35},
	StepPresent:       {"present", 36},
}

func (s Step) String() string {
	info, ok := stepInfos[s]
	if !ok {
		return fmt.Sprintf("unknown_step_%d", int(s))
	}
	return info.name
}

func (s Step) ExitCode() int {
	info, ok := stepInfos[s]
	if !ok {
		return ExitCodeUsage
	}
	return info.exitCode
}
