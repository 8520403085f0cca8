package overlay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xaionaro-go/hwplayer/imagecache"
	"github.com/xaionaro-go/hwplayer/logger"
	"github.com/xaionaro-go/hwplayer/types"
	"github.com/xaionaro-go/observability"
)

const consoleCommandsBuffer = 16

// Command is an override change typed by the user.
type Command func(*imagecache.Overrides)

// ParseCommand parses a console line:
//
//	space auto|rec601|rec709|rec2020
//	range auto|full|narrow
//	reset
func ParseCommand(line string) (Command, error) {
	words := strings.Fields(strings.ToLower(line))
	if len(words) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	switch words[0] {
	case "space":
		if len(words) != 2 {
			return nil, fmt.Errorf("usage: space auto|rec601|rec709|rec2020")
		}
		h, err := types.ColorSpaceHintFromString(words[1])
		if err != nil {
			return nil, err
		}
		return func(o *imagecache.Overrides) { o.ColorSpace = h }, nil
	case "range":
		if len(words) != 2 {
			return nil, fmt.Errorf("usage: range auto|full|narrow")
		}
		h, err := types.ColorRangeHintFromString(words[1])
		if err != nil {
			return nil, err
		}
		return func(o *imagecache.Overrides) { o.ColorRange = h }, nil
	case "reset":
		if len(words) != 1 {
			return nil, fmt.Errorf("usage: reset")
		}
		return func(o *imagecache.Overrides) { *o = imagecache.Overrides{} }, nil
	}
	return nil, fmt.Errorf("unknown command '%s'", words[0])
}

// Console reads override commands from a text stream (usually stdin) in
// a separate goroutine; they are applied on the next Render.
type Console struct {
	Static

	commands chan Command
	cancel   context.CancelFunc
	done     chan struct{}
}

var _ Overlay = (*Console)(nil)

func NewConsole(ctx context.Context, r io.Reader) *Console {
	ctx, cancel := context.WithCancel(ctx)
	c := &Console{
		commands: make(chan Command, consoleCommandsBuffer),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	observability.Go(ctx, func(ctx context.Context) {
		defer close(c.done)
		c.readLoop(ctx, r)
	})
	return c
}

func (c *Console) readLoop(ctx context.Context, r io.Reader) {
	logger.Debugf(ctx, "readLoop")
	defer func() { logger.Debugf(ctx, "/readLoop") }()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			logger.Warnf(ctx, "invalid console command %q: %v", line, err)
			continue
		}
		select {
		case c.commands <- cmd:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Errorf(ctx, "unable to read the console: %v", err)
	}
}

func (c *Console) Render(
	ctx context.Context,
	diag Diagnostics,
) (imagecache.Overrides, bool) {
	c.Static.Render(ctx, diag)

	overrides := diag.Overrides
	for {
		select {
		case cmd := <-c.commands:
			cmd(&overrides)
		default:
			return overrides, overrides != diag.Overrides
		}
	}
}

// Close stops accepting commands; it does not wait for the reader, which
// may be blocked in a Read that cannot be interrupted.
func (c *Console) Close(ctx context.Context) error {
	c.cancel()
	return nil
}

// Done is closed once the reader goroutine exits.
func (c *Console) Done() <-chan struct{} {
	return c.done
}
