// This file is part of Vidflood.
//
// Vidflood is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Vidflood is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Vidflood.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/vidflood/vidflood/canvas"
	"github.com/vidflood/vidflood/config"
	"github.com/vidflood/vidflood/decoder"
	"github.com/vidflood/vidflood/dispatch"
	"github.com/vidflood/vidflood/filter"
	"github.com/vidflood/vidflood/frames"
	"github.com/vidflood/vidflood/logger"
	"github.com/vidflood/vidflood/modalflag"
	"github.com/vidflood/vidflood/performance"
	"github.com/vidflood/vidflood/playback"
	"github.com/vidflood/vidflood/random"
	"github.com/vidflood/vidflood/statsview"
	"github.com/vidflood/vidflood/status"
	"github.com/vidflood/vidflood/version"
)

const (
	defaultServer      = "wall.c3pixelflut.de"
	defaultPort        = 1337
	defaultConnections = 12
)

// number of log entries shown after a mode error
const logTail = 10

// exit values
const (
	exitOK         = 0
	exitParseError = 10
	exitModeError  = 20
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	exitVal := launch(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(exitVal)
}

// launch parses the arguments and runs the selected mode. returns the value
// to use with os.Exit()
func launch(ctx context.Context, args []string, output io.Writer) int {
	logger.Clear()

	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("FLOOD", "SIZE")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	switch md.Mode() {
	case "FLOOD":
		err = flood(ctx, md, output)

	case "SIZE":
		err = size(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)

		tail := &strings.Builder{}
		logger.Tail(tail, logTail)
		if tail.Len() > 0 {
			fmt.Fprintf(output, "* last log entries:\n%s", tail.String())
		}

		return exitModeError
	}

	return exitOK
}

// addServerFlags adds the flags that select the canvas server. returns the
// function that forms the address from the flags after parsing
func addServerFlags(md *modalflag.Modes) func() string {
	server := md.AddString("server", defaultServer, "canvas server host name")
	port := md.AddInt("port", defaultPort, "canvas server port")
	return func() string {
		return net.JoinHostPort(*server, strconv.Itoa(*port))
	}
}

func size(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	addr := addServerFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	w, h, err := canvas.QuerySize(addr())
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%dx%d\n", w, h)

	return nil
}

const floodHelp = `filter parameters:
  -rainbow AA        alpha of the rainbow color as two hex digits
  -bounce SPEED      speed bias added to the random speed (-128 to 127)
  -blend RRGGBBAA    color composited over every pixel
  -glitch FACTOR     multiplier of the row shift (one or more)
  -order LIST        filters named first are applied first, for example
                     glitch,blend. filters not named follow in the default
                     order`

func flood(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	addr := addServerFlags(md)
	connections := md.AddInt("connections", defaultConnections, "number of concurrent connections to the server")
	fps := md.AddFloat64("fps", 0, "frames per second (zero uses the timing of the source)")
	loops := md.AddInt("loops", 0, "number of times to play the source (zero plays forever)")
	restore := md.AddBool("restore", false, "erase pixels left behind by previous frames")
	x := md.AddUint("x", 0, "horizontal placement on the canvas")
	y := md.AddUint("y", 0, "vertical placement on the canvas")
	var scale decoder.Size
	md.AddVar(&scale, "size", "rescale the source to WxH")
	batch := md.AddInt("batch", 1, "number of pixel commands in each write to a connection")
	rainbow := md.AddString("rainbow", "", "apply rainbow filter with the alpha value AA")
	bounce := md.AddString("bounce", "", "bounce sprite around the canvas with the speed bias SPEED")
	blend := md.AddString("blend", "", "blend the color RRGGBBAA over the sprite")
	glitch := md.AddString("glitch", "", "shift rows of pixels by multiples of FACTOR")
	order := md.AddString("order", "", "comma separated order of filters (default rainbow,bounce,blend,glitch)")
	log := md.AddBool("log", false, "echo log to stderr")
	duration := md.AddDuration("duration", 0, "stop flooding after this long (zero floods until interrupted)")

	prof := performance.ProfileNone
	md.AddFunc("profile", "run flood through profiler: CPU, MEM, TRACE, ALL (comma separated)", func(s string) error {
		var err error
		prof, err = performance.ParseProfile(s)
		return err
	})

	showVersion := md.AddBool("version", false, "print version and exit")

	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	md.AdditionalHelp(floodHelp)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *showVersion {
		fmt.Fprintln(output, version.String())
		return nil
	}

	// set debugging log echo
	if *log {
		logger.SetEcho(os.Stderr)
	} else {
		logger.SetEcho(nil)
	}

	md.Visit(func(flag string) {
		logger.Logf(logger.Allow, "vidflood", "-%s flag set", flag)
	})

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("video or image file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	cfg := config.Config{
		Server:      addr(),
		Connections: *connections,
		Restore:     *restore,
	}

	cfg.CanvasWidth, cfg.CanvasHeight, err = canvas.QuerySize(cfg.Server)
	if err != nil {
		return err
	}
	logger.Logf(logger.Allow, "vidflood", "canvas is %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)

	seq, err := frames.Load(decoder.Open(md.GetArg(0), scale), frames.LoadOptions{
		OffsetX: uint32(*x),
		OffsetY: uint32(*y),
		Restore: *restore,
		Progress: func(n int) {
			fmt.Fprintf(output, "\rLoading frame %d...", n)
		},
	})
	fmt.Fprintln(output)
	if err != nil {
		return err
	}

	cfg.Area = seq.Area(uint32(*x), uint32(*y))

	err = cfg.Validate()
	if err != nil {
		return err
	}
	logger.Log(logger.Allow, "vidflood", cfg)

	chain, err := filter.Build(filter.Options{
		Rainbow: *rainbow,
		Bounce:  *bounce,
		Blend:   *blend,
		Glitch:  *glitch,
		Order:   *order,
	}, cfg, random.NewRandom())
	if err != nil {
		return err
	}
	if len(chain) == 0 && md.IsSet("order") {
		logger.Log(logger.Allow, "vidflood", "filter order has no effect because no filter is enabled")
	}

	painters := make([]dispatch.Painter, 0, cfg.Connections)
	for i := range cfg.Connections {
		l, err := canvas.NewLink(cfg.Server, i, nil)
		if err != nil {
			for _, p := range painters {
				_ = p.(*canvas.Link).Close()
			}
			return err
		}
		l.SetBatch(*batch)
		painters = append(painters, l)
	}

	disp := status.NewTerminalDisplay(output, cfg.Connections)
	engine := dispatch.NewEngine(painters, disp)

	sch := &playback.Scheduler{
		Frames:    seq.Frames,
		Chain:     chain,
		Submitter: engine,
		Restore:   cfg.Restore,
		FPS:       *fps,
		Loops:     *loops,
	}

	if stats != nil && *stats {
		statsview.Launch(ctx, output)
	}

	// the timeout starts once the frames are loaded and the links are open
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	start := time.Now()

	err = performance.RunProfiler(prof, "vidflood", func() error {
		return run(ctx, sch, engine)
	})

	disp.Close()

	// an interrupt or the end of the flood duration is a normal end
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Fprintf(output, "%d frames in %v (%.2f fps)\n", sch.Submitted(), elapsed.Round(time.Millisecond),
		performance.CalcRate(sch.Submitted(), elapsed))
	fmt.Fprintf(output, "%d pixels written (%.0f per second) with %d errors\n", disp.Pixels(),
		performance.CalcRate(disp.Pixels(), elapsed), disp.Errors())
	if sch.FPS > 0 {
		fmt.Fprintf(output, "frame rate fixed at %.2f fps (measured %.2f fps)\n", sch.FPS, sch.MeasuredFPS())
	}

	return nil
}

// run the scheduler until it finishes or until the engine stops. if the
// scheduler finishes then run waits for the engine to draw the final frame
func run(ctx context.Context, sch *playback.Scheduler, engine *dispatch.Engine) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sch.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case err := <-engine.Err():
		cancel()
		<-done
		return err
	}

	// the engine waits for a new frame rather than drawing an empty one
	if len(sch.Frames[len(sch.Frames)-1].Pixels) == 0 {
		return nil
	}

	return drain(ctx, engine)
}

// the interval at which drain() checks the progress of the engine
const drainInterval = 10 * time.Millisecond

// drain waits until every submitted frame has been consumed by the engine and
// the final frame has been drawn. the final frame may be preceded by the
// restore buffer of the previous frame, which counts as a draw cycle
func drain(ctx context.Context, engine *dispatch.Engine) error {
	tick := time.NewTicker(drainInterval)
	defer tick.Stop()

	var target uint64
	consumed := false

	for {
		if !consumed && engine.Pending() == 0 {
			consumed = true
			target = engine.Cycles() + 2
		}
		if consumed && engine.Cycles() >= target {
			return nil
		}

		select {
		case <-tick.C:
		case err := <-engine.Err():
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
