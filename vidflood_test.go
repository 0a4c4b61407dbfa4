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
	"image"
	"image/color"
	"image/png"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vidflood/vidflood/test"
)

func startServer(t *testing.T) (*test.StubServer, []string) {
	t.Helper()

	srv, err := test.NewStubServer()
	test.DemandSuccess(t, err)
	srv.SizeReply = "SIZE 40 30\n"
	srv.Start()
	t.Cleanup(srv.Close)

	host, port, err := net.SplitHostPort(srv.Addr())
	test.DemandSuccess(t, err)

	return srv, []string{"-server", host, "-port", port}
}

func TestHelp(t *testing.T) {
	tw := &test.CompareWriter{}
	exitVal := launch(context.Background(), []string{"-help"}, tw)
	test.ExpectEquality(t, exitVal, exitOK)
	test.ExpectEquality(t, tw.String(), "Usage:\n  modes: FLOOD, SIZE (default FLOOD)\n")
}

func TestFloodHelp(t *testing.T) {
	tw := &test.CompareWriter{}
	exitVal := launch(context.Background(), []string{"flood", "-help"}, tw)
	test.ExpectEquality(t, exitVal, exitOK)
	test.ExpectSuccess(t, strings.HasPrefix(tw.String(), "Usage for FLOOD mode:\n"), tw.String())
	test.ExpectSuccess(t, strings.Contains(tw.String(), "  -duration duration\n"), tw.String())
	test.ExpectSuccess(t, strings.HasSuffix(tw.String(), "\n\n"+floodHelp+"\n"), tw.String())
}

func TestSizeMode(t *testing.T) {
	_, server := startServer(t)

	tw := &test.CompareWriter{}
	exitVal := launch(context.Background(), append([]string{"size"}, server...), tw)
	test.ExpectEquality(t, exitVal, exitOK)
	test.ExpectEquality(t, tw.String(), "40x30\n")
}

func TestModeError(t *testing.T) {
	tw := &test.CompareWriter{}
	exitVal := launch(context.Background(), []string{"flood"}, tw)
	test.ExpectEquality(t, exitVal, exitModeError)
	test.ExpectEquality(t, tw.String(), "* error in FLOOD mode: video or image file required for FLOOD mode\n")

	tw.Clear()
	exitVal = launch(context.Background(), []string{"flood", "-connections", "many", "sprite.png"}, tw)
	test.ExpectEquality(t, exitVal, exitModeError)
}

func TestInvalidFlagValues(t *testing.T) {
	tw := &test.CompareWriter{}
	exitVal := launch(context.Background(), []string{"flood", "-profile", "gpu", "sprite.png"}, tw)
	test.ExpectEquality(t, exitVal, exitModeError)
	test.ExpectSuccess(t, strings.Contains(tw.String(), `unknown profile "gpu"`), tw.String())

	tw.Clear()
	exitVal = launch(context.Background(), []string{"flood", "-size", "320", "sprite.png"}, tw)
	test.ExpectEquality(t, exitVal, exitModeError)
	test.ExpectSuccess(t, strings.Contains(tw.String(), `size "320" is not of the form WxH`), tw.String())
}

func TestModeErrorLog(t *testing.T) {
	_, server := startServer(t)

	args := append([]string{"flood"}, server...)
	args = append(args, filepath.Join(t.TempDir(), "missing.png"))

	// the canvas size has been logged by the time the file fails to load
	tw := &test.CompareWriter{}
	exitVal := launch(context.Background(), args, tw)
	test.ExpectEquality(t, exitVal, exitModeError)
	test.ExpectSuccess(t, strings.Contains(tw.String(), "* last log entries:\n"), tw.String())
	test.ExpectSuccess(t, strings.Contains(tw.String(), "vidflood: -server flag set\n"), tw.String())
	test.ExpectSuccess(t, strings.Contains(tw.String(), "vidflood: canvas is 40x30\n"), tw.String())
}

func writeDot(t *testing.T) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{G: 0xff, A: 0xff})

	fn := filepath.Join(t.TempDir(), "dot.png")
	f, err := os.Create(fn)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, png.Encode(f, img))
	test.DemandSuccess(t, f.Close())

	return fn
}

func TestFloodDuration(t *testing.T) {
	_, server := startServer(t)

	args := append([]string{"flood", "-connections", "1", "-fps", "50", "-duration", "100ms"}, server...)
	args = append(args, writeDot(t))

	tw := &test.CompareWriter{}
	exitVal := launch(context.Background(), args, tw)
	test.ExpectEquality(t, exitVal, exitOK, tw.String())
	test.ExpectSuccess(t, strings.Contains(tw.String(), "frame rate fixed at 50.00 fps"), tw.String())
}

func TestFlood(t *testing.T) {
	srv, server := startServer(t)

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			img.Set(x, y, color.NRGBA{R: 0xff, A: 0xff})
		}
	}

	fn := filepath.Join(t.TempDir(), "sprite.png")
	f, err := os.Create(fn)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, png.Encode(f, img))
	test.DemandSuccess(t, f.Close())

	args := append([]string{"-connections", "2", "-loops", "1", "-x", "10", "-y", "5"}, server...)
	args = append(args, fn)

	tw := &test.CompareWriter{}
	exitVal := launch(context.Background(), args, tw)
	test.DemandEquality(t, exitVal, exitOK, tw.String())
	test.ExpectSuccess(t, strings.Contains(tw.String(), "Loading frame 1..."))
	test.ExpectSuccess(t, strings.Contains(tw.String(), "Connections: 2  |  Errors: 0"))
	test.ExpectSuccess(t, strings.Contains(tw.String(), "1 frames in"))

	expected := []string{
		"PX 10 5 ff0000ff",
		"PX 11 5 ff0000ff",
		"PX 10 6 ff0000ff",
		"PX 11 6 ff0000ff",
	}

	// the commands have been written but may not have been read by the server
	deadline := time.Now().Add(2 * time.Second)
	for {
		received := make(map[string]bool)
		for _, l := range srv.Lines() {
			received[l] = true
		}

		missing := 0
		for _, e := range expected {
			if !received[e] {
				missing++
			}
		}
		if missing == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("%d draw commands were not received", missing)
		}
		time.Sleep(time.Millisecond)
	}

	// one connection for the size query and one for each link
	test.ExpectEquality(t, srv.Connections(), 3)
}

func TestFloodCancel(t *testing.T) {
	_, server := startServer(t)

	fn := writeDot(t)

	// an interrupt cancels the context. this is a normal end to the flood
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	args := append([]string{"flood", "-connections", "1", "-fps", "50"}, server...)
	args = append(args, fn)

	tw := &test.CompareWriter{}
	exitVal := launch(ctx, args, tw)
	test.ExpectEquality(t, exitVal, exitOK, tw.String())
}
