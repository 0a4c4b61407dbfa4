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

// Package config holds the configuration of a flood run. A Config is built
// once, before streaming begins, and is read-only thereafter.
package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/vidflood/vidflood/pixel"
)

// ErrInvalidConfig is returned by Validate() for an unusable configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is shared by value with every component that needs it.
type Config struct {
	// address of the canvas server in host:port form
	Server string

	// number of concurrent connections to the server
	Connections int

	// restore pixels vacated between frames
	Restore bool

	// dimensions of the canvas as reported by the SIZE command
	CanvasWidth  uint32
	CanvasHeight uint32

	// placement and size of the sprite on the canvas
	Area pixel.Area
}

// Validate returns an error if the configuration cannot be used for a flood.
func (cfg Config) Validate() error {
	if cfg.Server == "" {
		return fmt.Errorf("config: %w: no server address", ErrInvalidConfig)
	}
	if _, _, err := net.SplitHostPort(cfg.Server); err != nil {
		return fmt.Errorf("config: %w: %v", ErrInvalidConfig, err)
	}
	if cfg.Connections < 1 {
		return fmt.Errorf("config: %w: at least one connection is required (%d)", ErrInvalidConfig, cfg.Connections)
	}
	if cfg.CanvasWidth == 0 || cfg.CanvasHeight == 0 {
		return fmt.Errorf("config: %w: canvas has no area (%dx%d)", ErrInvalidConfig, cfg.CanvasWidth, cfg.CanvasHeight)
	}
	return nil
}

func (cfg Config) String() string {
	return fmt.Sprintf("%s [%d connections] canvas %dx%d sprite %s restore=%v",
		cfg.Server, cfg.Connections, cfg.CanvasWidth, cfg.CanvasHeight, cfg.Area, cfg.Restore)
}
