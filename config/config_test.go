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

package config_test

import (
	"errors"
	"testing"

	"github.com/vidflood/vidflood/config"
	"github.com/vidflood/vidflood/pixel"
	"github.com/vidflood/vidflood/test"
)

func TestValidate(t *testing.T) {
	cfg := config.Config{
		Server:       "localhost:1337",
		Connections:  4,
		CanvasWidth:  800,
		CanvasHeight: 600,
		Area:         pixel.Area{SizeX: 10, SizeY: 10},
	}
	test.ExpectSuccess(t, cfg.Validate())

	bad := cfg
	bad.Server = ""
	test.ExpectSuccess(t, errors.Is(bad.Validate(), config.ErrInvalidConfig))

	bad = cfg
	bad.Server = "localhost"
	test.ExpectSuccess(t, errors.Is(bad.Validate(), config.ErrInvalidConfig))

	bad = cfg
	bad.Connections = 0
	test.ExpectSuccess(t, errors.Is(bad.Validate(), config.ErrInvalidConfig))

	bad = cfg
	bad.CanvasHeight = 0
	test.ExpectSuccess(t, errors.Is(bad.Validate(), config.ErrInvalidConfig))
}
