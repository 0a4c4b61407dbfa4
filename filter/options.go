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

package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vidflood/vidflood/colors"
	"github.com/vidflood/vidflood/config"
	"github.com/vidflood/vidflood/logger"
	"github.com/vidflood/vidflood/random"
)

// ErrInvalidOption is returned when a filter is given a malformed parameter
// or when the filter order cannot be understood.
var ErrInvalidOption = errors.New("invalid filter option")

// List of filter names as used in the order option.
const (
	NameRainbow = "rainbow"
	NameBounce  = "bounce"
	NameBlend   = "blend"
	NameGlitch  = "glitch"
)

// DefaultOrder is the order filters are applied in if no order is specified.
var DefaultOrder = []string{NameRainbow, NameBounce, NameBlend, NameGlitch}

// Options selects and parameterises the filters. An empty string leaves the
// filter disabled.
type Options struct {
	// alpha of the rainbow color as a two digit hex value
	Rainbow string

	// speed bias of the bounce as a signed eight bit integer
	Bounce string

	// color to blend as rrggbbaa
	Blend string

	// glitch factor. must be one or more
	Glitch string

	// comma separated list of filter names. enabled filters that are not
	// named are applied after the named filters, in the default order
	Order string
}

// parseOrder returns the full list of filter names in the order they should
// be applied
func parseOrder(order string) ([]string, error) {
	if strings.TrimSpace(order) == "" {
		return DefaultOrder, nil
	}

	var names []string
	seen := make(map[string]bool)

	for _, n := range strings.Split(order, ",") {
		n = strings.ToLower(strings.TrimSpace(n))
		switch n {
		case NameRainbow, NameBounce, NameBlend, NameGlitch:
		default:
			return nil, fmt.Errorf("filter: %w: unknown filter %q in order", ErrInvalidOption, n)
		}
		if seen[n] {
			return nil, fmt.Errorf("filter: %w: %q appears more than once in order", ErrInvalidOption, n)
		}
		seen[n] = true
		names = append(names, n)
	}

	for _, n := range DefaultOrder {
		if !seen[n] {
			names = append(names, n)
		}
	}

	return names, nil
}

// Build the filter chain described by the options. The configuration must
// have the canvas size and sprite area filled in.
func Build(opts Options, cfg config.Config, rnd *random.Random) (Chain, error) {
	order, err := parseOrder(opts.Order)
	if err != nil {
		return nil, err
	}

	var chain Chain

	for _, n := range order {
		var f Filter

		switch n {
		case NameRainbow:
			if opts.Rainbow == "" {
				continue
			}
			alpha, err := colors.ParseByte(opts.Rainbow)
			if err != nil {
				return nil, fmt.Errorf("filter: %w: rainbow: %w", ErrInvalidOption, err)
			}
			f = NewRainbow(alpha, DefaultRainbowSpeed)

		case NameBounce:
			if opts.Bounce == "" {
				continue
			}
			speed, err := strconv.ParseInt(opts.Bounce, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("filter: %w: bounce: speed %q is not an eight bit integer", ErrInvalidOption, opts.Bounce)
			}
			f = NewBounce(cfg, int(speed), rnd)

		case NameBlend:
			if opts.Blend == "" {
				continue
			}
			col, err := colors.ParseRGBA(opts.Blend)
			if err != nil {
				return nil, fmt.Errorf("filter: %w: blend: %w", ErrInvalidOption, err)
			}
			f = NewBlend(col)

		case NameGlitch:
			if opts.Glitch == "" {
				continue
			}
			factor, err := strconv.ParseUint(opts.Glitch, 10, 31)
			if err != nil {
				return nil, fmt.Errorf("filter: %w: glitch: factor %q is not a positive integer", ErrInvalidOption, opts.Glitch)
			}
			f, err = NewGlitch(cfg, int(factor), rnd.Uint64())
			if err != nil {
				return nil, fmt.Errorf("filter: %w", err)
			}
		}

		logger.Logf(logger.Allow, "filter", "%v", f)
		chain = append(chain, f)
	}

	return chain, nil
}
