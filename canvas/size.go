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

package canvas

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// QuerySize connects to the server and asks for the dimensions of the canvas.
// The connection is closed before returning.
func QuerySize(addr string) (uint32, uint32, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return 0, 0, fmt.Errorf("canvas: %w: %v", ErrConnect, err)
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, SizeCommand); err != nil {
		return 0, 0, fmt.Errorf("canvas: %w: %v", ErrConnect, err)
	}

	return ParseSize(conn)
}

// ParseSize reads a reply to the SIZE command from r. The reply is a single
// line of ASCII text. The first field of the line is ignored and the
// remaining two fields are the width and height of the canvas.
func ParseSize(r io.Reader) (uint32, uint32, error) {
	br := bufio.NewReader(r)

	var reply strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, 0, fmt.Errorf("canvas: %w: early end of stream", ErrSizeReply)
			}
			return 0, 0, fmt.Errorf("canvas: %w: %v", ErrSizeReply, err)
		}
		if b > 0x7f {
			return 0, 0, fmt.Errorf("canvas: %w: non-ascii byte (%#02x)", ErrSizeReply, b)
		}
		if b == '\n' {
			break
		}
		reply.WriteByte(b)
	}

	fields := strings.Fields(reply.String())
	if len(fields) != 3 {
		return 0, 0, fmt.Errorf("canvas: %w: %q", ErrSizeReply, reply.String())
	}

	width, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("canvas: %w: width: %v", ErrSizeReply, err)
	}
	height, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("canvas: %w: height: %v", ErrSizeReply, err)
	}

	return uint32(width), uint32(height), nil
}
