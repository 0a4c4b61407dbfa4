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
	"fmt"
	"net"
	"time"

	"github.com/vidflood/vidflood/logger"
	"github.com/vidflood/vidflood/pixel"
)

// Dialer opens a new connection to the server. The net.Dial() function is a
// suitable Dialer.
type Dialer func(network string, address string) (net.Conn, error)

// the pause between failed attempts to reconnect to the server
const redialDelay = 100 * time.Millisecond

// Link is a persistent connection to the canvas server. It is the only
// writer to its connection.
type Link struct {
	id   int
	addr string
	dial Dialer
	conn net.Conn

	// number of commands written to the connection in a single call to
	// Write(). if a write fails then every command in the batch is written
	// again on the new connection
	batch int

	// command buffer is reused between batches
	cmd []byte
}

// NewLink is the preferred method of initialisation for the Link type. The
// id is used to identify the link in the log. The first connection is made
// immediately and failure to connect is returned as an error.
//
// A nil dialer is the same as using net.Dial.
func NewLink(addr string, id int, dial Dialer) (*Link, error) {
	if dial == nil {
		dial = net.Dial
	}

	l := &Link{
		id:    id,
		addr:  addr,
		dial:  dial,
		batch: 1,
	}

	conn, err := l.connect()
	if err != nil {
		return nil, fmt.Errorf("canvas: link %d: %w: %v", id, ErrConnect, err)
	}
	l.conn = conn

	return l, nil
}

// SetBatch changes the number of commands written to the connection at once.
// Values less than one are treated as one.
func (l *Link) SetBatch(batch int) {
	if batch < 1 {
		batch = 1
	}
	l.batch = batch
}

func (l *Link) String() string {
	return fmt.Sprintf("link %d [%s]", l.id, l.addr)
}

func (l *Link) connect() (net.Conn, error) {
	conn, err := l.dial("tcp", l.addr)
	if err != nil {
		return nil, err
	}

	// commands are tiny. leave it to the kernel to coalesce them into packets
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(false)
	}

	return conn, nil
}

// reconnect discards the current connection and dials the server until a new
// connection is made.
func (l *Link) reconnect() {
	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
	}

	for {
		conn, err := l.connect()
		if err == nil {
			l.conn = conn
			return
		}
		logger.Logf(logger.Allow, "canvas", "link %d: reconnect: %v", l.id, err)
		time.Sleep(redialDelay)
	}
}

// write sends the bytes to the server, reconnecting and writing again until
// the write succeeds. Returns the number of failed attempts.
func (l *Link) write(b []byte) int {
	var errors int
	for {
		_, err := l.conn.Write(b)
		if err == nil {
			return errors
		}
		errors++
		logger.Logf(logger.Allow, "canvas", "link %d: write: %v", l.id, err)
		l.reconnect()
	}
}

// Paint writes every pixel owned by the shard to the server. The shard is
// made up of the pixels at index, index+count, index+2*count and so on.
//
// Paint only returns once every pixel in the shard has been written. The
// return value is the number of writes that failed along the way.
func (l *Link) Paint(buf pixel.Buffer, index int, count int) int {
	if count < 1 {
		count = 1
	}

	var errors int
	var pending int

	l.cmd = l.cmd[:0]
	for i := index; i < len(buf); i += count {
		l.cmd = AppendCommand(l.cmd, buf[i])
		pending++
		if pending >= l.batch {
			errors += l.write(l.cmd)
			l.cmd = l.cmd[:0]
			pending = 0
		}
	}

	if pending > 0 {
		errors += l.write(l.cmd)
		l.cmd = l.cmd[:0]
	}

	return errors
}

// Close the connection to the server.
func (l *Link) Close() error {
	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	return err
}
