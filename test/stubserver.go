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

package test

import (
	"bufio"
	"net"
	"sync"
	"time"
)

// StubServer is a minimal canvas server listening on the loopback interface.
type StubServer struct {
	ln net.Listener

	// SizeReply is written in response to the SIZE command. If it is empty
	// the connection is closed without a reply.
	SizeReply string

	// DropAfter closes a connection after it has received that many lines.
	// Zero means that connections are never dropped by the server.
	DropAfter int

	mu          sync.Mutex
	lines       []string
	connections int
	conns       []net.Conn
	wg          sync.WaitGroup
}

// NewStubServer is the preferred method of initialisation for the StubServer
// type. The server must be started with Start() once the exported fields have
// been set.
func NewStubServer() (*StubServer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	return &StubServer{ln: ln}, nil
}

// Start accepting connections.
func (srv *StubServer) Start() {
	srv.wg.Add(1)
	go func() {
		defer srv.wg.Done()
		for {
			conn, err := srv.ln.Accept()
			if err != nil {
				return
			}
			srv.mu.Lock()
			srv.connections++
			srv.conns = append(srv.conns, conn)
			srv.mu.Unlock()

			srv.wg.Add(1)
			go srv.serve(conn)
		}
	}()
}

func (srv *StubServer) serve(conn net.Conn) {
	defer srv.wg.Done()
	defer conn.Close()

	received := 0
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()

		srv.mu.Lock()
		srv.lines = append(srv.lines, line)
		srv.mu.Unlock()

		if line == "SIZE" {
			if srv.SizeReply == "" {
				return
			}
			if _, err := conn.Write([]byte(srv.SizeReply)); err != nil {
				return
			}
		}

		received++
		if srv.DropAfter > 0 && received >= srv.DropAfter {
			return
		}
	}
}

// Addr returns the address the server is listening on.
func (srv *StubServer) Addr() string {
	return srv.ln.Addr().String()
}

// Lines returns a copy of every line received so far, over all connections.
func (srv *StubServer) Lines() []string {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	l := make([]string, len(srv.lines))
	copy(l, srv.lines)
	return l
}

// Connections returns the number of connections accepted so far.
func (srv *StubServer) Connections() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.connections
}

// WaitLines blocks until at least n lines have been received or until the
// timeout has elapsed. Returns true if the lines arrived in time.
func (srv *StubServer) WaitLines(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		srv.mu.Lock()
		l := len(srv.lines)
		srv.mu.Unlock()
		if l >= n {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

// Close the listener and every connection, and wait for the server goroutines
// to end.
func (srv *StubServer) Close() {
	srv.ln.Close()
	srv.mu.Lock()
	for _, c := range srv.conns {
		c.Close()
	}
	srv.mu.Unlock()
	srv.wg.Wait()
}
