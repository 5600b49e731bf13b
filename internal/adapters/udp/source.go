package udp

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/wsu-pmp/object-detection-node/internal/domain"
	"github.com/wsu-pmp/object-detection-node/pkg/log"
)

// maxDatagram bounds one detection frame on the wire. Frames carry at most a
// few dozen objects, so 64 KiB is generous.
const maxDatagram = 64 * 1024

// readDeadline is how often the receive loop wakes up to observe context
// cancellation.
const readDeadline = 250 * time.Millisecond

// Source implements ports.FrameSource over JSON datagrams.
// One datagram carries one detection frame.
type Source struct {
	conn   *net.UDPConn
	buf    []byte
	logger log.Logger
}

// NewSource opens a listening socket on addr (e.g. ":9301").
func NewSource(addr string, logger log.Logger) (*Source, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Source{
		conn:   conn,
		buf:    make([]byte, maxDatagram),
		logger: logger,
	}, nil
}

// Addr returns the bound local address.
func (s *Source) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Next blocks until a well-formed frame datagram arrives. Malformed
// datagrams are logged and skipped; they never fail the node.
func (s *Source) Next(ctx context.Context) (domain.ObjectFrame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.ObjectFrame{}, err
		}

		if err := s.conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
			return domain.ObjectFrame{}, fmt.Errorf("set read deadline: %w", err)
		}

		n, _, err := s.conn.ReadFromUDP(s.buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return domain.ObjectFrame{}, fmt.Errorf("read datagram: %w", err)
		}

		var r domain.FrameRecord
		if err := json.Unmarshal(s.buf[:n], &r); err != nil {
			s.logger.Warn("discarding malformed frame datagram",
				log.Int("bytes", n),
				log.Err(err),
			)
			continue
		}

		return r.ToFrame(), nil
	}
}

// Close releases the socket.
func (s *Source) Close() error {
	return s.conn.Close()
}
