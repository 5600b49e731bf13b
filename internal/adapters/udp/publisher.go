package udp

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/wsu-pmp/object-detection-node/internal/domain"
)

// Publisher sends JSON datagrams to a fixed destination address. It backs
// both output ports; construct one per output channel.
type Publisher struct {
	conn *net.UDPConn
}

// NewPublisher dials the destination address (e.g. "127.0.0.1:9302").
func NewPublisher(addr string) (*Publisher, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Publisher{conn: conn}, nil
}

// PublishObjects sends one filtered frame as a single datagram.
func (p *Publisher) PublishObjects(ctx context.Context, frame domain.ObjectFrame) error {
	return p.send(ctx, frame.ToRecord())
}

// PublishMarkers sends one marker set as a single datagram.
func (p *Publisher) PublishMarkers(ctx context.Context, set domain.MarkerSet) error {
	return p.send(ctx, set.ToRecord())
}

func (p *Publisher) send(ctx context.Context, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if _, err := p.conn.Write(b); err != nil {
		return fmt.Errorf("send datagram: %w", err)
	}
	return nil
}

// Close releases the socket.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
