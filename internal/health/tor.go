package health

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"time"
)

// DefaultProbeTimeout bounds a single Tor proxy probe.
const DefaultProbeTimeout = 2 * time.Second

// SOCKS5 protocol constants.
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5CmdConnect   = 0x01
	socks5AddrTypeHost = 0x03

	// probeOnion does not exist. The proxy only has to answer the CONNECT,
	// success or failure alike.
	probeOnion = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa.onion"
	probePort  = 80
)

// DialFunc opens a connection; it has the signature of net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// TorProbe checks whether a Tor SOCKS5 proxy is listening.
type TorProbe struct {
	address string
	timeout time.Duration
	dial    DialFunc
}

// TorProbeOption configures a TorProbe.
type TorProbeOption func(*TorProbe)

// WithDialer replaces the TCP dialer.
func WithDialer(dial DialFunc) TorProbeOption {
	return func(p *TorProbe) {
		if dial != nil {
			p.dial = dial
		}
	}
}

// NewTorProbe creates a probe for the proxy at address ("host:port").
// A non-positive timeout selects DefaultProbeTimeout. Nothing is dialed
// until Check is called.
func NewTorProbe(address string, timeout time.Duration, opts ...TorProbeOption) (*TorProbe, error) {
	if !isValidProxyAddress(address) {
		return nil, ErrInvalidProxyAddress
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	var d net.Dialer
	p := &TorProbe{
		address: address,
		timeout: timeout,
		dial:    d.DialContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Address returns the probed proxy address.
func (p *TorProbe) Address() string {
	return p.address
}

// isValidProxyAddress checks for a non-empty host and a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// Check performs a SOCKS5 handshake followed by a CONNECT request for a
// non-existent onion service. Any well-formed reply, including a failure
// code, means the proxy is working.
func (p *TorProbe) Check(ctx context.Context) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(ctx, "tcp", p.address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return ProxyStatusCannotConnect
	}

	// Greeting: version, one method, no authentication.
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}
	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		return readFailure(err)
	}
	if authResp[0] != socks5Version || authResp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	req := []byte{socks5Version, socks5CmdConnect, 0x00, socks5AddrTypeHost, byte(len(probeOnion))}
	req = append(req, probeOnion...)
	req = append(req, byte(probePort>>8), byte(probePort&0xFF))
	if _, err := conn.Write(req); err != nil {
		return ProxyStatusCannotConnect
	}

	// version, reply, reserved, address type
	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		return readFailure(err)
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

func readFailure(err error) ProxyStatus {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ProxyStatusTimeout
	}
	return ProxyStatusWrongType
}
