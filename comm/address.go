package comm

import (
	"errors"
	"fmt"
	"net"
	"runtime"
	"strconv"
	"strings"
)

// ErrBadAddress is generated when a resource locator cannot be understood
var ErrBadAddress = errors.New("malformed resource address")

// Kind is the interface type of a resource
type Kind int

const (
	// Serial is an RS232 or USB virtual COM port
	Serial Kind = iota

	// TCP is a raw socket, e.g. a Digi portserver
	TCP
)

func (k Kind) String() string {
	switch k {
	case Serial:
		return "serial"
	case TCP:
		return "tcp"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Address is a parsed resource locator
type Address struct {
	Kind Kind

	// Path is the device file or COM name for Serial, host:port for TCP
	Path string
}

func (a Address) String() string {
	switch a.Kind {
	case TCP:
		host, port, err := net.SplitHostPort(a.Path)
		if err == nil {
			return "TCPIP::" + host + "::" + port + "::SOCKET"
		}
	}
	return "ASRL" + a.Path + "::INSTR"
}

/*ParseAddress understands the following forms:

	ASRL3::INSTR                      COM3 on windows, /dev/ttyS2 elsewhere
	ASRL/dev/ttyUSB0::INSTR           /dev/ttyUSB0
	TCPIP0::10.0.0.5::2006::SOCKET    10.0.0.5:2006
	/dev/ttyUSB0, COM3                serial port
	10.0.0.5:2006                     TCP socket

The ::INSTR suffix is optional and the prefixes are case insensitive
*/
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty", ErrBadAddress)
	}
	upper := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(upper, "ASRL"):
		return parseASRL(s)
	case strings.HasPrefix(upper, "TCPIP"):
		return parseTCPIP(s)
	case strings.HasPrefix(s, "/dev/"), isCOMPort(upper):
		return Address{Kind: Serial, Path: s}, nil
	}
	if _, _, err := net.SplitHostPort(s); err == nil {
		return Address{Kind: TCP, Path: s}, nil
	}
	return Address{}, fmt.Errorf("%w: %q", ErrBadAddress, s)
}

func parseASRL(s string) (Address, error) {
	body := s[len("ASRL"):]
	if idx := strings.Index(strings.ToUpper(body), "::"); idx >= 0 {
		if !strings.EqualFold(body[idx:], "::INSTR") {
			return Address{}, fmt.Errorf("%w: %q", ErrBadAddress, s)
		}
		body = body[:idx]
	}
	if body == "" {
		return Address{}, fmt.Errorf("%w: %q has no port", ErrBadAddress, s)
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		// ASRL/dev/ttyUSB0, ASRLCOM4
		return Address{Kind: Serial, Path: body}, nil
	}
	if n < 1 {
		return Address{}, fmt.Errorf("%w: serial port numbers begin at 1, got %d", ErrBadAddress, n)
	}
	if runtime.GOOS == "windows" {
		return Address{Kind: Serial, Path: "COM" + body}, nil
	}
	return Address{Kind: Serial, Path: "/dev/ttyS" + strconv.Itoa(n-1)}, nil
}

func parseTCPIP(s string) (Address, error) {
	pieces := strings.Split(s, "::")
	// TCPIP[board]::host::port::SOCKET
	if len(pieces) != 4 || !strings.EqualFold(pieces[3], "SOCKET") {
		return Address{}, fmt.Errorf("%w: %q, only raw sockets (::SOCKET) are supported", ErrBadAddress, s)
	}
	board := pieces[0][len("TCPIP"):]
	if board != "" {
		if _, err := strconv.Atoi(board); err != nil {
			return Address{}, fmt.Errorf("%w: bad board number in %q", ErrBadAddress, s)
		}
	}
	host, port := pieces[1], pieces[2]
	if host == "" {
		return Address{}, fmt.Errorf("%w: %q has no host", ErrBadAddress, s)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return Address{}, fmt.Errorf("%w: bad port in %q", ErrBadAddress, s)
	}
	return Address{Kind: TCP, Path: net.JoinHostPort(host, port)}, nil
}

// isCOMPort is true for COM1, COM12, ...
func isCOMPort(upper string) bool {
	if !strings.HasPrefix(upper, "COM") || len(upper) == 3 {
		return false
	}
	_, err := strconv.Atoi(upper[3:])
	return err == nil
}
