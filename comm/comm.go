/*Package comm provides a VISA-style line transport for communication with lab hardware.

Most usages of this package will boil down to:
	1.  open a Resource from an address such as "ASRL/dev/ttyUSB0::INSTR"
		or "TCPIP::192.168.100.123::2006::SOCKET"
	2.  adjust the Config if the device does not use the defaults
		(115200 baud 8N1, "\r\n" terminators, 3 second timeout)
	3.  call Query for commands that produce a reply and Write for those
		that do not

A minimal example is provided below for a temperature sensor that responds to
"RD?" with the current temperature

	import "strconv"

	func ReadTemp(addr string) (float64, error) {
		rsc, err := comm.OpenResource(addr, comm.DefaultConfig())
		if err != nil {
			return 0, err
		}
		defer rsc.Close()
		resp, err := rsc.Query("RD?")
		if err != nil {
			return 0, err
		}
		return strconv.ParseFloat(resp, 64)
	}
*/
package comm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/tarm/serial"
	"golang.org/x/time/rate"
)

var (
	// ErrNotConnected is generated when the connection has been closed and Query or Write is called.
	ErrNotConnected = errors.New("conn is nil, not connected to remote")

	// ErrTerminatorNotFound is generated when the termination sequence is not found in a response
	ErrTerminatorNotFound = errors.New("termination sequence not found")
)

// Config holds the line settings of a Resource
type Config struct {
	// Baud is the serial baud rate.  Ignored for TCP resources
	Baud int

	// Timeout bounds every read and write.  For TCP resources it also bounds
	// the connection attempt
	Timeout time.Duration

	// TxTerminator is appended to every command
	TxTerminator string

	// RxTerminator ends every reply and is stripped from it
	RxTerminator string

	// MinInterval is the minimum time between two commands.  Zero disables pacing
	MinInterval time.Duration
}

// DefaultConfig returns 115200 8N1, CRLF terminators, and a 3 second timeout
func DefaultConfig() Config {
	return Config{
		Baud:         115200,
		Timeout:      3 * time.Second,
		TxTerminator: "\r\n",
		RxTerminator: "\r\n",
	}
}

// deadliner is satisfied by net.Conn
type deadliner interface {
	SetDeadline(time.Time) error
}

/*Resource is an open connection to an instrument.

Query and Write are concurrent-safe; a query's write and read are never
interleaved with another caller's command
*/
type Resource struct {
	mu      sync.Mutex
	addr    Address
	cfg     Config
	conn    io.ReadWriteCloser
	rd      *bufio.Reader
	limiter *rate.Limiter

	// owed is set when a reply read fails; the device may still send it
	owed bool
}

// NewResource wraps an already open connection
func NewResource(conn io.ReadWriteCloser, cfg Config) *Resource {
	r := &Resource{
		cfg:  cfg,
		conn: conn,
		rd:   bufio.NewReader(conn),
	}
	if cfg.MinInterval > 0 {
		r.limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	return r
}

// OpenResource parses addr and opens the connection it describes.
// An error is returned if the resource cannot be opened
func OpenResource(addr string, cfg Config) (*Resource, error) {
	a, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	var conn io.ReadWriteCloser
	switch a.Kind {
	case Serial:
		conn, err = SerialConnMaker(SerialConf(a.Path, cfg))()
	case TCP:
		conn, err = BackingOffTCPConnMaker(a.Path, cfg.Timeout)()
	default:
		err = fmt.Errorf("%w: unsupported resource kind %v", ErrBadAddress, a.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", addr, err)
	}
	r := NewResource(conn, cfg)
	r.addr = a
	return r, nil
}

// Address returns the parsed address of the resource.  It is the zero value
// for resources made with NewResource
func (r *Resource) Address() Address {
	return r.addr
}

// Close the connection.  Subsequent Query and Write calls return ErrNotConnected
func (r *Resource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	r.rd = nil
	r.owed = false
	return err
}

// Write sends cmd followed by the Tx terminator.  No reply is read
func (r *Resource) Write(cmd string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.send(cmd)
}

// Query sends cmd followed by the Tx terminator, then returns one reply
// with the Rx terminator stripped.
//
// If the reply does not arrive in time, the next command first discards it
// (waiting up to Timeout), so a late reply is never taken as the answer to
// a later query
func (r *Resource) Query(cmd string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.send(cmd); err != nil {
		return "", err
	}
	resp, err := r.recv()
	if err != nil {
		r.owed = true
	}
	return resp, err
}

func (r *Resource) send(cmd string) error {
	if r.conn == nil {
		return ErrNotConnected
	}
	if r.owed {
		r.resync()
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(context.Background()); err != nil {
			return err
		}
	}
	r.setDeadline()
	_, err := io.WriteString(r.conn, cmd+r.cfg.TxTerminator)
	return err
}

func (r *Resource) recv() (string, error) {
	if r.conn == nil {
		return "", ErrNotConnected
	}
	r.setDeadline()
	return r.readLine()
}

// resync drops the reply owed by a failed read along with anything else
// already buffered
func (r *Resource) resync() {
	// without a deadline the wait could be forever
	if r.cfg.Timeout > 0 {
		r.setDeadline()
		r.readLine()
	}
	r.rd.Reset(r.conn)
	r.owed = false
}

func (r *Resource) readLine() (string, error) {
	term := r.cfg.RxTerminator
	if term == "" {
		term = "\n"
	}
	last := term[len(term)-1]
	var sb strings.Builder
	for {
		chunk, err := r.rd.ReadString(last)
		sb.WriteString(chunk)
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), ErrTerminatorNotFound
			}
			return sb.String(), err
		}
		if strings.HasSuffix(sb.String(), term) {
			return strings.TrimSuffix(sb.String(), term), nil
		}
	}
}

func (r *Resource) setDeadline() {
	if r.cfg.Timeout <= 0 {
		return
	}
	if d, ok := r.conn.(deadliner); ok {
		d.SetDeadline(time.Now().Add(r.cfg.Timeout))
	}
}

// CreationFunc is a function which returns a new "connection" to something
// a closure should be used to encapsulate the variables and functions needed
type CreationFunc func() (io.ReadWriteCloser, error)

// SerialConf makes a tarm/serial config for an 8N1 port at path
func SerialConf(path string, cfg Config) *serial.Config {
	return &serial.Config{
		Name:        path,
		Baud:        cfg.Baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: cfg.Timeout}
}

// SerialConnMaker returns a CreationFunc that opens the serial port described by conf
func SerialConnMaker(conf *serial.Config) CreationFunc {
	return func() (io.ReadWriteCloser, error) {
		return serial.OpenPort(conf)
	}
}

// BackingOffTCPConnMaker returns a CreationFunc that dials addr with an
// exponential backoff.  Refused connections are not retried
func BackingOffTCPConnMaker(addr string, timeout time.Duration) CreationFunc {
	return func() (io.ReadWriteCloser, error) {
		var conn net.Conn
		op := func() error {
			var err error
			conn, err = TCPSetup(addr, timeout)
			if err != nil {
				if strings.Contains(strings.ToLower(err.Error()), "refused") {
					return backoff.Permanent(err)
				}
				return err
			}
			return nil
		}
		err := backoff.Retry(op, &backoff.ExponentialBackOff{
			InitialInterval:     25 * time.Millisecond,
			RandomizationFactor: 0.,
			Multiplier:          2.,
			MaxInterval:         1 * time.Second,
			MaxElapsedTime:      3 * time.Second,
			Clock:               backoff.SystemClock})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// TCPSetup opens a new TCP connection with a timeout on connect
func TCPSetup(addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", addr, timeout)
}
