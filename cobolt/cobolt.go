// Package cobolt contains code for operating Hübner Cobolt 06-01 series MLD
// diode lasers over their ASCII serial protocol.
//
// The wavelength, maximum power and maximum current have to be given to the
// constructor, since they cannot be retrieved from the device.
//
// Setters never send a value the laser should not receive.  A power or
// current outside [0, max], or a flag other than 0 or 1, is not sent and the
// setter returns a *RangeError or *FlagError matching ErrRejected, rather
// than dropping the call silently.
package cobolt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nasa-jpl/cobolt/comm"
	"github.com/nasa-jpl/cobolt/util"
)

// Instrument is the capability the laser needs from its transport.
// *comm.Resource satisfies it
type Instrument interface {
	// Query writes a command and returns one reply line, terminator stripped
	Query(string) (string, error)

	// Write writes a command, no reply is read
	Write(string) error
}

var (
	// ErrRejected is matched by every error for an input the laser refuses
	// to send, see FlagError and RangeError
	ErrRejected = errors.New("rejected input, nothing sent to laser")
)

// FlagError is returned when a 0/1 flag setter gets any other value
type FlagError struct {
	Param string
	Value int
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("cobolt: %s must be 0 or 1, got %d", e.Param, e.Value)
}

// Is makes errors.Is(err, ErrRejected) true
func (e *FlagError) Is(target error) bool { return target == ErrRejected }

// BadRequest marks the error as the caller's fault
func (e *FlagError) BadRequest() bool { return true }

// RangeError is returned when a setpoint is outside [0, max]
type RangeError struct {
	Param string
	Value float64
	Limit util.Limiter
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("cobolt: %s %g outside the allowed range %s", e.Param, e.Value, e.Limit)
}

// Is makes errors.Is(err, ErrRejected) true
func (e *RangeError) Is(target error) bool { return target == ErrRejected }

// BadRequest marks the error as the caller's fault
func (e *RangeError) BadRequest() bool { return true }

// MLD06 represents a Cobolt 06-01 MLD laser
type MLD06 struct {
	name       string
	addr       string
	wavelength float64
	power      util.Limiter
	current    util.Limiter

	inst Instrument
}

// NewMLD06 opens the laser at addr (e.g. "ASRL3::INSTR" or
// "ASRL/dev/ttyUSB0::INSTR") with the default line settings.
// maxPower is in Watts, maxCurrent in Amps, and wavelength in nm.
// The wavelength is only kept as a reminder and is never sent to the laser
func NewMLD06(name, addr string, maxPower, maxCurrent, wavelength float64) (*MLD06, error) {
	return NewMLD06WithConfig(name, addr, maxPower, maxCurrent, wavelength, comm.DefaultConfig())
}

// NewMLD06WithConfig is NewMLD06 with non-default line settings
func NewMLD06WithConfig(name, addr string, maxPower, maxCurrent, wavelength float64, cfg comm.Config) (*MLD06, error) {
	rsc, err := comm.OpenResource(addr, cfg)
	if err != nil {
		return nil, err
	}
	return newMLD06(name, addr, maxPower, maxCurrent, wavelength, rsc), nil
}

// NewMLD06WithInstrument creates a laser on top of an already open instrument,
// such as a MockInstrument
func NewMLD06WithInstrument(name string, inst Instrument, maxPower, maxCurrent, wavelength float64) *MLD06 {
	return newMLD06(name, "", maxPower, maxCurrent, wavelength, inst)
}

func newMLD06(name, addr string, maxPower, maxCurrent, wavelength float64, inst Instrument) *MLD06 {
	return &MLD06{
		name:       name,
		addr:       addr,
		wavelength: wavelength,
		power:      util.Limiter{Min: 0, Max: maxPower},
		current:    util.Limiter{Min: 0, Max: maxCurrent},
		inst:       inst,
	}
}

// Name returns the user assigned label of the laser
func (l *MLD06) Name() string { return l.name }

// Address returns the resource locator the laser was opened with
func (l *MLD06) Address() string { return l.addr }

// Wavelength returns the wavelength in nm given at construction
func (l *MLD06) Wavelength() float64 { return l.wavelength }

// MaxPower returns the maximum power in W
func (l *MLD06) MaxPower() float64 { return l.power.Max }

// MaxCurrent returns the maximum current in A
func (l *MLD06) MaxCurrent() float64 { return l.current.Max }

// Close releases the connection, if the instrument can be closed
func (l *MLD06) Close() error {
	if c, ok := l.inst.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (l *MLD06) readInt(cmd string) (int, error) {
	resp, err := l.inst.Query(cmd)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(resp))
}

func (l *MLD06) readFloat(cmd string) (float64, error) {
	resp, err := l.inst.Query(cmd)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(resp), 64)
}

func (l *MLD06) writeFlag(param, format string, v int) error {
	if v != 0 && v != 1 {
		return &FlagError{Param: param, Value: v}
	}
	return l.inst.Write(fmt.Sprintf(format, v))
}

// GetStatus returns 1 if the laser is emitting, else 0
func (l *MLD06) GetStatus() (int, error) {
	return l.readInt("l?")
}

// SetStatus turns emission on (1) or off (0)
func (l *MLD06) SetStatus(status int) error {
	return l.writeFlag("status", "l%d", status)
}

// GetAnalogModulationState returns 1 if analog modulation is enabled
func (l *MLD06) GetAnalogModulationState() (int, error) {
	return l.readInt("games?")
}

// SetAnalogModulationState enables (1) or disables (0) analog modulation
func (l *MLD06) SetAnalogModulationState(state int) error {
	return l.writeFlag("analog modulation state", "sames %d", state)
}

// GetDigitalModulationState returns 1 if digital modulation is enabled
func (l *MLD06) GetDigitalModulationState() (int, error) {
	return l.readInt("gdmes?")
}

// SetDigitalModulationState enables (1) or disables (0) digital modulation
func (l *MLD06) SetDigitalModulationState(state int) error {
	// TODO: the 06-01 manual lists sdmes for this; confirm on hardware and
	// switch, sames is what the lab has been sending
	return l.writeFlag("digital modulation state", "sames %d", state)
}

// GetPower returns the output power setpoint in W
func (l *MLD06) GetPower() (float64, error) {
	return l.readFloat("p?")
}

// SetPower sets the output power setpoint in W.  Values outside
// [0, MaxPower] are not sent and a *RangeError is returned
func (l *MLD06) SetPower(power float64) error {
	if !l.power.Check(power) {
		return &RangeError{Param: "power", Value: power, Limit: l.power}
	}
	return l.inst.Write(fmt.Sprintf("p %.3f", power))
}

// GetCurrent returns the drive current setpoint in A
func (l *MLD06) GetCurrent() (float64, error) {
	return l.readFloat("glc?")
}

// SetCurrent sets the drive current setpoint in A.  Values outside
// [0, MaxCurrent] are not sent and a *RangeError is returned
func (l *MLD06) SetCurrent(current float64) error {
	if !l.current.Check(current) {
		return &RangeError{Param: "current", Value: current, Limit: l.current}
	}
	return l.inst.Write(fmt.Sprintf("slc %.2f", current))
}

// GetOperatingMode returns the raw reply to gom?, see ParseOperatingMode
func (l *MLD06) GetOperatingMode() (string, error) {
	return l.inst.Query("gom?")
}

// GetInterlockState returns the raw reply to ilk?, see ParseInterlock
func (l *MLD06) GetInterlockState() (string, error) {
	return l.inst.Query("ilk?")
}

// GetOperatingFault returns the raw reply to f?, see ParseFault
func (l *MLD06) GetOperatingFault() (string, error) {
	return l.inst.Query("f?")
}

// GetSerialNumber returns the serial number of the laser head
func (l *MLD06) GetSerialNumber() (int, error) {
	return l.readInt("gsn?")
}

// GetHeadOperatingHours returns the operating hours of the laser head
func (l *MLD06) GetHeadOperatingHours() (float64, error) {
	return l.readFloat("hrs?")
}

// LaserOnForceAutostart restarts the autostart sequence if autostart is
// enabled, otherwise the laser goes through a forced autostart sequence
func (l *MLD06) LaserOnForceAutostart() error {
	return l.inst.Write("@cob1")
}

// LaserOff aborts the start-up sequence if autostart is enabled,
// otherwise the laser goes directly to OFF
func (l *MLD06) LaserOff() error {
	return l.inst.Write("@cob0")
}

// EnterConstantPowerMode switches the control loop to constant power
func (l *MLD06) EnterConstantPowerMode() error {
	return l.inst.Write("cp")
}

// EnterConstantCurrentMode switches the control loop to constant current
func (l *MLD06) EnterConstantCurrentMode() error {
	return l.inst.Write("ci")
}

// EnterModulationMode makes the output follow the modulation inputs
func (l *MLD06) EnterModulationMode() error {
	return l.inst.Write("em")
}

// ReadActualOutputPower returns the measured output power in W
func (l *MLD06) ReadActualOutputPower() (float64, error) {
	return l.readFloat("pa?")
}

// ReadActualLaserCurrent returns the measured drive current in mA
func (l *MLD06) ReadActualLaserCurrent() (float64, error) {
	return l.readFloat("rlc")
}

// ClearFault clears the latched fault
func (l *MLD06) ClearFault() error {
	return l.inst.Write("cf")
}

// SetEmission turns emission on or off
func (l *MLD06) SetEmission(on bool) error {
	if on {
		return l.SetStatus(1)
	}
	return l.SetStatus(0)
}

// GetEmission queries if the laser is currently emitting
func (l *MLD06) GetEmission() (bool, error) {
	s, err := l.GetStatus()
	return s == 1, err
}

// replyingCommands produce a reply without a question mark
var replyingCommands = map[string]bool{"rlc": true}

// Raw sends a command and retrieves the reply if it is a query
// (contains a question mark, or is rlc), else returns "", err
func (l *MLD06) Raw(cmd string) (string, error) {
	if strings.Contains(cmd, "?") || replyingCommands[strings.TrimSpace(cmd)] {
		return l.inst.Query(cmd)
	}
	return "", l.inst.Write(cmd)
}
