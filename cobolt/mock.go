package cobolt

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nasa-jpl/cobolt/util"
)

// SyntaxError is the reply of the laser to a command it does not know
const SyntaxError = "Syntax error: illegal command"

// MockInstrument emulates the command set of an MLD06 in memory
type MockInstrument struct {
	sync.Mutex

	emission     bool
	analogMod    int
	digitalMod   int
	power        float64
	current      float64 // A
	mode         OperatingMode
	fault        Fault
	interlock    Interlock
	serial       int
	hours        float64
	emittingFrom time.Time

	maxPower float64
}

// NewMockInstrument returns a mock laser with the given serial number,
// which saturates its output at maxPower
func NewMockInstrument(serial int, maxPower float64) *MockInstrument {
	return &MockInstrument{
		serial:   serial,
		maxPower: maxPower,
		mode:     ModeOff,
	}
}

// NewMockMLD06 creates a laser backed by a MockInstrument
func NewMockMLD06(name string, maxPower, maxCurrent, wavelength float64) *MLD06 {
	return NewMLD06WithInstrument(name, NewMockInstrument(1000+int(wavelength), maxPower), maxPower, maxCurrent, wavelength)
}

// SetFault latches a fault, as if the laser detected it.  The laser stops emitting
func (m *MockInstrument) SetFault(f Fault) {
	m.Lock()
	defer m.Unlock()
	m.fault = f
	if f != NoFault {
		m.stopEmission()
		m.mode = ModeFault
	}
}

// SetInterlock opens or closes the interlock.  Opening it latches FaultInterlock
func (m *MockInstrument) SetInterlock(i Interlock) {
	m.Lock()
	m.interlock = i
	m.Unlock()
	if i == InterlockOpen {
		m.SetFault(FaultInterlock)
	}
}

func (m *MockInstrument) startEmission() {
	if m.fault != NoFault || m.emission {
		return
	}
	m.emission = true
	m.emittingFrom = time.Now()
	if m.mode == ModeOff || m.mode == ModeAborted {
		m.mode = ModeContinuous
	}
}

func (m *MockInstrument) stopEmission() {
	if !m.emission {
		return
	}
	m.hours += time.Since(m.emittingFrom).Hours()
	m.emission = false
	if m.mode != ModeFault {
		m.mode = ModeOff
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Query answers a query the way the laser would
func (m *MockInstrument) Query(cmd string) (string, error) {
	m.Lock()
	defer m.Unlock()
	switch strings.TrimSpace(cmd) {
	case "l?":
		return strconv.Itoa(boolToInt(m.emission)), nil
	case "games?":
		return strconv.Itoa(m.analogMod), nil
	case "gdmes?":
		return strconv.Itoa(m.digitalMod), nil
	case "p?":
		return fmt.Sprintf("%.4f", m.power), nil
	case "glc?":
		return fmt.Sprintf("%.4f", m.current), nil
	case "gom?":
		return strconv.Itoa(int(m.mode)), nil
	case "ilk?":
		return strconv.Itoa(int(m.interlock)), nil
	case "f?":
		return strconv.Itoa(int(m.fault)), nil
	case "gsn?":
		return strconv.Itoa(m.serial), nil
	case "hrs?":
		h := m.hours
		if m.emission {
			h += time.Since(m.emittingFrom).Hours()
		}
		return fmt.Sprintf("%.2f", h), nil
	case "pa?":
		if !m.emission {
			return "0.0000", nil
		}
		out := util.Limiter{Min: 0, Max: m.maxPower}.Clamp(m.power)
		return fmt.Sprintf("%.4f", out), nil
	case "rlc":
		if !m.emission {
			return "0.0", nil
		}
		return fmt.Sprintf("%.1f", m.current*1e3), nil
	}
	return SyntaxError, nil
}

// Write executes a command the way the laser would
func (m *MockInstrument) Write(cmd string) error {
	m.Lock()
	defer m.Unlock()
	cmd = strings.TrimSpace(cmd)
	switch cmd {
	case "l1", "@cob1":
		m.startEmission()
		return nil
	case "l0", "@cob0":
		m.stopEmission()
		return nil
	case "cp", "ci":
		if m.emission {
			m.mode = ModeContinuous
		}
		return nil
	case "em":
		if m.emission {
			m.mode = ModeModulation
		}
		return nil
	case "cf":
		m.fault = NoFault
		if m.interlock == InterlockOpen {
			m.fault = FaultInterlock
			return nil
		}
		if m.mode == ModeFault {
			m.mode = ModeOff
		}
		return nil
	}
	fields := strings.Fields(cmd)
	if len(fields) != 2 {
		return fmt.Errorf("mock cobolt: %q is not a command", cmd)
	}
	switch fields[0] {
	case "p", "slc":
		f, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("mock cobolt: %q: %w", cmd, err)
		}
		if fields[0] == "p" {
			m.power = f
		} else {
			m.current = f
		}
		return nil
	case "sames", "sdmes":
		i, err := strconv.Atoi(fields[1])
		if err != nil || (i != 0 && i != 1) {
			return fmt.Errorf("mock cobolt: %q has a bad flag", cmd)
		}
		if fields[0] == "sames" {
			m.analogMod = i
		} else {
			m.digitalMod = i
		}
		return nil
	}
	return fmt.Errorf("mock cobolt: %q is not a command", cmd)
}
