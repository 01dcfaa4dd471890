package cobolt

import (
	"strconv"
	"strings"
)

// OperatingMode is the numeric reply to gom?
type OperatingMode int

const (
	ModeOff OperatingMode = iota
	ModeWaitingForKey
	ModeContinuous
	ModeOnOffModulation
	ModeModulation
	ModeFault
	ModeAborted
)

var operatingModes = map[OperatingMode]string{
	ModeOff:             "Off",
	ModeWaitingForKey:   "Waiting for key",
	ModeContinuous:      "Continuous",
	ModeOnOffModulation: "On/Off Modulation",
	ModeModulation:      "Modulation",
	ModeFault:           "Fault",
	ModeAborted:         "Aborted",
}

func (m OperatingMode) String() string {
	if s, ok := operatingModes[m]; ok {
		return s
	}
	return "unknown operating mode " + strconv.Itoa(int(m))
}

// ParseOperatingMode decodes a reply to gom?
func ParseOperatingMode(resp string) (OperatingMode, error) {
	i, err := strconv.Atoi(strings.TrimSpace(resp))
	return OperatingMode(i), err
}

// Fault is the numeric reply to f?
type Fault int

const (
	NoFault Fault = 0
	// FaultTemperature is a TEC temperature error
	FaultTemperature Fault = 1
	// FaultInterlock is an open interlock
	FaultInterlock Fault = 3
	// FaultConstantPowerTimeout means the constant power loop could not reach the setpoint in time
	FaultConstantPowerTimeout Fault = 4
)

var faults = map[Fault]string{
	NoFault:                   "no fault",
	FaultTemperature:          "temperature error",
	FaultInterlock:            "interlock open",
	FaultConstantPowerTimeout: "constant power time out",
}

func (f Fault) String() string {
	if s, ok := faults[f]; ok {
		return s
	}
	return "unknown fault " + strconv.Itoa(int(f))
}

// ParseFault decodes a reply to f?
func ParseFault(resp string) (Fault, error) {
	i, err := strconv.Atoi(strings.TrimSpace(resp))
	return Fault(i), err
}

// Interlock is the numeric reply to ilk?
type Interlock int

const (
	InterlockOK Interlock = iota
	InterlockOpen
)

func (i Interlock) String() string {
	switch i {
	case InterlockOK:
		return "OK"
	case InterlockOpen:
		return "open"
	}
	return "unknown interlock state " + strconv.Itoa(int(i))
}

// ParseInterlock decodes a reply to ilk?
func ParseInterlock(resp string) (Interlock, error) {
	i, err := strconv.Atoi(strings.TrimSpace(resp))
	return Interlock(i), err
}

// Report is a snapshot of every readable value of the laser
type Report struct {
	Emission          int     `json:"emission"`
	AnalogModulation  int     `json:"analogModulation"`
	DigitalModulation int     `json:"digitalModulation"`
	Power             float64 `json:"power"`
	Current           float64 `json:"current"`
	ActualPower       float64 `json:"actualPower"`
	ActualCurrentMA   float64 `json:"actualCurrentMilliamps"`
	OperatingMode     string  `json:"operatingMode"`
	Interlock         string  `json:"interlock"`
	Fault             string  `json:"fault"`
	SerialNumber      int     `json:"serialNumber"`
	HeadHours         float64 `json:"headHours"`
}

// Describe fills in human readable names for the mode, interlock, and fault
// codes.  Replies that are not integers are passed through
func (r Report) Describe() map[string]string {
	out := map[string]string{
		"operatingMode": r.OperatingMode,
		"interlock":     r.Interlock,
		"fault":         r.Fault,
	}
	if m, err := ParseOperatingMode(r.OperatingMode); err == nil {
		out["operatingMode"] = m.String()
	}
	if i, err := ParseInterlock(r.Interlock); err == nil {
		out["interlock"] = i.String()
	}
	if f, err := ParseFault(r.Fault); err == nil {
		out["fault"] = f.String()
	}
	return out
}

// Status queries everything in a Report.  The first error aborts it
func (l *MLD06) Status() (Report, error) {
	var (
		r   Report
		err error
	)
	ints := []struct {
		dst *int
		fcn func() (int, error)
	}{
		{&r.Emission, l.GetStatus},
		{&r.AnalogModulation, l.GetAnalogModulationState},
		{&r.DigitalModulation, l.GetDigitalModulationState},
		{&r.SerialNumber, l.GetSerialNumber},
	}
	for _, q := range ints {
		if *q.dst, err = q.fcn(); err != nil {
			return r, err
		}
	}
	floats := []struct {
		dst *float64
		fcn func() (float64, error)
	}{
		{&r.Power, l.GetPower},
		{&r.Current, l.GetCurrent},
		{&r.ActualPower, l.ReadActualOutputPower},
		{&r.ActualCurrentMA, l.ReadActualLaserCurrent},
		{&r.HeadHours, l.GetHeadOperatingHours},
	}
	for _, q := range floats {
		if *q.dst, err = q.fcn(); err != nil {
			return r, err
		}
	}
	strs := []struct {
		dst *string
		fcn func() (string, error)
	}{
		{&r.OperatingMode, l.GetOperatingMode},
		{&r.Interlock, l.GetInterlockState},
		{&r.Fault, l.GetOperatingFault},
	}
	for _, q := range strs {
		if *q.dst, err = q.fcn(); err != nil {
			return r, err
		}
	}
	return r, nil
}
