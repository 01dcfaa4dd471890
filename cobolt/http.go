package cobolt

import (
	"net/http"

	"github.com/nasa-jpl/cobolt/generichttp"
	"github.com/nasa-jpl/cobolt/generichttp/ascii"
	"github.com/nasa-jpl/cobolt/generichttp/laser"
)

// Info is the static description of a laser
type Info struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Wavelength float64 `json:"wavelength"`
	MaxPower   float64 `json:"maxPower"`
	MaxCurrent float64 `json:"maxCurrent"`
}

// Info returns the identity and calibration of the laser
func (l *MLD06) Info() (Info, error) {
	return Info{
		Name:       l.name,
		Address:    l.addr,
		Wavelength: l.wavelength,
		MaxPower:   l.power.Max,
		MaxCurrent: l.current.Max,
	}, nil
}

// StatusReport is a Report with the mode, interlock, and fault codes decoded
type StatusReport struct {
	Report
	Decoded map[string]string `json:"decoded"`
}

// HTTPWrapper provides HTTP bindings on top of the underlying Go interface
type HTTPWrapper struct {
	// Laser is the underlying laser that is wrapped
	Laser *MLD06

	// RouteTable maps method-paths to http handlers
	RouteTable generichttp.RouteTable
}

// NewHTTPWrapper returns a new HTTP wrapper with the route table pre-configured
func NewHTTPWrapper(l *MLD06) HTTPWrapper {
	w := HTTPWrapper{Laser: l}
	rt := laser.NewHTTPLaserController(l).RT()

	get := func(path string, h http.HandlerFunc) {
		rt[generichttp.MethodPath{Method: http.MethodGet, Path: path}] = h
	}
	post := func(path string, h http.HandlerFunc) {
		rt[generichttp.MethodPath{Method: http.MethodPost, Path: path}] = h
	}

	get("/modulation/analog", generichttp.GetInt(l.GetAnalogModulationState))
	post("/modulation/analog", generichttp.SetInt(l.SetAnalogModulationState))
	get("/modulation/digital", generichttp.GetInt(l.GetDigitalModulationState))
	post("/modulation/digital", generichttp.SetInt(l.SetDigitalModulationState))

	get("/power/actual", generichttp.GetFloat(l.ReadActualOutputPower))
	get("/current/actual", generichttp.GetFloat(l.ReadActualLaserCurrent))

	get("/operating-mode", generichttp.GetString(l.GetOperatingMode))
	get("/interlock", generichttp.GetString(l.GetInterlockState))
	get("/fault", generichttp.GetString(l.GetOperatingFault))
	get("/serial-number", generichttp.GetInt(l.GetSerialNumber))
	get("/hours", generichttp.GetFloat(l.GetHeadOperatingHours))
	get("/status", generichttp.GetJSON(func() (interface{}, error) { return w.status() }))
	get("/info", generichttp.GetJSON(func() (interface{}, error) { return l.Info() }))

	post("/on", generichttp.Trigger(l.LaserOnForceAutostart))
	post("/off", generichttp.Trigger(l.LaserOff))
	post("/mode/constant-power", generichttp.Trigger(l.EnterConstantPowerMode))
	post("/mode/constant-current", generichttp.Trigger(l.EnterConstantCurrentMode))
	post("/mode/modulation", generichttp.Trigger(l.EnterModulationMode))
	post("/clear-fault", generichttp.Trigger(l.ClearFault))

	ascii.InjectRawComm(rt, l)
	w.RouteTable = rt
	return w
}

func (h HTTPWrapper) status() (StatusReport, error) {
	r, err := h.Laser.Status()
	if err != nil {
		return StatusReport{}, err
	}
	return StatusReport{Report: r, Decoded: r.Describe()}, nil
}

// RT satisfies the generichttp.HTTPer interface
func (h HTTPWrapper) RT() generichttp.RouteTable {
	return h.RouteTable
}
