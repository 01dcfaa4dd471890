// Package laser exposes control of laser controllers over HTTP
package laser

import (
	"net/http"

	"github.com/nasa-jpl/cobolt/generichttp"
)

// Controller is a basic interface for laser controllers
type Controller interface {
	// SetEmission turns emission on or off
	SetEmission(bool) error

	// GetEmission queries if the laser is currently outputting
	GetEmission() (bool, error)
}

// SetEmission configures the output state of the laser
func SetEmission(c Controller) http.HandlerFunc {
	return generichttp.SetBool(c.SetEmission)
}

// GetEmission queries the output state of the laser
func GetEmission(c Controller) http.HandlerFunc {
	return generichttp.GetBool(c.GetEmission)
}

// CurrentController can control its output current
type CurrentController interface {
	// SetCurrent sets the output current setpoint of the controller
	SetCurrent(float64) error

	// GetCurrent retrieves the output current setpoint of the controller
	GetCurrent() (float64, error)
}

// SetCurrent configures the output current of the laser
func SetCurrent(c CurrentController) http.HandlerFunc {
	return generichttp.SetFloat(c.SetCurrent)
}

// GetCurrent queries the output current of the laser
func GetCurrent(c CurrentController) http.HandlerFunc {
	return generichttp.GetFloat(c.GetCurrent)
}

// PowerController can control its output power
type PowerController interface {
	// SetPower sets the output power level of the the device
	SetPower(float64) error

	// GetPower retrieves the output power level of the device
	GetPower() (float64, error)
}

// SetPower configures the output power of the laser
func SetPower(c PowerController) http.HandlerFunc {
	return generichttp.SetFloat(c.SetPower)
}

// GetPower queries the output power of the laser
func GetPower(c PowerController) http.HandlerFunc {
	return generichttp.GetFloat(c.GetPower)
}

// HTTPLaserController wraps a LaserController in an HTTP route table
type HTTPLaserController struct {
	// Ctl is the underlying laser controller
	Ctl Controller

	// RouteTable maps URLs to functions
	RouteTable generichttp.RouteTable
}

// NewHTTPLaserController returns a new HTTP wrapper around an existing laser controller.
// Power and current routes are added if ctl satisfies PowerController or CurrentController
func NewHTTPLaserController(ctl Controller) HTTPLaserController {
	h := HTTPLaserController{Ctl: ctl}
	rt := generichttp.RouteTable{
		generichttp.MethodPath{Method: http.MethodGet, Path: "/emission"}:  GetEmission(ctl),
		generichttp.MethodPath{Method: http.MethodPost, Path: "/emission"}: SetEmission(ctl),
	}
	if currentctl, ok := interface{}(ctl).(CurrentController); ok {
		rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/current"}] = GetCurrent(currentctl)
		rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/current"}] = SetCurrent(currentctl)
	}
	if powerctl, ok := interface{}(ctl).(PowerController); ok {
		rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/power"}] = GetPower(powerctl)
		rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/power"}] = SetPower(powerctl)
	}
	h.RouteTable = rt
	return h
}

// RT safisfies the generichttp.HTTPer interface
func (h HTTPLaserController) RT() generichttp.RouteTable {
	return h.RouteTable
}
