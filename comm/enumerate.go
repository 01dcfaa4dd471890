package comm

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// ResourceInfo describes a serial port found on the host
type ResourceInfo struct {
	// Locator is the ASRL resource string that opens this port
	Locator string `json:"locator" yaml:"Locator"`

	// Port is the OS name of the port
	Port string `json:"port" yaml:"Port"`

	IsUSB        bool   `json:"isUSB" yaml:"IsUSB"`
	VID          string `json:"vid,omitempty" yaml:"VID,omitempty"`
	PID          string `json:"pid,omitempty" yaml:"PID,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty" yaml:"SerialNumber,omitempty"`
	Product      string `json:"product,omitempty" yaml:"Product,omitempty"`
}

func (ri ResourceInfo) String() string {
	if !ri.IsUSB {
		return ri.Locator
	}
	return fmt.Sprintf("%s (USB %s:%s %s %s)", ri.Locator, ri.VID, ri.PID, ri.Product, ri.SerialNumber)
}

// ListResources returns the serial ports present on the host.
// Cobolt lasers with a USB connection enumerate as a virtual COM port
func ListResources() ([]ResourceInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	out := make([]ResourceInfo, 0, len(ports))
	for _, p := range ports {
		out = append(out, resourceInfo(p))
	}
	return out, nil
}

func resourceInfo(p *enumerator.PortDetails) ResourceInfo {
	return ResourceInfo{
		Locator:      Address{Kind: Serial, Path: p.Name}.String(),
		Port:         p.Name,
		IsUSB:        p.IsUSB,
		VID:          p.VID,
		PID:          p.PID,
		SerialNumber: p.SerialNumber,
		Product:      p.Product,
	}
}
