package comm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func TestResourceInfo(t *testing.T) {
	tests := []struct {
		name   string
		in     enumerator.PortDetails
		want   ResourceInfo
		pretty string
	}{
		{
			name:   "onboard",
			in:     enumerator.PortDetails{Name: "/dev/ttyS0"},
			want:   ResourceInfo{Locator: "ASRL/dev/ttyS0::INSTR", Port: "/dev/ttyS0"},
			pretty: "ASRL/dev/ttyS0::INSTR",
		},
		{
			name: "usb laser",
			in: enumerator.PortDetails{
				Name: "/dev/ttyACM0", IsUSB: true, VID: "25dc", PID: "0006",
				SerialNumber: "22345", Product: "Cobolt Laser",
			},
			want: ResourceInfo{
				Locator: "ASRL/dev/ttyACM0::INSTR", Port: "/dev/ttyACM0", IsUSB: true,
				VID: "25dc", PID: "0006", SerialNumber: "22345", Product: "Cobolt Laser",
			},
			pretty: "ASRL/dev/ttyACM0::INSTR (USB 25dc:0006 Cobolt Laser 22345)",
		},
		{
			name:   "windows",
			in:     enumerator.PortDetails{Name: "COM4"},
			want:   ResourceInfo{Locator: "ASRLCOM4::INSTR", Port: "COM4"},
			pretty: "ASRLCOM4::INSTR",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			got := resourceInfo(&in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.pretty, got.String())

			// the locator opens the same port
			a, err := ParseAddress(got.Locator)
			require.NoError(t, err)
			assert.Equal(t, Address{Kind: Serial, Path: tc.in.Name}, a)
		})
	}
}
