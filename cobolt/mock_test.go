package cobolt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDemoSequence(t *testing.T) {
	l := NewMockMLD06("laser", 0.08, 250, 514)

	require.NoError(t, l.EnterConstantPowerMode())
	require.NoError(t, l.SetStatus(1))
	require.NoError(t, l.SetPower(0.03))

	on, err := l.GetEmission()
	require.NoError(t, err)
	assert.True(t, on)

	p, err := l.GetPower()
	require.NoError(t, err)
	assert.Equal(t, 0.03, p)

	pa, err := l.ReadActualOutputPower()
	require.NoError(t, err)
	assert.Equal(t, 0.03, pa)

	mode, err := l.GetOperatingMode()
	require.NoError(t, err)
	assert.Equal(t, "2", mode)

	require.NoError(t, l.SetStatus(0))
	pa, err = l.ReadActualOutputPower()
	require.NoError(t, err)
	assert.Zero(t, pa)
}

func TestMockCurrentInMilliamps(t *testing.T) {
	l := NewMockMLD06("laser", 0.08, 0.25, 514)
	require.NoError(t, l.SetCurrent(0.12))
	require.NoError(t, l.LaserOnForceAutostart())
	ma, err := l.ReadActualLaserCurrent()
	require.NoError(t, err)
	assert.Equal(t, 120., ma)
}

func TestMockFaults(t *testing.T) {
	m := NewMockInstrument(1, 0.08)
	l := NewMLD06WithInstrument("laser", m, 0.08, 250, 514)
	require.NoError(t, l.SetStatus(1))

	m.SetInterlock(InterlockOpen)
	on, err := l.GetEmission()
	require.NoError(t, err)
	assert.False(t, on, "an open interlock stops emission")

	f, err := l.GetOperatingFault()
	require.NoError(t, err)
	assert.Equal(t, "3", f)

	// cannot clear while the interlock is still open
	require.NoError(t, l.ClearFault())
	f, _ = l.GetOperatingFault()
	assert.Equal(t, "3", f)

	m.SetInterlock(InterlockOK)
	require.NoError(t, l.ClearFault())
	f, _ = l.GetOperatingFault()
	assert.Equal(t, "0", f)
	mode, _ := l.GetOperatingMode()
	assert.Equal(t, "0", mode)
}

func TestMockModulationFlags(t *testing.T) {
	m := NewMockInstrument(1, 0.08)
	require.NoError(t, m.Write("sdmes 1"))
	require.NoError(t, m.Write("sames 1"))
	resp, _ := m.Query("gdmes?")
	assert.Equal(t, "1", resp)
	resp, _ = m.Query("games?")
	assert.Equal(t, "1", resp)
	assert.Error(t, m.Write("sames 2"))
}

func TestMockUnknownCommands(t *testing.T) {
	m := NewMockInstrument(1, 0.08)
	resp, err := m.Query("xyz?")
	require.NoError(t, err)
	assert.Equal(t, SyntaxError, resp)
	assert.Error(t, m.Write("xyz"))
	assert.Error(t, m.Write("p abc"))
}
