package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func mockConfig() Config {
	return Config{
		Addr: ":0",
		Mock: true,
		Lasers: []LaserSetup{
			{Name: "514nm", Endpoint: "omc/laser/514/*", MaxPower: 0.08, MaxCurrent: 250, Wavelength: 514},
			{Name: "640nm", Endpoint: "/omc/laser/640", MaxPower: 0.1, MaxCurrent: 300, Wavelength: 640},
		},
	}
}

func newMockServer(t *testing.T) *httptest.Server {
	t.Helper()
	c := mockConfig()
	require.NoError(t, c.Validate())
	lasers, err := OpenLasers(c, quietLogger())
	require.NoError(t, err)
	srv := httptest.NewServer(BuildMux(c, lasers, quietLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())

	c := mockConfig()
	c.Lasers[1].Endpoint = "/omc/laser/514/"
	assert.ErrorContains(t, c.Validate(), "more than one")

	c = mockConfig()
	c.Mock = false
	assert.ErrorContains(t, c.Validate(), "no Addr")

	c = mockConfig()
	c.Lasers[0].MaxPower = 0
	assert.Error(t, c.Validate())
}

func TestValidateRejectsReservedEndpoints(t *testing.T) {
	for _, ep := range []string{"endpoints", "/endpoints/", "/endpoints/*", "/", "*"} {
		c := mockConfig()
		c.Lasers[0].Endpoint = ep
		assert.ErrorContains(t, c.Validate(), "reserved", ep)
	}
}

func TestLineConfigDefaults(t *testing.T) {
	cfg := LaserSetup{}.LineConfig()
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, 3*time.Second, cfg.Timeout)

	cfg = LaserSetup{Baud: 9600, Timeout: time.Second, MinInterval: 50 * time.Millisecond}.LineConfig()
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, 50*time.Millisecond, cfg.MinInterval)
}

func TestOpenLasersFailsOnBadAddress(t *testing.T) {
	c := mockConfig()
	c.Mock = false
	c.Lasers[0].Addr = "bogus"
	c.Lasers[1].Addr = "bogus"
	_, err := OpenLasers(c, quietLogger())
	assert.ErrorContains(t, err, "514nm")
}

func TestMuxRoutesPerLaser(t *testing.T) {
	srv := newMockServer(t)

	resp, err := http.Post(srv.URL+"/omc/laser/514/power", "application/json", strings.NewReader(`{"f64": 0.05}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/omc/laser/640/serial-number")
	require.NoError(t, err)
	var sn struct {
		Int int `json:"int"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sn))
	resp.Body.Close()
	assert.Equal(t, 1640, sn.Int)

	resp, err = http.Get(srv.URL + "/omc/laser/514/power")
	require.NoError(t, err)
	var p struct {
		F64 float64 `json:"f64"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	resp.Body.Close()
	assert.Equal(t, 0.05, p.F64)
}

func TestMuxSupergraph(t *testing.T) {
	srv := newMockServer(t)
	resp, err := http.Get(srv.URL + "/endpoints")
	require.NoError(t, err)
	defer resp.Body.Close()
	var graph map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&graph))
	require.Contains(t, graph, "/omc/laser/514")
	require.Contains(t, graph, "/omc/laser/640")
	assert.Contains(t, graph["/omc/laser/514"], "POST /lock")
	assert.Contains(t, graph["/omc/laser/514"], "GET /status")
}

func TestMuxLockIsPerLaser(t *testing.T) {
	srv := newMockServer(t)
	resp, err := http.Post(srv.URL+"/omc/laser/514/lock", "application/json", strings.NewReader(`{"bool": true}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/omc/laser/514/on", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusLocked, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/omc/laser/640/on", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/omc/laser/514/lock")
	require.NoError(t, err)
	var b struct {
		Bool bool `json:"bool"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	resp.Body.Close()
	assert.True(t, b.Bool)
}
