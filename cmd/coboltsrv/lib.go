package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/nasa-jpl/cobolt/cobolt"
	"github.com/nasa-jpl/cobolt/comm"
	"github.com/nasa-jpl/cobolt/generichttp"
	"github.com/nasa-jpl/cobolt/server"
	"github.com/nasa-jpl/cobolt/server/middleware/locker"
)

// LaserSetup holds the arguments for a NewMLD06 call and the URL to serve it at
type LaserSetup struct {
	// Name is the label of the laser, e.g. "514nm"
	Name string `yaml:"Name" koanf:"Name"`

	// Addr holds the resource locator of the laser,
	// e.g. ASRL/dev/ttyUSB0::INSTR for a USB connected laser, or
	// TCPIP::192.168.100.123::2006::SOCKET for a laser on port 6 of a digi portserver
	Addr string `yaml:"Addr" koanf:"Addr"`

	// Endpoint is the full path the routes from this laser will be served on
	// ex. Endpoint="/omc/laser" will produce routes of /omc/laser/power, etc.
	Endpoint string `yaml:"Endpoint" koanf:"Endpoint"`

	// MaxPower is the maximum power of the laser in W
	MaxPower float64 `yaml:"MaxPower" koanf:"MaxPower"`

	// MaxCurrent is the maximum current of the laser in A
	MaxCurrent float64 `yaml:"MaxCurrent" koanf:"MaxCurrent"`

	// Wavelength is the wavelength of the laser in nm, for reference only
	Wavelength float64 `yaml:"Wavelength" koanf:"Wavelength"`

	// Baud is the serial baud rate, 115200 if zero
	Baud int `yaml:"Baud" koanf:"Baud"`

	// Timeout is the line timeout, 3s if zero
	Timeout time.Duration `yaml:"Timeout" koanf:"Timeout"`

	// MinInterval is the minimum spacing of commands, no pacing if zero
	MinInterval time.Duration `yaml:"MinInterval" koanf:"MinInterval"`
}

// LineConfig returns the comm configuration for the laser
func (ls LaserSetup) LineConfig() comm.Config {
	cfg := comm.DefaultConfig()
	if ls.Baud != 0 {
		cfg.Baud = ls.Baud
	}
	if ls.Timeout != 0 {
		cfg.Timeout = ls.Timeout
	}
	cfg.MinInterval = ls.MinInterval
	return cfg
}

// Config is a struct that holds the initialization parameters for the
// lasers to serve.  It is to be populated by a koanf unmarshal call.
type Config struct {
	// Addr is the address to listen at
	Addr string `yaml:"Addr" koanf:"Addr"`

	// Mock replaces every laser with a MockInstrument backed one
	Mock bool `yaml:"Mock" koanf:"Mock"`

	// Lasers is the list of lasers to set up
	Lasers []LaserSetup `yaml:"Lasers" koanf:"Lasers"`
}

// reservedStems are root routes a laser would shadow or be shadowed by
var reservedStems = map[string]bool{
	"/":          true,
	"/endpoints": true,
}

// Validate checks the config for missing or conflicting values
func (c Config) Validate() error {
	if len(c.Lasers) == 0 {
		return fmt.Errorf("no lasers configured")
	}
	seen := map[string]bool{}
	for i, ls := range c.Lasers {
		if ls.Endpoint == "" {
			return fmt.Errorf("laser %d (%s) has no Endpoint", i, ls.Name)
		}
		ep := generichttp.SubMuxSanitize(ls.Endpoint)
		if reservedStems[ep] {
			return fmt.Errorf("laser %d (%s) cannot be served at %s, it is reserved", i, ls.Name, ep)
		}
		if seen[ep] {
			return fmt.Errorf("endpoint %s is used by more than one laser", ep)
		}
		seen[ep] = true
		if !c.Mock && ls.Addr == "" {
			return fmt.Errorf("laser %d (%s) has no Addr", i, ls.Name)
		}
		if ls.MaxPower <= 0 || ls.MaxCurrent <= 0 {
			return fmt.Errorf("laser %d (%s) must have positive MaxPower and MaxCurrent", i, ls.Name)
		}
	}
	return nil
}

// OpenLasers opens every configured laser.  If any fails, the ones already
// opened are closed and the error is returned
func OpenLasers(c Config, logger log.FieldLogger) ([]*cobolt.MLD06, error) {
	out := make([]*cobolt.MLD06, 0, len(c.Lasers))
	for _, ls := range c.Lasers {
		lg := logger.WithFields(log.Fields{"laser": ls.Name, "addr": ls.Addr})
		var (
			l   *cobolt.MLD06
			err error
		)
		if c.Mock {
			l = cobolt.NewMockMLD06(ls.Name, ls.MaxPower, ls.MaxCurrent, ls.Wavelength)
			lg.Info("using mock laser")
		} else {
			l, err = cobolt.NewMLD06WithConfig(ls.Name, ls.Addr, ls.MaxPower, ls.MaxCurrent, ls.Wavelength, ls.LineConfig())
		}
		if err != nil {
			for _, opened := range out {
				opened.Close()
			}
			return nil, fmt.Errorf("laser %s: %w", ls.Name, err)
		}
		lg.WithField("wavelength", ls.Wavelength).Info("laser opened")
		out = append(out, l)
	}
	return out, nil
}

// BuildMux takes the configuration and the lasers opened from it (in the
// same order) and constructs a chi router with populated handlers.
// The router serves a special route, /endpoints, which returns a map of
// laser endpoint to the routes below it as JSON.
func BuildMux(c Config, lasers []*cobolt.MLD06, logger log.FieldLogger) chi.Router {
	root := chi.NewRouter()
	root.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	root.Use(middleware.Recoverer)
	supergraph := server.NewSupergraph()

	for i, l := range lasers {
		ls := c.Lasers[i]
		httper := cobolt.NewHTTPWrapper(l)

		// prepare the URL, "omc/laser" => "/omc/laser"
		hndlS := generichttp.SubMuxSanitize(ls.Endpoint)

		// add a lock interface for this laser
		lock := locker.New()
		locker.Inject(httper.RT(), lock)

		supergraph.Add(hndlS, httper.RT().Endpoints())

		r := chi.NewRouter()
		r.Use(lock.Check)
		httper.RT().Bind(r)
		root.Mount(hndlS, r)
		logger.WithFields(log.Fields{"laser": ls.Name, "endpoint": hndlS}).Info("routes bound")
	}
	root.Method(http.MethodGet, "/endpoints", supergraph)
	return root
}
