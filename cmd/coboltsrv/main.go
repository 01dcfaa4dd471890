package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	log "github.com/sirupsen/logrus"

	yml "gopkg.in/yaml.v2"

	"github.com/nasa-jpl/cobolt/comm"
	"github.com/nasa-jpl/cobolt/server"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "coboltsrv.yml"
	k              = koanf.New(".")
)

func setupconfig() {
	k.Load(structs.Provider(Config{
		Addr: ":8000",
		Lasers: []LaserSetup{{
			Name:       "514nm",
			Addr:       "ASRL/dev/ttyUSB0::INSTR",
			Endpoint:   "/laser/514",
			MaxPower:   0.08,
			MaxCurrent: 250,
			Wavelength: 514,
		}}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `coboltsrv communicates with Cobolt 06-01 MLD lasers and exposes an HTTP interface to them
This enables a server-client architecture, and the clients can leverage the
excellent HTTP libraries for any programming language.

Usage:
	coboltsrv <command>

Commands:
	run
	help
	mkconf
	conf
	ports
	version`
	fmt.Println(str)
}

func help() {
	str := `coboltsrv is amenable to configuration via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

Each entry in Lasers is one Cobolt 06-01 MLD.  Addr is a resource locator,
either ASRL<port>::INSTR for a serial line (ASRL1::INSTR, ASRL/dev/ttyUSB0::INSTR,
ASRLCOM3::INSTR) or TCPIP::<host>::<port>::SOCKET for a terminal server.

MaxPower is in W and MaxCurrent is in the same unit the laser uses for slc.
Setpoints outside [0, Max] are rejected with HTTP 400 and never reach the laser.

No two lasers can have the same Endpoint.

URLs may look like any variation between "omc/laser" or "/omc/laser/*", the leading
and trailing slashes, as well as the *, are added by the server if missing.

Set Mock: true to serve simulated lasers, no hardware required.

"coboltsrv ports" lists the serial ports present on this machine.`
	fmt.Println(str)
}

func mkconf() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := Config{}
	k.Unmarshal("", &c)
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("coboltsrv version %v\n", Version)
}

func ports() {
	res, err := comm.ListResources()
	if err != nil {
		log.Fatal(err)
	}
	if len(res) == 0 {
		fmt.Println("no serial ports found")
		return
	}
	for _, r := range res {
		fmt.Println(r)
	}
}

func run() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	if err = c.Validate(); err != nil {
		log.Fatal(err)
	}
	logger := log.StandardLogger()
	lasers, err := OpenLasers(c, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		for _, l := range lasers {
			l.Close()
		}
	}()
	mux := BuildMux(c, lasers, logger)
	log.WithField("addr", c.Addr).Info("now listening for requests")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = server.ListenAndServe(ctx, c.Addr, mux, 5*time.Second)
	if err != nil {
		log.Error(err)
	}
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "ports":
		ports()
	case "version":
		pversion()
	case "run":
		run()
	default:
		log.Fatal("unknown command")
	}
}
