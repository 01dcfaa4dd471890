// cobolttest runs a short emission sequence against one laser:
// constant power mode, emission on, set power, wait, emission off.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/theckman/yacspin"

	"github.com/nasa-jpl/cobolt/cobolt"
)

func main() {
	addr := flag.String("addr", "ASRL1::INSTR", "resource locator of the laser")
	maxPower := flag.Float64("maxpower", 0.08, "maximum power of the laser, W")
	maxCurrent := flag.Float64("maxcurrent", 250, "maximum current of the laser")
	wavelength := flag.Float64("wavelength", 514, "wavelength of the laser, nm")
	power := flag.Float64("power", 0.03, "power to emit at, W")
	dwell := flag.Duration("dwell", 2*time.Second, "time to emit for")
	mock := flag.Bool("mock", false, "use a simulated laser")
	flag.Parse()

	var (
		l   *cobolt.MLD06
		err error
	)
	if *mock {
		l = cobolt.NewMockMLD06("laser", *maxPower, *maxCurrent, *wavelength)
	} else {
		l, err = cobolt.NewMLD06("laser", *addr, *maxPower, *maxCurrent, *wavelength)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer l.Close()

	if err := sequence(l, *power, *dwell); err != nil {
		// make sure the laser is not left on
		if err2 := l.SetStatus(0); err2 != nil {
			log.WithError(err2).Error("turning the laser off")
		}
		log.Error(err)
		os.Exit(1)
	}
}

func sequence(l *cobolt.MLD06, power float64, dwell time.Duration) error {
	if sn, err := l.GetSerialNumber(); err == nil {
		log.WithFields(log.Fields{"serial": sn, "addr": l.Address()}).Info("connected")
	}
	if err := l.EnterConstantPowerMode(); err != nil {
		return err
	}
	if err := l.SetStatus(1); err != nil {
		return err
	}
	if err := l.SetPower(power); err != nil {
		return err
	}

	spinner, err := yacspin.New(yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[14],
		Suffix:          " emitting",
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	})
	if err != nil {
		return err
	}
	if err := spinner.Start(); err != nil {
		return err
	}
	end := time.Now().Add(dwell)
	for time.Now().Before(end) {
		if pa, err := l.ReadActualOutputPower(); err == nil {
			spinner.Message(fmt.Sprintf("%.1f mW", pa*1e3))
		}
		time.Sleep(250 * time.Millisecond)
	}
	spinner.Message("done")
	if err := spinner.Stop(); err != nil {
		return err
	}
	return l.SetStatus(0)
}
