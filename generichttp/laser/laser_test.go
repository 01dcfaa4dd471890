package laser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type emitter struct{ on bool }

func (e *emitter) SetEmission(b bool) error   { e.on = b; return nil }
func (e *emitter) GetEmission() (bool, error) { return e.on, nil }

type poweredEmitter struct {
	emitter
	p float64
}

func (p *poweredEmitter) SetPower(f float64) error    { p.p = f; return nil }
func (p *poweredEmitter) GetPower() (float64, error) { return p.p, nil }

func TestRoutesFollowCapabilities(t *testing.T) {
	basic := NewHTTPLaserController(&emitter{}).RT().Endpoints()
	assert.Equal(t, []string{"GET /emission", "POST /emission"}, basic)

	powered := NewHTTPLaserController(&poweredEmitter{}).RT().Endpoints()
	assert.Equal(t, []string{"GET /emission", "POST /emission", "GET /power", "POST /power"}, powered)
}
