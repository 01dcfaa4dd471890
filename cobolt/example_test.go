package cobolt_test

import (
	"errors"
	"fmt"

	"github.com/nasa-jpl/cobolt/cobolt"
)

func ExampleMLD06_SetPower() {
	l := cobolt.NewMockMLD06("514nm", 0.08, 250, 514)

	// 100 mW is above the 80 mW limit; nothing reaches the laser
	err := l.SetPower(0.1)
	fmt.Println(errors.Is(err, cobolt.ErrRejected))
	p, _ := l.GetPower()
	fmt.Println(p)

	fmt.Println(l.SetPower(0.03))
	p, _ = l.GetPower()
	fmt.Println(p)
	// Output:
	// true
	// 0
	// <nil>
	// 0.03
}
