package tranches

import "fmt"

// Percent is a ratio where 1.0 means 100%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p)*100)
}

// Clamp bounds the ratio to the [0, 1] interval.
func (p Percent) Clamp() Percent {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
