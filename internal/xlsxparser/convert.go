package xlsxparser

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrOutOfRange is matched by every *RangeError.
var ErrOutOfRange = errors.New("value out of range")

// RangeError reports a numeric cell that does not fit its target type.
type RangeError struct {
	Value float64
	Max   uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %v out of range [0, %d]", e.Value, e.Max)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

var maxMeters = decimal.NewFromInt(math.MaxUint32)

// ToUint16 truncates v toward zero and checks that it fits a uint16.
func ToUint16(v float64) (uint16, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &RangeError{Value: v, Max: math.MaxUint16}
	}
	t := math.Trunc(v)
	if t < 0 || t > math.MaxUint16 {
		return 0, &RangeError{Value: v, Max: math.MaxUint16}
	}
	return uint16(t), nil
}

// MetersFromKilometers converts an odometer reading in kilometers to whole
// meters: km*1000 in float64, truncated toward zero. The product is not
// rounded, so 1.005 km gives 1004 m.
func MetersFromKilometers(km float64) (uint32, error) {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return 0, &RangeError{Value: km, Max: math.MaxUint32}
	}

	meters := decimal.NewFromFloat(km * 1000).Truncate(0)
	if meters.IsNegative() || meters.GreaterThan(maxMeters) {
		return 0, &RangeError{Value: km, Max: math.MaxUint32}
	}

	return uint32(meters.IntPart()), nil
}
