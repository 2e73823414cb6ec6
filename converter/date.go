package converter

import (
	"math"
	"time"

	"github.com/wippyai/interop/errors"
)

// OLE automation dates count days from 1899-12-30. Negative values carry
// the time of day as a positive fraction.
const (
	millisPerDay = 86400000
	minOADate    = -657435.0
	maxOADate    = 2958466.0
)

var oaEpochMillis = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC).UnixMilli()

// ToOADate converts t's wall clock to an OLE automation date.
func ToOADate(t time.Time) (float64, bool) {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	ms := wall.UnixMilli() - oaEpochMillis
	if ms < 0 {
		if frac := ms % millisPerDay; frac != 0 {
			ms -= (millisPerDay + frac) * 2
		}
	}
	d := float64(ms) / millisPerDay
	return d, d > minOADate && d < maxOADate
}

// FromOADate converts an OLE automation date to a UTC time.
func FromOADate(d float64) (time.Time, bool) {
	if math.IsNaN(d) || d <= minOADate || d >= maxOADate {
		return time.Time{}, false
	}
	var ms int64
	if d >= 0 {
		ms = int64(d*millisPerDay + 0.5)
	} else {
		ms = int64(d*millisPerDay - 0.5)
	}
	if ms < 0 {
		ms -= (ms % millisPerDay) * 2
	}
	return time.UnixMilli(ms + oaEpochMillis).UTC(), true
}

type dateMarshaler struct {
	base
}

func newDate(tag string) Contract {
	return &dateMarshaler{base: base{tag: tag, desc: Descriptor{Size: 8, Align: 8, Slot: SlotValue}}}
}

func (m *dateMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	t, ok := value.(time.Time)
	if !ok {
		if value == nil {
			return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
		}
		return Native{}, m.unsupported(value)
	}
	d, ok := ToOADate(t)
	if !ok {
		return Native{}, m.reject(errors.PhaseMarshal, value, "date outside the OLE automation range")
	}
	return Native{Word: math.Float64bits(d)}, nil
}

func (m *dateMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	t, ok := FromOADate(math.Float64frombits(n.Word))
	if !ok {
		return nil, m.reject(errors.PhaseUnmarshal, nil, "invalid OLE automation date")
	}
	return t, nil
}
