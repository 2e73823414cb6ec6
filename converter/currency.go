package converter

import (
	"encoding/binary"
	"math"
	"math/big"
	"strconv"

	"github.com/wippyai/interop/converter/internal/coerce"
	"github.com/wippyai/interop/errors"
)

// Currency is an OLE CY value: a signed 64-bit integer scaled by 10,000.
type Currency int64

// CurrencyScale is the fixed scale of Currency.
const CurrencyScale = 10000

// CurrencyFromFloat rounds f to four decimal places.
func CurrencyFromFloat(f float64) (Currency, bool) {
	scaled := math.Round(f * CurrencyScale)
	if math.IsNaN(scaled) || scaled < math.MinInt64 || scaled >= math.MaxInt64 {
		return 0, false
	}
	return Currency(scaled), true
}

// Float64 returns the currency as a float.
func (c Currency) Float64() float64 {
	return float64(c) / CurrencyScale
}

func (c Currency) String() string {
	neg := c < 0
	u := uint64(c)
	if neg {
		u = -u
	}
	frac := strconv.FormatUint(u%CurrencyScale+CurrencyScale, 10)[1:]
	s := strconv.FormatUint(u/CurrencyScale, 10) + "." + frac
	if neg {
		return "-" + s
	}
	return s
}

type currencyMarshaler struct {
	base
}

func newCurrency(tag string) Contract {
	return &currencyMarshaler{base: base{tag: tag, desc: Descriptor{Size: 8, Align: 8, Slot: SlotValue}}}
}

func (m *currencyMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	switch v := value.(type) {
	case Currency:
		return Native{Word: uint64(v)}, nil
	case float64, float32:
		f, _ := coerce.ToFloat64(v)
		c, ok := CurrencyFromFloat(f)
		if !ok {
			return Native{}, errors.Overflow(errors.PhaseMarshal, m.tag, value, 8)
		}
		return Native{Word: uint64(c)}, nil
	case nil:
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	}
	i, ok := coerce.ToInt64(value)
	if !ok {
		return Native{}, m.unsupported(value)
	}
	if i > math.MaxInt64/CurrencyScale || i < math.MinInt64/CurrencyScale {
		return Native{}, errors.Overflow(errors.PhaseMarshal, m.tag, value, 8)
	}
	return Native{Word: uint64(i * CurrencyScale)}, nil
}

func (m *currencyMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return Currency(n.Word), nil
}

// Decimal is an OLE DECIMAL: a 96-bit unsigned magnitude, a sign and a
// power-of-ten scale between 0 and 28.
type Decimal struct {
	Lo    uint64
	Hi    uint32
	Scale uint8
	Neg   bool
}

// MaxDecimalScale is the largest scale a DECIMAL can carry.
const MaxDecimalScale = 28

const (
	decimalSize     = 16
	decimalSignFlag = 0x80
)

// DecimalFromInt64 returns v with scale zero.
func DecimalFromInt64(v int64) Decimal {
	if v < 0 {
		return Decimal{Lo: uint64(-(v + 1)) + 1, Neg: true}
	}
	return Decimal{Lo: uint64(v)}
}

// String formats the decimal exactly.
func (d Decimal) String() string {
	mag := new(big.Int).SetUint64(uint64(d.Hi))
	mag.Lsh(mag, 64)
	mag.Or(mag, new(big.Int).SetUint64(d.Lo))
	digits := mag.String()
	if d.Scale > 0 {
		for len(digits) <= int(d.Scale) {
			digits = "0" + digits
		}
		cut := len(digits) - int(d.Scale)
		digits = digits[:cut] + "." + digits[cut:]
	}
	if d.Neg {
		return "-" + digits
	}
	return digits
}

func (d Decimal) encode() []byte {
	buf := make([]byte, decimalSize)
	buf[2] = d.Scale
	if d.Neg {
		buf[3] = decimalSignFlag
	}
	binary.LittleEndian.PutUint32(buf[4:], d.Hi)
	binary.LittleEndian.PutUint64(buf[8:], d.Lo)
	return buf
}

func decodeDecimal(buf []byte) (Decimal, bool) {
	d := Decimal{
		Scale: buf[2],
		Neg:   buf[3]&decimalSignFlag != 0,
		Hi:    binary.LittleEndian.Uint32(buf[4:]),
		Lo:    binary.LittleEndian.Uint64(buf[8:]),
	}
	return d, d.Scale <= MaxDecimalScale && buf[3]&^decimalSignFlag == 0
}

// decimalMarshaler places a DECIMAL inline, or behind a pointer when byRef.
type decimalMarshaler struct {
	base
	byRef bool
}

func newDecimal(byRef bool) Factory {
	return func(tag string) Contract {
		desc := Descriptor{Size: decimalSize, Align: 8, Slot: SlotInline}
		if byRef {
			desc = Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}
		}
		return &decimalMarshaler{base: base{tag: tag, desc: desc}, byRef: byRef}
	}
}

func (m *decimalMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	var d Decimal
	switch v := value.(type) {
	case Decimal:
		d = v
	case *Decimal:
		if v == nil {
			if m.byRef {
				return Native{}, nil
			}
			return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
		}
		d = *v
	case nil:
		if m.byRef {
			return Native{}, nil
		}
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	default:
		i, ok := coerce.ToInt64(value)
		if !ok {
			return Native{}, m.unsupported(value)
		}
		d = DecimalFromInt64(i)
	}
	if d.Scale > MaxDecimalScale {
		return Native{}, m.reject(errors.PhaseMarshal, value, "scale exceeds 28")
	}
	return m.owned(env, d.encode(), decimalSize, 8)
}

func (m *decimalMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if n.Word == 0 {
		if m.byRef {
			return (*Decimal)(nil), nil
		}
		return nil, errors.NilValue(errors.PhaseUnmarshal, m.tag)
	}
	buf, err := env.memory().Read(n.Addr(), decimalSize)
	if err != nil {
		return nil, err
	}
	d, ok := decodeDecimal(buf)
	if !ok {
		return nil, m.reject(errors.PhaseUnmarshal, nil, "malformed DECIMAL")
	}
	if m.byRef {
		return &d, nil
	}
	return d, nil
}
