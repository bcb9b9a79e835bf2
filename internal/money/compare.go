package money

import (
	"fmt"
	"math/big"
)

// normalize picks the pair of amounts that share a currency: the shared local
// code first, then one side's code against the other's local code, then the
// codes themselves.
func (m Value) normalize(other Value) (*big.Int, *big.Int, error) {
	switch {
	case m.HasLocal() && other.HasLocal() && m.localCode.Equal(other.localCode):
		return m.localAmount, other.localAmount, nil
	case other.HasLocal() && m.code.Equal(other.localCode):
		return m.amt(), other.localAmount, nil
	case m.HasLocal() && m.localCode.Equal(other.code):
		return m.localAmount, other.amt(), nil
	case m.code.Equal(other.code):
		return m.amt(), other.amt(), nil
	}
	return nil, nil, fmt.Errorf("%w: %s and %s", ErrIncomparable, m.describeCodes(), other.describeCodes())
}

func (m Value) describeCodes() string {
	if m.HasLocal() {
		return m.code.Name + "/" + m.localCode.Name
	}
	return m.code.Name
}

// IsComparableTo reports whether m and other share a currency through their
// codes or local codes.
func (m Value) IsComparableTo(other Value) bool {
	_, _, err := m.normalize(other)
	return err == nil
}

// Compare returns -1, 0 or +1 comparing signed amounts in a shared currency.
func (m Value) Compare(other Value) (int, error) {
	a, b, err := m.normalize(other)
	if err != nil {
		return 0, err
	}
	return a.Cmp(b), nil
}

// CompareAbs is Compare on absolute values.
func (m Value) CompareAbs(other Value) (int, error) {
	a, b, err := m.normalize(other)
	if err != nil {
		return 0, err
	}
	return a.CmpAbs(b), nil
}

func (m Value) test(other Value, abs bool, ok func(int) bool) (bool, error) {
	cmp := m.Compare
	if abs {
		cmp = m.CompareAbs
	}
	c, err := cmp(other)
	if err != nil {
		return false, err
	}
	return ok(c), nil
}

func lt(c int) bool { return c < 0 }
func le(c int) bool { return c <= 0 }
func eq(c int) bool { return c == 0 }
func ge(c int) bool { return c >= 0 }
func gt(c int) bool { return c > 0 }

// IsEqualTo compares signed amounts.
func (m Value) IsEqualTo(other Value) (bool, error) { return m.test(other, false, eq) }

// IsEquallyLarge compares absolute amounts, ignoring sign.
func (m Value) IsEquallyLarge(other Value) (bool, error) { return m.test(other, true, eq) }

func (m Value) IsLessThan(other Value) (bool, error)          { return m.test(other, false, lt) }
func (m Value) IsLessThanOrEqualTo(other Value) (bool, error) { return m.test(other, false, le) }
func (m Value) IsGreaterThan(other Value) (bool, error)       { return m.test(other, false, gt) }
func (m Value) IsGreaterThanOrEqualTo(other Value) (bool, error) {
	return m.test(other, false, ge)
}

// The Smaller/Larger family compares magnitudes.

func (m Value) IsSmallerThan(other Value) (bool, error) { return m.test(other, true, lt) }
func (m Value) IsSmallerThanOrEqualTo(other Value) (bool, error) {
	return m.test(other, true, le)
}
func (m Value) IsLargerThan(other Value) (bool, error) { return m.test(other, true, gt) }
func (m Value) IsLargerThanOrEqualTo(other Value) (bool, error) {
	return m.test(other, true, ge)
}
