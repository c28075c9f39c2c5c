package core

import "fmt"

// MinLimitAmount is the lowest spending ceiling, in minor units.
const MinLimitAmount = 30000

// Limit is a spending ceiling: Money that is at least MinLimitAmount.
type Limit struct {
	value Money
}

func NewLimit(m Money) (Limit, error) {
	if m.amount < MinLimitAmount {
		return Limit{}, fmt.Errorf("%w: %s is below %d", ErrLimitTooLow, m, MinLimitAmount)
	}
	return Limit{value: m}, nil
}

// NewLimitFromAmount is a shorthand for NewMoney followed by NewLimit.
func NewLimitFromAmount(amount int64, cur Currency) (Limit, error) {
	m, err := NewMoney(amount, cur)
	if err != nil {
		return Limit{}, err
	}
	return NewLimit(m)
}

// Money returns the underlying amount.
func (l Limit) Money() Money {
	return l.value
}

func (l Limit) Amount() int64 {
	return l.value.amount
}

func (l Limit) Currency() Currency {
	return l.value.currency
}

// Add sums two limits; the result is itself a valid Limit.
func (l Limit) Add(other Limit) (Limit, error) {
	sum, err := l.value.Add(other.value)
	if err != nil {
		return Limit{}, err
	}
	return NewLimit(sum)
}

// Sub subtracts two limits. The difference is plain Money: it is not
// required to reach the floor unless it is turned into a Limit again.
func (l Limit) Sub(other Limit) (Money, error) {
	return l.value.Sub(other.value)
}

func (l Limit) Compare(other Limit) (int, error) {
	return l.value.Compare(other.value)
}

func (l Limit) String() string {
	return l.value.String()
}
