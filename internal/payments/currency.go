package payments

// CurrencyConverter translates between the booking currency and the
// gateway's settlement currency.
type CurrencyConverter interface {
	ToGatewayCurrency(amount float64) float64
	FromGatewayCurrency(amount float64) float64
}

// fixedRateConverter applies a single configured exchange rate. Rates are
// operational configuration, not live market data.
type fixedRateConverter struct {
	rate float64
}

func NewFixedRateConverter(rate float64) CurrencyConverter {
	if rate <= 0 {
		rate = 1
	}
	return &fixedRateConverter{rate: rate}
}

func (c *fixedRateConverter) ToGatewayCurrency(amount float64) float64 {
	return amount * c.rate
}

func (c *fixedRateConverter) FromGatewayCurrency(amount float64) float64 {
	return amount / c.rate
}
