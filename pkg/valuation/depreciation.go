// Package valuation scores extracted listings against the historical
// new-price table: it matches each listing to a reference trim, models
// the expected resale value, and grades the asking price and mileage.
package valuation

// Annual depreciation rates for a car bought new, from the
// SmartePenger.no schedule. Years beyond the table use the final rate.
var depreciationRates = map[int]float64{
	1: 0.20,
	2: 0.14,
	3: 0.13,
	4: 0.12,
	5: 0.11,
}

const lateYearRate = 0.10

// ExpectedValue compounds the yearly schedule on the remaining value and
// returns the modelled resale value after age years.
func ExpectedValue(originalPrice float64, age int) float64 {
	value := originalPrice
	for year := 1; year <= age; year++ {
		rate, ok := depreciationRates[year]
		if !ok {
			rate = lateYearRate
		}
		value -= value * rate
	}
	return value
}

// ExpectedDepreciationPercent returns the modelled total value loss after
// age years as a percentage of the original price.
func ExpectedDepreciationPercent(originalPrice float64, age int) float64 {
	if originalPrice == 0 {
		return 0
	}
	return (originalPrice - ExpectedValue(originalPrice, age)) / originalPrice * 100
}
