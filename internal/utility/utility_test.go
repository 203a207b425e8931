package utility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/office-seat-allocation/internal/allocator"
	"github.com/iliyamo/office-seat-allocation/internal/config"
	"github.com/iliyamo/office-seat-allocation/internal/utility"
)

func standardRates() config.RatesConfig {
	return config.RatesConfig{
		WaterLitersPerSeat: 5,
		WaterRateCents:     200,
		PowerKWhPerSeat:    2.5,
		PowerRateCents:     500,
	}
}

func TestCostForTenSeats(t *testing.T) {
	cost := utility.CostFor(standardRates(), 10)

	assert.Equal(t, 10, cost.Seats)
	assert.Equal(t, 50.0, cost.WaterLiters)
	assert.Equal(t, uint64(2000), cost.WaterBillCents) // $20.00
	assert.Equal(t, 25.0, cost.PowerKWh)
	assert.Equal(t, uint64(5000), cost.PowerBillCents) // $50.00
}

func TestCostForLargeSeatCount(t *testing.T) {
	// 30M seats at 200 cents exceeds 32 bits; the billing math must not wrap.
	cost := utility.CostFor(standardRates(), 30_000_000)
	assert.Equal(t, uint64(6_000_000_000), cost.WaterBillCents)
	assert.Equal(t, uint64(15_000_000_000), cost.PowerBillCents)
}

func TestCostForClampsNegativeSeats(t *testing.T) {
	cost := utility.CostFor(standardRates(), -3)
	assert.Equal(t, utility.CostFor(standardRates(), 0), cost)
}

func TestForReport(t *testing.T) {
	report := &allocator.Report{
		Departments: []allocator.DepartmentReport{
			{Department: "Eng", Requested: 4, Allocated: 4},
			{Department: "Sales", Requested: 6, Allocated: 6},
		},
		TotalRequested: 10,
		TotalAllocated: 10,
	}

	b := utility.ForReport(standardRates(), report)

	assert.Len(t, b.Departments, 2)
	assert.Equal(t, "Eng", b.Departments[0].Department)
	assert.Equal(t, uint64(800), b.Departments[0].Cost.WaterBillCents)
	assert.Equal(t, "Sales", b.Departments[1].Department)
	assert.Equal(t, uint64(3000), b.Departments[1].Cost.PowerBillCents)

	assert.Equal(t, 10, b.Total.Seats)
	assert.Equal(t, 50.0, b.Total.WaterLiters)
	assert.Equal(t, uint64(2000), b.Total.WaterBillCents)
	assert.Equal(t, 25.0, b.Total.PowerKWh)
	assert.Equal(t, uint64(5000), b.Total.PowerBillCents)
}
