// Package utility derives water and power costs from an allocation report.
// Consumption and billing are linear in the number of seats granted; the
// per-seat figures come from config.RatesConfig so deployments can adjust
// them without touching code.
package utility

import (
	"github.com/iliyamo/office-seat-allocation/internal/allocator"
	"github.com/iliyamo/office-seat-allocation/internal/config"
)

// Cost holds the derived utility figures for a number of seats. Bills are in
// cents.
type Cost struct {
	Seats          int     `json:"seats"`
	WaterLiters    float64 `json:"water_liters"`
	WaterBillCents uint64  `json:"water_bill_cents"`
	PowerKWh       float64 `json:"power_kwh"`
	PowerBillCents uint64  `json:"power_bill_cents"`
}

// DepartmentCost pairs a department with its derived cost.
type DepartmentCost struct {
	Department string `json:"department"`
	Cost       Cost   `json:"cost"`
}

// Breakdown is the full billing view of one allocation report.
type Breakdown struct {
	Departments []DepartmentCost `json:"departments"`
	Total       Cost             `json:"total"`
}

// CostFor computes the utility cost of the given seat count under the rates.
func CostFor(rates config.RatesConfig, seats int) Cost {
	if seats < 0 {
		seats = 0
	}
	return Cost{
		Seats:          seats,
		WaterLiters:    float64(seats) * rates.WaterLitersPerSeat,
		WaterBillCents: uint64(seats) * uint64(rates.WaterRateCents),
		PowerKWh:       float64(seats) * rates.PowerKWhPerSeat,
		PowerBillCents: uint64(seats) * uint64(rates.PowerRateCents),
	}
}

// ForReport derives per-department and total costs from an allocation
// report. Departments keep their submission order.
func ForReport(rates config.RatesConfig, report *allocator.Report) Breakdown {
	b := Breakdown{Departments: make([]DepartmentCost, 0, len(report.Departments))}
	for _, d := range report.Departments {
		b.Departments = append(b.Departments, DepartmentCost{
			Department: d.Department,
			Cost:       CostFor(rates, d.Allocated),
		})
	}
	b.Total = CostFor(rates, report.TotalAllocated)
	return b
}
