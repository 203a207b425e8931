// Package export renders allocation reports for download.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/office-seat-allocation/internal/allocator"
	"github.com/iliyamo/office-seat-allocation/internal/utility"
)

// ReportCSV returns the CSV rendering of an allocation report with its cost
// breakdown. One row per (department, office) grant followed by a per
// department subtotal and a final total row. Rows follow the report's own
// ordering so repeated exports of the same report are byte-identical.
func ReportCSV(report *allocator.Report, costs utility.Breakdown) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	w.Write([]string{"department", "office", "seats", "water_liters", "water_bill", "power_kwh", "power_bill"})

	costByDept := make(map[string]utility.Cost, len(costs.Departments))
	for _, dc := range costs.Departments {
		costByDept[dc.Department] = dc.Cost
	}

	for _, dept := range report.Departments {
		for _, grant := range dept.Offices {
			w.Write([]string{dept.Department, grant.OfficeName, strconv.Itoa(grant.Seats), "", "", "", ""})
		}
		c := costByDept[dept.Department]
		w.Write([]string{
			dept.Department, "TOTAL", strconv.Itoa(dept.Allocated),
			formatFloat(c.WaterLiters), Dollars(c.WaterBillCents),
			formatFloat(c.PowerKWh), Dollars(c.PowerBillCents),
		})
	}

	w.Write([]string{
		"ALL", "TOTAL", strconv.Itoa(report.TotalAllocated),
		formatFloat(costs.Total.WaterLiters), Dollars(costs.Total.WaterBillCents),
		formatFloat(costs.Total.PowerKWh), Dollars(costs.Total.PowerBillCents),
	})

	w.Flush()
	return sb.String()
}

// Dollars formats a cent amount as a dollar string, e.g. 2050 -> "$20.50".
func Dollars(cents uint64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
