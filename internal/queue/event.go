// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatsAllocatedEvent is published once per department after an allocation
// batch commits. It carries enough information for the SMS consumer to
// compose the notification text without querying the primary database.
type SeatsAllocatedEvent struct {
	Department     string         `json:"department"`
	Phone          string         `json:"phone"`
	Requested      int            `json:"requested"`
	Allocated      int            `json:"allocated"`
	SeatsByOffice  map[string]int `json:"seats_by_office"`
	WaterBillCents uint64         `json:"water_bill_cents"`
	PowerBillCents uint64         `json:"power_bill_cents"`
	AllocatedAt    string         `json:"allocated_at"`
}
