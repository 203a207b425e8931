package config

// RatesConfig carries the fixed per-seat utility consumption figures and the
// billing rates applied to an allocation report.  The values used to live as
// package level constants next to the report rendering code; passing them in
// explicitly keeps the billing math testable and overridable per deployment.
//
// Money amounts are expressed in cents, matching how the rest of the
// application stores monetary values.
type RatesConfig struct {
    WaterLitersPerSeat float64 // liters of water consumed per seat
    WaterRateCents     uint32  // water bill in cents per seat
    PowerKWhPerSeat    float64 // kWh of power consumed per seat
    PowerRateCents     uint32  // power bill in cents per seat
}

// LoadRatesConfig reads the utility rates from the environment, falling back
// to the standard figures: 5 L and $2.00 of water per seat, 2.5 kWh and $5.00
// of power per seat.
func LoadRatesConfig() RatesConfig {
    return RatesConfig{
        WaterLitersPerSeat: envFloat("WATER_LITERS_PER_SEAT", 5),
        WaterRateCents:     uint32(envInt("WATER_RATE_CENTS", 200)),
        PowerKWhPerSeat:    envFloat("POWER_KWH_PER_SEAT", 2.5),
        PowerRateCents:     uint32(envInt("POWER_RATE_CENTS", 500)),
    }
}
