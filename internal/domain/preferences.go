package domain

import "fmt"

// DiscoveryPreferences controls which animals a user is shown. Ages are
// months. The client holds a transient edited copy while the preferences
// dialog is open; only validated values are submitted.
type DiscoveryPreferences struct {
	MinAge              int     `json:"minAge"`
	MaxAge              int     `json:"maxAge"`
	Gender              string  `json:"gender"`
	MaxDistanceKm       int     `json:"maxDistanceKm"`
	Neutered            bool    `json:"neutered"`
	LocationDisplayName string  `json:"locationDisplayName"`
	SearchLocLatitude   float64 `json:"searchLocLatitude"`
	SearchLocLongitude  float64 `json:"searchLocLongitude"`
}

func (p *DiscoveryPreferences) Validate() error {
	if p.MinAge < MinAgeMonths || p.MinAge > MaxAgeMonths {
		return fmt.Errorf("minAge %d out of range [%d, %d]", p.MinAge, MinAgeMonths, MaxAgeMonths)
	}
	if p.MaxAge < MinAgeMonths || p.MaxAge > MaxAgeMonths {
		return fmt.Errorf("maxAge %d out of range [%d, %d]", p.MaxAge, MinAgeMonths, MaxAgeMonths)
	}
	if p.MinAge > p.MaxAge {
		return fmt.Errorf("minAge %d greater than maxAge %d", p.MinAge, p.MaxAge)
	}
	if !validGender(p.Gender) {
		return fmt.Errorf("gender %q is not a known gender", p.Gender)
	}
	if p.MaxDistanceKm < MinDistanceKm || p.MaxDistanceKm > MaxDistanceKm {
		return fmt.Errorf("maxDistanceKm %d out of range [%d, %d]", p.MaxDistanceKm, MinDistanceKm, MaxDistanceKm)
	}
	if p.SearchLocLatitude < -90 || p.SearchLocLatitude > 90 {
		return fmt.Errorf("searchLocLatitude %v out of range", p.SearchLocLatitude)
	}
	if p.SearchLocLongitude < -180 || p.SearchLocLongitude > 180 {
		return fmt.Errorf("searchLocLongitude %v out of range", p.SearchLocLongitude)
	}
	return nil
}

// DefaultDiscoveryPreferences are applied to accounts that have never
// saved preferences.
func DefaultDiscoveryPreferences() DiscoveryPreferences {
	return DiscoveryPreferences{
		MinAge:        MinAgeMonths,
		MaxAge:        MaxAgeMonths,
		Gender:        GenderUnspecified,
		MaxDistanceKm: 50,
	}
}
