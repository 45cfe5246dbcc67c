package shipping

import (
	"strings"

	"github.com/iwvelando/broker-engine/pkg/mathutil"
)

// Quote is the landed shipping cost breakdown for one vehicle.
type Quote struct {
	DestinationCode  string  `json:"destinationCode"`
	VehicleSizeClass string  `json:"vehicleSizeClass"`
	OceanFreight     float64 `json:"oceanFreight"`
	Insurance        float64 `json:"insurance"`
	PortFees         float64 `json:"portFees"`
	CustomsClearance float64 `json:"customsClearance"`
	Total            float64 `json:"total"`
}

// LookupDestination finds a destination by country code, case-insensitively.
func LookupDestination(code string) (Destination, bool) {
	d, ok := destinationsByCode[strings.ToUpper(strings.TrimSpace(code))]
	return d, ok
}

// LookupSizeClass finds a size class by code, case-insensitively.
func LookupSizeClass(code string) (SizeClass, bool) {
	s, ok := sizeClassesByCode[strings.ToLower(strings.TrimSpace(code))]
	return s, ok
}

// Estimate prices shipping a vehicle of sizeClass to destinationCode. It
// returns false when the destination is empty or unknown. An unknown size
// class is priced as DefaultSizeClass.
func Estimate(destinationCode, sizeClass string) (Quote, bool) {
	dest, ok := LookupDestination(destinationCode)
	if !ok {
		return Quote{}, false
	}
	size, ok := LookupSizeClass(sizeClass)
	if !ok {
		size = sizeClassesByCode[DefaultSizeClass]
	}

	oceanFreight := mathutil.RoundWhole(dest.BaseRate * size.Multiplier)
	insurance := mathutil.RoundWhole(oceanFreight * InsuranceRate)
	return Quote{
		DestinationCode:  dest.Code,
		VehicleSizeClass: size.Code,
		OceanFreight:     oceanFreight,
		Insurance:        insurance,
		PortFees:         PortFees,
		CustomsClearance: CustomsClearance,
		Total:            oceanFreight + insurance + PortFees + CustomsClearance,
	}, true
}

// LandedCost is the vehicle price plus everything needed to land it at port.
func LandedCost(vehiclePrice float64, q Quote) float64 {
	return vehiclePrice + q.Total
}
