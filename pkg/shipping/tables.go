// Package shipping estimates the landed cost of shipping a vehicle from
// Canada to an African port.
package shipping

// Region groups destinations by coast.
type Region string

// Regions served.
const (
	WestAfrica     Region = "west-africa"
	CentralAfrica  Region = "central-africa"
	EastAfrica     Region = "east-africa"
	SouthernAfrica Region = "southern-africa"
)

// Destination is a country and the port its vehicles are delivered through.
type Destination struct {
	Code     string  `json:"code"`
	Country  string  `json:"country"`
	Port     string  `json:"port"`
	Region   Region  `json:"region"`
	BaseRate float64 `json:"baseRate"`
}

// SizeClass is a vehicle size band with its freight multiplier.
type SizeClass struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

// Fixed surcharges, in CAD like the base rates.
const (
	PortFees         = 500.0
	CustomsClearance = 800.0
	InsuranceRate    = 0.15
)

// DefaultSizeClass prices vehicles whose size class is not recognized.
const DefaultSizeClass = "sedan"

var destinations = []Destination{
	{Code: "SN", Country: "Senegal", Port: "Dakar", Region: WestAfrica, BaseRate: 2500},
	{Code: "CI", Country: "Côte d'Ivoire", Port: "Abidjan", Region: WestAfrica, BaseRate: 2600},
	{Code: "NG", Country: "Nigeria", Port: "Lagos", Region: WestAfrica, BaseRate: 2700},
	{Code: "GH", Country: "Ghana", Port: "Tema", Region: WestAfrica, BaseRate: 2650},
	{Code: "BJ", Country: "Benin", Port: "Cotonou", Region: WestAfrica, BaseRate: 2700},
	{Code: "TG", Country: "Togo", Port: "Lomé", Region: WestAfrica, BaseRate: 2650},
	{Code: "CM", Country: "Cameroon", Port: "Douala", Region: CentralAfrica, BaseRate: 2800},
	{Code: "CD", Country: "DR Congo", Port: "Matadi", Region: CentralAfrica, BaseRate: 2900},
	{Code: "CG", Country: "Congo", Port: "Pointe-Noire", Region: CentralAfrica, BaseRate: 2850},
	{Code: "KE", Country: "Kenya", Port: "Mombasa", Region: EastAfrica, BaseRate: 3200},
	{Code: "TZ", Country: "Tanzania", Port: "Dar es Salaam", Region: EastAfrica, BaseRate: 3300},
	{Code: "UG", Country: "Uganda", Port: "Mombasa (via Kenya)", Region: EastAfrica, BaseRate: 3400},
	{Code: "ZA", Country: "South Africa", Port: "Durban", Region: SouthernAfrica, BaseRate: 3500},
}

var sizeClasses = []SizeClass{
	{Code: "sedan", Name: "Sedan", Multiplier: 1.0},
	{Code: "suv", Name: "SUV", Multiplier: 1.3},
	{Code: "truck", Name: "Truck", Multiplier: 1.4},
	{Code: "van", Name: "Van", Multiplier: 1.35},
	{Code: "luxury", Name: "Luxury", Multiplier: 1.5},
}

var (
	destinationsByCode = make(map[string]Destination, len(destinations))
	sizeClassesByCode  = make(map[string]SizeClass, len(sizeClasses))
)

func init() {
	for _, d := range destinations {
		destinationsByCode[d.Code] = d
	}
	for _, s := range sizeClasses {
		sizeClassesByCode[s.Code] = s
	}
}

// Destinations lists every destination in table order.
func Destinations() []Destination {
	return append([]Destination(nil), destinations...)
}

// SizeClasses lists every size class in table order.
func SizeClasses() []SizeClass {
	return append([]SizeClass(nil), sizeClasses...)
}
