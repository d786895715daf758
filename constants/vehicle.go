package constants

import "strings"

// VehicleCategory is the closed category set used to place vehicles into
// the Fordon sheet row bands.
type VehicleCategory string

const (
	CategoryCar     VehicleCategory = "car"
	CategoryTrailer VehicleCategory = "trailer"
	CategoryMoped   VehicleCategory = "moped"
	CategoryTractor VehicleCategory = "tractor"
	CategoryBoat    VehicleCategory = "boat"
	CategoryOther   VehicleCategory = "other"
)

// Categories lists all categories in sheet order (top to bottom).
var Categories = []VehicleCategory{
	CategoryCar,
	CategoryTrailer,
	CategoryMoped,
	CategoryTractor,
	CategoryBoat,
	CategoryOther,
}

// Unregistered is the registration sentinel for machinery and equipment
// without a license plate. Records carrying it are deduplicated on
// registration+label instead of registration alone.
const Unregistered = "Uregistrert"

// CategorizeType maps a free-text vehicle type (already canonical or raw
// Norwegian from a document) to exactly one category. Unknown types land
// in CategoryOther; an unregistered sentinel with no type lands in
// CategoryTractor, matching how these documents use the sentinel.
func CategorizeType(vtype, registration string) VehicleCategory {
	t := strings.ToLower(strings.TrimSpace(vtype))

	switch VehicleCategory(t) {
	case CategoryCar, CategoryTrailer, CategoryMoped, CategoryTractor, CategoryBoat, CategoryOther:
		return VehicleCategory(t)
	}

	switch {
	case strings.Contains(t, "tilhenger") || strings.Contains(t, "henger") || strings.Contains(t, "campingvogn"):
		return CategoryTrailer
	case strings.Contains(t, "moped") || strings.Contains(t, "motorsykkel") || strings.Contains(t, "snøscooter") || strings.Contains(t, "snoscooter"):
		return CategoryMoped
	case strings.Contains(t, "traktor") || strings.Contains(t, "arbeid") || strings.Contains(t, "redskap"):
		return CategoryTractor
	case strings.Contains(t, "båt") || strings.Contains(t, "bat"):
		return CategoryBoat
	case strings.Contains(t, "bil") || strings.Contains(t, "motorvogn"):
		return CategoryCar
	case strings.EqualFold(strings.TrimSpace(registration), Unregistered):
		return CategoryTractor
	default:
		return CategoryOther
	}
}

// MachineBrands are manufacturers of unregistered heavy equipment; a hit
// classifies an "Uregistrert" block as machinery rather than generic other.
var MachineBrands = []string{
	"Doosan", "Hitachi", "Caterpillar", "Liebherr", "Sennebogen",
	"Komatsu", "Volvo", "JCB", "Bobcat", "Case", "John Deere",
	"New Holland", "Kubota",
}

// CarBrands are makes recognized in Gjensidige free-text vehicle lines.
var CarBrands = []string{
	"VOLKSWAGEN", "FORD", "TOYOTA", "MERCEDES-BENZ", "MERCEDES", "LAND ROVER",
	"CITROEN", "PEUGEOT", "VOLVO", "BMW", "AUDI", "NISSAN", "RENAULT",
	"OPEL", "FIAT", "IVECO", "MAN", "SCANIA", "SKODA", "HYUNDAI", "KIA",
	"MAZDA", "MITSUBISHI", "SUZUKI", "ISUZU", "TESLA", "POLESTAR", "BYD",
	"MG", "SEAT", "MINI",
}

// LeasingCompanies are financing companies that show up near vehicle
// blocks when the vehicle is leased.
var LeasingCompanies = []string{
	"Sparebank 1", "Nordea Finans", "Santander", "DNB Finans",
	"BRAGE FINANS", "Handelsbanken", "BN Bank",
}
