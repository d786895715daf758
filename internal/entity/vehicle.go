package entity

import (
	"strings"

	"github.com/eirikstav/fornyelse/constants"
)

// VehicleRecord is one extracted vehicle/coverage row. All fields are
// strings; an empty string means the field was not found in the document.
// Numeric fields (AnnualMileage, Deductible, SumInsured, Premium) hold
// digits only once populated.
type VehicleRecord struct {
	Registration  string
	VehicleType   string
	MakeModelYear string
	Coverage      string
	Leasing       string
	AnnualMileage string
	Bonus         string
	Deductible    string
	SumInsured    string
	Premium       string
}

// DedupKey identifies the same real-world vehicle across pattern matches
// and across extractors. Registered vehicles key on the plate alone; the
// "Uregistrert" sentinel is shared by many machines per document, so those
// key on sentinel+label.
func (v VehicleRecord) DedupKey() string {
	if strings.EqualFold(v.Registration, constants.Unregistered) {
		return strings.ToLower(v.Registration + "_" + v.MakeModelYear)
	}
	return v.Registration
}

// Category places the record into exactly one of the six row bands.
func (v VehicleRecord) Category() constants.VehicleCategory {
	return constants.CategorizeType(v.VehicleType, v.Registration)
}
