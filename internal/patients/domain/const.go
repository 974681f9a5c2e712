package domain

// Gender is the administrative gender code recorded for a patient.
// Stored unencrypted; it is demographic, not directly identifying.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderOther   Gender = "O"
	GenderUnknown Gender = "U"
)

// Valid reports whether the gender code is one of the declared values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// MaritalStatus is the patient's marital status code.
type MaritalStatus string

const (
	MaritalSingle    MaritalStatus = "S"
	MaritalMarried   MaritalStatus = "M"
	MaritalDivorced  MaritalStatus = "D"
	MaritalWidowed   MaritalStatus = "W"
	MaritalSeparated MaritalStatus = "P"
	MaritalUnknown   MaritalStatus = "U"
)

// Valid reports whether the marital status code is one of the declared values.
func (m MaritalStatus) Valid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed, MaritalSeparated, MaritalUnknown:
		return true
	}
	return false
}

// InsuranceType classifies an insurance policy by payer category.
type InsuranceType string

const (
	InsuranceCommercial  InsuranceType = "commercial"
	InsuranceMedicare    InsuranceType = "medicare"
	InsuranceMedicaid    InsuranceType = "medicaid"
	InsuranceTricare     InsuranceType = "tricare"
	InsuranceWorkersComp InsuranceType = "workers_comp"
	InsuranceAuto        InsuranceType = "auto"
	InsuranceSelfPay     InsuranceType = "self_pay"
	InsuranceOther       InsuranceType = "other"
)

// Valid reports whether the insurance type is one of the declared values.
func (i InsuranceType) Valid() bool {
	switch i {
	case InsuranceCommercial, InsuranceMedicare, InsuranceMedicaid, InsuranceTricare,
		InsuranceWorkersComp, InsuranceAuto, InsuranceSelfPay, InsuranceOther:
		return true
	}
	return false
}

// ResourceType is the audit resource type label for patient records.
const ResourceType = "patient"

// InsuranceResourceType is the audit resource type label for insurance policies.
const InsuranceResourceType = "patient_insurance"
