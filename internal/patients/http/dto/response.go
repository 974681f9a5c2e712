package dto

// PatientResponse wraps a single patient view.
//
// Views are maps rather than fixed structs because each identifying field
// renders either its decrypted value or the redaction marker depending on
// the caller's disclosure authorization.
type PatientResponse struct {
	Data map[string]any `json:"data"`
}

// ListPatientsResponse wraps a paginated list of patient views.
type ListPatientsResponse struct {
	Data []map[string]any `json:"data"`
}

// InsuranceResponse wraps a single insurance policy view.
type InsuranceResponse struct {
	Data map[string]any `json:"data"`
}

// ListInsurancesResponse wraps a patient's insurance policy views.
type ListInsurancesResponse struct {
	Data []map[string]any `json:"data"`
}
