package models

import "encoding/json"

// Part identifies the section of Form A-28 a field belongs to.
type Part string

const (
	PartAttorney    Part = "attorney"    // Part 1: attorney/representative contact
	PartEligibility Part = "eligibility" // Part 2: attorney eligibility
	PartBeneficiary Part = "beneficiary" // Part 3: passport/beneficiary
	PartClient      Part = "client"      // Part 4: client
)

// FormA28Data holds the structured data for Form A-28 extracted from a
// passport and/or G-28 form. Every field is optional: an empty string means
// the field was blank or not found in the documents. Dates are MM/DD/YYYY
// and sex is one of M, F, or X.
type FormA28Data struct {
	// Part 1: Attorney/Representative Information (from G-28 form)
	AttorneyOnlineAccount string `json:"attorney_online_account,omitempty"`
	AttorneyFamilyName    string `json:"attorney_family_name,omitempty"`
	AttorneyGivenName     string `json:"attorney_given_name,omitempty"`
	AttorneyMiddleName    string `json:"attorney_middle_name,omitempty"`
	AttorneyStreetNumber  string `json:"attorney_street_number,omitempty"`
	AttorneyAptSteFlr     string `json:"attorney_apt_ste_flr,omitempty"`
	AttorneyCity          string `json:"attorney_city,omitempty"`
	AttorneyState         string `json:"attorney_state,omitempty"`
	AttorneyZipCode       string `json:"attorney_zip_code,omitempty"`
	AttorneyCountry       string `json:"attorney_country,omitempty"`
	AttorneyDaytimePhone  string `json:"attorney_daytime_phone,omitempty"`
	AttorneyMobilePhone   string `json:"attorney_mobile_phone,omitempty"`
	AttorneyEmail         string `json:"attorney_email,omitempty"`
	AttorneyFaxNumber     string `json:"attorney_fax_number,omitempty"`

	// Part 2: Eligibility Information (from G-28 form)
	AttorneyLicensingAuthority    string `json:"attorney_licensing_authority,omitempty"`
	AttorneyBarNumber             string `json:"attorney_bar_number,omitempty"`
	AttorneySubjectToRestrictions string `json:"attorney_subject_to_restrictions,omitempty"`
	AttorneyLawFirm               string `json:"attorney_law_firm,omitempty"`
	AttorneyRecognizedOrg         string `json:"attorney_recognized_org,omitempty"`
	AttorneyAccreditationDate     string `json:"attorney_accreditation_date,omitempty"`

	// Part 3: Passport/Beneficiary Information (from passport document)
	BeneficiaryLastName      string `json:"beneficiary_last_name,omitempty"`
	BeneficiaryFirstName     string `json:"beneficiary_first_name,omitempty"`
	BeneficiaryMiddleName    string `json:"beneficiary_middle_name,omitempty"`
	PassportNumber           string `json:"passport_number,omitempty"`
	PassportCountryOfIssue   string `json:"passport_country_of_issue,omitempty"`
	PassportNationality      string `json:"passport_nationality,omitempty"`
	BeneficiaryDateOfBirth   string `json:"beneficiary_date_of_birth,omitempty"`
	BeneficiaryPlaceOfBirth  string `json:"beneficiary_place_of_birth,omitempty"`
	BeneficiarySex           string `json:"beneficiary_sex,omitempty"`
	PassportDateOfIssue      string `json:"passport_date_of_issue,omitempty"`
	PassportDateOfExpiration string `json:"passport_date_of_expiration,omitempty"`

	// Part 4: Client Information (from G-28 form)
	ClientFamilyName   string `json:"client_family_name,omitempty"`
	ClientGivenName    string `json:"client_given_name,omitempty"`
	ClientMiddleName   string `json:"client_middle_name,omitempty"`
	ClientDaytimePhone string `json:"client_daytime_phone,omitempty"`
	ClientMobilePhone  string `json:"client_mobile_phone,omitempty"`
	ClientEmail        string `json:"client_email,omitempty"`
	ClientStreetNumber string `json:"client_street_number,omitempty"`
	ClientAptSteFlr    string `json:"client_apt_ste_flr,omitempty"`
	ClientCity         string `json:"client_city,omitempty"`
	ClientState        string `json:"client_state,omitempty"`
	ClientZipCode      string `json:"client_zip_code,omitempty"`
	ClientCountry      string `json:"client_country,omitempty"`
	ClientUSCISAccount string `json:"client_uscis_account,omitempty"`
	ClientAlienNumber  string `json:"client_alien_number,omitempty"`
}

// FieldSpec describes one Form A-28 field. The registry below is the single
// source of truth for the extraction prompt and the response schema, so the
// prompt and the decoder cannot drift apart.
type FieldSpec struct {
	Name        string // JSON field name, matches the FormA28Data tag
	Description string // human description, fed to the model
	Part        Part
}

// Fields returns the Form A-28 field registry in document order.
func Fields() []FieldSpec {
	return []FieldSpec{
		// Part 1
		{"attorney_online_account", "USCIS Online Account Number", PartAttorney},
		{"attorney_family_name", "Attorney's last name", PartAttorney},
		{"attorney_given_name", "Attorney's first name", PartAttorney},
		{"attorney_middle_name", "Attorney's middle name", PartAttorney},
		{"attorney_street_number", "Street number and name", PartAttorney},
		{"attorney_apt_ste_flr", "Apartment, Suite, or Floor number", PartAttorney},
		{"attorney_city", "City or Town", PartAttorney},
		{"attorney_state", "State (use abbreviation like CA, NY)", PartAttorney},
		{"attorney_zip_code", "ZIP Code", PartAttorney},
		{"attorney_country", "Country", PartAttorney},
		{"attorney_daytime_phone", "Daytime Telephone Number", PartAttorney},
		{"attorney_mobile_phone", "Mobile Telephone Number", PartAttorney},
		{"attorney_email", "Email Address", PartAttorney},
		{"attorney_fax_number", "Fax Number", PartAttorney},

		// Part 2
		{"attorney_licensing_authority", "Licensing authority (e.g., \"State Bar of California\")", PartEligibility},
		{"attorney_bar_number", "Bar Number", PartEligibility},
		{"attorney_subject_to_restrictions", "Whether subject to restrictions: \"am\" or \"am not\"", PartEligibility},
		{"attorney_law_firm", "Name of Law Firm or Organization", PartEligibility},
		{"attorney_recognized_org", "Name of Recognized Organization (if accredited rep)", PartEligibility},
		{"attorney_accreditation_date", "Date of Accreditation (MM/DD/YYYY)", PartEligibility},

		// Part 3
		{"beneficiary_last_name", "Last name from passport", PartBeneficiary},
		{"beneficiary_first_name", "First name(s) from passport", PartBeneficiary},
		{"beneficiary_middle_name", "Middle name(s) from passport", PartBeneficiary},
		{"passport_number", "Passport number", PartBeneficiary},
		{"passport_country_of_issue", "Country that issued the passport", PartBeneficiary},
		{"passport_nationality", "Nationality", PartBeneficiary},
		{"beneficiary_date_of_birth", "Date of birth (MM/DD/YYYY)", PartBeneficiary},
		{"beneficiary_place_of_birth", "Place/city of birth", PartBeneficiary},
		{"beneficiary_sex", "Sex (M, F, or X)", PartBeneficiary},
		{"passport_date_of_issue", "Passport issue date (MM/DD/YYYY)", PartBeneficiary},
		{"passport_date_of_expiration", "Passport expiration date (MM/DD/YYYY)", PartBeneficiary},

		// Part 4
		{"client_family_name", "Client's last name", PartClient},
		{"client_given_name", "Client's first name", PartClient},
		{"client_middle_name", "Client's middle name", PartClient},
		{"client_daytime_phone", "Client's daytime telephone", PartClient},
		{"client_mobile_phone", "Client's mobile telephone", PartClient},
		{"client_email", "Client's email address", PartClient},
		{"client_street_number", "Client's street address", PartClient},
		{"client_apt_ste_flr", "Client's apartment/suite/floor", PartClient},
		{"client_city", "Client's city", PartClient},
		{"client_state", "Client's state or province", PartClient},
		{"client_zip_code", "Client's ZIP Code (US) or Postal Code (international)", PartClient},
		{"client_country", "Client's country", PartClient},
		{"client_uscis_account", "Client's USCIS Online Account Number", PartClient},
		{"client_alien_number", "Client's A-Number (Alien Registration Number)", PartClient},
	}
}

// NonEmpty returns the fields that were actually extracted, keyed by JSON
// field name. This is the mapping handed to the form filler.
func (d FormA28Data) NonEmpty() map[string]string {
	raw, err := json.Marshal(d)
	if err != nil {
		// FormA28Data contains only strings; Marshal cannot fail.
		return nil
	}
	out := make(map[string]string)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// CountSet reports how many fields carry a value.
func (d FormA28Data) CountSet() int {
	return len(d.NonEmpty())
}

// IsEmpty reports whether no field was extracted at all.
func (d FormA28Data) IsEmpty() bool {
	return d.CountSet() == 0
}
