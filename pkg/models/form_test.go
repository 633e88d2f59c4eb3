package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// structTags collects the json field names declared on FormA28Data.
func structTags(t *testing.T) map[string]bool {
	t.Helper()

	tags := make(map[string]bool)
	typ := reflect.TypeOf(FormA28Data{})
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		require.NotEmpty(t, name, "field %s has no json tag", typ.Field(i).Name)
		tags[name] = true
	}
	return tags
}

func TestFieldRegistryMatchesStruct(t *testing.T) {
	tags := structTags(t)
	specs := Fields()

	assert.Len(t, specs, len(tags), "registry and struct must cover the same fields")

	seen := make(map[string]bool)
	for _, spec := range specs {
		assert.True(t, tags[spec.Name], "registry field %s missing from FormA28Data", spec.Name)
		assert.False(t, seen[spec.Name], "duplicate registry entry %s", spec.Name)
		assert.NotEmpty(t, spec.Description, "field %s has no description", spec.Name)
		seen[spec.Name] = true
	}
}

func TestFieldRegistryParts(t *testing.T) {
	counts := make(map[Part]int)
	for _, spec := range Fields() {
		switch spec.Part {
		case PartAttorney, PartEligibility, PartBeneficiary, PartClient:
			counts[spec.Part]++
		default:
			t.Fatalf("field %s has unknown part %q", spec.Name, spec.Part)
		}
	}

	// Part sizes mirror the four sections of the form.
	assert.Equal(t, 14, counts[PartAttorney])
	assert.Equal(t, 6, counts[PartEligibility])
	assert.Equal(t, 11, counts[PartBeneficiary])
	assert.Equal(t, 14, counts[PartClient])
}

func TestNonEmptySkipsBlankFields(t *testing.T) {
	data := FormA28Data{
		AttorneyFamilyName:  "Smith",
		AttorneyGivenName:   "Barbara",
		BeneficiaryLastName: "Jonas",
		BeneficiarySex:      "M",
	}

	m := data.NonEmpty()
	assert.Len(t, m, 4)
	assert.Equal(t, "Smith", m["attorney_family_name"])
	assert.Equal(t, "M", m["beneficiary_sex"])
	_, present := m["client_email"]
	assert.False(t, present, "blank fields must not appear in the mapping")
}

func TestNonEmptyOnZeroValue(t *testing.T) {
	var data FormA28Data
	assert.Empty(t, data.NonEmpty())
	assert.True(t, data.IsEmpty())
	assert.Zero(t, data.CountSet())
}

func TestDecodeNullFields(t *testing.T) {
	// The model returns explicit nulls for absent fields; they must decode
	// to blank strings, not fail.
	payload := `{
		"attorney_family_name": "Smith",
		"attorney_middle_name": null,
		"passport_number": "C03005988",
		"client_email": null
	}`

	var data FormA28Data
	require.NoError(t, json.Unmarshal([]byte(payload), &data))
	assert.Equal(t, "Smith", data.AttorneyFamilyName)
	assert.Equal(t, "C03005988", data.PassportNumber)
	assert.Empty(t, data.AttorneyMiddleName)
	assert.Equal(t, 2, data.CountSet())
}
