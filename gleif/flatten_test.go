package gleif

import (
	"encoding/json"
	"testing"
)

// fullRecord запись со всеми заполненными полями, как ее отдает реестр.
const fullRecordJSON = `{
	"id": "5493001KJTIIGC8Y1R12",
	"attributes": {
		"entity": {
			"legalName": {"name": "ACME CORP"},
			"otherNames": [{"name": "ACME"}],
			"status": "ACTIVE",
			"legalAddress": {
				"addressLines": ["1 Main Street", "Floor 2"],
				"city": "Dublin",
				"region": "IE-D",
				"postalCode": "D01",
				"country": "IE"
			},
			"entityCreationDate": "1999-01-01",
			"entityExpirationDate": "2030-01-01",
			"registeredAt": {"id": "RA000402"},
			"registeredAs": "123456"
		},
		"registration": {
			"status": "ISSUED",
			"managingLou": "529900T8BM49AURSDO55",
			"initialRegistrationDate": "2014-02-10",
			"nextRenewalDate": "2026-02-10",
			"validationAuthority": {"validationAuthorityEntityID": "CRO-1"},
			"otherValidationAuthorities": [
				{"validationAuthorityEntityID": "OVA-1"},
				{"validationAuthorityEntityID": "OVA-2"}
			]
		}
	}
}`

func parseRecord(t *testing.T, raw string) RawRecord {
	t.Helper()
	var rec RawRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return rec
}

func TestFlattenFullRecord(t *testing.T) {
	flat := Flatten(parseRecord(t, fullRecordJSON), "")

	expected := map[string]string{
		FieldLEI:                                 "5493001KJTIIGC8Y1R12",
		FieldLegalName:                           "ACME CORP",
		FieldOtherName:                           "ACME",
		FieldEntityStatus:                        "ACTIVE",
		FieldLegalAddress:                        "1 Main Street, Dublin, IE-D, D01, IE",
		FieldRegistrationStatus:                  "ISSUED",
		FieldManagingLOU:                         "529900T8BM49AURSDO55",
		FieldInitialRegDate:                      "2014-02-10",
		FieldNextRenewalDate:                     "2026-02-10",
		FieldEntityCreationDate:                  "1999-01-01",
		FieldEntityExpiration:                    "2030-01-01",
		FieldRegisteredAt:                        "RA000402",
		FieldRegisteredAs:                        "123456",
		FieldValidationAuthID:                    "CRO-1",
		"Other Validation Authority Entity ID 1": "OVA-1",
		"Other Validation Authority Entity ID 2": "OVA-2",
		"Other Validation Authority Entity ID 3": Sentinel,
		"Other Validation Authority Entity ID 4": Sentinel,
		"Other Validation Authority Entity ID 5": Sentinel,
	}

	if len(flat) != len(expected) {
		t.Errorf("expected %d fields, got %d", len(expected), len(flat))
	}
	for field, want := range expected {
		if got := flat[field]; got != want {
			t.Errorf("field %q = %q, expected %q", field, got, want)
		}
	}
	if flat.HasSearchQuery() {
		t.Error("ID lookup must not carry a Search Query field")
	}
}

func TestFlattenFieldCountMatchesOrder(t *testing.T) {
	flat := Flatten(parseRecord(t, fullRecordJSON), "")
	for _, field := range FieldOrder {
		if _, ok := flat[field]; !ok {
			t.Errorf("missing field %q", field)
		}
	}
	if len(flat) != len(FieldOrder) {
		t.Errorf("expected exactly %d fields, got %d", len(FieldOrder), len(flat))
	}
}

func TestFlattenMissingPaths(t *testing.T) {
	flat := Flatten(RawRecord{"id": "X"}, "")

	if flat.LEI() != "X" {
		t.Errorf("LEI = %q, expected X", flat.LEI())
	}
	for _, field := range FieldOrder[1:] {
		if flat[field] != Sentinel {
			t.Errorf("field %q = %q, expected sentinel", field, flat[field])
		}
	}
}

func TestFlattenSearchQueryInjected(t *testing.T) {
	flat := Flatten(parseRecord(t, fullRecordJSON), "Acme Pvt. Ltd. (cleaned)")
	if flat[FieldSearchQuery] != "Acme Pvt. Ltd. (cleaned)" {
		t.Errorf("Search Query = %q", flat[FieldSearchQuery])
	}
	if len(flat) != len(FieldOrder)+1 {
		t.Errorf("expected %d fields with Search Query, got %d", len(FieldOrder)+1, len(flat))
	}
}

func TestLookupPath(t *testing.T) {
	tree := map[string]interface{}{
		"a": map[string]interface{}{
			"b": []interface{}{
				map[string]interface{}{"c": "value"},
			},
		},
		"n": nil,
	}

	tests := []struct {
		name  string
		path  string
		want  interface{}
		found bool
	}{
		{"full path with index", "a.b.0.c", "value", true},
		{"missing intermediate key", "a.x.c", nil, false},
		{"index out of range", "a.b.5.c", nil, false},
		{"index into a map", "a.0", nil, false},
		{"key into a slice", "a.b.c", nil, false},
		{"traversal through a scalar", "a.b.0.c.d", nil, false},
		{"nil terminal", "n", nil, false},
		{"negative index", "a.b.-1.c", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := lookupPath(tree, tt.path)
			if found != tt.found {
				t.Fatalf("lookupPath(%q) found = %v, expected %v", tt.path, found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("lookupPath(%q) = %v, expected %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name     string
		record   string
		expected string
	}{
		{
			name:     "partial address",
			record:   `{"attributes": {"entity": {"legalAddress": {"city": "Oslo", "country": "NO"}}}}`,
			expected: "Oslo, NO",
		},
		{
			name:     "address is not a mapping",
			record:   `{"attributes": {"entity": {"legalAddress": "nope"}}}`,
			expected: Sentinel,
		},
		{
			name:     "address absent",
			record:   `{"attributes": {"entity": {}}}`,
			expected: Sentinel,
		},
		{
			name:     "empty mapping",
			record:   `{"attributes": {"entity": {"legalAddress": {}}}}`,
			expected: Sentinel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat := Flatten(parseRecord(t, tt.record), "")
			if flat[FieldLegalAddress] != tt.expected {
				t.Errorf("Legal Address = %q, expected %q", flat[FieldLegalAddress], tt.expected)
			}
		})
	}
}
