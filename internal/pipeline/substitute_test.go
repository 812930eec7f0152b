package pipeline

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestSubstitute(t *testing.T) {
	t.Parallel()

	donor := []Field{
		{Name: "First Name", Value: "Jane"},
		{Name: "Last Name", Value: "Doe"},
		{Name: "Donation Amount", Value: "250"},
	}

	tests := []struct {
		name       string
		template   string
		expected   string
		unresolved []string
	}{
		{
			name:     "empty template",
			template: "",
			expected: "",
		},
		{
			name:     "no placeholders",
			template: "Thank you for your support.",
			expected: "Thank you for your support.",
		},
		{
			name:     "donor fields",
			template: "Dear {First Name} {Last Name},",
			expected: "Dear Jane Doe,",
		},
		{
			name:     "amount normalized to two decimals",
			template: "Amount: ${Donation Amount}",
			expected: "Amount: $250.00",
		},
		{
			name:     "repeated placeholder replaced everywhere",
			template: "{First Name} and {First Name}",
			expected: "Jane and Jane",
		},
		{
			name:       "unknown placeholder left intact",
			template:   "Hello {Nickname}!",
			expected:   "Hello {Nickname}!",
			unresolved: []string{"Nickname"},
		},
		{
			name:       "duplicate unknown reported once",
			template:   "{Foo} {Bar} {Foo}",
			expected:   "{Foo} {Bar} {Foo}",
			unresolved: []string{"Foo", "Bar"},
		},
		{
			name:     "date system value",
			template: "Date: {Date}",
			expected: "Date: March 15, 2025",
		},
		{
			name:     "current year system value",
			template: "For tax year {Current Year}.",
			expected: "For tax year 2025.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, unresolved := Substitute(tt.template, donor, testNow, "January 2, 2006")
			if got != tt.expected {
				t.Errorf("Substitute(%q) = %q, want %q", tt.template, got, tt.expected)
			}
			if !reflect.DeepEqual(unresolved, tt.unresolved) {
				t.Errorf("unresolved = %v, want %v", unresolved, tt.unresolved)
			}
		})
	}
}

func TestSubstituteIdempotent(t *testing.T) {
	t.Parallel()

	donor := []Field{
		{Name: "First Name", Value: "Jane"},
		{Name: "Donation Amount", Value: "99.9"},
	}
	template := "Dear {First Name}, thank you for ${Donation Amount} in {Current Year}."

	once, _ := Substitute(template, donor, testNow, "2006-01-02")
	twice, _ := Substitute(once, donor, testNow, "2006-01-02")
	if once != twice {
		t.Errorf("second pass changed output:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		field    string
		value    string
		expected string
	}{
		{"amount integer", "Donation Amount", "150", "150.00"},
		{"amount one decimal", "Donation Amount", "99.9", "99.90"},
		{"amount already formatted", "Total Amount", "12.34", "12.34"},
		{"amount with whitespace", "Donation Amount", " 25 ", "25.00"},
		{"amount non-numeric passes through", "Donation Amount", "n/a", "n/a"},
		{"non-amount field untouched", "First Name", "150", "150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatValue(tt.field, tt.value)
			if got != tt.expected {
				t.Errorf("formatValue(%q, %q) = %q, want %q", tt.field, tt.value, got, tt.expected)
			}
		})
	}
}

func TestSubstituteFieldOrder(t *testing.T) {
	t.Parallel()

	// Substitution follows field order, so an earlier field whose value
	// mentions a later placeholder does not get re-expanded.
	donor := []Field{
		{Name: "A", Value: "{B}"},
		{Name: "B", Value: "beta"},
	}
	got, unresolved := Substitute("{A} {B}", donor, testNow, "2006-01-02")
	if got != "beta beta" {
		t.Errorf("Substitute = %q, want %q", got, "beta beta")
	}
	if len(unresolved) != 0 {
		t.Errorf("unresolved = %v, want none", unresolved)
	}
}

func TestUnresolvedPlaceholdersOrder(t *testing.T) {
	t.Parallel()

	got, unresolved := Substitute("{Z} then {A}", nil, testNow, "2006-01-02")
	if !strings.Contains(got, "{Z}") || !strings.Contains(got, "{A}") {
		t.Fatalf("placeholders should survive: %q", got)
	}
	want := []string{"Z", "A"}
	if !reflect.DeepEqual(unresolved, want) {
		t.Errorf("unresolved = %v, want %v (document order)", unresolved, want)
	}
}
