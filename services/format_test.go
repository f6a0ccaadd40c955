package services

import "testing"

func TestFormatMetricValue(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		format string
		expect string
	}{
		{"percentage", 0.1562, "percentage", "15.6%"},
		{"percentage whole", 0.15, "percentage", "15.0%"},
		{"percentage upper case", 0.5, "PERCENTAGE", "50.0%"},
		{"currency", 2500, "currency", "$2,500"},
		{"currency rounds", 2500.5, "currency", "$2,501"},
		{"currency negative", -1234567.0, "currency", "-$1,234,567"},
		{"currency numeric string", "2500", "currency", "$2,500"},
		{"number", 2500.7, "number", "2,501"},
		{"number small", 42, "number", "42"},
		{"no format", 1234567.4, "", "1,234,567"},
		{"unknown format", 9999.5, "stars", "10,000"},
		{"text keeps value", 2500, "text", "2500"},
		{"non numeric", "Series A", "currency", "Series A"},
		{"bool", true, "number", "true"},
		{"nil", nil, "number", ""},
		{"beyond int64", 1e20, "number", "100,000,000,000,000,000,000"},
		{"currency beyond int64", 1e20, "currency", "$100,000,000,000,000,000,000"},
		{"negative beyond int64", -1e20, "currency", "-$100,000,000,000,000,000,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMetricValue(tt.value, tt.format)
			if got != tt.expect {
				t.Errorf("FormatMetricValue(%v, %q) = %q, want %q", tt.value, tt.format, got, tt.expect)
			}
		})
	}
}

func TestFormatTotal(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		currency string
		expect   string
	}{
		{"no currency", 120000, "", "120,000"},
		{"usd", 120000, "usd", "120,000 USD"},
		{"eur", 999.6, "EUR", "1,000 EUR"},
		{"invalid code", 5000, "DOLLARS", "5,000"},
		{"inr lakhs", 123456.78, "INR", "₹1,23,457"},
		{"inr crores", 12345678, "INR", "₹1,23,45,678"},
		{"inr negative", -250000, "INR", "-₹2,50,000"},
		{"beyond int64", 1e20, "", "100,000,000,000,000,000,000"},
		{"inr beyond int64", -1e20, "INR", "-₹10,00,00,00,00,00,00,00,00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTotal(tt.input, tt.currency)
			if got != tt.expect {
				t.Errorf("FormatTotal(%v, %q) = %q, want %q", tt.input, tt.currency, got, tt.expect)
			}
		})
	}
}

func TestApplyIndianGrouping(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"single digit", "5", "5"},
		{"three digits", "999", "999"},
		{"four digits", "1234", "1,234"},
		{"six digits", "123456", "1,23,456"},
		{"eight digits", "12345678", "1,23,45,678"},
		{"ten digits", "1234567890", "1,23,45,67,890"},
		{"already grouped", "1,234,567", "12,34,567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyIndianGrouping(tt.input)
			if got != tt.expect {
				t.Errorf("applyIndianGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
