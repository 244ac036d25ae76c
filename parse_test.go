package captable

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   bool
	}{
		{"$1,234.50", "1234.50", false},
		{"  € 12 ", "12", false},
		{"1.5M", "1500000", false},
		{"2k", "2000", false},
		{"3b", "3000000000", false},
		{"(500)", "-500", false},
		{"-42.1", "-42.1", false},
		{"", "", true},
		{"$", "", true},
		{"12abc", "", true},
		{"M", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.err {
				if !errors.Is(err, ErrParse) {
					t.Fatalf("ParseMoney(%q) error = %v, want ErrParse", tt.input, err)
				}
				var perr *ParseError
				if !errors.As(err, &perr) || perr.Input != tt.input {
					t.Errorf("ParseMoney(%q) error = %#v, want a *ParseError on the input", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(usd(tt.want)) {
				t.Errorf("ParseMoney(%q) = %v, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseShares(t *testing.T) {
	got, err := ParseShares("10,000")
	if err != nil || !got.Equal(sh("10000")) {
		t.Errorf("ParseShares(10,000) = %v, %v, want 10000", got, err)
	}
	got, err = ParseShares("8.474576m")
	if err != nil || !got.Equal(sh("8474576")) {
		t.Errorf("ParseShares(8.474576m) = %v, %v, want 8474576", got, err)
	}
	if _, err := ParseShares("$10"); err == nil {
		t.Errorf("ParseShares($10) expected an error, currency symbols are not shares")
	}
}

func TestParsePercent(t *testing.T) {
	for input, want := range map[string]string{"20%": "20", "8": "8", " 0.5 % ": "0.5"} {
		got, err := ParsePercent(input)
		if err != nil || !got.Equal(dec(want)) {
			t.Errorf("ParsePercent(%q) = %v, %v, want %s", input, got, err, want)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	tests := map[string]string{
		"1.5M":    "1500000",
		"(500)":   "-500",
		"$2.5k":   "2500",
		"garbage": "0",
		"":        "0",
	}
	for input, want := range tests {
		if got := ParseCurrency(input); !got.Equal(usd(want)) {
			t.Errorf("ParseCurrency(%q) = %v, want %s", input, got, want)
		}
	}
}

func TestParseMoneyLoose(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{"formatted string", "$1,234.50", "1234.50", true},
		{"pound", "£ 99", "99", true},
		{"float", 12.5, "12.5", true},
		{"int", 7, "7", true},
		{"json number", json.Number("0.59"), "0.59", true},
		{"empty", "", "", false},
		{"nil", nil, "", false},
		{"negative", -5, "", false},
		{"zero", "0", "", false},
		{"garbage", "12abc", "", false},
		{"nan", math.NaN(), "", false},
		{"inf", math.Inf(1), "", false},
		{"bool", true, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMoneyLoose(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseMoneyLoose(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(usd(tt.want)) {
				t.Errorf("ParseMoneyLoose(%v) = %v, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSharesLoose(t *testing.T) {
	if got, ok := ParseSharesLoose("1,000,000"); !ok || !got.Equal(sh("1000000")) {
		t.Errorf("ParseSharesLoose(1,000,000) = %v, %v, want 1000000, true", got, ok)
	}
	if got, ok := ParseSharesLoose("0.1234567"); !ok || !got.Equal(sh("0.1234567")) {
		t.Errorf("ParseSharesLoose(0.1234567) = %v, %v, want the digits as typed", got, ok)
	}
	if _, ok := ParseSharesLoose("$100"); ok {
		t.Errorf("ParseSharesLoose($100) ok = true, want false")
	}
	if _, ok := ParseSharesLoose(-1.0); ok {
		t.Errorf("ParseSharesLoose(-1) ok = true, want false")
	}
}
