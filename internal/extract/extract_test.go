package extract

import "testing"

func strptr(s string) *string { return &s }

func TestFromTextAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{"with currency marker", "Total a pagar: R$ 123,45", strptr("123,45")},
		{"bare amount", "valor 1.234,56 ate o vencimento", strptr("1.234,56")},
		{"leftmost wins", "R$ 10,00 e depois R$ 999,99", strptr("10,00")},
		{"large grouped amount", "R$ 1.234.567,89", strptr("1.234.567,89")},
		{"lone marker is not an amount", "pague em R$ ate amanha", nil},
		{"integer only is not an amount", "valor 1234 reais", nil},
		{"no amount", "sem valores aqui", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromText(tt.text).Amount
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Amount = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("Amount = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestFromTextDueDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{"plain date", "Vencimento: 31/12/2024", strptr("31/12/2024")},
		{"first occurrence", "emitido 01/11/2024 vence 15/12/2024", strptr("01/11/2024")},
		{"calendar-invalid still matches", "data 31/02/2024 ok", strptr("31/02/2024")},
		{"no date", "sem data", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromText(tt.text).DueDate
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("DueDate = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("DueDate = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestFromTextPaymentBarcode(t *testing.T) {
	const linha = "34191.79001 01043.510047 91020.150008 1"
	got := FromText("pague o boleto " + linha + " ate o vencimento")
	if got.PaymentBarcode == nil || *got.PaymentBarcode != linha {
		t.Fatalf("PaymentBarcode = %v, want %q", got.PaymentBarcode, linha)
	}

	if f := FromText("34191.79001 01043.510047"); f.PaymentBarcode != nil {
		t.Fatalf("partial layout should not match, got %q", *f.PaymentBarcode)
	}
}

func TestFromTextTotalOnGarbage(t *testing.T) {
	for _, text := range []string{"", "\x00\xff\xfe", "çãõ éê î", "R$", "////"} {
		f := FromText(text)
		if f.Amount != nil || f.DueDate != nil || f.PaymentBarcode != nil ||
			f.IssuerName != nil || f.SuggestedCategory != nil {
			t.Errorf("FromText(%q) = %+v, want all-null", text, f)
		}
	}
}

func TestFromTextDeterministic(t *testing.T) {
	const text = "R$ 123,45 vencimento 31/12/2024"
	first := FromText(text)
	for i := 0; i < 10; i++ {
		if got := FromText(text); *got.Amount != *first.Amount || *got.DueDate != *first.DueDate {
			t.Fatalf("extraction not stable across calls: %+v vs %+v", got, first)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"R$ 123,45", 123.45, false},
		{"1.234,56", 1234.56, false},
		{"R$ 1.234.567,89", 1234567.89, false},
		{"123,45", 123.45, false},
		{"", 0, true},
		{"R$", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToISODate(t *testing.T) {
	got, err := ToISODate("31/12/2024")
	if err != nil {
		t.Fatalf("ToISODate: %v", err)
	}
	if got != "2024-12-31" {
		t.Fatalf("ToISODate = %q, want 2024-12-31", got)
	}

	for _, bad := range []string{"2024-12-31", "31/12/24", "", "1/2/2024"} {
		if _, err := ToISODate(bad); err == nil {
			t.Errorf("ToISODate(%q) should fail", bad)
		}
	}
}
