package money

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name    string
		l, r    Money
		want    Money
		wantErr error
	}{
		{
			name: "simple",
			l:    BRL(10, 0),
			r:    BRL(5, 500_000_000),
			want: BRL(15, 500_000_000),
		},
		{
			name: "nanos carry",
			l:    BRL(69, 800_000_000),
			r:    BRL(9, 900_000_000),
			want: BRL(79, 700_000_000),
		},
		{
			name:    "mismatched currency",
			l:       BRL(1, 0),
			r:       New("USD", 1, 0),
			wantErr: ErrMismatchedCurrency,
		},
		{
			name:    "invalid nanos",
			l:       Money{CurrencyCode: "BRL", Units: 1, Nanos: -100},
			r:       BRL(1, 0),
			wantErr: ErrInvalidValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sum(tt.l, tt.r)
			if err != tt.wantErr {
				t.Fatalf("Sum() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sum() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMultiply(t *testing.T) {
	tests := []struct {
		name string
		m    Money
		qty  int32
		want Money
	}{
		{"zero qty", BRL(34, 900_000_000), 0, Money{CurrencyCode: "BRL"}},
		{"one", BRL(34, 900_000_000), 1, BRL(34, 900_000_000)},
		{"carries nanos", BRL(34, 900_000_000), 2, BRL(69, 800_000_000)},
		{"many", BRL(9, 900_000_000), 10, BRL(99, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Multiply(tt.m, tt.qty)); diff != "" {
				t.Errorf("Multiply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		amount float64
		want   Money
	}{
		{34.90, BRL(34, 900_000_000)},
		{9.90, BRL(9, 900_000_000)},
		{119.90, BRL(119, 900_000_000)},
		{0, BRL(0, 0)},
	}
	for _, tt := range tests {
		got := FromFloat("BRL", tt.amount)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("FromFloat(%v) mismatch (-want +got):\n%s", tt.amount, diff)
		}
	}
}

func TestSubtotalScenario(t *testing.T) {
	// two of the 34.90 coffee plus one 9.90 cupcake
	sub := Multiply(BRL(34, 900_000_000), 2)
	sub, err := Sum(sub, Multiply(BRL(9, 900_000_000), 1))
	if err != nil {
		t.Fatal(err)
	}
	if want := BRL(79, 700_000_000); sub != want {
		t.Errorf("subtotal = %+v, want %+v", sub, want)
	}
	if got := FormatBRL(sub); got != "R$ 79,70" {
		t.Errorf("FormatBRL() = %q, want %q", got, "R$ 79,70")
	}
}
