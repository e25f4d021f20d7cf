package derived

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsPrime(t *testing.T) {
	primes := map[int]bool{2: true, 3: true, 5: true, 7: true, 11: true, 13: true, 17: true, 19: true, 23: true, 29: true}
	for n := -3; n < 30; n++ {
		if got := IsPrime(n); got != primes[n] {
			t.Errorf("IsPrime(%d) = %v, want %v", n, got, primes[n])
		}
	}
	if !IsPrime(7919) {
		t.Error("IsPrime(7919) = false, want true")
	}
	if IsPrime(7917) {
		t.Error("IsPrime(7917) = true, want false")
	}
}

func TestIsPrime_NearMaxInt(t *testing.T) {
	if IsPrime(math.MaxInt64) {
		t.Error("IsPrime(MaxInt64) = true, want false")
	}
	if testing.Short() {
		t.Skip("trial division up to sqrt(2^63) takes a few seconds")
	}
	// Largest prime below 2^63; the divisor loop must stop without overflowing.
	if !IsPrime(9223372036854775783) {
		t.Error("IsPrime(9223372036854775783) = false, want true")
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Values
	}{
		{"zero", State{}, Values{IsEven: true}},
		{"odd prime", State{Counter: 7, Items: []string{"a", "b"}}, Values{IsPrime: true, ItemCount: 2}},
		{"negative", State{Counter: -4}, Values{IsEven: true}},
		{"even composite", State{Counter: 10, Items: []string{"x"}}, Values{IsEven: true, ItemCount: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Derive(tt.state)); diff != "" {
				t.Errorf("Derive mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
