// Package derived computes values that follow from the counter demo state.
package derived

// State is the counter demo's base state.
type State struct {
	Counter   int      `json:"counter"`
	Message   string   `json:"message,omitempty"`
	IsVisible bool     `json:"is_visible"`
	Items     []string `json:"items"`
}

// Values are computed from a State and never stored.
type Values struct {
	IsEven    bool `json:"is_even"`
	ItemCount int  `json:"item_count"`
	IsPrime   bool `json:"is_prime"`
}

// Derive computes Values for state.
func Derive(state State) Values {
	return Values{
		IsEven:    state.Counter%2 == 0,
		ItemCount: len(state.Items),
		IsPrime:   IsPrime(state.Counter),
	}
}

// IsPrime reports whether n is prime, trial-dividing by 6k +/- 1.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	for i := 5; i <= n/i; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}
