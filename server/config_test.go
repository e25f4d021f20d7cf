package server

import "testing"

func TestResolveAddr(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		addr    string
		want    string
		wantErr bool
	}{
		{name: "default port", want: "127.0.0.1:8099"},
		{name: "configured port", port: 9001, want: "127.0.0.1:9001"},
		{name: "explicit port wins", port: 9001, addr: "9102", want: "127.0.0.1:9102"},
		{name: "explicit host", addr: "localhost:7000", want: "localhost:7000"},
		{name: "bad port", addr: "abc", wantErr: true},
		{name: "port out of range", port: 70000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAddr(tt.port, tt.addr)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve addr: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ResolveAddr(%d, %q) = %q, want %q", tt.port, tt.addr, got, tt.want)
			}
		})
	}
}

func TestResolveWebBaseURL(t *testing.T) {
	tests := map[string]string{
		"":                     "",
		":8099":                "http://127.0.0.1:8099",
		"0.0.0.0:8099":         "http://127.0.0.1:8099",
		"[::]:8099":            "http://127.0.0.1:8099",
		"http://example.test/": "http://example.test",
		"127.0.0.1:8099":       "http://127.0.0.1:8099",
	}
	for addr, want := range tests {
		if got := resolveWebBaseURL(addr); got != want {
			t.Errorf("resolveWebBaseURL(%q) = %q, want %q", addr, got, want)
		}
	}
}
