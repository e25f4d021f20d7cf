package server

import (
	"fmt"
	"strconv"
	"strings"

	internalstrings "github.com/amonks/tasklab/internal/strings"
)

// DefaultPort is used when no port is configured.
const DefaultPort = 8099

// ResolveAddr returns the server address from an explicit addr flag or the
// configured port.
func ResolveAddr(port int, addr string) (string, error) {
	if !internalstrings.IsBlank(addr) {
		return normalizeAddr(addr)
	}
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}

func normalizeAddr(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "", fmt.Errorf("address is required")
	}
	if strings.Contains(trimmed, ":") {
		return trimmed, nil
	}
	port, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid port %q", trimmed)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}
