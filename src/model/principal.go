package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Principal identifies an account (user or bot). Principals are opaque and
// compared by equality only.
type Principal string

var ErrInvalidPrincipal = errors.New("invalid principal")

var principalRegex = regexp.MustCompile(`(?i)^S[TPM][A-Z0-9]{38,}$`)

// ParsePrincipal validates the standard stacks address form, e.g.
// ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM, and upper-cases it
func ParsePrincipal(raw string) (Principal, error) {
	trimmed := strings.TrimSpace(raw)
	if !principalRegex.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPrincipal, raw)
	}
	return Principal(strings.ToUpper(trimmed)), nil
}

func (p Principal) Valid() bool {
	return principalRegex.MatchString(string(p))
}

func (p Principal) String() string {
	return string(p)
}
