package provider

import (
	"fmt"
	"strings"
)

// Settings is the per-provider configuration supplied by the host.
// Immutable per invocation.
type Settings struct {
	ContinueURL           string
	APIKey                string
	HMACKey               string
	MerchantAccount       string
	TestMode              bool
	AllowedPaymentMethods string // comma-separated gateway method codes
}

// Validate checks the fields every outbound call depends on.
func (s Settings) Validate() error {
	if s.MerchantAccount == "" {
		return fmt.Errorf("provider settings: merchant account is required")
	}
	if s.APIKey == "" {
		return fmt.Errorf("provider settings: api key is required")
	}
	return nil
}

// ParsedAllowedPaymentMethods splits the allow-list, trimming whitespace
// and dropping empty entries. Returns nil when no restriction is set.
func (s Settings) ParsedAllowedPaymentMethods() []string {
	if strings.TrimSpace(s.AllowedPaymentMethods) == "" {
		return nil
	}
	var methods []string
	for _, m := range strings.Split(s.AllowedPaymentMethods, ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			methods = append(methods, m)
		}
	}
	return methods
}
