package token

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Reserved claim names carried as typed fields on Claims.
const (
	claimIssuer    = "iss"
	claimSubject   = "sub"
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
	claimNotBefore = "nbf"
)

// Claims is the payload of a signed token: the reserved identity and
// time-validity claims as typed fields, plus an open Extra map for
// application data. A reserved time claim that arrives as a non-numeric
// JSON value is kept in Extra and ignored by the typed accessors.
type Claims struct {
	Issuer    string
	Subject   string
	IssuedAt  *int64
	ExpiresAt *int64
	NotBefore *int64
	Extra     map[string]any
}

// MarshalJSON emits the extra claims first and the reserved claims last,
// so an extra claim can never overshadow a reserved one.
func (c Claims) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.Issuer != "" {
		out[claimIssuer] = c.Issuer
	}
	if c.Subject != "" {
		out[claimSubject] = c.Subject
	}
	if c.IssuedAt != nil {
		out[claimIssuedAt] = *c.IssuedAt
	}
	if c.ExpiresAt != nil {
		out[claimExpiresAt] = *c.ExpiresAt
	}
	if c.NotBefore != nil {
		out[claimNotBefore] = *c.NotBefore
	}
	return json.Marshal(out)
}

func (c *Claims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	raw := map[string]any{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	*c = Claims{Extra: map[string]any{}}
	for k, v := range raw {
		switch k {
		case claimIssuer:
			if s, ok := v.(string); ok {
				c.Issuer = s
				continue
			}
		case claimSubject:
			if s, ok := v.(string); ok {
				c.Subject = s
				continue
			}
		case claimIssuedAt:
			if n, ok := epochSeconds(v); ok {
				c.IssuedAt = &n
				continue
			}
		case claimExpiresAt:
			if n, ok := epochSeconds(v); ok {
				c.ExpiresAt = &n
				continue
			}
		case claimNotBefore:
			if n, ok := epochSeconds(v); ok {
				c.NotBefore = &n
				continue
			}
		}
		c.Extra[k] = normalizeNumbers(v)
	}
	return nil
}

func epochSeconds(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

// normalizeNumbers converts json.Number values back to float64 so Extra
// holds the same shapes a plain json.Unmarshal would produce.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, vv := range t {
			t[k] = normalizeNumbers(vv)
		}
		return t
	case []any:
		for i, vv := range t {
			t[i] = normalizeNumbers(vv)
		}
		return t
	default:
		return v
	}
}
