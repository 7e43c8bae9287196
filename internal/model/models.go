package model

import (
	"encoding/json"
	"time"
)

// AddressResult holds the first host of a subnet in both address families.
// Empty fields encode as JSON null.
type AddressResult struct {
	IPv4 string
	IPv6 string
}

type addressResultJSON struct {
	IPv4 *string `json:"ipv4"`
	IPv6 *string `json:"ipv6"`
}

func (r AddressResult) MarshalJSON() ([]byte, error) {
	var out addressResultJSON
	if r.IPv4 != "" {
		out.IPv4 = &r.IPv4
	}
	if r.IPv6 != "" {
		out.IPv6 = &r.IPv6
	}
	return json.Marshal(out)
}

func (r *AddressResult) UnmarshalJSON(data []byte) error {
	var in addressResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = AddressResult{}
	if in.IPv4 != nil {
		r.IPv4 = *in.IPv4
	}
	if in.IPv6 != nil {
		r.IPv6 = *in.IPv6
	}
	return nil
}

// Resolution is one entry of the resolution history.
type Resolution struct {
	ID         int64     `db:"id" json:"id"`
	CIDR       string    `db:"cidr" json:"cidr"`
	IPv4       string    `db:"ipv4" json:"ipv4,omitempty"`
	IPv6       string    `db:"ipv6" json:"ipv6,omitempty"`
	Error      string    `db:"error" json:"error,omitempty"`
	ResolvedAt time.Time `db:"resolved_at" json:"resolved_at"`
}

type BatchItem struct {
	Line   int           `json:"line"`
	CIDR   string        `json:"cidr"`
	Result AddressResult `json:"result"`
	Error  string        `json:"error,omitempty"`
}

type BatchStats struct {
	Resolved int `json:"resolved"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

type BatchResponse struct {
	Results []BatchItem `json:"results"`
	Stats   BatchStats  `json:"stats"`
}

type Error struct {
	Message string `json:"message"`
}
