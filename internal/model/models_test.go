package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressResult_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(AddressResult{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ipv4":null,"ipv6":null}`, string(data))

	data, err = json.Marshal(AddressResult{IPv4: "172.16.4.33", IPv6: "0:0:0:0:0:ffff:ac10:0421"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ipv4":"172.16.4.33","ipv6":"0:0:0:0:0:ffff:ac10:0421"}`, string(data))
}

func TestAddressResult_UnmarshalJSON_Null(t *testing.T) {
	r := AddressResult{IPv4: "stale", IPv6: "stale"}
	require.NoError(t, json.Unmarshal([]byte(`{"ipv4":null,"ipv6":null}`), &r))
	assert.Equal(t, AddressResult{}, r)
}
