// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash160 is a 20 bytes digest, the block id.
type Hash160 [20]byte

// String implements stringer
func (h Hash160) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// AbbrevString returns abbrev string presentation.
func (h Hash160) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", h[:4], h[16:])
}

// Bytes returns byte slice form of Hash160.
func (h Hash160) Bytes() []byte {
	return h[:]
}

// IsZero returns if Hash160 has all zero bytes.
func (h Hash160) IsZero() bool {
	return h == Hash160{}
}

// MarshalJSON implements json.Marshaler.
func (h *Hash160) MarshalJSON() ([]byte, error) {
	if h == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hash160) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return parseHex(s, h[:])
}
