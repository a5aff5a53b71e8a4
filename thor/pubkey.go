// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"

	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKeyLength length of a compressed secp256k1 public key.
const PublicKeyLength = 33

// PublicKey is a compressed secp256k1 public key.
// The zero value is the null key, which can never sign anything.
type PublicKey [PublicKeyLength]byte

// NewPublicKey compresses the given ecdsa public key.
func NewPublicKey(pub *ecdsa.PublicKey) (pk PublicKey) {
	copy(pk[:], crypto.CompressPubkey(pub))
	return
}

// String implements stringer
func (pk PublicKey) String() string {
	return "0x" + hex.EncodeToString(pk[:])
}

// Bytes returns byte slice form of the key.
func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

// IsNull returns whether it's the null key.
func (pk PublicKey) IsNull() bool {
	return pk == PublicKey{}
}

// IsValid returns whether the key is a point on the curve.
func (pk PublicKey) IsValid() bool {
	if pk.IsNull() {
		return false
	}
	_, err := crypto.DecompressPubkey(pk[:])
	return err == nil
}

// Address returns the address of the key.
func (pk PublicKey) Address() Address {
	return AddressOf(pk[:])
}

// MarshalJSON implements json.Marshaler.
func (pk *PublicKey) MarshalJSON() ([]byte, error) {
	if pk == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(pk.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePublicKey(s)
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// ParsePublicKey convert string presented key into PublicKey type.
func ParsePublicKey(s string) (pk PublicKey, err error) {
	err = parseHex(s, pk[:])
	return
}
