// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/vechain/ledger/thor"
)

// MustSign signs a transaction using the provided private key.
// It panics if the signing process fails.
func MustSign(tx *Transaction, chainID thor.Bytes32, pk *ecdsa.PrivateKey) *Transaction {
	trx, err := Sign(tx, chainID, pk)
	if err != nil {
		panic(err)
	}
	return trx
}

// Sign appends a compact recoverable signature over the tx digest.
func Sign(tx *Transaction, chainID thor.Bytes32, pk *ecdsa.PrivateKey) (*Transaction, error) {
	sig, err := crypto.Sign(tx.Digest(chainID).Bytes(), pk)
	if err != nil {
		return nil, fmt.Errorf("unable to sign transaction: %w", err)
	}
	return tx.WithSignature(sig), nil
}
