// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"bytes"
	"fmt"
)

// OpType is the tag of an operation.
type OpType uint

// Operation is a tagged unit of ledger mutation.
// Data is the packed payload of the operation struct registered for Type.
type Operation struct {
	Type OpType
	Data []byte
}

// NewOperation creates an operation with a copy of the payload.
func NewOperation(typ OpType, data []byte) Operation {
	return Operation{typ, append([]byte(nil), data...)}
}

// Copy returns a deep copy of the operation.
func (o Operation) Copy() Operation {
	return NewOperation(o.Type, o.Data)
}

// Equal returns whether two operations are identical.
func (o Operation) Equal(other Operation) bool {
	return o.Type == other.Type && bytes.Equal(o.Data, other.Data)
}

func (o Operation) String() string {
	return fmt.Sprintf("Operation(type: %d, data: 0x%x)", o.Type, o.Data)
}

// Operations a list of operations.
type Operations []Operation

// Copy returns a deep copy.
func (ops Operations) Copy() Operations {
	if ops == nil {
		return nil
	}
	cpy := make(Operations, len(ops))
	for i, op := range ops {
		cpy[i] = op.Copy()
	}
	return cpy
}
