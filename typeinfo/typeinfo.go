// Package typeinfo carries a signature table alongside compiled code: as a
// JSON document, and as an LLVM IR module holding one declaration per
// routine plus the JSON in a NUL-terminated global that the reader package
// finds again after the shared object is loaded.
package typeinfo

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/pontaoski/pyjit/types"
)

// SymbolName is the global holding the encoded table.
const SymbolName = "__pyjit_signatures"

func EncodeTable(t types.SignatureTable) ([]byte, error) {
	if t == nil {
		t = types.SignatureTable{}
	}
	return json.Marshal(t)
}

func DecodeTable(data []byte) (types.SignatureTable, error) {
	var t types.SignatureTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding signature table: %w", err)
	}
	if t == nil {
		t = types.SignatureTable{}
	}
	return t, nil
}

// IRType is the LLVM type a tagged slot lowers to under the C ABI.
func IRType(tag types.SignatureTag) (lltypes.Type, error) {
	switch tag {
	case types.CInt:
		return lltypes.I32, nil
	case types.CDouble:
		return lltypes.Double, nil
	case types.CBool:
		return lltypes.I1, nil
	}
	return nil, fmt.Errorf("no IR type for %s", tag)
}

// Names returns the table's function names in sorted order.
func Names(t types.SignatureTable) []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Module builds the companion IR module for t. Declarations are emitted in
// name order so the text is stable.
func Module(t types.SignatureTable) (*ir.Module, error) {
	data, err := EncodeTable(t)
	if err != nil {
		return nil, err
	}

	m := ir.NewModule()
	for _, name := range Names(t) {
		sig := t[name]

		ret, err := IRType(sig.Returns)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		var params []*ir.Param
		for i, tag := range sig.Params {
			typ, err := IRType(tag)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %d: %w", name, i, err)
			}
			params = append(params, ir.NewParam(fmt.Sprintf("p%d", i), typ))
		}
		m.NewFunc(name, ret, params...)
	}

	g := m.NewGlobalDef(SymbolName, constant.NewCharArray(append(data, 0)))
	g.Immutable = true

	return m, nil
}
