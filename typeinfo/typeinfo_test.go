package typeinfo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/pontaoski/pyjit/types"
)

var table = types.SignatureTable{
	"jit_exp": {Params: []types.SignatureTag{types.CDouble}, Returns: types.CDouble},
	"jit_f":   {Params: []types.SignatureTag{types.CInt}, Returns: types.CInt},
	"ready":   {Params: []types.SignatureTag{types.CBool, types.CInt}, Returns: types.CBool},
}

func TestEncodeTable(t *testing.T) {
	data, err := EncodeTable(types.SignatureTable{
		"jit_exp": table["jit_exp"],
		"jit_f":   table["jit_f"],
	})
	if err != nil {
		t.Fatalf("EncodeTable failed: %v", err)
	}

	want := `{"jit_exp":{"argtypes":["c_double"],"restype":"c_double"},"jit_f":{"argtypes":["c_int"],"restype":"c_int"}}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestTableRoundTrip(t *testing.T) {
	data, err := EncodeTable(table)
	if err != nil {
		t.Fatalf("EncodeTable failed: %v", err)
	}
	back, err := DecodeTable(data)
	if err != nil {
		t.Fatalf("DecodeTable failed: %v", err)
	}
	if len(back) != len(table) {
		t.Fatalf("expected %d entries, got %d", len(table), len(back))
	}
	for name, sig := range table {
		if !back[name].Equal(sig) {
			t.Errorf("%s: expected %v, got %v", name, sig, back[name])
		}
	}
}

func TestEmptyTable(t *testing.T) {
	data, err := EncodeTable(nil)
	if err != nil || string(data) != "{}" {
		t.Fatalf("expected {}, got %s (%v)", data, err)
	}
	back, err := DecodeTable([]byte("null"))
	if err != nil || back == nil || len(back) != 0 {
		t.Errorf("expected an empty table, got %v (%v)", back, err)
	}
}

func TestDecodeTableRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"f":`},
		{"unknown tag", `{"f":{"argtypes":["c_char_p"],"restype":"c_int"}}`},
		{"wrong shape", `{"f":[1,2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTable([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestModule(t *testing.T) {
	m, err := Module(table)
	if err != nil {
		t.Fatalf("Module failed: %v", err)
	}

	if len(m.Funcs) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(m.Funcs))
	}
	wantNames := []string{"jit_exp", "jit_f", "ready"}
	for i, f := range m.Funcs {
		if f.Name() != wantNames[i] {
			t.Errorf("declaration %d: expected %s, got %s", i, wantNames[i], f.Name())
		}
		if len(f.Blocks) != 0 {
			t.Errorf("%s has a body", f.Name())
		}
	}

	ready := m.Funcs[2]
	if !ready.Sig.RetType.Equal(lltypes.I1) {
		t.Errorf("expected an i1 return, got %v", ready.Sig.RetType)
	}
	if len(ready.Params) != 2 || !ready.Params[0].Typ.Equal(lltypes.I1) || !ready.Params[1].Typ.Equal(lltypes.I32) {
		t.Errorf("unexpected parameters %v", ready.Params)
	}

	if len(m.Globals) != 1 {
		t.Fatalf("expected the signatures global, got %d globals", len(m.Globals))
	}
	g := m.Globals[0]
	if g.Name() != SymbolName || !g.Immutable {
		t.Errorf("unexpected global %s (immutable %v)", g.Name(), g.Immutable)
	}
	arr, ok := g.Init.(*constant.CharArray)
	if !ok {
		t.Fatalf("expected a char array, got %T", g.Init)
	}
	if len(arr.X) == 0 || arr.X[len(arr.X)-1] != 0 {
		t.Fatal("signature data is not NUL-terminated")
	}
	back, err := DecodeTable(bytes.TrimSuffix(arr.X, []byte{0}))
	if err != nil {
		t.Fatalf("embedded table does not decode: %v", err)
	}
	if !back["jit_exp"].Equal(table["jit_exp"]) {
		t.Errorf("embedded table differs: %v", back)
	}

	text := m.String()
	if !strings.Contains(text, "declare double @jit_exp(") || !strings.Contains(text, "@"+SymbolName) {
		t.Errorf("unexpected module text:\n%s", text)
	}
}

func TestModuleRejectsInvalidTag(t *testing.T) {
	_, err := Module(types.SignatureTable{"f": {Returns: types.SignatureTag(0)}})
	if err == nil {
		t.Error("expected an error for the zero tag")
	}
}
