// Package reader loads a built shared object and reads back the signature
// table embedded in it.
package reader

import (
	"fmt"
	"unsafe"

	"github.com/coreos/pkg/dlopen"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/pyjit/typeinfo"
	"github.com/pontaoski/pyjit/types"
)

// #include <stdlib.h>
import "C"

// MissingSymbol reports a routine the table lists but the object lacks.
type MissingSymbol struct {
	Library string
	Name    string
}

func (e MissingSymbol) Error() string {
	return fmt.Sprintf("%s does not export %s", e.Library, e.Name)
}

type Library struct {
	Path       string
	Signatures types.SignatureTable

	handle *dlopen.LibHandle
}

// Open loads the shared object at path and decodes its embedded table.
func Open(path string) (*Library, error) {
	handle, err := dlopen.GetHandle([]string{path})
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	sym, err := handle.GetSymbolPointer(typeinfo.SymbolName)
	if err != nil {
		handle.Close()
		return nil, tracerr.Errorf("%s carries no signature table: %v", path, err)
	}

	table, err := typeinfo.DecodeTable([]byte(C.GoString((*C.char)(sym))))
	if err != nil {
		handle.Close()
		return nil, tracerr.Wrap(err)
	}

	return &Library{Path: path, Signatures: table, handle: handle}, nil
}

// Symbol resolves an exported routine.
func (l *Library) Symbol(name string) (unsafe.Pointer, error) {
	ptr, err := l.handle.GetSymbolPointer(name)
	if err != nil {
		return nil, tracerr.Wrap(MissingSymbol{Library: l.Path, Name: name})
	}
	return ptr, nil
}

// Check resolves every routine in the table and returns the first missing
// one.
func (l *Library) Check() error {
	for _, name := range typeinfo.Names(l.Signatures) {
		if _, err := l.Symbol(name); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) Close() error {
	return l.handle.Close()
}

// ReadSignatures opens path, verifies its exports and returns the table.
func ReadSignatures(path string) (types.SignatureTable, error) {
	l, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	if err := l.Check(); err != nil {
		return nil, err
	}
	return l.Signatures, nil
}
