// MIT License
//
// # Copyright (c) 2025 Jimmy Fjällid
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package dcerpc

import (
	"encoding"
	"fmt"
	"sort"
)

// Procedure couples an Operation with constructors for its request and
// response messages so that captured stubs can be decoded without a live
// connection.
type Procedure struct {
	Operation
	NewRequest func() encoding.BinaryUnmarshaler
	// class is the information class for responses that carry a union and
	// is ignored by all other responses
	NewResponse func(class uint16) encoding.BinaryUnmarshaler
}

// Interface is the set of procedures of one RPC interface.
type Interface struct {
	Name       string
	Pipe       string
	Syntax     SyntaxId
	Procedures map[uint16]Procedure
}

var interfaces = map[string]*Interface{}

// RegisterInterface makes an interface available to Lookup. It is called from
// the init functions of the interface packages.
func RegisterInterface(i *Interface) {
	interfaces[i.Name] = i
}

// LookupInterface returns a registered interface by name or named pipe.
func LookupInterface(name string) (*Interface, error) {
	if i, found := interfaces[name]; found {
		return i, nil
	}
	for _, i := range interfaces {
		if i.Pipe == name {
			return i, nil
		}
	}
	return nil, fmt.Errorf("Unknown interface %q", name)
}

// Interfaces returns the names of all registered interfaces in sorted order.
func Interfaces() []string {
	names := make([]string, 0, len(interfaces))
	for name := range interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (i *Interface) Procedure(opnum uint16) (Procedure, error) {
	p, found := i.Procedures[opnum]
	if !found {
		return Procedure{}, fmt.Errorf("Interface %s has no supported operation with opnum %d", i.Name, opnum)
	}
	return p, nil
}

// Opnums returns the supported opnums in ascending order.
func (i *Interface) Opnums() []uint16 {
	ops := make([]uint16, 0, len(i.Procedures))
	for op := range i.Procedures {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(a, b int) bool { return ops[a] < ops[b] })
	return ops
}
