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

package main

import (
	"encoding"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/spf13/cobra"
)

type decodeOptions struct {
	iface   string
	opnum   uint16
	request bool
	class   uint16
}

func newDecodeCmd() *cobra.Command {
	opts := &decodeOptions{}
	cmd := &cobra.Command{
		Use:   "decode <hex|->",
		Short: "Decode a request or response stub",
		Long:  `Decode the NDR stub of one request or response and print it as JSON.

The stub is given as hex, with any whitespace ignored, or read from stdin
when the argument is "-". Responses that carry a union, such as
SamrQueryInformationUser2 and LsarQueryInformationPolicy, need the
information class of the matching request in --class.

Examples:
  # Decode an LsarOpenPolicy2 request
  ndrdump decode --iface lsarpc --opnum 44 --request 000000001800...

  # Decode a SamrQueryInformationUser2 response read from stdin
  ndrdump decode --iface samr --opnum 47 --class 21 - < stub.hex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.iface, "iface", "", "Interface name or pipe (samr, lsarpc)")
	cmd.Flags().Uint16Var(&opts.opnum, "opnum", 0, "Operation number")
	cmd.Flags().BoolVar(&opts.request, "request", false, "Decode a request instead of a response")
	cmd.Flags().Uint16Var(&opts.class, "class", 0, "Information class of a union response")
	cmd.MarkFlagRequired("iface")
	cmd.MarkFlagRequired("opnum")
	return cmd
}

func readStub(in io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		buf, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		arg = string(buf)
	}
	stub, err := hex.DecodeString(strings.Join(strings.Fields(arg), ""))
	if err != nil {
		return nil, fmt.Errorf("Invalid hex stub: %w", err)
	}
	return stub, nil
}

func runDecode(cmd *cobra.Command, opts *decodeOptions, arg string) error {
	log.Debugln("In runDecode")
	iface, err := dcerpc.LookupInterface(opts.iface)
	if err != nil {
		return err
	}
	p, err := iface.Procedure(opts.opnum)
	if err != nil {
		return err
	}
	stub, err := readStub(cmd.InOrStdin(), arg)
	if err != nil {
		return err
	}

	kind := "response"
	var msg encoding.BinaryUnmarshaler
	if opts.request {
		kind = "request"
		msg = p.NewRequest()
	} else {
		msg = p.NewResponse(opts.class)
	}
	if err = msg.UnmarshalBinary(stub); err != nil {
		return fmt.Errorf("Failed to decode %s %s: %w", p.Name, kind, err)
	}

	out, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
