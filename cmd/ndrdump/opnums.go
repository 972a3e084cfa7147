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
	"strconv"

	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newOpnumsCmd() *cobra.Command {
	var ifaceName string
	cmd := &cobra.Command{
		Use:   "opnums",
		Short: "List the operations each interface supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := dcerpc.Interfaces()
			if ifaceName != "" {
				iface, err := dcerpc.LookupInterface(ifaceName)
				if err != nil {
					return err
				}
				names = []string{iface.Name}
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Interface", "Opnum", "Operation"})
			table.SetAutoWrapText(false)
			table.SetAutoFormatHeaders(true)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetCenterSeparator("")
			table.SetColumnSeparator("")
			table.SetRowSeparator("")
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetTablePadding("  ")
			table.SetNoWhiteSpace(true)

			for _, name := range names {
				iface, err := dcerpc.LookupInterface(name)
				if err != nil {
					return err
				}
				for _, opnum := range iface.Opnums() {
					table.Append([]string{iface.Name, strconv.Itoa(int(opnum)), iface.Procedures[opnum].Name})
				}
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&ifaceName, "iface", "", "Only list this interface")
	return cmd
}
