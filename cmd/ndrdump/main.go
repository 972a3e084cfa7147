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

// ndrdump decodes captured SAMR and lsarpc stubs into JSON.
package main

import (
	"os"

	_ "github.com/jfjallid/go-msrpc/dcerpc/mslsad"
	_ "github.com/jfjallid/go-msrpc/dcerpc/mssamr"
	"github.com/jfjallid/golog"
	"github.com/spf13/cobra"
)

var log = golog.Get("github.com/jfjallid/go-msrpc/cmd/ndrdump")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ndrdump",
		Short: "Decode NDR stubs of the supported RPC interfaces",
		Long:  `ndrdump decodes the stub data of captured DCE/RPC requests and responses
of the samr and lsarpc interfaces and prints the result as JSON.

Use "ndrdump [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newOpnumsCmd())
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
