//go:build !llvm

// This build excludes llvmgen.go (tag "llvm") because the
// tinygo.org/x/go-llvm cgo bindings this package depends on cannot be
// built against the LLVM version available in this environment. Build
// with -tags llvm on a host with a matching LLVM install to use the
// real implementation.
package llvmgen

import (
	"fmt"

	"rvslc/src/midir"
	"rvslc/src/util"
)

// GenLLVM is unavailable in this build; see the package doc comment.
func GenLLVM(opt util.Options, prog *midir.Program) error {
	return fmt.Errorf("llvmgen: not available in this build (requires -tags llvm)")
}
