package backend

import (
	"rvslc/src/backend/riscv"
	"rvslc/src/midir"
	"rvslc/src/util"
)

// GenerateAssembler takes a lowered program and writes RISC-V 32-bit
// assembly through the util.Writer channel util.ListenWrite set up.
func GenerateAssembler(opt util.Options, prog *midir.Program) error {
	return riscv.GenRiscv(opt, prog)
}
