// RISC-V has a downward growing stack that is always 16-bytes aligned.
// This package targets the 32-bit integer base ISA only: no register
// allocator, no floating point. Every value lives in its frame slot;
// t0-t2 are the scratch registers a value passes through on its way
// between memory and an instruction operand, except call arguments and
// return values, which are loaded straight into a0-a7.

package riscv

// Base registers (integer).
const (
	x0  = iota // Zero register, RO.
	x1         // Return address (caller save).
	x2         // Stack pointer (callee save).
	x3         // Global pointer.
	x4         // Thread pointer.
	x5         // Temp register (caller saved).
	x6         // Temp register (caller saved).
	x7         // Temp register (caller saved).
	x8         // Frame pointer (callee saved).
	x9         // Saved (callee saved).
	x10        // Function args and return (caller saved).
	x11        // Function args and return (caller saved).
	x12        // Function arguments (caller saved).
	x13        // Function arguments (caller saved).
	x14        // Function arguments (caller saved).
	x15        // Function arguments (caller saved).
	x16        // Function arguments (caller saved).
	x17        // Function arguments (caller saved).
	x18        // Saved (callee saved).
	x19        // Saved (callee saved).
	x20        // Saved (callee saved).
	x21        // Saved (callee saved).
	x22        // Saved (callee saved).
	x23        // Saved (callee saved).
	x24        // Saved (callee saved).
	x25        // Saved (callee saved).
	x26        // Saved (callee saved).
	x27        // Saved (callee saved).
	x28        // Temp (caller saved).
	x29        // Temp (caller saved).
	x30        // Temp (caller saved).
	x31        // Temp (caller saved).
)

// Aliases.
const (
	zero = x0 // Hardwired zero.
	ra   = x1 // Return address.
	sp   = x2 // Stack pointer.
	fp   = x8 // Frame pointer.
)

// Integer argument register aliases.
const (
	a0 = iota + x10
	a1
	a2
	a3
	a4
	a5
	a6
	a7
)

// Aliases for temporary registers, the code generator's scratch
// registers (call arguments, return values and ra are loaded directly
// into a0-a7 and ra).
const (
	t0 = x5
	t1 = x6
	t2 = x7
)

// 12-bit immediate range an I-type instruction can encode directly.
const maxImm = 2047
const minImm = -2048

const stackAlign = 16 // The stack must be aligned by 16 bytes.
const wordSize = 4    // This is a 32-bit implementation only, word size is 4 bytes.

// regi holds the string literal for every base integer register, index
// by the constants above.
var regi = [...]string{
	"x0", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

// argRegs lists the registers carrying the first eight call arguments.
var argRegs = [...]int{a0, a1, a2, a3, a4, a5, a6, a7}
