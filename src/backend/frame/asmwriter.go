// asmwriter.go generalizes util.Writer's instruction-emission helpers
// with the few additional shapes a RISC-V assembly file needs that a
// single function body doesn't: section directives, comments, and
// blank lines between functions.
package frame

import (
	"fmt"

	"rvslc/src/util"
)

// AsmWriter wraps a *util.Writer with directive/comment helpers. It
// embeds a pointer, not a value: util.Writer holds a strings.Builder,
// which panics if used after being copied by value, so every AsmWriter
// built atop one NewWriter() call must share that same Writer.
type AsmWriter struct {
	*util.Writer
}

// NewAsmWriter wraps an already-constructed util.Writer (obtained from
// util.NewWriter by the caller, since Writer's channel must be set up
// by util.ListenWrite first).
func NewAsmWriter(w *util.Writer) AsmWriter {
	return AsmWriter{Writer: w}
}

// Directive writes an assembler directive line, e.g. ".text" or
// ".globl main". Every directive is indented except the two segment
// directives (.data/.text), which the assembler expects at column
// zero; pass indented=false for those.
func (w AsmWriter) Directive(indented bool, format string, args ...interface{}) {
	if indented {
		w.WriteString(fmt.Sprintf("\t.%s\n", fmt.Sprintf(format, args...)))
	} else {
		w.WriteString(fmt.Sprintf(".%s\n", fmt.Sprintf(format, args...)))
	}
}

// Comment writes a standalone comment line.
func (w AsmWriter) Comment(format string, args ...interface{}) {
	w.WriteString(fmt.Sprintf("\t# %s\n", fmt.Sprintf(format, args...)))
}

// BlankLine writes an empty line, used to separate function bodies.
func (w AsmWriter) BlankLine() {
	w.WriteString("\n")
}
