// Tests the lexer type by verifying that a short SL fragment is tokenized correctly.
//
// Token type and text were captured by hand from the fragment below; it is expected
// that the lexer emits tokens in the same order as the expected slice, walking the
// source string from start to finish.

package frontend

import "testing"

func TestLexer(t *testing.T) {
	src := "int add(int a, int b) {\n" +
		"  return a + b * 2;\n" +
		"}\n"

	exp := []item{
		{val: "int", typ: INT, line: 1, pos: 1},
		{val: "add", typ: IDENTIFIER, line: 1, pos: 5},
		{val: "(", typ: '(', line: 1, pos: 8},
		{val: "int", typ: INT, line: 1, pos: 9},
		{val: "a", typ: IDENTIFIER, line: 1, pos: 13},
		{val: ",", typ: ',', line: 1, pos: 14},
		{val: "int", typ: INT, line: 1, pos: 16},
		{val: "b", typ: IDENTIFIER, line: 1, pos: 20},
		{val: ")", typ: ')', line: 1, pos: 21},
		{val: "{", typ: '{', line: 1, pos: 23},
		{val: "return", typ: RETURN, line: 2, pos: 3},
		{val: "a", typ: IDENTIFIER, line: 2, pos: 10},
		{val: "+", typ: '+', line: 2, pos: 12},
		{val: "b", typ: IDENTIFIER, line: 2, pos: 14},
		{val: "*", typ: '*', line: 2, pos: 16},
		{val: "2", typ: INTEGER, line: 2, pos: 18},
		{val: ";", typ: ';', line: 2, pos: 19},
		{val: "}", typ: '}', line: 3, pos: 1},
	}

	l := newLexer(src, lexGlobal)
	go l.run()

	for i1 := 0; ; i1++ {
		tok := l.nextItem()

		if tok.typ == itemEOF {
			if len(exp) > i1 {
				t.Fatalf("expected %d tokens, got %d", len(exp), i1)
			}
			break
		}
		if i1 >= len(exp) {
			t.Fatalf("expected %d tokens, got more", len(exp))
		}
		if tok.typ != exp[i1].typ || tok.val != exp[i1].val {
			t.Errorf("(token %d): expected %q, got %q", i1+1, exp[i1].val, tok.String())
		} else if tok.line != exp[i1].line || tok.pos != exp[i1].pos {
			t.Errorf("(token %d): expected %q to be on line %d:%d, got line %d:%d",
				i1+1, exp[i1].val, exp[i1].line, exp[i1].pos, tok.line, tok.pos)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	src := "== != <= >= && || <<"
	exp := []itemType{EQ, NEQ, LE, GE, LAND, LOR, '<', '<'}

	l := newLexer(src, lexGlobal)
	go l.run()

	for i1, want := range exp {
		tok := l.nextItem()
		if tok.typ != want {
			t.Errorf("token %d: expected type %d, got %d (%q)", i1, want, tok.typ, tok.val)
		}
	}
}

func TestLexerHexOctal(t *testing.T) {
	src := "0x2A 052 0"
	exp := []string{"0x2A", "052", "0"}

	l := newLexer(src, lexGlobal)
	go l.run()

	for i1, want := range exp {
		tok := l.nextItem()
		if tok.typ != INTEGER || tok.val != want {
			t.Errorf("token %d: expected INTEGER %q, got %q (%q)", i1, want, tok.val, tok.String())
		}
	}
}
