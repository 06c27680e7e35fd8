package frontend

import (
	"fmt"
	"io"
)

// TokenStream scans src and writes one line per token to w, in the
// teacher's -ts dump style (tree.go's TokenStream), stopping at EOF or
// the first lexer error.
func TokenStream(w io.Writer, src string) error {
	lex := NewLexer(src)
	for {
		tok, err := lex.NextToken()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", tok.Loc, tok); err != nil {
			return err
		}
		if tok.Type == EOF {
			return nil
		}
	}
}
