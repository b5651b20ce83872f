package parser

import (
	"strings"

	"github.com/samber/lo"
)

// PrettyPrint renders a program in its canonical source form, one
// top-level statement per line. The rendering is reparseable: lexing and
// parsing it again yields an equivalent AST, which the parser tests rely
// on.
func PrettyPrint(root *RootNode) string {
	lines := lo.Map(root.Statements, func(stmt StatementNode, _ int) string {
		return stmt.Literal()
	})
	return strings.Join(lines, "\n")
}
