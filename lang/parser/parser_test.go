package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/cycles/lang/ast"
)

func TestParseArrowFunctionWithTwoParamsAndOperatorPrecedence(t *testing.T) {
	prog, err := Parse("let x = (a, b) => a + b * 2;")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	let, ok := prog.Stmts[0].(*ast.LetDecl)
	require.True(t, ok)
	require.Equal(t, "x", let.Name)

	arrow, ok := let.Init.(*ast.ArrowFunc)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, arrow.Params)
	require.Nil(t, arrow.BlockBody)

	body, ok := arrow.Body.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, "+", body.Op)

	left, ok := body.Left.(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "a", left.Name)

	right, ok := body.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, "*", right.Op)
}

func TestParseSingleParamArrowWithoutParens(t *testing.T) {
	prog, err := Parse("let inc = x => x + 1;")
	require.NoError(t, err)
	let := prog.Stmts[0].(*ast.LetDecl)
	arrow := let.Init.(*ast.ArrowFunc)
	require.Equal(t, []string{"x"}, arrow.Params)
}

func TestParseArrowWithBlockBodyAndReturn(t *testing.T) {
	prog, err := Parse("let f = (a) => { let b = a * 2; return b; };")
	require.NoError(t, err)
	let := prog.Stmts[0].(*ast.LetDecl)
	arrow := let.Init.(*ast.ArrowFunc)
	require.Nil(t, arrow.Body)
	require.Len(t, arrow.BlockBody, 2)
	_, isLet := arrow.BlockBody[0].(*ast.LetDecl)
	require.True(t, isLet)
	ret, isReturn := arrow.BlockBody[1].(*ast.ReturnStmt)
	require.True(t, isReturn)
	require.NotNil(t, ret.Value)
}

func TestParseArrowReturningObjectLiteralDisambiguatedFromBlock(t *testing.T) {
	prog, err := Parse(`let f = (a) => ({ value: a });`)
	require.NoError(t, err)
	let := prog.Stmts[0].(*ast.LetDecl)
	arrow := let.Init.(*ast.ArrowFunc)
	_, isObj := arrow.Body.(*ast.ObjectLit)
	require.True(t, isObj)
}

func TestParseCallAndMemberChain(t *testing.T) {
	prog, err := Parse(`pattern.fast(2).rev();`)
	require.NoError(t, err)
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	outer, ok := stmt.X.(*ast.CallExpr)
	require.True(t, ok)
	member, ok := outer.Callee.(*ast.MemberExpr)
	require.True(t, ok)
	require.Equal(t, "rev", member.Property)
	inner, ok := member.Object.(*ast.CallExpr)
	require.True(t, ok)
	innerMember := inner.Callee.(*ast.MemberExpr)
	require.Equal(t, "fast", innerMember.Property)
}

func TestParseImportWildcardNamedAndAliased(t *testing.T) {
	prog, err := Parse(`import * as cycles from "cycles/core";
import { note, seq as sequence } from "cycles/core";`)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 2)

	wildcard := prog.Stmts[0].(*ast.ImportStmt)
	require.True(t, wildcard.Wildcard)
	require.Equal(t, "cycles", wildcard.WildcardName)
	require.Equal(t, "cycles/core", wildcard.Library)

	named := prog.Stmts[1].(*ast.ImportStmt)
	require.False(t, named.Wildcard)
	require.Equal(t, []ast.ImportBinding{{Name: "note", Alias: "note"}, {Name: "seq", Alias: "sequence"}}, named.Bindings)
}

func TestParseObjectLiteralWithTrailingComma(t *testing.T) {
	prog, err := Parse(`let o = { a: 1, b: 2, };`)
	require.NoError(t, err)
	let := prog.Stmts[0].(*ast.LetDecl)
	obj := let.Init.(*ast.ObjectLit)
	require.Len(t, obj.Properties, 2)
}

func TestParseArrayLiteralWithTrailingComma(t *testing.T) {
	prog, err := Parse(`let a = [1, 2, 3,];`)
	require.NoError(t, err)
	let := prog.Stmts[0].(*ast.LetDecl)
	arr := let.Init.(*ast.ArrayLit)
	require.Len(t, arr.Elements, 3)
}

func TestParseLogicalAndComparisonPrecedence(t *testing.T) {
	prog, err := Parse(`let x = a < b && c == d || e;`)
	require.NoError(t, err)
	let := prog.Stmts[0].(*ast.LetDecl)
	top := let.Init.(*ast.BinaryExpr)
	require.Equal(t, "||", top.Op)
	left := top.Left.(*ast.BinaryExpr)
	require.Equal(t, "&&", left.Op)
}

func TestParseReportsPositionOnError(t *testing.T) {
	_, err := Parse(`let = 1;`)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 1, perr.Line)
	require.Equal(t, 5, perr.Col)
}
