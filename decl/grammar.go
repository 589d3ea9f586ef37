package decl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

//nolint:govet // participle grammar tags are not standard struct tags
type fileAST struct {
	Units []*unitAST `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type unitAST struct {
	Type  *typeAST  `  @@`
	Block *blockAST `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type typeAST struct {
	Pos  lexer.Position
	Name string     `"TYPE" @(QuotedIdent | Ident)`
	Body *structAST `@@ ";"? "END_TYPE"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type blockAST struct {
	Pos  lexer.Position
	Name string        `"DATA_BLOCK" @(QuotedIdent | Ident)`
	Body *blockBodyAST `@@ "END_DATA_BLOCK"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type blockBodyAST struct {
	UDT    *string    `  @QuotedIdent`
	Struct *structAST `| @@ ";"?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type structAST struct {
	Members []*memberAST `"STRUCT" @@* "END_STRUCT"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type memberAST struct {
	Pos  lexer.Position
	Name string      `@Ident ":"`
	Type *typeRefAST `@@`
	Init *literalAST `( ":=" @@ )? ";"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type typeRefAST struct {
	Array  *arrayAST  `  @@`
	Struct *structAST `| @@`
	UDT    *string    `| @QuotedIdent`
	Named  *namedAST  `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type arrayAST struct {
	Dims []*dimAST   `"ARRAY" "[" @@ ( "," @@ )* "]" "OF"`
	Elem *typeRefAST `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type dimAST struct {
	Lo int `@("-"? Int) ".."`
	Hi int `@("-"? Int)`
}

//nolint:govet // participle grammar tags are not standard struct tags
type namedAST struct {
	Name   string `@Ident`
	Length *int   `( "[" @Int "]" )?`
	Number *int   `@Int?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type literalAST struct {
	Pos  lexer.Position
	List []*literalAST `  "[" ( @@ ( "," @@ )* )? "]"`
	Bool *string       `| @("TRUE" | "FALSE")`
	Str  *string       `| @String`
	Num  *numberAST    `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type numberAST struct {
	Neg   bool   `@"-"?`
	Value string `@(Float | Based | Int)`
}

var declLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|\(\*(?s:.*?)\*\)`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Keyword", Pattern: `(?i)\b(?:END_DATA_BLOCK|DATA_BLOCK|END_STRUCT|STRUCT|END_TYPE|TYPE|ARRAY|OF|TRUE|FALSE)\b`},
	{Name: "Based", Pattern: `\d+#[0-9A-Fa-f_]+`},
	{Name: "Float", Pattern: `\d+\.\d+(?:[eE][-+]?\d+)?`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "String", Pattern: `'(?:\$.|[^'$])*'`},
	{Name: "QuotedIdent", Pattern: `"[^"]*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Assign", Pattern: `:=`},
	{Name: "Range", Pattern: `\.\.`},
	{Name: "Punct", Pattern: `[:;,\[\]\-]`},
})

var declParser = participle.MustBuild[fileAST](
	participle.Lexer(declLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.CaseInsensitive("Keyword"),
	participle.Unquote("QuotedIdent"),
)
