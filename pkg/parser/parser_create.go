package parser

import (
	"fmt"
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/token"
)

// parseCreateTable parses:
//
//	CREATE TABLE [IF NOT EXISTS] object_name
//	    '(' [table_element (',' table_element)*] ')'
//	table_element → column_def | table_constraint
func (p *Parser) parseCreateTable() Statement {
	start := p.token.Pos
	p.nextToken() // CREATE
	p.nextToken() // TABLE

	stmt := &CreateTableStmt{}
	stmt.IfNotExists = p.matchIfNotExists()
	stmt.Table = p.parseObjectName()
	if !p.ok() {
		return stmt
	}

	if !p.expect(token.LPAREN) {
		return stmt
	}
	// A zero-column table body is legal
	if !p.check(token.RPAREN) {
		for {
			if p.startsTableConstraint() {
				c := p.parseTableConstraint()
				if c == nil {
					return stmt
				}
				stmt.Constraints = append(stmt.Constraints, c)
			} else {
				col := p.parseColumnDef()
				if col == nil {
					return stmt
				}
				stmt.Columns = append(stmt.Columns, col)
			}
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)

	stmt.Span = token.Span{Start: start, End: p.prev.End}
	return stmt
}

// startsTableConstraint reports whether the current table element is a
// table-level constraint rather than a column definition.
func (p *Parser) startsTableConstraint() bool {
	switch p.token.Type {
	case token.CONSTRAINT, token.PRIMARY, token.FOREIGN, token.UNIQUE, token.CHECK:
		return true
	case token.KEY, token.INDEX:
		// MySQL inline index: KEY [name] (cols). A column named "key"
		// is followed by its type instead; when that type is
		// parameterized the data-type name tells the two apart.
		if p.checkPeek(token.LPAREN) {
			return true
		}
		if !token.IsName(p.peek.Type) || !p.checkPeek2(token.LPAREN) {
			return false
		}
		return p.dialect == nil || !p.dialect.IsDataType(p.peek.Literal)
	}
	return false
}

// parseTableConstraint parses a table-level constraint element:
//
//	[CONSTRAINT name] PRIMARY KEY '(' columns ')'
//	[CONSTRAINT name] UNIQUE [INDEX|KEY] [name] '(' columns ')'
//	[CONSTRAINT name] FOREIGN KEY '(' columns ')' ref_clause
//	[CONSTRAINT name] CHECK '(' expr ')'
//	KEY|INDEX [name] '(' columns ')'      (MySQL inline index)
func (p *Parser) parseTableConstraint() *TableConstraint {
	c := &TableConstraint{}
	start := p.token.Pos
	if p.match(token.CONSTRAINT) {
		c.Name = p.parseName()
		if c.Name.IsZero() {
			return nil
		}
	}

	switch p.token.Type {
	case token.PRIMARY:
		p.nextToken()
		if !p.expect(token.KEY) {
			return nil
		}
		c.Kind = ConstraintPrimaryKey
		c.Columns = p.parseColumnNameList()

	case token.UNIQUE:
		p.nextToken()
		c.Kind = ConstraintUnique
		c.Unique = true
		if p.check(token.KEY) || p.check(token.INDEX) {
			p.nextToken()
		}
		// MySQL names the backing index before the column list
		if token.IsName(p.token.Type) && p.checkPeek(token.LPAREN) {
			idxName := p.takeName()
			if c.Name.IsZero() {
				c.Name = idxName
			}
		}
		c.Columns = p.parseColumnNameList()

	case token.FOREIGN:
		p.nextToken()
		if !p.expect(token.KEY) {
			return nil
		}
		c.Kind = ConstraintForeignKey
		c.Columns = p.parseColumnNameList()
		if !p.ok() {
			return nil
		}
		c.References = p.parseRefClause()

	case token.CHECK:
		p.nextToken()
		c.Kind = ConstraintCheck
		c.Expr = p.parseParenRawExpr()

	case token.KEY, token.INDEX:
		p.nextToken()
		c.Kind = ConstraintIndex
		if token.IsName(p.token.Type) {
			c.Name = p.takeName()
		}
		c.Columns = p.parseColumnNameList()

	default:
		p.addErrorExpected(
			fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "constraint"),
			"table constraint",
		)
		return nil
	}

	if !p.ok() {
		return nil
	}
	c.Span = token.Span{Start: start, End: p.prev.End}
	return c
}

// parseColumnDef parses a column definition: name, data type, and any
// inline constraints.
func (p *Parser) parseColumnDef() *ColumnDef {
	col := &ColumnDef{}
	start := p.token.Pos

	col.Name = p.parseColumnName()
	if col.Name.IsZero() {
		return nil
	}
	col.Type = p.parseTypeName()
	if col.Type == nil {
		return nil
	}
	col.Constraints = p.parseColumnConstraints()
	if !p.ok() {
		return nil
	}

	col.Span = token.Span{Start: start, End: p.prev.End}
	return col
}

// typeContinuations lists the word sequences that extend a multi-word
// type name, longest first.
var typeContinuations = map[string][][]string{
	"bit":       {{"varying"}},
	"char":      {{"varying"}},
	"character": {{"varying"}},
	"double":    {{"precision"}},
	"national":  {{"character", "varying"}, {"char", "varying"}, {"character"}, {"char"}},
	"native":    {{"character"}},
	"time":      {{"with", "time", "zone"}, {"without", "time", "zone"}},
	"timestamp": {{"with", "time", "zone"}, {"without", "time", "zone"}},
	"unsigned":  {{"big", "int"}},
	"varying":   {{"character"}},
}

// parseTypeName parses a data type: a possibly qualified name, an
// optional argument list, and [] array suffixes. Multi-word forms such
// as "double precision" and "timestamp with time zone" are folded into
// a single canonical name.
func (p *Parser) parseTypeName() *TypeName {
	start := p.token.Pos
	head := p.token
	t := &TypeName{}

	switch p.token.Type {
	case token.IDENT:
		t.Name = strings.ToLower(head.Literal)
		p.nextToken()
	case token.QIDENT:
		t.Name = head.Literal
		t.Quoted = true
		p.nextToken()
	case token.ENUM:
		// MySQL inline enum type
		t.Name = "enum"
		p.nextToken()
	default:
		p.addErrorExpected(fmt.Sprintf(ErrExpectedType, p.token.Type), "data type")
		return nil
	}

	// Schema-qualified user-defined type, e.g. public.mood
	if head.Type == token.IDENT && p.check(token.DOT) {
		p.nextToken()
		t.Schema = Name{Value: head.Literal, Span: head.Span()}
		if !token.IsName(p.token.Type) {
			p.addErrorExpected(fmt.Sprintf(ErrExpectedType, p.token.Type), "data type")
			return nil
		}
		t.Quoted = p.check(token.QIDENT)
		if t.Quoted {
			t.Name = p.token.Literal
		} else {
			t.Name = strings.ToLower(p.token.Literal)
		}
		p.nextToken()
	}

	simple := !t.Quoted && t.Schema.IsZero()
	if simple {
		t.Name = p.matchTypeContinuation(t.Name)
	}

	if p.check(token.LPAREN) {
		t.Args = p.parseTypeArgs()
		if t.Args == nil {
			return nil
		}
		// Precision may precede the time zone words: timestamp(3) with time zone
		if simple && !strings.Contains(t.Name, " ") {
			t.Name = p.matchTypeContinuation(t.Name)
		}
	}

	for p.isTypeModifier(p.token) {
		t.Modifiers = append(t.Modifiers, strings.ToLower(p.token.Literal))
		p.nextToken()
	}

	for p.check(token.LBRACKET) {
		p.nextToken()
		p.match(token.NUMBER) // bound is accepted and ignored
		if !p.expect(token.RBRACKET) {
			return nil
		}
		t.ArrayDims++
	}

	t.Span = token.Span{Start: start, End: p.prev.End}
	return t
}

// isTypeModifier reports whether the token is a dialect type modifier
// (such as MySQL UNSIGNED) that attaches to the preceding type.
func (p *Parser) isTypeModifier(t token.Token) bool {
	if p.dialect == nil {
		return false
	}
	if t.Type != token.IDENT && !token.IsDynamic(t.Type) {
		return false
	}
	return p.dialect.IsTypeModifier(t.Literal)
}

// matchTypeContinuation consumes a multi-word type continuation if the
// upcoming tokens spell one, returning the extended name.
func (p *Parser) matchTypeContinuation(head string) string {
	for _, seq := range typeContinuations[head] {
		if p.matchIdentSeq(seq) {
			return head + " " + strings.Join(seq, " ")
		}
	}
	return head
}

// matchIdentSeq consumes the given identifier words if they all match,
// case-insensitively. Sequences longer than the 3-token lookahead are
// never matched.
func (p *Parser) matchIdentSeq(words []string) bool {
	if len(words) > 3 {
		return false
	}
	upcoming := [3]token.Token{p.token, p.peek, p.peek2}
	for i, w := range words {
		if upcoming[i].Type != token.IDENT || !strings.EqualFold(upcoming[i].Literal, w) {
			return false
		}
	}
	for range words {
		p.nextToken()
	}
	return true
}

// parseTypeArgs parses a parenthesized type argument list: lengths,
// precisions, or enum member strings.
func (p *Parser) parseTypeArgs() []string {
	p.nextToken() // '('
	args := []string{}
	if p.check(token.RPAREN) {
		p.nextToken()
		return args
	}
	for {
		switch p.token.Type {
		case token.NUMBER, token.IDENT:
			args = append(args, p.token.Literal)
		case token.STRING:
			args = append(args, "'"+strings.ReplaceAll(p.token.Literal, "'", "''")+"'")
		default:
			p.addErrorExpected(
				fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "type argument"),
				"type argument",
			)
			return nil
		}
		p.nextToken()
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return args
}

// parseColumnConstraints parses the inline constraint list following a
// column's data type. Dialect-ignorable options (such as MySQL
// AUTO_INCREMENT) are consumed without producing a constraint.
func (p *Parser) parseColumnConstraints() []*ColumnConstraint {
	var constraints []*ColumnConstraint
	for {
		start := p.token.Pos
		var name Name
		if p.check(token.CONSTRAINT) {
			p.nextToken()
			name = p.parseName()
			if name.IsZero() {
				return constraints
			}
		}

		c := &ColumnConstraint{Name: name}
		switch p.token.Type {
		case token.NOT:
			p.nextToken()
			if !p.expect(token.NULL) {
				return constraints
			}
			c.Kind = ConstraintNotNull

		case token.NULL:
			p.nextToken()
			c.Kind = ConstraintNull

		case token.PRIMARY:
			p.nextToken()
			if !p.expect(token.KEY) {
				return constraints
			}
			c.Kind = ConstraintPrimaryKey

		case token.UNIQUE:
			p.nextToken()
			p.match(token.KEY) // MySQL UNIQUE KEY
			c.Kind = ConstraintUnique

		case token.CHECK:
			p.nextToken()
			c.Kind = ConstraintCheck
			c.Expr = p.parseParenRawExpr()
			if c.Expr == nil {
				return constraints
			}

		case token.DEFAULT:
			p.nextToken()
			c.Kind = ConstraintDefault
			if p.check(token.NULL) {
				// DEFAULT NULL; bare NULL would otherwise read as the
				// nullability marker
				c.Expr = &RawExpr{Text: p.token.Literal, Span: p.token.Span()}
				p.nextToken()
			} else {
				c.Expr = p.parseRawExpr(p.stopAtColumnBoundary)
			}
			if c.Expr == nil {
				return constraints
			}

		case token.REFERENCES:
			c.Kind = ConstraintForeignKey
			c.References = p.parseRefClause()
			if c.References == nil {
				return constraints
			}

		default:
			if !name.IsZero() {
				p.addErrorExpected(
					fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "constraint"),
					"column constraint",
				)
				return constraints
			}
			if p.isIgnorableOption(p.token) {
				p.nextToken()
				continue
			}
			return constraints
		}

		c.Span = token.Span{Start: start, End: p.prev.End}
		constraints = append(constraints, c)
	}
}

// isIgnorableOption reports whether the token is a dialect column
// option that carries no catalog meaning.
func (p *Parser) isIgnorableOption(t token.Token) bool {
	if p.dialect == nil {
		return false
	}
	if t.Type != token.IDENT && !token.IsDynamic(t.Type) {
		return false
	}
	return p.dialect.IsIgnorableColumnOption(t.Literal)
}

// stopAtColumnBoundary stops a raw DEFAULT expression at the next
// constraint keyword, column separator, or ignorable option.
func (p *Parser) stopAtColumnBoundary(t token.Token) bool {
	switch t.Type {
	case token.COMMA, token.CONSTRAINT, token.NOT, token.NULL, token.PRIMARY,
		token.UNIQUE, token.CHECK, token.DEFAULT, token.REFERENCES, token.KEY:
		return true
	}
	return p.isIgnorableOption(t)
}

// parseRefClause parses REFERENCES table [(columns)] with optional
// ON DELETE / ON UPDATE actions.
func (p *Parser) parseRefClause() *RefClause {
	start := p.token.Pos
	if !p.expect(token.REFERENCES) {
		return nil
	}
	rc := &RefClause{}
	rc.Table = p.parseObjectName()
	if !p.ok() {
		return nil
	}
	if p.check(token.LPAREN) {
		rc.Columns = p.parseColumnNameList()
		if !p.ok() {
			return nil
		}
	}
	for p.check(token.ON) {
		p.nextToken()
		switch p.token.Type {
		case token.DELETE:
			p.nextToken()
			rc.OnDelete = p.parseRefAction()
		case token.UPDATE:
			p.nextToken()
			rc.OnUpdate = p.parseRefAction()
		default:
			p.addErrorExpected(
				fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "DELETE or UPDATE"),
				"referential action",
			)
			return nil
		}
		if !p.ok() {
			return nil
		}
	}
	rc.Span = token.Span{Start: start, End: p.prev.End}
	return rc
}

// parseRefAction parses one referential action keyword sequence.
func (p *Parser) parseRefAction() RefAction {
	switch p.token.Type {
	case token.CASCADE:
		p.nextToken()
		return RefCascade
	case token.RESTRICT:
		p.nextToken()
		return RefRestrict
	case token.NO:
		p.nextToken()
		if !p.expect(token.ACTION) {
			return ""
		}
		return RefNoAction
	case token.SET:
		p.nextToken()
		switch p.token.Type {
		case token.NULL:
			p.nextToken()
			return RefSetNull
		case token.DEFAULT:
			p.nextToken()
			return RefSetDefault
		}
	}
	p.addErrorExpected(
		fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "referential action"),
		"referential action",
	)
	return ""
}

// parseCreateIndex parses:
//
//	CREATE [UNIQUE] INDEX [IF NOT EXISTS] [name] ON object_name
//	    [USING method] '(' column [ASC|DESC] [NULLS FIRST|LAST], ... ')'
func (p *Parser) parseCreateIndex() Statement {
	start := p.token.Pos
	p.nextToken() // CREATE

	stmt := &CreateIndexStmt{}
	if p.check(token.UNIQUE) {
		stmt.Unique = true
		p.nextToken()
	}
	if !p.expect(token.INDEX) {
		return stmt
	}
	stmt.IfNotExists = p.matchIfNotExists()
	if !p.check(token.ON) {
		stmt.Name = p.parseName()
		if !p.ok() {
			return stmt
		}
	}
	if !p.expect(token.ON) {
		return stmt
	}
	stmt.Table = p.parseObjectName()
	if !p.ok() {
		return stmt
	}
	if p.matchIdent("using") {
		if !token.IsName(p.token.Type) {
			p.addErrorExpected(
				fmt.Sprintf(ErrExpectedIdentifier, p.token.Type),
				"index method",
			)
			return stmt
		}
		p.nextToken()
	}

	if !p.expect(token.LPAREN) {
		return stmt
	}
	for {
		n := p.parseColumnName()
		if n.IsZero() {
			return stmt
		}
		stmt.Columns = append(stmt.Columns, n)
		if !p.matchIdent("asc") {
			p.matchIdent("desc")
		}
		if p.matchIdent("nulls") {
			if !p.matchIdent("first") && !p.matchIdent("last") {
				p.addErrorExpected(
					fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "FIRST or LAST"),
					"NULLS FIRST or NULLS LAST",
				)
				return stmt
			}
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)

	stmt.Span = token.Span{Start: start, End: p.prev.End}
	return stmt
}

// parseCreateSchema parses CREATE SCHEMA [IF NOT EXISTS] name.
func (p *Parser) parseCreateSchema() Statement {
	start := p.token.Pos
	p.nextToken() // CREATE
	p.nextToken() // SCHEMA

	stmt := &CreateSchemaStmt{}
	stmt.IfNotExists = p.matchIfNotExists()
	stmt.Name = p.parseName()
	stmt.Span = token.Span{Start: start, End: p.prev.End}
	return stmt
}

// parseCreateType parses CREATE TYPE name AS ENUM '(' values ')'.
func (p *Parser) parseCreateType() Statement {
	start := p.token.Pos
	p.nextToken() // CREATE
	p.nextToken() // TYPE

	stmt := &CreateTypeStmt{}
	stmt.Name = p.parseObjectName()
	if !p.ok() {
		return stmt
	}
	if !p.expect(token.AS) || !p.expect(token.ENUM) {
		return stmt
	}
	if !p.expect(token.LPAREN) {
		return stmt
	}
	// An empty enum is legal
	if !p.check(token.RPAREN) {
		for {
			if !p.check(token.STRING) {
				p.addErrorExpected(
					fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "string literal"),
					"enum value",
				)
				return stmt
			}
			stmt.Values = append(stmt.Values, p.token.Literal)
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)

	stmt.Span = token.Span{Start: start, End: p.prev.End}
	return stmt
}
