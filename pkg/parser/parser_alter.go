package parser

import (
	"fmt"

	"github.com/fernwood-labs/schemacat/pkg/token"
)

// parseAlterTable parses:
//
//	ALTER TABLE [IF EXISTS] object_name alter_action (',' alter_action)*
//	alter_action → ADD [COLUMN] [IF NOT EXISTS] column_def
//	             | ADD table_constraint
//	             | DROP [COLUMN] [IF EXISTS] name [CASCADE|RESTRICT]
//	             | DROP CONSTRAINT [IF EXISTS] name [CASCADE|RESTRICT]
//	             | RENAME TO name
//	             | RENAME [COLUMN] name TO name
//	             | ALTER [COLUMN] name SET NOT NULL | DROP NOT NULL
//	             | ALTER [COLUMN] name SET DEFAULT expr | DROP DEFAULT
func (p *Parser) parseAlterTable() Statement {
	start := p.token.Pos
	p.nextToken() // ALTER
	p.nextToken() // TABLE

	stmt := &AlterTableStmt{}
	stmt.IfExists = p.matchIfExists()
	stmt.Table = p.parseObjectName()
	if !p.ok() {
		return stmt
	}

	for {
		action := p.parseAlterAction()
		if action == nil {
			return stmt
		}
		stmt.Actions = append(stmt.Actions, action)
		if !p.match(token.COMMA) {
			break
		}
	}

	stmt.Span = token.Span{Start: start, End: p.prev.End}
	return stmt
}

// parseAlterAction parses a single ALTER TABLE action.
func (p *Parser) parseAlterAction() AlterAction {
	switch p.token.Type {
	case token.ADD:
		p.nextToken()
		if p.startsTableConstraint() {
			c := p.parseTableConstraint()
			if c == nil {
				return nil
			}
			return &AddConstraintAction{Constraint: c}
		}
		p.match(token.COLUMN)
		a := &AddColumnAction{}
		a.IfNotExists = p.matchIfNotExists()
		a.Column = p.parseColumnDef()
		if a.Column == nil {
			return nil
		}
		return a

	case token.DROP:
		p.nextToken()
		if p.match(token.CONSTRAINT) {
			a := &DropConstraintAction{}
			a.IfExists = p.matchIfExists()
			a.Constraint = p.parseName()
			if a.Constraint.IsZero() {
				return nil
			}
			a.Behavior = p.parseDropBehavior()
			return a
		}
		p.match(token.COLUMN)
		a := &DropColumnAction{}
		a.IfExists = p.matchIfExists()
		a.Column = p.parseColumnName()
		if a.Column.IsZero() {
			return nil
		}
		a.Behavior = p.parseDropBehavior()
		return a

	case token.RENAME:
		p.nextToken()
		if p.match(token.TO) {
			n := p.parseName()
			if n.IsZero() {
				return nil
			}
			return &RenameTableAction{NewName: n}
		}
		p.match(token.COLUMN)
		from := p.parseColumnName()
		if from.IsZero() {
			return nil
		}
		if !p.expect(token.TO) {
			return nil
		}
		to := p.parseColumnName()
		if to.IsZero() {
			return nil
		}
		return &RenameColumnAction{From: from, To: to}

	case token.ALTER:
		p.nextToken()
		p.match(token.COLUMN)
		col := p.parseColumnName()
		if col.IsZero() {
			return nil
		}
		return p.parseAlterColumnOp(col)
	}

	p.addErrorExpected(
		fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "alter action"),
		"ADD, DROP, RENAME or ALTER COLUMN",
	)
	return nil
}

// parseAlterColumnOp parses the SET/DROP tail of ALTER COLUMN.
func (p *Parser) parseAlterColumnOp(col Name) AlterAction {
	a := &AlterColumnAction{Column: col}
	switch p.token.Type {
	case token.SET:
		p.nextToken()
		switch p.token.Type {
		case token.NOT:
			p.nextToken()
			if !p.expect(token.NULL) {
				return nil
			}
			a.Op = AlterSetNotNull
		case token.DEFAULT:
			p.nextToken()
			a.Op = AlterSetDefault
			if p.check(token.NULL) {
				a.Default = &RawExpr{Text: p.token.Literal, Span: p.token.Span()}
				p.nextToken()
			} else {
				a.Default = p.parseRawExpr(stopAtComma)
			}
			if a.Default == nil {
				return nil
			}
		default:
			p.addErrorExpected(
				fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "NOT NULL or DEFAULT"),
				"NOT NULL or DEFAULT",
			)
			return nil
		}

	case token.DROP:
		p.nextToken()
		switch p.token.Type {
		case token.NOT:
			p.nextToken()
			if !p.expect(token.NULL) {
				return nil
			}
			a.Op = AlterDropNotNull
		case token.DEFAULT:
			p.nextToken()
			a.Op = AlterDropDefault
		default:
			p.addErrorExpected(
				fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "NOT NULL or DEFAULT"),
				"NOT NULL or DEFAULT",
			)
			return nil
		}

	default:
		p.addErrorExpected(
			fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "SET or DROP"),
			"SET or DROP",
		)
		return nil
	}
	return a
}

// stopAtComma ends a raw expression at the next action separator.
func stopAtComma(t token.Token) bool {
	return t.Type == token.COMMA
}

// parseDropBehavior consumes a trailing CASCADE or RESTRICT, if any.
func (p *Parser) parseDropBehavior() DropBehavior {
	switch p.token.Type {
	case token.CASCADE:
		p.nextToken()
		return DropCascade
	case token.RESTRICT:
		p.nextToken()
		return DropRestrict
	}
	return DropDefault
}
