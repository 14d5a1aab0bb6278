package parser

import "github.com/fernwood-labs/schemacat/pkg/token"

// parseDropTable parses:
//
//	DROP TABLE [IF EXISTS] object_name (',' object_name)* [CASCADE|RESTRICT]
func (p *Parser) parseDropTable() Statement {
	start := p.token.Pos
	p.nextToken() // DROP
	p.nextToken() // TABLE

	stmt := &DropTableStmt{}
	stmt.IfExists = p.matchIfExists()
	for {
		obj := p.parseObjectName()
		if !p.ok() {
			return stmt
		}
		stmt.Tables = append(stmt.Tables, obj)
		if !p.match(token.COMMA) {
			break
		}
	}
	stmt.Behavior = p.parseDropBehavior()

	stmt.Span = token.Span{Start: start, End: p.prev.End}
	return stmt
}

// parseDropIndex parses:
//
//	DROP INDEX [IF EXISTS] object_name [ON object_name] [CASCADE|RESTRICT]
//
// The ON clause is the MySQL form, where indexes are scoped to their
// table.
func (p *Parser) parseDropIndex() Statement {
	start := p.token.Pos
	p.nextToken() // DROP
	p.nextToken() // INDEX

	stmt := &DropIndexStmt{}
	stmt.IfExists = p.matchIfExists()
	stmt.Index = p.parseObjectName()
	if !p.ok() {
		return stmt
	}
	if p.match(token.ON) {
		stmt.Table = p.parseObjectName()
		if !p.ok() {
			return stmt
		}
	}
	stmt.Behavior = p.parseDropBehavior()

	stmt.Span = token.Span{Start: start, End: p.prev.End}
	return stmt
}

// parseDropSchema parses:
//
//	DROP SCHEMA [IF EXISTS] name [CASCADE|RESTRICT]
func (p *Parser) parseDropSchema() Statement {
	start := p.token.Pos
	p.nextToken() // DROP
	p.nextToken() // SCHEMA

	stmt := &DropSchemaStmt{}
	stmt.IfExists = p.matchIfExists()
	stmt.Name = p.parseName()
	if !p.ok() {
		return stmt
	}
	stmt.Behavior = p.parseDropBehavior()

	stmt.Span = token.Span{Start: start, End: p.prev.End}
	return stmt
}
