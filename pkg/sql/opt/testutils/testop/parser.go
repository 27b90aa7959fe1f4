// Copyright 2026 The Trino Go Authors.
//
// Use of this software is governed by the Apache License, Version 2.0,
// included in the /LICENSE file.

package testop

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt"
	"github.com/ImpressionableRaccoon/trino/pkg/sql/opt/memo"
	"github.com/cockroachdb/errors"
)

// ParsePlan parses the compact parenthesized plan syntax used by the
// datadriven tests and the optmemo tool:
//
//	(scan <table> [cols])
//	(values [cols])
//	(select "<filter>" <input>)
//	(project [cols] <input>)
//	(inner-join "<on>" <left> <right>)
//	(union [cols] <input> <input> ...)
//	(ref G<n> [cols])
//
// Column lists are written [1,2,3]. The (ref ...) form builds a group
// reference, so rewrites that alias a group or share a subtree can be written
// directly; its node id is drawn from the given allocator. Select and
// inner-join compute their output columns from their inputs; the other
// operators state them explicitly.
func ParsePlan(idAlloc *opt.IDAllocator, input string) (opt.Node, error) {
	p := planParser{idAlloc: idAlloc, input: input}
	node, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, errors.Newf("unexpected trailing input at offset %d: %q", p.pos, p.rest())
	}
	return node, nil
}

type planParser struct {
	idAlloc *opt.IDAllocator
	input   string
	pos     int
}

func (p *planParser) parseNode() (opt.Node, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	op := p.scanWord()
	var node opt.Node
	var err error
	switch op {
	case "scan":
		node, err = p.parseScan()
	case "values":
		node, err = p.parseValues()
	case "select":
		node, err = p.parseSelect()
	case "project":
		node, err = p.parseProject()
	case "inner-join":
		node, err = p.parseInnerJoin()
	case "union":
		node, err = p.parseUnion()
	case "ref":
		node, err = p.parseRef()
	default:
		return nil, errors.Newf("unknown operator %q at offset %d", op, p.pos)
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *planParser) parseScan() (opt.Node, error) {
	table := p.scanWord()
	if table == "" {
		return nil, errors.Newf("scan: missing table name at offset %d", p.pos)
	}
	cols, err := p.parseColList()
	if err != nil {
		return nil, err
	}
	return &Scan{Table: table, Cols: cols}, nil
}

func (p *planParser) parseValues() (opt.Node, error) {
	cols, err := p.parseColList()
	if err != nil {
		return nil, err
	}
	return &Values{Cols: cols}, nil
}

func (p *planParser) parseSelect() (opt.Node, error) {
	filter, err := p.parseQuoted()
	if err != nil {
		return nil, err
	}
	input, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	return &Select{Input: input, Filter: filter, Cols: input.OutputCols()}, nil
}

func (p *planParser) parseProject() (opt.Node, error) {
	cols, err := p.parseColList()
	if err != nil {
		return nil, err
	}
	input, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	return &Project{Input: input, Cols: cols}, nil
}

func (p *planParser) parseInnerJoin() (opt.Node, error) {
	on, err := p.parseQuoted()
	if err != nil {
		return nil, err
	}
	left, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	right, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	cols := make(opt.ColList, 0, len(left.OutputCols())+len(right.OutputCols()))
	cols = append(cols, left.OutputCols()...)
	cols = append(cols, right.OutputCols()...)
	return &InnerJoin{Left: left, Right: right, On: on, Cols: cols}, nil
}

func (p *planParser) parseUnion() (opt.Node, error) {
	cols, err := p.parseColList()
	if err != nil {
		return nil, err
	}
	var inputs []opt.Node
	for {
		p.skipSpace()
		if p.peek() != '(' {
			break
		}
		input, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	if len(inputs) == 0 {
		return nil, errors.Newf("union: at least one input required at offset %d", p.pos)
	}
	return &Union{Inputs: inputs, Cols: cols}, nil
}

func (p *planParser) parseRef() (opt.Node, error) {
	word := p.scanWord()
	if len(word) < 2 || word[0] != 'G' {
		return nil, errors.Newf("ref: expected group id like G3, found %q at offset %d", word, p.pos)
	}
	id, err := strconv.Atoi(word[1:])
	if err != nil {
		return nil, errors.Newf("ref: invalid group id %q", word)
	}
	cols, err := p.parseColList()
	if err != nil {
		return nil, err
	}
	return memo.NewGroupReference(p.idAlloc.Next(), memo.GroupID(id), cols), nil
}

func (p *planParser) parseColList() (opt.ColList, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var cols opt.ColList
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return cols, nil
		}
		if len(cols) > 0 {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
		word := p.scanWord()
		col, err := strconv.Atoi(word)
		if err != nil {
			return nil, errors.Newf("invalid column id %q at offset %d", word, p.pos)
		}
		cols = append(cols, opt.ColumnID(col))
	}
}

func (p *planParser) parseQuoted() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	end := strings.IndexByte(p.input[p.pos:], '"')
	if end < 0 {
		return "", errors.Newf("unterminated string at offset %d", p.pos)
	}
	s := p.input[p.pos : p.pos+end]
	p.pos += end + 1
	return s, nil
}

func (p *planParser) expect(ch byte) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != ch {
		return errors.Newf("expected %q at offset %d, found %q", string(ch), p.pos, p.rest())
	}
	p.pos++
	return nil
}

func (p *planParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *planParser) scanWord() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == '(' || ch == ')' || ch == '[' || ch == ']' || ch == ',' || ch == '"' ||
			unicode.IsSpace(rune(ch)) {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *planParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *planParser) rest() string {
	const window = 10
	end := p.pos + window
	if end > len(p.input) {
		end = len(p.input)
	}
	return p.input[p.pos:end]
}
