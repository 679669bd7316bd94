package grammar

import (
	"fmt"
	"strings"
)

// No tree-sitter grammar for AIDL is available (§1 treats "the tree-sitter
// grammars for Java and AIDL" as an external, black-box collaborator, but
// only Java's is actually available here). AIDL's
// declaration grammar is small and regular enough that a hand-written
// recursive-descent parser stands in for the black box. Its shape —
// tokenize once, then dispatch on the current token's kind, the same way
// unified_extractor.go dispatches on tree-sitter node kind — is deliberately
// parallel to the Java backend so the Compiler's two input adapters feel
// like one family.

// AIDLType names a field/parameter/return type as written in source: the
// base name, an optional single generic argument (AIDL only nests one level
// deep in practice: List<Foo>, ParceledListSlice<Foo>), and whether it is an
// array.
type AIDLType struct {
	Name    string
	Generic string
	Array   bool
}

func (t AIDLType) String() string {
	s := t.Name
	if t.Generic != "" {
		s += "<" + t.Generic + ">"
	}
	if t.Array {
		s += "[]"
	}
	return s
}

// AIDLParamDirection mirrors model.Direction without importing model, which
// would create a cycle; the Compiler maps it over.
type AIDLParamDirection int

const (
	AIDLDirIn AIDLParamDirection = iota
	AIDLDirOut
	AIDLDirInout
)

type AIDLParam struct {
	Direction AIDLParamDirection
	Type      AIDLType
	Name      string
}

type AIDLMethod struct {
	Name         string
	Oneway       bool
	ReturnType   AIDLType
	Parameters   []AIDLParam
	CodeOverride *int // from a `= N` transaction-code suffix, if present
}

type AIDLField struct {
	Type AIDLType
	Name string
}

type AIDLInterface struct {
	Name    string
	Methods []AIDLMethod
}

// AIDLParcelable is a `parcelable Name;` (no body, type PARCELABLE_JAVA) or
// `parcelable Name { ...fields... }` (body present, type PARCELABLE).
type AIDLParcelable struct {
	Name    string
	HasBody bool
	Fields  []AIDLField
}

type AIDLImport struct {
	QName string
}

type AIDLFile struct {
	Package     string
	Imports     []AIDLImport
	Interfaces  []AIDLInterface
	Parcelables []AIDLParcelable
}

// ---- lexer ----

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokSymbol
	tokNumber
	tokString
)

type token struct {
	kind tokenKind
	text string
}

func lexAIDL(src string) []token {
	var toks []token
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i += 2
		case c == '@':
			// annotation: @Name or @Name(args) - skip to matching close or end of token
			j := i + 1
			for j < n && (isIdentByte(src[j])) {
				j++
			}
			if j < n && src[j] == '(' {
				depth := 1
				j++
				for j < n && depth > 0 {
					if src[j] == '(' {
						depth++
					} else if src[j] == ')' {
						depth--
					}
					j++
				}
			}
			i = j
		case isIdentStart(c):
			j := i
			for j < n && isIdentByte(src[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j]})
			i = j
		case c >= '0' && c <= '9':
			j := i
			for j < n && (isDigitByte(src[j]) || src[j] == 'x' || src[j] == 'X' ||
				(src[j] >= 'a' && src[j] <= 'f') || (src[j] >= 'A' && src[j] <= 'F') ||
				src[j] == 'L' || src[j] == 'l') {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j]})
			i = j
		case c == '"':
			j := i + 1
			for j < n && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			j++
			toks = append(toks, token{tokString, src[i:min(j, n)]})
			i = j
		default:
			toks = append(toks, token{tokSymbol, string(c)})
			i++
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigitByte(c)
}
func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

// ---- parser ----

type aidlParser struct {
	toks []token
	pos  int
}

func (p *aidlParser) cur() token  { return p.toks[p.pos] }
func (p *aidlParser) at(s string) bool {
	t := p.cur()
	return (t.kind == tokIdent || t.kind == tokSymbol) && t.text == s
}
func (p *aidlParser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}
func (p *aidlParser) expect(s string) error {
	if !p.at(s) {
		return fmt.Errorf("expected %q, got %q at token %d", s, p.cur().text, p.pos)
	}
	p.advance()
	return nil
}

// ParseAIDL parses an AIDL source file's package, imports, and top-level
// interface/parcelable declarations (§4.1 "AIDL unit processing").
func ParseAIDL(src string) (*AIDLFile, error) {
	p := &aidlParser{toks: lexAIDL(src)}
	file := &AIDLFile{}

	for p.cur().kind != tokEOF {
		switch {
		case p.at("package"):
			p.advance()
			file.Package = p.readDottedName()
			if err := p.expect(";"); err != nil {
				return nil, err
			}
		case p.at("import"):
			p.advance()
			qname := p.readDottedNameWithWildcard()
			if err := p.expect(";"); err != nil {
				return nil, err
			}
			file.Imports = append(file.Imports, AIDLImport{QName: qname})
		case p.at("interface"):
			iface, err := p.parseInterface()
			if err != nil {
				return nil, err
			}
			file.Interfaces = append(file.Interfaces, iface)
		case p.at("parcelable"):
			pc, err := p.parseParcelable()
			if err != nil {
				return nil, err
			}
			file.Parcelables = append(file.Parcelables, pc)
		case p.at("oneway"):
			// `oneway interface I {...}` — the modifier precedes the
			// declaration; consume it and let the next loop iteration
			// handle the interface itself. AIDL's `oneway` on the
			// interface makes every method oneway; methods may still
			// declare out-parameters, handled in as_binder (§4.4).
			p.advance()
		default:
			// Unrecognized top-level token (e.g. a stray modifier). Skip
			// forward to keep the parser resilient, matching the Compiler's
			// unit-level fault tolerance (§7 "Propagation policy").
			p.advance()
		}
	}
	return file, nil
}

func (p *aidlParser) readDottedName() string {
	var sb strings.Builder
	for {
		t := p.cur()
		if t.kind != tokIdent {
			break
		}
		sb.WriteString(t.text)
		p.advance()
		if p.at(".") {
			sb.WriteString(".")
			p.advance()
			continue
		}
		break
	}
	return sb.String()
}

func (p *aidlParser) readDottedNameWithWildcard() string {
	// readDottedName consumes the "." before a trailing "*" and keeps it.
	name := strings.TrimSuffix(p.readDottedName(), ".")
	if p.at(".") {
		p.advance()
	}
	if p.at("*") {
		p.advance()
		return name + ".*"
	}
	return name
}

func (p *aidlParser) parseInterface() (AIDLInterface, error) {
	if err := p.expect("interface"); err != nil {
		return AIDLInterface{}, err
	}
	name := p.cur().text
	p.advance()
	iface := AIDLInterface{Name: name}
	if err := p.expect("{"); err != nil {
		return iface, err
	}
	for !p.at("}") && p.cur().kind != tokEOF {
		m, err := p.parseMethod()
		if err != nil {
			return iface, err
		}
		iface.Methods = append(iface.Methods, m)
	}
	if err := p.expect("}"); err != nil {
		return iface, err
	}
	return iface, nil
}

func (p *aidlParser) parseMethod() (AIDLMethod, error) {
	m := AIDLMethod{}
	// The `oneway` keyword is parsed but not authoritative: as_binder (§4.4)
	// derives the effective oneway-ness from the return type (void), which
	// is what on-wire behavior actually depends on.
	if p.at("oneway") {
		m.Oneway = true
		p.advance()
	}
	retType, err := p.parseType()
	if err != nil {
		return m, err
	}
	m.ReturnType = retType
	if p.cur().kind != tokIdent {
		return m, fmt.Errorf("expected method name, got %q", p.cur().text)
	}
	m.Name = p.advance().text
	if err := p.expect("("); err != nil {
		return m, err
	}
	for !p.at(")") {
		param, err := p.parseParam()
		if err != nil {
			return m, err
		}
		m.Parameters = append(m.Parameters, param)
		if p.at(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(")"); err != nil {
		return m, err
	}
	if p.at("=") {
		p.advance()
		if p.cur().kind == tokNumber {
			n := parseIntLiteral(p.cur().text)
			m.CodeOverride = &n
			p.advance()
		}
	}
	if err := p.expect(";"); err != nil {
		return m, err
	}
	return m, nil
}

func (p *aidlParser) parseParam() (AIDLParam, error) {
	param := AIDLParam{Direction: AIDLDirIn}
	switch {
	case p.at("in"):
		param.Direction = AIDLDirIn
		p.advance()
	case p.at("out"):
		param.Direction = AIDLDirOut
		p.advance()
	case p.at("inout"):
		param.Direction = AIDLDirInout
		p.advance()
	}
	t, err := p.parseType()
	if err != nil {
		return param, err
	}
	param.Type = t
	if p.cur().kind != tokIdent {
		return param, fmt.Errorf("expected parameter name, got %q", p.cur().text)
	}
	param.Name = p.advance().text
	return param, nil
}

func (p *aidlParser) parseType() (AIDLType, error) {
	if p.cur().kind != tokIdent {
		return AIDLType{}, fmt.Errorf("expected type, got %q", p.cur().text)
	}
	name := p.readDottedName()
	t := AIDLType{Name: SimpleName(name)}
	if p.at("<") {
		p.advance()
		inner := p.readDottedName()
		t.Generic = SimpleName(inner)
		// skip any further generic args/nesting defensively
		for !p.at(">") && p.cur().kind != tokEOF {
			p.advance()
		}
		if err := p.expect(">"); err != nil {
			return t, err
		}
	}
	for p.at("[") {
		p.advance()
		if err := p.expect("]"); err != nil {
			return t, err
		}
		t.Array = true
	}
	return t, nil
}

func (p *aidlParser) parseParcelable() (AIDLParcelable, error) {
	if err := p.expect("parcelable"); err != nil {
		return AIDLParcelable{}, err
	}
	name := p.cur().text
	p.advance()
	pc := AIDLParcelable{Name: name}
	if p.at(";") {
		p.advance()
		return pc, nil
	}
	pc.HasBody = true
	if err := p.expect("{"); err != nil {
		return pc, err
	}
	for !p.at("}") && p.cur().kind != tokEOF {
		if p.at("readonly") {
			p.advance()
			continue
		}
		t, err := p.parseType()
		if err != nil {
			return pc, err
		}
		if p.cur().kind != tokIdent {
			return pc, fmt.Errorf("expected field name, got %q", p.cur().text)
		}
		fieldName := p.advance().text
		pc.Fields = append(pc.Fields, AIDLField{Type: t, Name: fieldName})
		// skip default-value initializer, if any, up to ';'
		for !p.at(";") && p.cur().kind != tokEOF {
			p.advance()
		}
		if err := p.expect(";"); err != nil {
			return pc, err
		}
	}
	if err := p.expect("}"); err != nil {
		return pc, err
	}
	return pc, nil
}

func parseIntLiteral(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
