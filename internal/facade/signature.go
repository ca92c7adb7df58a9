package facade

import (
	"fmt"
	"strings"
)

const maxSignatureLength = 120

// declarationKeywords and modifierKeywords implement spec §4.6.4's fixed
// pattern: a line "begins with a declaration keyword" if its first
// whitespace-delimited token is one of these, possibly preceded by any number
// of modifier-keyword tokens.
var declarationKeywords = map[string]bool{
	"val": true, "var": true, "fun": true, "class": true, "interface": true,
	"object": true, "enum": true, "typealias": true, "constructor": true,
}

var modifierKeywords = map[string]bool{
	"abstract": true, "open": true, "override": true, "private": true,
	"protected": true, "internal": true, "public": true, "lateinit": true,
	"const": true, "suspend": true, "inline": true, "data": true, "sealed": true,
	"annotation": true, "inner": true, "companion": true, "expect": true,
	"actual": true, "external": true, "tailrec": true, "operator": true,
	"infix": true, "crossinline": true, "noinline": true, "reified": true,
	"vararg": true,
}

// extractSignatureFromSource implements spec §4.6.4: skip leading annotation
// lines (including multi-line annotations with parenthesized arguments) and
// return the first line whose leading token sequence of modifier keywords ends
// in a declaration keyword. Falls back to the first non-empty, non-'@' line.
// Result is trimmed and truncated to 120 characters.
func extractSignatureFromSource(source string) string {
	lines := strings.Split(source, "\n")
	depth := 0 // open-paren depth, to skip multi-line annotation arguments
	var fallback string

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if depth > 0 {
			depth += strings.Count(line, "(") - strings.Count(line, ")")
			continue
		}
		if strings.HasPrefix(line, "@") {
			depth += strings.Count(line, "(") - strings.Count(line, ")")
			if depth < 0 {
				depth = 0
			}
			continue
		}
		if fallback == "" {
			fallback = line
		}
		if isDeclarationLine(line) {
			return truncate(line)
		}
	}
	return truncate(fallback)
}

// isDeclarationLine reports whether line's leading tokens are zero-or-more
// modifier keywords followed by a declaration keyword.
func isDeclarationLine(line string) bool {
	fields := strings.Fields(line)
	for _, f := range fields {
		f = strings.TrimRight(f, "(<")
		if declarationKeywords[f] {
			return true
		}
		if !modifierKeywords[f] {
			return false
		}
	}
	return false
}

// ExtractSignatureFromSource exports extractSignatureFromSource for callers
// outside this package (spec §4.6.1 item 1, source-backed symbols).
func ExtractSignatureFromSource(source string) string { return extractSignatureFromSource(source) }

// SynthesizeSignature exports synthesizeSignature for callers outside this
// package (spec §4.6.1 item 2, compiled/binary symbols).
func SynthesizeSignature(d *Declaration) string { return synthesizeSignature(d) }

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxSignatureLength {
		return s[:maxSignatureLength]
	}
	return s
}

// synthesizeSignature renders a deterministic signature from a compiled/binary
// symbol's metadata, spec §4.6.1 item 2: "otherwise render a synthetic
// signature deterministically from symbol metadata".
func synthesizeSignature(d *Declaration) string {
	switch d.Kind {
	case KindFunction:
		return synthesizeCallable("fun", d)
	case KindConstructor:
		return synthesizeConstructor(d)
	case KindProperty:
		keyword := "val"
		for _, m := range d.Modifiers {
			if m == "var" {
				keyword = "var"
			}
		}
		if d.Type != nil {
			return fmt.Sprintf("%s %s: %s", keyword, d.Name, renderTypeInfo(*d.Type))
		}
		return fmt.Sprintf("%s %s", keyword, d.Name)
	case KindClass, KindInterface, KindObject, KindEnum:
		keyword := classKeyword(d.Kind, d.Modifiers)
		name := d.FqName
		if name == "" {
			name = d.Name
		}
		return fmt.Sprintf("%s %s", keyword, name)
	case KindLocalVariable, KindParameter:
		if d.Type != nil {
			return fmt.Sprintf("%s: %s", d.Name, renderTypeInfo(*d.Type))
		}
		return d.Name
	default:
		return d.Name
	}
}

func classKeyword(kind SymbolKind, modifiers []string) string {
	base := "class"
	switch kind {
	case KindInterface:
		base = "interface"
	case KindObject:
		base = "object"
	case KindEnum:
		base = "enum class"
	}
	for _, m := range modifiers {
		if m == "annotation" {
			return "annotation class"
		}
	}
	return base
}

func synthesizeCallable(keyword string, d *Declaration) string {
	var b strings.Builder
	for _, m := range d.Modifiers {
		if m == "suspend" {
			fmt.Fprintf(&b, "%s ", m)
		}
	}
	fmt.Fprintf(&b, "%s %s(", keyword, d.Name)
	for i, p := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", p.Name, renderTypeInfo(p.Type))
	}
	b.WriteString(")")
	if d.Type != nil {
		fmt.Fprintf(&b, ": %s", renderTypeInfo(*d.Type))
	}
	return b.String()
}

func synthesizeConstructor(d *Declaration) string {
	var b strings.Builder
	name := d.ContainingClassNameOrFallback()
	fmt.Fprintf(&b, "%s(", name)
	for i, p := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", p.Name, renderTypeInfo(p.Type))
	}
	b.WriteString(")")
	return b.String()
}

// ContainingClassNameOrFallback returns the constructor's owning class name,
// which this generator encodes as the declaration's own Name.
func (d *Declaration) ContainingClassNameOrFallback() string {
	if d.Name != "" {
		return d.Name
	}
	return "Unknown"
}

func renderTypeInfo(t TypeInfo) string {
	name := t.ShortName
	if name == "" {
		name = t.FqName
	}
	var b strings.Builder
	b.WriteString(name)
	if len(t.TypeArguments) > 0 {
		b.WriteString("<")
		for i, arg := range t.TypeArguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(renderTypeInfo(arg))
		}
		b.WriteString(">")
	}
	if t.Nullable {
		b.WriteString("?")
	}
	return b.String()
}
