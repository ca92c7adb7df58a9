package klib

import (
	"fmt"
	"strings"
)

// renderer resolves the qualified-name table against a fragment's string table
// and renders declarations to Kotlin source stubs.
type renderer struct {
	strings []string
	qnames  []qualifiedNameEntry
}

type qualifiedNameEntry struct {
	parentIndex int32
	shortIndex  int32
}

func newRenderer(msg rawMessage) *renderer {
	r := &renderer{strings: msg.repeatedStr(fieldStrings)}
	for _, qn := range msg.repeatedSub(fieldQualifiedName) {
		parent, _ := qn.i32(qnFieldParentIndex)
		short, _ := qn.i32(qnFieldShortIndex)
		r.qnames = append(r.qnames, qualifiedNameEntry{parentIndex: parent, shortIndex: short})
	}
	return r
}

func (r *renderer) stringAt(i int32) string {
	if i < 0 || int(i) >= len(r.strings) {
		return ""
	}
	return r.strings[i]
}

// fqNameOf resolves a declFieldNameIndex (an index into the qualified-name
// table) to its short name and full dotted FQN by walking parent links, spec
// §4.3 step 3 "short name (full FQN resolved via the qualified-name table)".
func (r *renderer) fqNameOf(nameIndex int32) (short, fqName string) {
	if nameIndex < 0 || int(nameIndex) >= len(r.qnames) {
		return "", ""
	}
	var parts []string
	idx := nameIndex
	for idx >= 0 && int(idx) < len(r.qnames) {
		entry := r.qnames[idx]
		parts = append([]string{r.stringAt(entry.shortIndex)}, parts...)
		if entry.parentIndex == idx {
			break // defensive: malformed self-referential entry
		}
		idx = entry.parentIndex
	}
	if len(parts) == 0 {
		return "", ""
	}
	return parts[len(parts)-1], strings.Join(parts, ".")
}

// isVisible reports whether a declaration should be emitted, spec §4.3 step 3:
// public or protected. An absent visibility field counts as public.
func isVisible(vis string) bool {
	return vis == "public" || vis == "protected" || vis == ""
}

var classKeyword = map[string]string{
	"CLASS":            "class",
	"INTERFACE":        "interface",
	"OBJECT":           "object",
	"ENUM_CLASS":       "enum class",
	"ANNOTATION_CLASS": "annotation class",
}

func (r *renderer) renderDeclaration(b *strings.Builder, decl rawMessage, depth int) {
	kind, _ := decl.str(declFieldKind)
	vis, _ := decl.str(declFieldVisibility)
	if !isVisible(vis) {
		return
	}
	nameIdx, _ := decl.i32(declFieldNameIndex)
	short, fq := r.fqNameOf(nameIdx)
	if short == "" {
		return
	}
	_ = fq
	indent := strings.Repeat("    ", depth)

	modality, _ := decl.str(declFieldModality)
	var mods []string
	if modality != "" && modality != "final" && modality != "var" {
		mods = append(mods, modality)
	}
	if decl.boolean(declFieldCompanion) {
		mods = append(mods, "companion")
	}

	switch kind {
	case "FUNCTION":
		r.renderFunction(b, decl, short, mods, indent)
	case "PROPERTY":
		r.renderProperty(b, decl, short, mods, indent)
	default:
		r.renderClassLike(b, decl, kind, short, mods, indent, depth)
	}
}

func (r *renderer) renderClassLike(b *strings.Builder, decl rawMessage, kind, short string, mods []string, indent string, depth int) {
	keyword, ok := classKeyword[kind]
	if !ok {
		keyword = "class"
	}
	if len(mods) > 0 {
		fmt.Fprintf(b, "%s%s %s", indent, strings.Join(mods, " "), keyword)
	} else {
		fmt.Fprintf(b, "%s%s", indent, keyword)
	}
	fmt.Fprintf(b, " %s", short)

	typeParams := decl.repeatedStr(declFieldTypeParam)
	if len(typeParams) > 0 {
		fmt.Fprintf(b, "<%s>", strings.Join(typeParams, ", "))
	}

	supertypes := filterAny(decl.repeatedStr(declFieldSupertype))
	if len(supertypes) > 0 {
		fmt.Fprintf(b, " : %s", strings.Join(supertypes, ", "))
	}
	b.WriteString(" {\n")

	// Members recurse one level, per spec §4.3 step 3 "recursed once".
	if depth < 1 {
		for _, member := range decl.repeatedSub(declFieldMember) {
			r.renderDeclaration(b, member, depth+1)
		}
	}
	fmt.Fprintf(b, "%s}\n\n", indent)
}

func (r *renderer) renderFunction(b *strings.Builder, decl rawMessage, short string, mods []string, indent string) {
	if decl.boolean(declFieldIsSuspend) {
		mods = append(mods, "suspend")
	}
	prefix := indent
	if len(mods) > 0 {
		prefix += strings.Join(mods, " ") + " "
	}
	fmt.Fprintf(b, "%sfun", prefix)

	if recv, ok := decl.sub(declFieldReceiver); ok {
		fmt.Fprintf(b, " %s.", r.renderType(recv))
	} else {
		b.WriteString(" ")
	}
	b.WriteString(short)
	b.WriteString("(")
	params := decl.repeatedSub(declFieldValueParam)
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		name, _ := p.str(paramFieldName)
		fmt.Fprintf(b, "%s: ", name)
		if t, ok := p.sub(paramFieldType); ok {
			b.WriteString(r.renderType(t))
		} else {
			b.WriteString("Any?")
		}
	}
	b.WriteString(")")

	if ret, ok := decl.sub(declFieldReturnType); ok {
		fmt.Fprintf(b, ": %s", r.renderType(ret))
	}
	// Elide the body with a placeholder that type-checks as any return type,
	// spec §4.3 step 3.
	b.WriteString(" = TODO()\n\n")
}

func (r *renderer) renderProperty(b *strings.Builder, decl rawMessage, short string, mods []string, indent string) {
	keyword := "val"
	if modality, _ := decl.str(declFieldModality); modality == "var" {
		keyword = "var"
	}
	prefix := indent
	if len(mods) > 0 {
		prefix += strings.Join(mods, " ") + " "
	}
	fmt.Fprintf(b, "%s%s %s", prefix, keyword, short)
	if t, ok := decl.sub(declFieldReturnType); ok {
		fmt.Fprintf(b, ": %s", r.renderType(t))
	}
	b.WriteString(" = TODO()\n\n")
}

// renderType renders a TypeRef per spec §4.3 step 3: nullability '?' suffix,
// generic arguments '<...>', '*' for star projections, 'in'/'out' variance.
func (r *renderer) renderType(t rawMessage) string {
	if t.boolean(typeFieldStar) {
		return "*"
	}
	name, _ := t.str(typeFieldName)
	if name == "" {
		name = "Any"
	}
	variance, _ := t.str(typeFieldVariance)
	args := t.repeatedSub(typeFieldArg)
	var argStrs []string
	for _, a := range args {
		argStrs = append(argStrs, r.renderType(a))
	}
	var b strings.Builder
	if variance == "in" || variance == "out" {
		fmt.Fprintf(&b, "%s ", variance)
	}
	b.WriteString(name)
	if len(argStrs) > 0 {
		fmt.Fprintf(&b, "<%s>", strings.Join(argStrs, ", "))
	}
	if t.boolean(typeFieldNullable) {
		b.WriteString("?")
	}
	return b.String()
}

// filterAny drops the universal top type ("kotlin.Any") from a supertype list,
// spec §4.3 step 3 "supertypes (excluding the universal top type)".
func filterAny(supertypes []string) []string {
	out := supertypes[:0:0]
	for _, s := range supertypes {
		if s == "kotlin.Any" || s == "Any" {
			continue
		}
		out = append(out, s)
	}
	return out
}
