package facade

import "testing"

func TestExtractSignatureFromSourceSkipsAnnotations(t *testing.T) {
	src := "@Deprecated(\n    \"use bar\"\n)\npublic fun foo(x: Int): String {\n    return \"\"\n}"
	got := ExtractSignatureFromSource(src)
	want := "public fun foo(x: Int): String {"
	if got != want {
		t.Errorf("ExtractSignatureFromSource = %q, want %q", got, want)
	}
}

func TestExtractSignatureFromSourceFallsBackToFirstNonEmptyLine(t *testing.T) {
	src := "// a comment, not a declaration\nsomething else entirely"
	got := ExtractSignatureFromSource(src)
	want := "// a comment, not a declaration"
	if got != want {
		t.Errorf("ExtractSignatureFromSource = %q, want %q", got, want)
	}
}

func TestExtractSignatureFromSourceTruncatesTo120(t *testing.T) {
	long := "fun "
	for i := 0; i < 130; i++ {
		long += "x"
	}
	got := ExtractSignatureFromSource(long)
	if len(got) != maxSignatureLength {
		t.Errorf("len(got) = %d, want %d", len(got), maxSignatureLength)
	}
}

func TestSynthesizeSignatureFunction(t *testing.T) {
	d := &Declaration{
		Kind: KindFunction,
		Name: "area",
		Params: []Param{
			{Name: "w", Type: TypeInfo{ShortName: "Int"}},
			{Name: "h", Type: TypeInfo{ShortName: "Int"}},
		},
		Type: &TypeInfo{ShortName: "Int"},
	}
	got := SynthesizeSignature(d)
	want := "fun area(w: Int, h: Int): Int"
	if got != want {
		t.Errorf("SynthesizeSignature = %q, want %q", got, want)
	}
}

func TestSynthesizeSignatureSuspendFunction(t *testing.T) {
	d := &Declaration{
		Kind:      KindFunction,
		Name:      "load",
		Modifiers: []string{"suspend"},
		Type:      &TypeInfo{ShortName: "String", Nullable: true},
	}
	got := SynthesizeSignature(d)
	want := "suspend fun load(): String?"
	if got != want {
		t.Errorf("SynthesizeSignature = %q, want %q", got, want)
	}
}

func TestSynthesizeSignatureProperty(t *testing.T) {
	d := &Declaration{Kind: KindProperty, Name: "count", Modifiers: []string{"var"}, Type: &TypeInfo{ShortName: "Int"}}
	got := SynthesizeSignature(d)
	if got != "var count: Int" {
		t.Errorf("SynthesizeSignature = %q, want \"var count: Int\"", got)
	}
}

func TestSynthesizeSignatureClass(t *testing.T) {
	d := &Declaration{Kind: KindInterface, FqName: "com.example.Widget"}
	got := SynthesizeSignature(d)
	if got != "interface com.example.Widget" {
		t.Errorf("SynthesizeSignature = %q, want \"interface com.example.Widget\"", got)
	}
}

func TestIsDeclarationLineAllowsLeadingModifiers(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"public open fun foo()", true},
		{"private val x: Int", true},
		{"return x + 1", false},
		{"// just a comment", false},
	}
	for _, c := range cases {
		if got := isDeclarationLine(c.line); got != c.want {
			t.Errorf("isDeclarationLine(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}
