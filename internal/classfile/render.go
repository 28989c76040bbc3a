package classfile

import (
	"fmt"
	"strings"
)

// Render prints c as Java source declarations. Method bodies are not
// reconstructed; concrete methods get an empty body with a marker comment.
func Render(c *Class) string {
	var b strings.Builder
	if c.SourceFile != "" {
		fmt.Fprintf(&b, "// Source file: %s\n", c.SourceFile)
	}
	fmt.Fprintf(&b, "// Class version: %d.%d\n", c.Major, c.Minor)
	if pkg := c.Package(); pkg != "" {
		fmt.Fprintf(&b, "package %s;\n", pkg)
	}
	b.WriteString("\n")

	kind := "class"
	access := c.Access
	switch {
	case access&AccAnnotation != 0:
		kind = "@interface"
		access &^= AccAbstract | AccInterface
	case access&AccInterface != 0:
		kind = "interface"
		access &^= AccAbstract
	case access&AccEnum != 0:
		kind = "enum"
		access &^= AccFinal
	}
	b.WriteString(classModifiers(access))
	b.WriteString(kind)
	b.WriteString(" ")
	b.WriteString(c.SimpleName())

	isInterface := c.Access&AccInterface != 0
	if c.Super != "" && c.Super != "java/lang/Object" && !(kind == "enum" && c.Super == "java/lang/Enum") {
		fmt.Fprintf(&b, " extends %s", JavaName(c.Super))
	}
	ifaces := make([]string, 0, len(c.Interfaces))
	for _, i := range c.Interfaces {
		if kind == "@interface" && i == "java/lang/annotation/Annotation" {
			continue
		}
		ifaces = append(ifaces, JavaName(i))
	}
	if len(ifaces) > 0 {
		if isInterface {
			b.WriteString(" extends ")
		} else {
			b.WriteString(" implements ")
		}
		b.WriteString(strings.Join(ifaces, ", "))
	}
	b.WriteString(" {\n")

	for _, f := range c.Fields {
		if f.Access&AccSynthetic != 0 {
			continue
		}
		typ, _, err := parseType(f.Descriptor, 0)
		if err != nil {
			typ = "/* " + f.Descriptor + " */ Object"
		}
		fmt.Fprintf(&b, "    %s%s %s;\n", fieldModifiers(f.Access), typ, f.Name)
	}
	if len(c.Fields) > 0 && len(c.Methods) > 0 {
		b.WriteString("\n")
	}
	for _, m := range c.Methods {
		if m.Access&(AccSynthetic|AccBridge) != 0 || m.Name == "<clinit>" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(method(c, m, isInterface))
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func method(c *Class, m Member, inInterface bool) string {
	params, ret, err := ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		return fmt.Sprintf("// %s%s: %v", m.Name, m.Descriptor, err)
	}
	access := m.Access
	isDefault := inInterface && access&(AccStatic|AccAbstract|AccPrivate) == 0
	if inInterface {
		access &^= AccPublic | AccAbstract
	}
	if m.Access&AccVarargs != 0 && len(params) > 0 {
		last := params[len(params)-1]
		if strings.HasSuffix(last, "[]") {
			params[len(params)-1] = strings.TrimSuffix(last, "[]") + "..."
		}
	}
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = fmt.Sprintf("%s arg%d", p, i)
	}

	var b strings.Builder
	if isDefault {
		b.WriteString("default ")
	}
	b.WriteString(methodModifiers(access))
	if m.Name == "<init>" {
		b.WriteString(c.SimpleName())
	} else {
		b.WriteString(ret)
		b.WriteString(" ")
		b.WriteString(m.Name)
	}
	b.WriteString("(")
	b.WriteString(strings.Join(args, ", "))
	b.WriteString(")")
	if m.Access&(AccAbstract|AccNative) != 0 {
		b.WriteString(";")
	} else {
		b.WriteString(" { /* compiled code */ }")
	}
	return b.String()
}

func classModifiers(access uint16) string {
	return modifiers(access, []flagWord{
		{AccPublic, "public"},
		{AccProtected, "protected"},
		{AccPrivate, "private"},
		{AccAbstract, "abstract"},
		{AccStatic, "static"},
		{AccFinal, "final"},
	})
}

func fieldModifiers(access uint16) string {
	return modifiers(access, []flagWord{
		{AccPublic, "public"},
		{AccProtected, "protected"},
		{AccPrivate, "private"},
		{AccStatic, "static"},
		{AccFinal, "final"},
		{AccTransient, "transient"},
		{AccVolatile, "volatile"},
	})
}

func methodModifiers(access uint16) string {
	return modifiers(access, []flagWord{
		{AccPublic, "public"},
		{AccProtected, "protected"},
		{AccPrivate, "private"},
		{AccAbstract, "abstract"},
		{AccStatic, "static"},
		{AccFinal, "final"},
		{AccSynchronized, "synchronized"},
		{AccNative, "native"},
		{AccStrict, "strictfp"},
	})
}

type flagWord struct {
	flag uint16
	word string
}

func modifiers(access uint16, words []flagWord) string {
	var b strings.Builder
	for _, w := range words {
		if access&w.flag != 0 {
			b.WriteString(w.word)
			b.WriteString(" ")
		}
	}
	return b.String()
}

// JavaName converts an internal binary name to a source name:
// "java/util/Map$Entry" -> "java.util.Map.Entry". java.lang types are
// shortened to their simple name.
func JavaName(internal string) string {
	name := strings.ReplaceAll(internal, "/", ".")
	if rest, ok := strings.CutPrefix(name, "java.lang."); ok && !strings.Contains(rest, ".") {
		name = rest
	}
	return strings.ReplaceAll(name, "$", ".")
}

// ParseMethodDescriptor splits "(ILjava/lang/String;)V" into
// ["int", "String"] and "void".
func ParseMethodDescriptor(desc string) (params []string, ret string, err error) {
	if !strings.HasPrefix(desc, "(") {
		return nil, "", fmt.Errorf("bad method descriptor %q", desc)
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		var t string
		t, i, err = parseType(desc, i)
		if err != nil {
			return nil, "", err
		}
		params = append(params, t)
	}
	if i >= len(desc) {
		return nil, "", fmt.Errorf("bad method descriptor %q", desc)
	}
	ret, end, err := parseType(desc, i+1)
	if err != nil {
		return nil, "", err
	}
	if end != len(desc) {
		return nil, "", fmt.Errorf("trailing data in descriptor %q", desc)
	}
	return params, ret, nil
}

// parseType decodes one field type starting at desc[i] and returns the
// index just past it.
func parseType(desc string, i int) (string, int, error) {
	dims := 0
	for i < len(desc) && desc[i] == '[' {
		dims++
		i++
	}
	if i >= len(desc) {
		return "", i, fmt.Errorf("bad type descriptor %q", desc)
	}
	var t string
	switch desc[i] {
	case 'B':
		t = "byte"
	case 'C':
		t = "char"
	case 'D':
		t = "double"
	case 'F':
		t = "float"
	case 'I':
		t = "int"
	case 'J':
		t = "long"
	case 'S':
		t = "short"
	case 'Z':
		t = "boolean"
	case 'V':
		t = "void"
	case 'L':
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			return "", i, fmt.Errorf("unterminated class type in %q", desc)
		}
		t = JavaName(desc[i+1 : i+end])
		i += end
	default:
		return "", i, fmt.Errorf("bad type %q in %q", desc[i], desc)
	}
	return t + strings.Repeat("[]", dims), i + 1, nil
}

func splitName(internal string) (pkg, simple string) {
	if i := strings.LastIndexByte(internal, '/'); i >= 0 {
		return strings.ReplaceAll(internal[:i], "/", "."), internal[i+1:]
	}
	return "", internal
}
