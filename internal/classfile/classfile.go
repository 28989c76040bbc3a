// Package classfile reads JVM class files and renders a declaration
// skeleton from them. It backs the built-in "classfile" decompiler engine,
// which needs no external tooling.
package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic is the first word of every class file.
const Magic = 0xCAFEBABE

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Access flags, shared by classes, fields and methods where the bits agree.
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSynchronized = 0x0020
	AccVolatile     = 0x0040
	AccBridge       = 0x0040
	AccTransient    = 0x0080
	AccVarargs      = 0x0080
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
	AccModule       = 0x8000
)

// ErrNotClass is returned for input that does not start with Magic.
var ErrNotClass = errors.New("not a class file")

// Class is the parsed declaration-level view of a class file. Names are
// internal binary names ("java/lang/Object").
type Class struct {
	Major, Minor uint16
	Access       uint16
	Name         string
	Super        string
	Interfaces   []string
	Fields       []Member
	Methods      []Member
	SourceFile   string
}

// Member is a field or a method.
type Member struct {
	Access     uint16
	Name       string
	Descriptor string
}

// Package returns the dotted package of the class, "" for the default package.
func (c *Class) Package() string {
	pkg, _ := splitName(c.Name)
	return pkg
}

// SimpleName returns the class name without its package.
func (c *Class) SimpleName() string {
	_, simple := splitName(c.Name)
	return simple
}

type constant struct {
	tag  byte
	utf8 string
	ref  uint16
}

type reader struct {
	b   []byte
	off int
}

func (r *reader) need(n int) error {
	if n < 0 || r.off+n > len(r.b) {
		return fmt.Errorf("truncated at offset %d", r.off)
	}
	return nil
}

func (r *reader) u1() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.b[r.off]
	r.off++
	return v, nil
}

func (r *reader) u2() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.b[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) u4() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.b[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.b[r.off : r.off+n]
	r.off += n
	return v, nil
}

func (r *reader) skip(n int) error {
	_, err := r.bytes(n)
	return err
}

// Parse decodes the declaration-level parts of a class file. Code and most
// attributes are skipped.
func Parse(data []byte) (*Class, error) {
	r := &reader{b: data}
	magic, err := r.u4()
	if err != nil || magic != Magic {
		return nil, ErrNotClass
	}
	c := &Class{}
	if c.Minor, err = r.u2(); err != nil {
		return nil, err
	}
	if c.Major, err = r.u2(); err != nil {
		return nil, err
	}
	pool, err := readPool(r)
	if err != nil {
		return nil, fmt.Errorf("constant pool: %w", err)
	}

	if c.Access, err = r.u2(); err != nil {
		return nil, err
	}
	this, err := r.u2()
	if err != nil {
		return nil, err
	}
	if c.Name, err = pool.className(this); err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}
	super, err := r.u2()
	if err != nil {
		return nil, err
	}
	if super != 0 {
		if c.Super, err = pool.className(super); err != nil {
			return nil, fmt.Errorf("super_class: %w", err)
		}
	}

	n, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(n); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		name, err := pool.className(idx)
		if err != nil {
			return nil, fmt.Errorf("interface %d: %w", i, err)
		}
		c.Interfaces = append(c.Interfaces, name)
	}

	if c.Fields, err = readMembers(r, pool); err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	if c.Methods, err = readMembers(r, pool); err != nil {
		return nil, fmt.Errorf("methods: %w", err)
	}

	err = readAttributes(r, pool, func(name string, body []byte) {
		if name == "SourceFile" && len(body) == 2 {
			if s, err := pool.utf8(binary.BigEndian.Uint16(body)); err == nil {
				c.SourceFile = s
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}
	return c, nil
}

type pool []constant

func readPool(r *reader) (pool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	p := make(pool, count)
	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}
		c := constant{tag: tag}
		switch tag {
		case tagUtf8:
			n, err := r.u2()
			if err != nil {
				return nil, err
			}
			b, err := r.bytes(int(n))
			if err != nil {
				return nil, err
			}
			c.utf8 = string(b)
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			if c.ref, err = r.u2(); err != nil {
				return nil, err
			}
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			if err := r.skip(4); err != nil {
				return nil, err
			}
		case tagMethodHandle:
			if err := r.skip(3); err != nil {
				return nil, err
			}
		case tagLong, tagDouble:
			if err := r.skip(8); err != nil {
				return nil, err
			}
			p[i] = c
			i++ // 8-byte constants take two slots
			continue
		default:
			return nil, fmt.Errorf("entry %d: unknown tag %d", i, tag)
		}
		p[i] = c
	}
	return p, nil
}

func (p pool) utf8(idx uint16) (string, error) {
	if int(idx) <= 0 || int(idx) >= len(p) || p[idx].tag != tagUtf8 {
		return "", fmt.Errorf("index %d is not a Utf8 constant", idx)
	}
	return p[idx].utf8, nil
}

func (p pool) className(idx uint16) (string, error) {
	if int(idx) <= 0 || int(idx) >= len(p) || p[idx].tag != tagClass {
		return "", fmt.Errorf("index %d is not a Class constant", idx)
	}
	return p.utf8(p[idx].ref)
}

func readMembers(r *reader, p pool) ([]Member, error) {
	n, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]Member, 0, n)
	for i := 0; i < int(n); i++ {
		var m Member
		if m.Access, err = r.u2(); err != nil {
			return nil, err
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		descIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		if m.Name, err = p.utf8(nameIdx); err != nil {
			return nil, err
		}
		if m.Descriptor, err = p.utf8(descIdx); err != nil {
			return nil, err
		}
		if err := readAttributes(r, p, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func readAttributes(r *reader, p pool, fn func(name string, body []byte)) error {
	n, err := r.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(n); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return err
		}
		size, err := r.u4()
		if err != nil {
			return err
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return err
		}
		if fn != nil {
			if name, err := p.utf8(nameIdx); err == nil {
				fn(name, body)
			}
		}
	}
	return nil
}
