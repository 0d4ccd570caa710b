package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeLookupInnerToOuter(t *testing.T) {
	mod := NewScope("mod", "module", "mod", nil)
	fn := NewScope("mod.f", "function", "f", mod)

	f := &Node{Key: NodeKey{Namespace: "", Name: "helper"}, Flavor: Function}
	mod.Bind("helper", BindNode(f))

	b, ok := fn.Lookup("helper")
	assert.True(t, ok)
	assert.Equal(t, f, b.Single())
}

func TestScopeLookupSkipsClassBodyForNestedFunction(t *testing.T) {
	mod := NewScope("mod", "module", "mod", nil)
	cls := NewScope("mod.C", "class", "C", mod)
	cls.Bind("attr", Unresolved)
	method := NewScope("mod.C.m", "method", "m", cls)

	_, ok := method.Lookup("attr")
	assert.False(t, ok, "a nested method must not see its class body's own Defs as an enclosing scope")

	_, ok = cls.Lookup("attr")
	assert.True(t, ok, "the class scope itself still sees its own Defs")
}

func TestBindUnderGlobalWritesThroughToModuleScope(t *testing.T) {
	mod := NewScope("mod", "module", "mod", nil)
	fn := NewScope("mod.f", "function", "f", mod)
	fn.Globals["shared"] = true

	n := &Node{Key: NodeKey{Namespace: "", Name: "helper"}, Flavor: Function}
	fn.Bind("shared", BindNode(n))

	modBind, ok := mod.Defs["shared"]
	assert.True(t, ok, "global-declared assignment must land in the module scope's Defs")
	assert.Equal(t, n, modBind.Single())

	_, localOK := fn.Defs["shared"]
	assert.False(t, localOK, "must not also shadow with a same-named local in the assigning scope")

	b, ok := fn.Lookup("shared")
	assert.True(t, ok)
	assert.Equal(t, n, b.Single())
}

func TestBindUnderNonlocalWritesThroughToEnclosingFunction(t *testing.T) {
	mod := NewScope("mod", "module", "mod", nil)
	outer := NewScope("mod.outer", "function", "outer", mod)
	outer.Bind("counter", Unresolved)
	inner := NewScope("mod.outer.<inner>", "function", "inner", outer)
	inner.Nonlocals["counter"] = true

	n := &Node{Key: NodeKey{Namespace: "", Name: "one"}, Flavor: Name}
	inner.Bind("counter", BindNode(n))

	b, ok := outer.Defs["counter"]
	assert.True(t, ok)
	assert.Equal(t, n, b.Single())

	_, localOK := inner.Defs["counter"]
	assert.False(t, localOK)
}

func TestBindWithoutDeclarationStaysLocal(t *testing.T) {
	s := NewScope("mod.f", "function", "f", nil)
	s.Bind("x", Unresolved)
	_, ok := s.Defs["x"]
	assert.True(t, ok)
	assert.True(t, s.Locals["x"])
}
