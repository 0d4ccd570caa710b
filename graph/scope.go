package graph

// Scope is a lexical region: module body, class body, function body,
// lambda, or comprehension. Scopes form a tree rooted at the module
// scope of each file (spec.md §3).
//
// This mirrors the teacher's linage.Scope (ID/Parent/Symbols), widened
// with the Locals set spec.md's symbol table requires to suppress
// wildcard-node creation for names that are purely local (loop counters,
// temporaries never referenced outside their scope).
type Scope struct {
	Key    string
	Kind   string // "module", "class", "function", "method", "lambda", "comprehension"
	Name   string
	Parent *Scope

	// Defs maps a locally-bound identifier to its current binding value.
	Defs map[string]Binding

	// Locals is the set of identifiers assigned within this scope that
	// are neither imported nor declared global/nonlocal — the symbol
	// table's "bound here" flag, consulted so a local-with-no-value-yet
	// reference never spawns a wildcard (spec.md §4.6, bare-identifier
	// row).
	Locals map[string]bool

	// Globals and Nonlocals record explicit global/nonlocal declarations
	// collected by the symbol table pass, so scope-stack lookup can skip
	// straight past this scope's own Defs for those names.
	Globals   map[string]bool
	Nonlocals map[string]bool

	// Node is the graph Node this scope corresponds to (nil for a plain
	// block/comprehension scope that has no node of its own); uses
	// emitted while traversing this scope attach to the nearest
	// ancestor scope (including this one) that has a non-nil Node,
	// per spec.md §4.6 "the current node".
	Node *Node
}

// NewScope creates a scope nested under parent (nil for a module scope).
func NewScope(key, kind, name string, parent *Scope) *Scope {
	return &Scope{
		Key:       key,
		Kind:      kind,
		Name:      name,
		Parent:    parent,
		Defs:      map[string]Binding{},
		Locals:    map[string]bool{},
		Globals:   map[string]bool{},
		Nonlocals: map[string]bool{},
	}
}

// Lookup searches this scope and, failing that, each enclosing scope in
// turn for a binding of name, honoring global/nonlocal redirection.
// Returns the zero Binding and false if name is bound nowhere on the
// chain.
func (s *Scope) Lookup(name string) (Binding, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur != s && cur.Kind == "class" {
			// class bodies do not contribute to the lexical scope of
			// nested functions (spec.md's target language semantics):
			// keep climbing past them without consulting their Defs,
			// unless this IS that scope (a reference from directly
			// inside the class body, not a nested method).
			continue
		}
		if cur.Globals[name] {
			// Restart the search at the module scope.
			mod := cur
			for mod.Parent != nil {
				mod = mod.Parent
			}
			if b, ok := mod.Defs[name]; ok {
				return b, true
			}
			return Binding{}, false
		}
		if cur.Nonlocals[name] {
			continue
		}
		if b, ok := cur.Defs[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// ContainingNodeScope returns the nearest scope on the Parent chain
// (including s) that carries a non-nil Node — "the current node" that
// a use emitted while traversing s should attach to.
func (s *Scope) ContainingNodeScope() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Node != nil {
			return cur
		}
	}
	return nil
}

// EnclosingClass returns the nearest lexically enclosing class scope,
// used to resolve super() at a method call site (spec.md §4.5).
func (s *Scope) EnclosingClass() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == "class" {
			return cur
		}
	}
	return nil
}

// EnclosingFunction returns the nearest lexically enclosing function or
// method scope (the scope a "return" statement belongs to).
func (s *Scope) EnclosingFunction() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.isFunctionLike() {
			return cur
		}
	}
	return nil
}

func (s *Scope) isFunctionLike() bool {
	return s.Kind == "function" || s.Kind == "method" || s.Kind == "lambda"
}

// Bind sets name's binding, honoring this scope's own global/nonlocal
// declarations: a name declared global writes through to the module
// scope's Defs (mirroring Lookup's redirect) rather than shadowing it
// with a same-named local; a name declared nonlocal writes through to
// the nearest enclosing non-class scope that already binds it. Absent
// either declaration, the binding lands in this scope, as before.
func (s *Scope) Bind(name string, b Binding) {
	target := s.writeTarget(name)
	if target.Defs == nil {
		target.Defs = map[string]Binding{}
	}
	target.Defs[name] = b
	if target.Locals == nil {
		target.Locals = map[string]bool{}
	}
	target.Locals[name] = true
}

// writeTarget resolves which scope an assignment to name in s actually
// lands in, per this scope's global/nonlocal declarations.
func (s *Scope) writeTarget(name string) *Scope {
	if s.Globals[name] {
		mod := s
		for mod.Parent != nil {
			mod = mod.Parent
		}
		return mod
	}
	if s.Nonlocals[name] {
		for cur := s.Parent; cur != nil; cur = cur.Parent {
			if cur.Kind == "class" {
				continue
			}
			if _, ok := cur.Defs[name]; ok {
				return cur
			}
		}
	}
	return s
}
