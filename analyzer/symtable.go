package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/callgraph/graph"
)

// SymbolInfo is one identifier's bookkeeping within a single SymbolTable.
type SymbolInfo struct {
	Name       string
	IsParam    bool
	IsGlobal   bool
	IsNonlocal bool
	IsImported bool
	IsBound    bool // assigned somewhere in this scope
	IsFree     bool // referenced here but not locally bound
}

// SymbolTable is the pre-scan result for one compound construct (spec.md
// §4.1). The analyzer builds one for each module body and each
// function/method body (parameters included); class bodies, lambdas and
// comprehensions get none, and their names are bound only as the declare
// pass and the walk reach them. It answers "where does this bare name resolve?" without
// answering "what does it currently point to?" — that question belongs
// to the binding engine.
//
// Grounded in the pack's explicit symbol-table passes
// (gavlooth-codeloom's symbol_table.go, rex-template-validator's
// scope_processor.go), generalized from the teacher's implicit
// scope-as-you-walk approach (linage.Scope.Symbols populated during the
// same pass that emits edges) into a separate up-front pass, which
// spec.md §4.1 calls out as necessary to avoid conflating name
// resolution with value tracking.
type SymbolTable struct {
	symbols map[string]*SymbolInfo
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*SymbolInfo{}}
}

func (st *SymbolTable) get(name string) *SymbolInfo {
	info, ok := st.symbols[name]
	if !ok {
		info = &SymbolInfo{Name: name}
		st.symbols[name] = info
	}
	return info
}

// Lookup returns the SymbolInfo for name if the pre-scan saw it at all.
func (st *SymbolTable) Lookup(name string) (*SymbolInfo, bool) {
	info, ok := st.symbols[name]
	return info, ok
}

// IsLocal reports whether name is bound in this scope and neither
// imported nor declared global/nonlocal — the "locals" set spec.md §3
// uses to suppress unknown-node creation for loop counters and
// temporaries.
func (st *SymbolTable) IsLocal(name string) bool {
	info, ok := st.symbols[name]
	return ok && info.IsBound && !info.IsGlobal && !info.IsNonlocal
}

// transparentKinds are syntax kinds whose children are scanned transparently —
// they do not introduce a new lexical scope in the target language.
// Comprehensions are deliberately excluded: on grammar versions where
// they are lexically inlined into the enclosing function, the caller is
// responsible for masking comprehension-only names out of the
// enclosing table (spec.md §9).
var transparentKinds = map[string]bool{
	"block":                true,
	"if_statement":         true,
	"elif_clause":          true,
	"else_clause":          true,
	"for_statement":        true,
	"while_statement":      true,
	"with_statement":       true,
	"with_clause":          true,
	"with_item":            true,
	"try_statement":        true,
	"except_clause":        true,
	"finally_clause":       true,
	"match_statement":      true,
	"case_clause":          true,
	"expression_statement": true,
}

// scopeBoundaryKinds introduce their own scope and are recorded as a
// definition (and hence a local name of the current scope) but are not
// descended into while building the current scope's table.
var scopeBoundaryKinds = map[string]bool{
	"function_definition": true,
	"class_definition":    true,
	"lambda":              true,
}

// buildSymbolTable scans the direct statement list of a compound
// construct's body, without crossing into nested functions/classes/
// lambdas, and returns the resulting table.
func buildSymbolTable(body *sitter.Node, src []byte) *SymbolTable {
	st := newSymbolTable()
	if body == nil {
		return st
	}
	scanStatements(st, body, src)
	return st
}

func scanStatements(st *SymbolTable, n *sitter.Node, src []byte) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_definition":
		if name := n.ChildByFieldName("name"); name != nil {
			st.get(text(name, src)).IsBound = true
		}
		return
	case "class_definition":
		if name := n.ChildByFieldName("name"); name != nil {
			st.get(text(name, src)).IsBound = true
		}
		return
	case "lambda":
		return
	case "global_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			id := n.NamedChild(i)
			info := st.get(text(id, src))
			info.IsGlobal = true
			info.IsBound = true
		}
		return
	case "nonlocal_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			id := n.NamedChild(i)
			info := st.get(text(id, src))
			info.IsNonlocal = true
			info.IsBound = true
		}
		return
	case "parameters":
		scanParameters(st, n, src)
		return
	case "import_statement", "import_from_statement":
		scanImportNames(st, n, src)
		return
	case "assignment", "augmented_assignment":
		left := n.ChildByFieldName("left")
		scanAssignmentTargets(st, left, src)
		if right := n.ChildByFieldName("right"); right != nil {
			scanLoads(st, right, src)
		}
		return
	case "named_expression":
		if name := n.ChildByFieldName("name"); name != nil {
			st.get(text(name, src)).IsBound = true
		}
		if value := n.ChildByFieldName("value"); value != nil {
			scanLoads(st, value, src)
		}
		return
	case "for_statement":
		left := n.ChildByFieldName("left")
		scanAssignmentTargets(st, left, src)
		if right := n.ChildByFieldName("right"); right != nil {
			scanLoads(st, right, src)
		}
	case "with_item":
		if value := n.ChildByFieldName("value"); value != nil {
			scanLoads(st, value, src)
		}
		if alias := n.ChildByFieldName("alias"); alias != nil {
			scanAssignmentTargets(st, alias, src)
		}
	case "except_clause":
		// except E as name:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ch := n.NamedChild(i)
			if ch.Type() == "as_pattern" {
				if target := ch.NamedChild(1); target != nil {
					scanAssignmentTargets(st, target, src)
				}
			}
		}
	case "case_clause":
		if pattern := n.ChildByFieldName("pattern"); pattern != nil {
			scanCasePatternCaptures(st, pattern, src)
		}
	case "identifier":
		scanLoads(st, n, src)
		return
	}

	if transparentKinds[n.Type()] || n.Parent() == nil {
		for i := 0; i < int(n.ChildCount()); i++ {
			scanStatements(st, n.Child(i), src)
		}
		return
	}

	// Unrecognized statement kinds (expressions at statement position,
	// decorated_definition wrappers, etc.) — recurse generically but
	// stop at nested scope boundaries, which were already handled above.
	if !scopeBoundaryKinds[n.Type()] {
		for i := 0; i < int(n.ChildCount()); i++ {
			scanStatements(st, n.Child(i), src)
		}
	}
}

func scanParameters(st *SymbolTable, params *sitter.Node, src []byte) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		var nameNode *sitter.Node
		switch p.Type() {
		case "identifier":
			nameNode = p
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			nameNode = p.ChildByFieldName("name")
			if nameNode == nil && p.NamedChildCount() > 0 {
				nameNode = p.NamedChild(0)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if p.NamedChildCount() > 0 {
				nameNode = p.NamedChild(0)
			}
		}
		if nameNode != nil && nameNode.Type() == "identifier" {
			info := st.get(text(nameNode, src))
			info.IsParam = true
			info.IsBound = true
		}
	}
}

func scanImportNames(st *SymbolTable, n *sitter.Node, src []byte) {
	var mark func(node *sitter.Node)
	mark = func(node *sitter.Node) {
		switch node.Type() {
		case "dotted_name":
			// bind the first path segment (e.g. `import a.b.c` binds `a`)
			if first := node.NamedChild(0); first != nil {
				info := st.get(text(first, src))
				info.IsBound = true
				info.IsImported = true
			}
		case "aliased_import":
			if alias := node.ChildByFieldName("alias"); alias != nil {
				info := st.get(text(alias, src))
				info.IsBound = true
				info.IsImported = true
			} else if name := node.ChildByFieldName("name"); name != nil {
				mark(name)
			}
		case "identifier":
			info := st.get(text(node, src))
			info.IsBound = true
			info.IsImported = true
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		mark(n.NamedChild(i))
	}
}

// scanAssignmentTargets walks an assignment LHS (including tuple/list
// patterns and starred targets) and marks every bound name local.
// Attribute-chain targets (a.b.c) bind nothing new lexically — only the
// root identifier `a` is a name lookup; `.b.c` is resolved at binding
// time, not name-resolution time.
func scanAssignmentTargets(st *SymbolTable, n *sitter.Node, src []byte) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier":
		st.get(text(n, src)).IsBound = true
	case "attribute", "subscript":
		if obj := n.ChildByFieldName("object"); obj != nil {
			scanLoads(st, obj, src)
		}
	case "tuple_pattern", "list_pattern", "pattern_list", "tuple", "list":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			scanAssignmentTargets(st, n.NamedChild(i), src)
		}
	case "list_splat_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			scanAssignmentTargets(st, n.NamedChild(i), src)
		}
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			scanAssignmentTargets(st, n.NamedChild(i), src)
		}
	}
}

// scanCasePatternCaptures marks names captured by a match-case pattern
// (spec.md §4.6's match-statement row covers emitting uses to the class
// pattern; the captured bindings themselves are ordinary locals).
func scanCasePatternCaptures(st *SymbolTable, n *sitter.Node, src []byte) {
	switch n.Type() {
	case "identifier":
		st.get(text(n, src)).IsBound = true
	case "class_pattern":
		// the class name itself is a load, not a capture; its argument
		// sub-patterns may still capture names.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ch := n.NamedChild(i)
			if ch.Type() != "dotted_name" && ch.Type() != "identifier" {
				scanCasePatternCaptures(st, ch, src)
			}
		}
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			scanCasePatternCaptures(st, n.NamedChild(i), src)
		}
	}
}

// scanLoads records free-variable candidates: any identifier referenced
// in a load context is marked IsFree unless it turns out to already be
// bound locally (resolved lazily by IsLocal/Lookup once the whole table
// is built, since bindings can appear after a use textually).
func scanLoads(st *SymbolTable, n *sitter.Node, src []byte) {
	if n == nil {
		return
	}
	if n.Type() == "identifier" {
		info := st.get(text(n, src))
		if !info.IsBound {
			info.IsFree = true
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		scanLoads(st, n.NamedChild(i), src)
	}
}

// applySymbolTable seeds a freshly created scope from its pre-scanned
// symbol table: every name the scan found declared global/nonlocal is
// recorded as such, and every other locally-bound name (params, assignment
// targets, imports, nested defs, for-loop targets) gets a
// placeholder Unresolved binding if it doesn't already have one. This
// makes the "is this a known local, just not valued yet" check in
// emitIdentifierUse (visitor.go) answerable the moment the scope is
// created, rather than only after the walk has reached that name's first
// assignment — spec.md §4.1's stated reason for keeping a separate
// pre-scan pass instead of discovering locals reactively during the walk.
func applySymbolTable(scope *graph.Scope, st *SymbolTable) {
	for name, info := range st.symbols {
		switch {
		case info.IsGlobal:
			scope.Globals[name] = true
		case info.IsNonlocal:
			scope.Nonlocals[name] = true
		case info.IsBound:
			scope.Locals[name] = true
			if _, exists := scope.Defs[name]; !exists {
				scope.Defs[name] = graph.Unresolved
			}
		}
	}
}

func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}
