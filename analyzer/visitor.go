package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/callgraph/graph"
)

// walkFile performs pass two over a single file's already-declared tree:
// binding assignments and emitting uses, per the per-syntax-category
// dispatch table of spec.md §4.6.
func (a *Analyzer) walkFile(fs *fileState) {
	a.walkStmt(fs.tree.RootNode(), fs.moduleScope, fs.src)
}

// walkStmt is the main traversal dispatch. Recognized node kinds get
// specific handling; everything else is walked generically so statements
// this analyzer has no special opinion about (if/while/try, plain
// expression statements, return, raise, ...) still have their
// sub-expressions visited.
func (a *Analyzer) walkStmt(n *sitter.Node, scope *graph.Scope, src []byte) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_definition", "class_definition", "decorated_definition":
		a.descendIntoDefinition(n, scope, src)
		return
	case "assignment":
		a.walkAssignment(n, scope, src)
		return
	case "augmented_assignment":
		a.walkAugAssignment(n, scope, src)
		return
	case "named_expression":
		a.walkWalrus(n, scope, src)
		return
	case "with_statement":
		a.walkWith(n, scope, src)
		return
	case "for_statement":
		a.walkFor(n, scope, src)
		return
	case "delete_statement":
		a.walkDelete(n, scope, src)
		return
	case "match_statement":
		a.walkMatch(n, scope, src)
		return
	case "import_statement", "import_from_statement":
		a.walkImport(n, scope, src)
		return
	case "type_alias_statement":
		a.walkTypeAlias(n, scope, src)
		return
	case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
		a.walkComprehension(n, scope, src)
		return
	case "call":
		a.walkCall(n, scope, src)
		return
	case "attribute":
		a.emitAttributeUse(n, scope, src)
		return
	case "identifier":
		a.emitIdentifierUse(n, scope, src)
		return
	case "lambda":
		a.walkLambda(n, scope, src)
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		a.walkStmt(n.Child(i), scope, src)
	}
}

// descendIntoDefinition resumes traversal inside a definition already
// registered during the declare pass, reusing the exact Scope object built
// then (a.scopesByNode), so parameter bindings (including the receiver)
// set up at declare time are preserved.
func (a *Analyzer) descendIntoDefinition(n *sitter.Node, scope *graph.Scope, src []byte) {
	if n.Type() == "decorated_definition" {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ch := n.NamedChild(i)
			if ch.Type() == "decorator" {
				if target := ch.NamedChild(0); target != nil {
					a.walkStmt(target, scope, src)
				}
			}
		}
	}
	def := definitionNode(n)
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	b, ok := scope.Lookup(text(nameNode, src))
	node := b.Single()
	if !ok || node == nil {
		return
	}
	childScope := a.scopesByNode[node.Key]
	if childScope == nil {
		return
	}
	switch def.Type() {
	case "function_definition":
		if params := def.ChildByFieldName("parameters"); params != nil {
			a.walkParameterDefaults(params, scope, src)
		}
		if body := def.ChildByFieldName("body"); body != nil {
			a.walkStmt(body, childScope, src)
		}
	case "class_definition":
		if sup := def.ChildByFieldName("superclasses"); sup != nil {
			a.walkStmt(sup, scope, src)
		}
		if body := def.ChildByFieldName("body"); body != nil {
			a.walkStmt(body, childScope, src)
		}
	}
}

func (a *Analyzer) walkParameterDefaults(params *sitter.Node, scope *graph.Scope, src []byte) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() == "default_parameter" || p.Type() == "typed_default_parameter" {
			if v := p.ChildByFieldName("value"); v != nil {
				a.walkStmt(v, scope, src)
			}
		}
	}
}

// walkLambda evaluates default-value expressions in the enclosing scope,
// then walks the lambda body in a fresh, throwaway function-like scope
// whose parameters shadow the enclosing bindings.
func (a *Analyzer) walkLambda(n *sitter.Node, scope *graph.Scope, src []byte) {
	params := n.ChildByFieldName("parameters")
	body := n.ChildByFieldName("body")
	lambdaScope := graph.NewScope(scope.Key+".<lambda>", "lambda", "<lambda>", scope)
	if params != nil {
		a.walkParameterDefaults(params, scope, src)
		for _, p := range namedChildren(params) {
			bindLambdaParam(lambdaScope, p, src)
		}
	}
	if body != nil {
		a.walkStmt(body, lambdaScope, src)
	}
}

func bindLambdaParam(scope *graph.Scope, p *sitter.Node, src []byte) {
	var nameNode *sitter.Node
	switch p.Type() {
	case "identifier":
		nameNode = p
	case "typed_parameter", "default_parameter", "typed_default_parameter":
		if n := p.ChildByFieldName("name"); n != nil {
			nameNode = n
		} else if p.NamedChildCount() > 0 {
			nameNode = p.NamedChild(0)
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		if p.NamedChildCount() > 0 {
			nameNode = p.NamedChild(0)
		}
	}
	if nameNode != nil && nameNode.Type() == "identifier" {
		scope.Bind(text(nameNode, src), graph.Unresolved)
	}
}

// walkWalrus handles `name := value` (spec.md §4.6), binding name in the
// nearest enclosing non-comprehension scope's effective target — modeled
// here, for simplicity, as the current scope, since this analyzer does not
// special-case comprehension scope leakage for walrus targets.
func (a *Analyzer) walkWalrus(n *sitter.Node, scope *graph.Scope, src []byte) {
	nameNode := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if value != nil {
		a.walkStmt(value, scope, src)
	}
	if nameNode == nil {
		return
	}
	v := graph.Unresolved
	if value != nil {
		v = a.evaluateExpr(value, scope, src)
	}
	scope.Bind(text(nameNode, src), v)
}

// walkWith implements the context-manager protocol row of spec.md §4.6:
// each with-item's expression gets `__enter__`/`__exit__` uses edges (or
// the async variants under `async with`), and its `as` alias is bound to
// the context-manager expression itself — an approximation, since the
// precise value `__enter__` returns is not tracked.
func (a *Analyzer) walkWith(n *sitter.Node, scope *graph.Scope, src []byte) {
	enterName, exitName := "__enter__", "__exit__"
	if isAsyncCompound(n) {
		enterName, exitName = "__aenter__", "__aexit__"
	}
	for _, item := range withItems(n) {
		value := item.ChildByFieldName("value")
		if value == nil {
			continue
		}
		a.walkStmt(value, scope, src)
		base := a.evaluateExpr(value, scope, src)
		a.emitUseFromBinding(scope, a.resolveAttribute(base, enterName))
		a.emitUseFromBinding(scope, a.resolveAttribute(base, exitName))
		if alias := item.ChildByFieldName("alias"); alias != nil {
			a.bindTarget(alias, base, value, scope, src)
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		a.walkStmt(body, scope, src)
	}
}

func withItems(n *sitter.Node) []*sitter.Node {
	clause := childOfType(n, "with_clause")
	if clause == nil {
		clause = n
	}
	var items []*sitter.Node
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		ch := clause.NamedChild(i)
		if ch.Type() == "with_item" {
			items = append(items, ch)
		}
	}
	return items
}

// walkFor implements the iteration-protocol row of spec.md §4.6: the
// iterable expression gets `__iter__`/`__next__` uses edges (or the async
// variants under `async for`); the loop variable is bound but its value is
// not statically tracked.
func (a *Analyzer) walkFor(n *sitter.Node, scope *graph.Scope, src []byte) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	body := n.ChildByFieldName("body")
	alt := n.ChildByFieldName("alternative")

	iterName, nextName := "__iter__", "__next__"
	if isAsyncCompound(n) {
		iterName, nextName = "__aiter__", "__anext__"
	}

	if right != nil {
		a.walkStmt(right, scope, src)
		base := a.evaluateExpr(right, scope, src)
		a.emitUseFromBinding(scope, a.resolveAttribute(base, iterName))
		a.emitUseFromBinding(scope, a.resolveAttribute(base, nextName))
	}
	if left != nil {
		a.walkTargetUses(left, scope, src)
		a.bindTarget(left, graph.Unresolved, nil, scope, src)
	}
	if body != nil {
		a.walkStmt(body, scope, src)
	}
	if alt != nil {
		a.walkStmt(alt, scope, src)
	}
}

// walkDelete implements `del obj.attr` -> __delattr__ and `del obj[key]`
// -> __delitem__ (spec.md §4.6).
func (a *Analyzer) walkDelete(n *sitter.Node, scope *graph.Scope, src []byte) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		target := n.NamedChild(i)
		switch target.Type() {
		case "attribute":
			a.emitDeleteProtocolUse(target, scope, src, "__delattr__")
		case "subscript":
			a.emitDeleteProtocolUse(target, scope, src, "__delitem__")
		default:
			a.walkStmt(target, scope, src)
		}
	}
}

func (a *Analyzer) emitDeleteProtocolUse(target *sitter.Node, scope *graph.Scope, src []byte, protocol string) {
	obj := target.ChildByFieldName("object")
	if obj == nil {
		return
	}
	a.walkStmt(obj, scope, src)
	base := a.evaluateExpr(obj, scope, src)
	a.emitUseFromBinding(scope, a.resolveAttribute(base, protocol))
}

// walkMatch implements the match-statement row: the subject is walked
// normally; each case pattern's class reference (for a class_pattern) gets
// a uses edge, and captured names are ordinary locals handled like any
// other binding.
func (a *Analyzer) walkMatch(n *sitter.Node, scope *graph.Scope, src []byte) {
	if subject := n.ChildByFieldName("subject"); subject != nil {
		a.walkStmt(subject, scope, src)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "case_clause" {
			continue
		}
		if pattern := clause.ChildByFieldName("pattern"); pattern != nil {
			a.walkMatchPattern(pattern, scope, src)
		}
		if guard := clause.ChildByFieldName("guard"); guard != nil {
			a.walkStmt(guard, scope, src)
		}
		if cons := clause.ChildByFieldName("consequence"); cons != nil {
			a.walkStmt(cons, scope, src)
		}
	}
}

func (a *Analyzer) walkMatchPattern(p *sitter.Node, scope *graph.Scope, src []byte) {
	if p.Type() == "class_pattern" {
		if cls := firstNamedChild(p); cls != nil {
			switch cls.Type() {
			case "identifier", "dotted_name", "attribute":
				a.walkStmt(cls, scope, src)
			}
		}
		for i := 1; i < int(p.NamedChildCount()); i++ {
			a.walkMatchPattern(p.NamedChild(i), scope, src)
		}
		return
	}
	if p.Type() == "identifier" {
		scope.Bind(text(p, src), graph.Unresolved)
		return
	}
	for i := 0; i < int(p.NamedChildCount()); i++ {
		a.walkMatchPattern(p.NamedChild(i), scope, src)
	}
}

// walkComprehension gives list/set/dict comprehensions and generator
// expressions their own nested scope (spec.md §9's documented handling).
// Every for-clause is bound in a first pass, in source order (a later
// clause's iterable may reference an earlier clause's loop variable, e.g.
// `[y for xs in xss for y in xs]`), before the body/condition expressions
// are walked in a second pass — tree-sitter lists a comprehension's body
// expression as its first named child, ahead of its for-clauses, so
// walking in a single textual-order pass would see the loop variable used
// in the body before this scope has bound it.
func (a *Analyzer) walkComprehension(n *sitter.Node, scope *graph.Scope, src []byte) {
	compScope := graph.NewScope(scope.Key+".<comp>", "comprehension", "", scope)
	var rest []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() != "for_in_clause" {
			rest = append(rest, ch)
			continue
		}
		left := ch.ChildByFieldName("left")
		right := ch.ChildByFieldName("right")
		if right != nil {
			a.walkStmt(right, compScope, src)
			base := a.evaluateExpr(right, compScope, src)
			a.emitUseFromBinding(compScope, a.resolveAttribute(base, "__iter__"))
			a.emitUseFromBinding(compScope, a.resolveAttribute(base, "__next__"))
		}
		if left != nil {
			a.walkTargetUses(left, compScope, src)
			a.bindTarget(left, graph.Unresolved, nil, compScope, src)
		}
	}
	for _, ch := range rest {
		a.walkStmt(ch, compScope, src)
	}
}

// walkImport binds imported names (spec.md §4.6): `import a.b.c` binds `a`
// to a module node; `import a.b.c as x` binds `x` to module `a.b.c`;
// `from m import x` resolves `x` as an attribute of module `m`.
func (a *Analyzer) walkImport(n *sitter.Node, scope *graph.Scope, src []byte) {
	switch n.Type() {
	case "import_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			a.bindImportName(n.NamedChild(i), scope, src)
		}
	case "import_from_statement":
		moduleNode := n.ChildByFieldName("module_name")
		modPath := dottedText(moduleNode, src)
		ns, name := splitFQN(modPath)
		mod := a.graph.GetOrCreate(ns, name, graph.Module, nil)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			ch := n.NamedChild(i)
			if ch == moduleNode {
				continue
			}
			a.bindFromImportName(ch, mod, scope, src)
		}
	}
}

func (a *Analyzer) bindImportName(n *sitter.Node, scope *graph.Scope, src []byte) {
	switch n.Type() {
	case "dotted_name":
		full := dottedText(n, src)
		first := full
		if idx := indexOfDot(full); idx >= 0 {
			first = full[:idx]
		}
		mod := a.graph.GetOrCreate("", first, graph.Module, nil)
		scope.Bind(first, graph.BindNode(mod))
	case "aliased_import":
		nameNode := n.ChildByFieldName("name")
		aliasNode := n.ChildByFieldName("alias")
		if nameNode == nil || aliasNode == nil {
			return
		}
		full := dottedText(nameNode, src)
		ns, leaf := splitFQN(full)
		mod := a.graph.GetOrCreate(ns, leaf, graph.Module, nil)
		scope.Bind(text(aliasNode, src), graph.BindNode(mod))
	}
}

func (a *Analyzer) bindFromImportName(ch *sitter.Node, mod *graph.Node, scope *graph.Scope, src []byte) {
	switch ch.Type() {
	case "dotted_name", "identifier":
		name := dottedText(ch, src)
		b := a.resolveAttribute(graph.BindNode(mod), name)
		scope.Bind(lastSegment(name), b)
	case "aliased_import":
		nameNode := ch.ChildByFieldName("name")
		aliasNode := ch.ChildByFieldName("alias")
		if nameNode == nil || aliasNode == nil {
			return
		}
		name := dottedText(nameNode, src)
		b := a.resolveAttribute(graph.BindNode(mod), name)
		scope.Bind(text(aliasNode, src), b)
	case "wildcard_import":
		for name, b := range mod.Own {
			scope.Bind(name, b)
		}
	}
}

func indexOfDot(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// walkTypeAlias handles `type X = expr` (PEP 695); X is bound like an
// ordinary assignment target, and the expression is walked for uses.
func (a *Analyzer) walkTypeAlias(n *sitter.Node, scope *graph.Scope, src []byte) {
	nameNode := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if value != nil {
		a.walkStmt(value, scope, src)
	}
	if nameNode == nil {
		return
	}
	v := graph.Unresolved
	if value != nil {
		v = a.evaluateExpr(value, scope, src)
	}
	scope.Bind(text(nameNode, src), v)
}

// walkCall walks a call expression's callee and arguments. super() itself
// emits nothing here; it is only meaningful as the object of an attribute
// expression (handled in emitAttributeUse/evaluateExpr).
func (a *Analyzer) walkCall(n *sitter.Node, scope *graph.Scope, src []byte) {
	if fn := n.ChildByFieldName("function"); fn != nil {
		a.walkStmt(fn, scope, src)
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			a.walkStmt(args.NamedChild(i), scope, src)
		}
	}
}

// emitAttributeUse handles `base.attr` in load position: it resolves base,
// resolves the attribute against it, and emits a uses edge from the
// current node to every node the result denotes.
func (a *Analyzer) emitAttributeUse(n *sitter.Node, scope *graph.Scope, src []byte) {
	obj := n.ChildByFieldName("object")
	attrNode := n.ChildByFieldName("attribute")
	if attrNode == nil {
		return
	}
	name := text(attrNode, src)

	if isSuperCall(obj, src) {
		superNode := a.resolveSuper(enclosingClassNode(scope))
		a.emitUseFromBinding(scope, a.resolveAttribute(graph.BindNode(superNode), name))
		return
	}
	if obj != nil {
		a.walkStmt(obj, scope, src)
	}
	base := a.evaluateExpr(obj, scope, src)
	a.emitUseFromBinding(scope, a.resolveAttribute(base, name))
}

// emitIdentifierUse handles a bare identifier in load position per spec.md
// §4.6's table: resolve it via the scope stack and emit a uses edge to
// whatever it denotes; if it is not found anywhere on the chain, emit a
// uses edge to a wildcard node (it may be a builtin, or a name this
// analysis never saw a definition for). The one case that emits nothing is
// a name the symbol table already knows is local to the innermost scope
// but has no determined value yet (a loop counter, a parameter, a plain
// local before its first traceable assignment) — spec.md §4.6 carves this
// out explicitly so those never spawn a wildcard.
func (a *Analyzer) emitIdentifierUse(n *sitter.Node, scope *graph.Scope, src []byte) {
	name := text(n, src)
	if name == "" {
		return
	}
	b, ok := scope.Lookup(name)
	if !ok {
		a.emitUseFromBinding(scope, graph.BindNode(a.unknown(name)))
		return
	}
	if b.IsUnresolved() {
		return
	}
	a.emitUseFromBinding(scope, b)
}

func (a *Analyzer) emitUseFromBinding(scope *graph.Scope, b graph.Binding) {
	nodeScope := scope.ContainingNodeScope()
	if nodeScope == nil || nodeScope.Node == nil {
		return
	}
	for _, target := range b.Nodes() {
		a.graph.AddEdge(nodeScope.Node.Key, target.Key, graph.Uses)
	}
}

func isAsyncCompound(n *sitter.Node) bool {
	return childOfType(n, "async") != nil
}

func childOfType(n *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == kind {
			return n.Child(i)
		}
	}
	return nil
}
