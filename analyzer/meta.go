package analyzer

import sitter "github.com/smacker/go-tree-sitter"

// decoratorNames returns the bare (undotted, unarged) names of the
// decorators attached to a decorated_definition node, e.g. ["staticmethod"]
// for `@staticmethod`. Adapted from the teacher's annotation.go regex-based
// decorator scanning (`@\w+` over raw source) into a grammar-aware walk,
// since the target language's decorators are first-class syntax nodes
// rather than comment-adjacent annotations.
func decoratorNames(decorated *sitter.Node, src []byte) []string {
	if decorated == nil || decorated.Type() != "decorated_definition" {
		return nil
	}
	var names []string
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		ch := decorated.NamedChild(i)
		if ch.Type() != "decorator" {
			continue
		}
		target := ch.NamedChild(0)
		names = append(names, decoratorBaseName(target, src))
	}
	return names
}

func decoratorBaseName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "call":
		return decoratorBaseName(n.ChildByFieldName("function"), src)
	case "attribute":
		return text(n.ChildByFieldName("attribute"), src)
	case "identifier":
		return text(n, src)
	default:
		return text(n, src)
	}
}

func hasDecorator(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

// definitionNode unwraps a decorated_definition down to the underlying
// function_definition/class_definition, or returns n unchanged.
func definitionNode(n *sitter.Node) *sitter.Node {
	if n != nil && n.Type() == "decorated_definition" {
		if def := n.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return n
}
