package classify

import (
	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// keywordKinds maps the statement owning a keyword to its keyword tag.
var keywordKinds = map[syntax.Kind]style.Tag{
	syntax.ReturnStatement:      style.ControlFlowKeyword,
	syntax.GotoStatement:        style.ControlFlowKeyword,
	syntax.GotoCaseStatement:    style.ControlFlowKeyword,
	syntax.GotoDefaultStatement: style.ControlFlowKeyword,
	syntax.ContinueStatement:    style.ControlFlowKeyword,
	syntax.YieldReturnStatement: style.ControlFlowKeyword,
	syntax.YieldBreakStatement:  style.ControlFlowKeyword,
	syntax.ThrowStatement:       style.ControlFlowKeyword,
	syntax.ThrowExpression:      style.ControlFlowKeyword,

	syntax.IfStatement:        style.BranchingKeyword,
	syntax.ElseClause:         style.BranchingKeyword,
	syntax.SwitchStatement:    style.BranchingKeyword,
	syntax.CaseSwitchLabel:    style.BranchingKeyword,
	syntax.DefaultSwitchLabel: style.BranchingKeyword,
	syntax.SwitchSection:      style.BranchingKeyword,

	syntax.ForStatement:     style.LoopKeyword,
	syntax.ForEachStatement: style.LoopKeyword,
	syntax.WhileStatement:   style.LoopKeyword,
	syntax.DoStatement:      style.LoopKeyword,
	syntax.SelectClause:     style.LoopKeyword,

	syntax.UsingStatement:    style.ResourceKeyword,
	syntax.FixedStatement:    style.ResourceKeyword,
	syntax.LockStatement:     style.ResourceKeyword,
	syntax.UnsafeStatement:   style.ResourceKeyword,
	syntax.TryStatement:      style.ResourceKeyword,
	syntax.CatchClause:       style.ResourceKeyword,
	syntax.CatchFilterClause: style.ResourceKeyword,
	syntax.FinallyClause:     style.ResourceKeyword,
}

// abstractionKeywords are the member modifiers that change inheritance.
var abstractionKeywords = map[string]bool{
	"sealed":   true,
	"override": true,
	"abstract": true,
	"virtual":  true,
	"new":      true,
}

// keywordTag classifies a keyword token given the node owning it.
func keywordTag(n syntax.Node, token string) (style.Tag, bool) {
	k := n.Kind()
	if k.IsMemberDeclaration() {
		if abstractionKeywords[token] {
			return style.AbstractionKeyword, true
		}
		return 0, false
	}
	if k == syntax.BreakStatement {
		// Leaving a switch section is not a jump.
		if p := n.Parent(); p != nil && p.Kind() == syntax.SwitchSection {
			return 0, false
		}
		return style.ControlFlowKeyword, true
	}
	tag, ok := keywordKinds[k]
	return tag, ok
}

// constructKinds maps nodes that own braces or parameter lists to the tag
// those delimiters take on.
var constructKinds = map[syntax.Kind]style.Tag{
	syntax.MethodDeclaration:         style.Method,
	syntax.AnonymousMethodExpression: style.Method,
	syntax.LambdaExpression:          style.Method,
	syntax.InvocationExpression:      style.Method,

	syntax.ConstructorDeclaration:            style.ConstructorMethod,
	syntax.AnonymousObjectCreationExpression: style.ConstructorMethod,
	syntax.ObjectInitializerExpression:       style.ConstructorMethod,
	syntax.CollectionInitializerExpression:   style.ConstructorMethod,
	syntax.ArrayInitializerExpression:        style.ConstructorMethod,
	syntax.ObjectCreationExpression:          style.ConstructorMethod,
	syntax.ImplicitObjectCreationExpression:  style.ConstructorMethod,
	syntax.ConstructorInitializer:            style.ConstructorMethod,

	syntax.PropertyDeclaration:  style.Property,
	syntax.ClassDeclaration:     style.ClassName,
	syntax.RecordDeclaration:    style.ClassName,
	syntax.InterfaceDeclaration: style.InterfaceName,
	syntax.EnumDeclaration:      style.EnumName,
	syntax.StructDeclaration:    style.StructName,
	syntax.Attribute:            style.AttributeName,

	syntax.NamespaceDeclaration:           style.Namespace,
	syntax.FileScopedNamespaceDeclaration: style.Namespace,

	syntax.IfStatement:     style.BranchingKeyword,
	syntax.ElseClause:      style.BranchingKeyword,
	syntax.SwitchStatement: style.BranchingKeyword,
	syntax.SwitchSection:   style.BranchingKeyword,

	syntax.ForStatement:     style.LoopKeyword,
	syntax.ForEachStatement: style.LoopKeyword,
	syntax.WhileStatement:   style.LoopKeyword,
	syntax.DoStatement:      style.LoopKeyword,

	syntax.UsingStatement:    style.ResourceKeyword,
	syntax.LockStatement:     style.ResourceKeyword,
	syntax.FixedStatement:    style.ResourceKeyword,
	syntax.UnsafeStatement:   style.ResourceKeyword,
	syntax.TryStatement:      style.ResourceKeyword,
	syntax.CatchClause:       style.ResourceKeyword,
	syntax.CatchFilterClause: style.ResourceKeyword,
	syntax.FinallyClause:     style.ResourceKeyword,
}

// constructTag classifies a construct by its kind alone.
func constructTag(n syntax.Node) (style.Tag, bool) {
	if n.Kind() == syntax.InvocationExpression {
		if fn := n.Field(syntax.FieldFunction); fn != nil && fn.Kind() == syntax.IdentifierName && fn.Text() == "nameof" {
			return 0, false
		}
	}
	tag, ok := constructKinds[n.Kind()]
	return tag, ok
}
