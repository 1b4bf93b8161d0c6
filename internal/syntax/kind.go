package syntax

// Kind identifies the syntactic role of a node, independent of the grammar
// that produced it.
type Kind uint16

const (
	KindUnknown Kind = iota

	CompilationUnit
	NamespaceDeclaration
	FileScopedNamespaceDeclaration
	UsingDirective
	ExternAlias

	// Type declarations.
	ClassDeclaration
	StructDeclaration
	InterfaceDeclaration
	EnumDeclaration
	RecordDeclaration
	DelegateDeclaration

	// Member declarations.
	FieldDeclaration
	EventFieldDeclaration
	EventDeclaration
	PropertyDeclaration
	IndexerDeclaration
	MethodDeclaration
	ConstructorDeclaration
	DestructorDeclaration
	OperatorDeclaration
	ConversionOperatorDeclaration
	EnumMemberDeclaration
	GlobalStatement

	// Declaration parts.
	AccessorList
	AccessorDeclaration
	VariableDeclaration
	VariableDeclarator
	ParameterList
	Parameter
	TypeParameterList
	TypeParameter
	TypeParameterConstraint
	BaseList
	AttributeList
	Attribute
	AttributeArgumentList
	AttributeArgument
	ArgumentList
	Argument
	ConstructorInitializer
	NameEquals
	AnonymousObjectMemberDeclarator

	// Statements.
	Block
	LocalDeclarationStatement
	LocalFunctionStatement
	ExpressionStatement
	IfStatement
	ElseClause
	SwitchStatement
	SwitchSection
	CaseSwitchLabel
	DefaultSwitchLabel
	ForStatement
	ForEachStatement
	WhileStatement
	DoStatement
	UsingStatement
	FixedStatement
	LockStatement
	UnsafeStatement
	CheckedStatement
	TryStatement
	CatchClause
	CatchDeclaration
	CatchFilterClause
	FinallyClause
	ReturnStatement
	BreakStatement
	ContinueStatement
	GotoStatement
	GotoCaseStatement
	GotoDefaultStatement
	YieldReturnStatement
	YieldBreakStatement
	ThrowStatement
	LabeledStatement
	EmptyStatement

	// Names and types.
	IdentifierName
	GenericName
	QualifiedName
	AliasQualifiedName
	PredefinedType
	ArrayType
	NullableType
	PointerType
	TupleType
	TypeArgumentList

	// Expressions.
	InvocationExpression
	MemberAccessExpression
	ConditionalAccessExpression
	ElementAccessExpression
	ObjectCreationExpression
	ImplicitObjectCreationExpression
	AnonymousObjectCreationExpression
	ArrayCreationExpression
	ImplicitArrayCreationExpression
	ObjectInitializerExpression
	CollectionInitializerExpression
	ArrayInitializerExpression
	CastExpression
	LambdaExpression
	AnonymousMethodExpression
	ParenthesizedExpression
	AssignmentExpression
	BinaryExpression
	PrefixUnaryExpression
	PostfixUnaryExpression
	ConditionalExpression
	IsPatternExpression
	AsExpression
	TypeOfExpression
	SizeOfExpression
	DefaultExpression
	CheckedExpression
	AwaitExpression
	ThisExpression
	BaseExpression
	LiteralExpression
	InterpolatedStringExpression
	ThrowExpression
	SwitchExpression
	TupleExpression
	QueryExpression
	SelectClause
	FromClause
	QueryClause

	// Trivia-like nodes the providers surface in the tree.
	Comment
	Preprocessor

	numKinds
)

var kindNames = [numKinds]string{
	KindUnknown:                       "Unknown",
	CompilationUnit:                   "CompilationUnit",
	NamespaceDeclaration:              "NamespaceDeclaration",
	FileScopedNamespaceDeclaration:    "FileScopedNamespaceDeclaration",
	UsingDirective:                    "UsingDirective",
	ExternAlias:                       "ExternAlias",
	ClassDeclaration:                  "ClassDeclaration",
	StructDeclaration:                 "StructDeclaration",
	InterfaceDeclaration:              "InterfaceDeclaration",
	EnumDeclaration:                   "EnumDeclaration",
	RecordDeclaration:                 "RecordDeclaration",
	DelegateDeclaration:               "DelegateDeclaration",
	FieldDeclaration:                  "FieldDeclaration",
	EventFieldDeclaration:             "EventFieldDeclaration",
	EventDeclaration:                  "EventDeclaration",
	PropertyDeclaration:               "PropertyDeclaration",
	IndexerDeclaration:                "IndexerDeclaration",
	MethodDeclaration:                 "MethodDeclaration",
	ConstructorDeclaration:            "ConstructorDeclaration",
	DestructorDeclaration:             "DestructorDeclaration",
	OperatorDeclaration:               "OperatorDeclaration",
	ConversionOperatorDeclaration:     "ConversionOperatorDeclaration",
	EnumMemberDeclaration:             "EnumMemberDeclaration",
	GlobalStatement:                   "GlobalStatement",
	AccessorList:                      "AccessorList",
	AccessorDeclaration:               "AccessorDeclaration",
	VariableDeclaration:               "VariableDeclaration",
	VariableDeclarator:                "VariableDeclarator",
	ParameterList:                     "ParameterList",
	Parameter:                         "Parameter",
	TypeParameterList:                 "TypeParameterList",
	TypeParameter:                     "TypeParameter",
	TypeParameterConstraint:           "TypeParameterConstraint",
	BaseList:                          "BaseList",
	AttributeList:                     "AttributeList",
	Attribute:                         "Attribute",
	AttributeArgumentList:             "AttributeArgumentList",
	AttributeArgument:                 "AttributeArgument",
	ArgumentList:                      "ArgumentList",
	Argument:                          "Argument",
	ConstructorInitializer:            "ConstructorInitializer",
	NameEquals:                        "NameEquals",
	AnonymousObjectMemberDeclarator:   "AnonymousObjectMemberDeclarator",
	Block:                             "Block",
	LocalDeclarationStatement:         "LocalDeclarationStatement",
	LocalFunctionStatement:            "LocalFunctionStatement",
	ExpressionStatement:               "ExpressionStatement",
	IfStatement:                       "IfStatement",
	ElseClause:                        "ElseClause",
	SwitchStatement:                   "SwitchStatement",
	SwitchSection:                     "SwitchSection",
	CaseSwitchLabel:                   "CaseSwitchLabel",
	DefaultSwitchLabel:                "DefaultSwitchLabel",
	ForStatement:                      "ForStatement",
	ForEachStatement:                  "ForEachStatement",
	WhileStatement:                    "WhileStatement",
	DoStatement:                       "DoStatement",
	UsingStatement:                    "UsingStatement",
	FixedStatement:                    "FixedStatement",
	LockStatement:                     "LockStatement",
	UnsafeStatement:                   "UnsafeStatement",
	CheckedStatement:                  "CheckedStatement",
	TryStatement:                      "TryStatement",
	CatchClause:                       "CatchClause",
	CatchDeclaration:                  "CatchDeclaration",
	CatchFilterClause:                 "CatchFilterClause",
	FinallyClause:                     "FinallyClause",
	ReturnStatement:                   "ReturnStatement",
	BreakStatement:                    "BreakStatement",
	ContinueStatement:                 "ContinueStatement",
	GotoStatement:                     "GotoStatement",
	GotoCaseStatement:                 "GotoCaseStatement",
	GotoDefaultStatement:              "GotoDefaultStatement",
	YieldReturnStatement:              "YieldReturnStatement",
	YieldBreakStatement:               "YieldBreakStatement",
	ThrowStatement:                    "ThrowStatement",
	LabeledStatement:                  "LabeledStatement",
	EmptyStatement:                    "EmptyStatement",
	IdentifierName:                    "IdentifierName",
	GenericName:                       "GenericName",
	QualifiedName:                     "QualifiedName",
	AliasQualifiedName:                "AliasQualifiedName",
	PredefinedType:                    "PredefinedType",
	ArrayType:                         "ArrayType",
	NullableType:                      "NullableType",
	PointerType:                       "PointerType",
	TupleType:                         "TupleType",
	TypeArgumentList:                  "TypeArgumentList",
	InvocationExpression:              "InvocationExpression",
	MemberAccessExpression:            "MemberAccessExpression",
	ConditionalAccessExpression:       "ConditionalAccessExpression",
	ElementAccessExpression:           "ElementAccessExpression",
	ObjectCreationExpression:          "ObjectCreationExpression",
	ImplicitObjectCreationExpression:  "ImplicitObjectCreationExpression",
	AnonymousObjectCreationExpression: "AnonymousObjectCreationExpression",
	ArrayCreationExpression:           "ArrayCreationExpression",
	ImplicitArrayCreationExpression:   "ImplicitArrayCreationExpression",
	ObjectInitializerExpression:       "ObjectInitializerExpression",
	CollectionInitializerExpression:   "CollectionInitializerExpression",
	ArrayInitializerExpression:        "ArrayInitializerExpression",
	CastExpression:                    "CastExpression",
	LambdaExpression:                  "LambdaExpression",
	AnonymousMethodExpression:         "AnonymousMethodExpression",
	ParenthesizedExpression:           "ParenthesizedExpression",
	AssignmentExpression:              "AssignmentExpression",
	BinaryExpression:                  "BinaryExpression",
	PrefixUnaryExpression:             "PrefixUnaryExpression",
	PostfixUnaryExpression:            "PostfixUnaryExpression",
	ConditionalExpression:             "ConditionalExpression",
	IsPatternExpression:               "IsPatternExpression",
	AsExpression:                      "AsExpression",
	TypeOfExpression:                  "TypeOfExpression",
	SizeOfExpression:                  "SizeOfExpression",
	DefaultExpression:                 "DefaultExpression",
	CheckedExpression:                 "CheckedExpression",
	AwaitExpression:                   "AwaitExpression",
	ThisExpression:                    "ThisExpression",
	BaseExpression:                    "BaseExpression",
	LiteralExpression:                 "LiteralExpression",
	InterpolatedStringExpression:      "InterpolatedStringExpression",
	ThrowExpression:                   "ThrowExpression",
	SwitchExpression:                  "SwitchExpression",
	TupleExpression:                   "TupleExpression",
	QueryExpression:                   "QueryExpression",
	SelectClause:                      "SelectClause",
	FromClause:                        "FromClause",
	QueryClause:                       "QueryClause",
	Comment:                           "Comment",
	Preprocessor:                      "Preprocessor",
}

func (k Kind) String() string {
	if k >= numKinds {
		return "Unknown"
	}
	return kindNames[k]
}

// IsTypeDeclaration reports whether k declares a named type.
func (k Kind) IsTypeDeclaration() bool {
	return k >= ClassDeclaration && k <= DelegateDeclaration
}

// IsMemberDeclaration reports whether k is a member declaration in the
// broad sense: namespaces, types and type members.
func (k Kind) IsMemberDeclaration() bool {
	switch k {
	case NamespaceDeclaration, FileScopedNamespaceDeclaration:
		return true
	}
	return k >= ClassDeclaration && k <= GlobalStatement
}

// IsNamespaceDeclaration reports whether k declares a namespace.
func (k Kind) IsNamespaceDeclaration() bool {
	return k == NamespaceDeclaration || k == FileScopedNamespaceDeclaration
}

// IsExpression reports whether k is an expression. Simple names count as
// expressions, matching how references appear in expression position.
func (k Kind) IsExpression() bool {
	switch k {
	case IdentifierName, GenericName, QualifiedName, AliasQualifiedName, PredefinedType:
		return true
	}
	return k >= InvocationExpression && k <= QueryClause
}

// IsBranch reports whether k is a branching construct.
func (k Kind) IsBranch() bool {
	switch k {
	case IfStatement, ElseClause, SwitchStatement, SwitchSection:
		return true
	}
	return false
}

// IsLoop reports whether k is a loop construct.
func (k Kind) IsLoop() bool {
	switch k {
	case ForStatement, ForEachStatement, WhileStatement, DoStatement:
		return true
	}
	return false
}

// IsResource reports whether k guards a resource or exception region.
func (k Kind) IsResource() bool {
	switch k {
	case UsingStatement, FixedStatement, LockStatement, UnsafeStatement,
		TryStatement, CatchClause, CatchFilterClause, FinallyClause:
		return true
	}
	return false
}
