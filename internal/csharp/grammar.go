package csharp

import "github.com/jward/tincture/internal/syntax"

// nodeKinds maps tree-sitter-c-sharp node types to syntax kinds. Several
// grammar releases renamed nodes, so older and newer spellings both appear.
var nodeKinds = map[string]syntax.Kind{
	"compilation_unit":                  syntax.CompilationUnit,
	"namespace_declaration":             syntax.NamespaceDeclaration,
	"file_scoped_namespace_declaration": syntax.FileScopedNamespaceDeclaration,
	"using_directive":                   syntax.UsingDirective,
	"extern_alias_directive":            syntax.ExternAlias,

	"class_declaration":         syntax.ClassDeclaration,
	"struct_declaration":        syntax.StructDeclaration,
	"interface_declaration":     syntax.InterfaceDeclaration,
	"enum_declaration":          syntax.EnumDeclaration,
	"record_declaration":        syntax.RecordDeclaration,
	"record_struct_declaration": syntax.RecordDeclaration,
	"delegate_declaration":      syntax.DelegateDeclaration,

	"field_declaration":               syntax.FieldDeclaration,
	"event_field_declaration":         syntax.EventFieldDeclaration,
	"event_declaration":               syntax.EventDeclaration,
	"property_declaration":            syntax.PropertyDeclaration,
	"indexer_declaration":             syntax.IndexerDeclaration,
	"method_declaration":              syntax.MethodDeclaration,
	"constructor_declaration":         syntax.ConstructorDeclaration,
	"destructor_declaration":          syntax.DestructorDeclaration,
	"operator_declaration":            syntax.OperatorDeclaration,
	"conversion_operator_declaration": syntax.ConversionOperatorDeclaration,
	"enum_member_declaration":         syntax.EnumMemberDeclaration,
	"global_statement":                syntax.GlobalStatement,

	"accessor_list":                      syntax.AccessorList,
	"accessor_declaration":               syntax.AccessorDeclaration,
	"variable_declaration":               syntax.VariableDeclaration,
	"variable_declarator":                syntax.VariableDeclarator,
	"parameter_list":                     syntax.ParameterList,
	"bracketed_parameter_list":           syntax.ParameterList,
	"parameter":                          syntax.Parameter,
	"type_parameter_list":                syntax.TypeParameterList,
	"type_parameter":                     syntax.TypeParameter,
	"type_parameter_constraints_clause":  syntax.TypeParameterConstraint,
	"base_list":                          syntax.BaseList,
	"attribute_list":                     syntax.AttributeList,
	"global_attribute_list":              syntax.AttributeList,
	"global_attribute":                   syntax.AttributeList,
	"attribute":                          syntax.Attribute,
	"attribute_argument_list":            syntax.AttributeArgumentList,
	"attribute_argument":                 syntax.AttributeArgument,
	"argument_list":                      syntax.ArgumentList,
	"bracketed_argument_list":            syntax.ArgumentList,
	"argument":                           syntax.Argument,
	"constructor_initializer":            syntax.ConstructorInitializer,
	"name_equals":                        syntax.NameEquals,
	"anonymous_object_member_declarator": syntax.AnonymousObjectMemberDeclarator,

	"block":                       syntax.Block,
	"local_declaration_statement": syntax.LocalDeclarationStatement,
	"local_function_statement":    syntax.LocalFunctionStatement,
	"expression_statement":        syntax.ExpressionStatement,
	"if_statement":                syntax.IfStatement,
	"else_clause":                 syntax.ElseClause,
	"switch_statement":            syntax.SwitchStatement,
	"switch_section":              syntax.SwitchSection,
	"case_switch_label":           syntax.CaseSwitchLabel,
	"case_pattern_switch_label":   syntax.CaseSwitchLabel,
	"default_switch_label":        syntax.DefaultSwitchLabel,
	"for_statement":               syntax.ForStatement,
	"for_each_statement":          syntax.ForEachStatement,
	"foreach_statement":           syntax.ForEachStatement,
	"while_statement":             syntax.WhileStatement,
	"do_statement":                syntax.DoStatement,
	"using_statement":             syntax.UsingStatement,
	"fixed_statement":             syntax.FixedStatement,
	"lock_statement":              syntax.LockStatement,
	"unsafe_statement":            syntax.UnsafeStatement,
	"checked_statement":           syntax.CheckedStatement,
	"try_statement":               syntax.TryStatement,
	"catch_clause":                syntax.CatchClause,
	"catch_declaration":           syntax.CatchDeclaration,
	"catch_filter_clause":         syntax.CatchFilterClause,
	"finally_clause":              syntax.FinallyClause,
	"return_statement":            syntax.ReturnStatement,
	"break_statement":             syntax.BreakStatement,
	"continue_statement":          syntax.ContinueStatement,
	"goto_statement":              syntax.GotoStatement,
	"yield_statement":             syntax.YieldReturnStatement,
	"throw_statement":             syntax.ThrowStatement,
	"labeled_statement":           syntax.LabeledStatement,
	"empty_statement":             syntax.EmptyStatement,

	"identifier":           syntax.IdentifierName,
	"generic_name":         syntax.GenericName,
	"qualified_name":       syntax.QualifiedName,
	"alias_qualified_name": syntax.AliasQualifiedName,
	"predefined_type":      syntax.PredefinedType,
	"implicit_type":        syntax.PredefinedType,
	"array_type":           syntax.ArrayType,
	"nullable_type":        syntax.NullableType,
	"pointer_type":         syntax.PointerType,
	"tuple_type":           syntax.TupleType,
	"type_argument_list":   syntax.TypeArgumentList,

	"invocation_expression":                syntax.InvocationExpression,
	"member_access_expression":             syntax.MemberAccessExpression,
	"conditional_access_expression":        syntax.ConditionalAccessExpression,
	"member_binding_expression":            syntax.MemberAccessExpression,
	"element_access_expression":            syntax.ElementAccessExpression,
	"object_creation_expression":           syntax.ObjectCreationExpression,
	"implicit_object_creation_expression":  syntax.ImplicitObjectCreationExpression,
	"anonymous_object_creation_expression": syntax.AnonymousObjectCreationExpression,
	"array_creation_expression":            syntax.ArrayCreationExpression,
	"implicit_array_creation_expression":   syntax.ImplicitArrayCreationExpression,
	"stackalloc_array_creation_expression": syntax.ArrayCreationExpression,
	"initializer_expression":               syntax.ObjectInitializerExpression,
	"cast_expression":                      syntax.CastExpression,
	"lambda_expression":                    syntax.LambdaExpression,
	"anonymous_method_expression":          syntax.AnonymousMethodExpression,
	"parenthesized_expression":             syntax.ParenthesizedExpression,
	"assignment_expression":                syntax.AssignmentExpression,
	"binary_expression":                    syntax.BinaryExpression,
	"prefix_unary_expression":              syntax.PrefixUnaryExpression,
	"postfix_unary_expression":             syntax.PostfixUnaryExpression,
	"conditional_expression":               syntax.ConditionalExpression,
	"is_pattern_expression":                syntax.IsPatternExpression,
	"is_expression":                        syntax.IsPatternExpression,
	"as_expression":                        syntax.AsExpression,
	"typeof_expression":                    syntax.TypeOfExpression,
	"sizeof_expression":                    syntax.SizeOfExpression,
	"default_expression":                   syntax.DefaultExpression,
	"checked_expression":                   syntax.CheckedExpression,
	"await_expression":                     syntax.AwaitExpression,
	"this_expression":                      syntax.ThisExpression,
	"this":                                 syntax.ThisExpression,
	"base_expression":                      syntax.BaseExpression,
	"base":                                 syntax.BaseExpression,
	"integer_literal":                      syntax.LiteralExpression,
	"real_literal":                         syntax.LiteralExpression,
	"string_literal":                       syntax.LiteralExpression,
	"verbatim_string_literal":              syntax.LiteralExpression,
	"raw_string_literal":                   syntax.LiteralExpression,
	"character_literal":                    syntax.LiteralExpression,
	"boolean_literal":                      syntax.LiteralExpression,
	"null_literal":                         syntax.LiteralExpression,
	"interpolated_string_expression":       syntax.InterpolatedStringExpression,
	"throw_expression":                     syntax.ThrowExpression,
	"switch_expression":                    syntax.SwitchExpression,
	"tuple_expression":                     syntax.TupleExpression,
	"query_expression":                     syntax.QueryExpression,
	"select_clause":                        syntax.SelectClause,
	"from_clause":                          syntax.FromClause,
	"where_clause":                         syntax.QueryClause,
	"let_clause":                           syntax.QueryClause,
	"join_clause":                          syntax.QueryClause,
	"order_by_clause":                      syntax.QueryClause,
	"group_clause":                         syntax.QueryClause,
	"query_continuation":                   syntax.QueryClause,

	"comment": syntax.Comment,
}

// transparent node types are wrappers the host language model has no node
// for. Lookups step over them to the construct that owns their tokens.
var transparent = map[string]bool{
	"modifier":                     true,
	"parameter_modifier":           true,
	"declaration_list":             true,
	"enum_member_declaration_list": true,
	"switch_body":                  true,
	"arrow_expression_clause":      true,
	"equals_value_clause":          true,
}

// fieldNames are the grammar fields captured when converting a tree.
var fieldNames = []string{
	"name", "type", "returns", "body", "value", "expression", "function",
	"arguments", "alias", "qualifier", "parameters", "initializer",
	"condition", "left", "right", "accessors", "operator",
}

// atomicTypes are named nodes the lexer emits as a single span without
// descending into children.
var atomicTypes = map[string]string{
	"string_literal":          syntax.ClassString,
	"verbatim_string_literal": syntax.ClassString,
	"raw_string_literal":      syntax.ClassString,
	"character_literal":       syntax.ClassString,
	"integer_literal":         syntax.ClassNumber,
	"real_literal":            syntax.ClassNumber,
	"predefined_type":         syntax.ClassKeyword,
	"implicit_type":           syntax.ClassKeyword,
	"comment":                 syntax.ClassComment,
}

// punctuation lists the single tokens the base stream reports as
// punctuation; other symbolic tokens are operators.
var punctuation = map[string]bool{
	"{": true, "}": true, "(": true, ")": true, "[": true, "]": true,
	";": true, ",": true, ".": true, ":": true, "::": true,
}

// kindOf returns the syntax kind of a tree-sitter node type.
func kindOf(typ string) syntax.Kind {
	return nodeKinds[typ]
}
