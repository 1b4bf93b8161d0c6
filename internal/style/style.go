// Package style defines the fixed set of style tags emitted by the
// classifier. Tags are created once at init and never at runtime.
package style

// Tag is an opaque handle for a visual style. The zero Tag is invalid.
type Tag uint16

// Lexical base tags. These mirror the categories produced by the base
// tokenizer and are used when re-projecting doc-comment code.
const (
	invalid Tag = iota

	Keyword
	Identifier
	Punctuation
	Operator
	Number
	String
	Comment
	ClassName
	InterfaceName
	StructName
	EnumName
	DelegateName
	TypeParameterName
	Preprocessor
	XmlDocDelimiter
	XmlDocName
	XmlDocText
	XmlDocCData

	// C# semantic tags.
	LocalVariable
	ConstField
	ReadonlyField
	Field
	Parameter
	TypeParameter
	Namespace
	AliasNamespace
	Method
	ExtensionMethod
	ExternMethod
	ConstructorMethod
	Event
	Property
	Label
	AttributeName
	AttributeNotation
	Declaration
	NestedDeclaration
	StaticMember
	SealedMember
	OverrideMember
	VirtualMember
	AbstractMember
	AbstractionKeyword
	ResourceKeyword
	DeclarationBrace
	XmlDoc

	// Language-neutral tags.
	ControlFlowKeyword
	BranchingKeyword
	LoopKeyword
	SpecialPunctuation

	// Comment labels.
	Emphasis
	Question
	Exclamation
	Deletion
	ToDo
	Note
	Hack
	Undone
	Heading1
	Heading2
	Heading3
	Heading4
	Heading5
	Heading6
	Task1
	Task2
	Task3
	Task4
	Task5
	Task6
	Task7
	Task8
	Task9

	// Marker tags for pinned symbols.
	Marker
	Marker1
	Marker2
	Marker3
	Marker4

	numTags
)

var names = [numTags]string{
	Keyword:           "keyword",
	Identifier:        "identifier",
	Punctuation:       "punctuation",
	Operator:          "operator",
	Number:            "number",
	String:            "string",
	Comment:           "comment",
	ClassName:         "class name",
	InterfaceName:     "interface name",
	StructName:        "struct name",
	EnumName:          "enum name",
	DelegateName:      "delegate name",
	TypeParameterName: "type parameter name",
	Preprocessor:      "preprocessor keyword",
	XmlDocDelimiter:   "xml doc comment - delimiter",
	XmlDocName:        "xml doc comment - name",
	XmlDocText:        "xml doc comment - text",
	XmlDocCData:       "xml doc comment - cdata section",

	LocalVariable:      "csharp.local",
	ConstField:         "csharp.const-field",
	ReadonlyField:      "csharp.readonly-field",
	Field:              "csharp.field",
	Parameter:          "csharp.parameter",
	TypeParameter:      "csharp.type-parameter",
	Namespace:          "csharp.namespace",
	AliasNamespace:     "csharp.alias-namespace",
	Method:             "csharp.method",
	ExtensionMethod:    "csharp.extension-method",
	ExternMethod:       "csharp.extern-method",
	ConstructorMethod:  "csharp.constructor-method",
	Event:              "csharp.event",
	Property:           "csharp.property",
	Label:              "csharp.label",
	AttributeName:      "csharp.attribute-name",
	AttributeNotation:  "csharp.attribute-notation",
	Declaration:        "csharp.declaration",
	NestedDeclaration:  "csharp.nested-declaration",
	StaticMember:       "csharp.static-member",
	SealedMember:       "csharp.sealed-member",
	OverrideMember:     "csharp.override-member",
	VirtualMember:      "csharp.virtual-member",
	AbstractMember:     "csharp.abstract-member",
	AbstractionKeyword: "csharp.abstraction-keyword",
	ResourceKeyword:    "csharp.resource-keyword",
	DeclarationBrace:   "csharp.declaration-brace",
	XmlDoc:             "csharp.xml-doc",

	ControlFlowKeyword: "keyword.control-flow",
	BranchingKeyword:   "keyword.branching",
	LoopKeyword:        "keyword.loop",
	SpecialPunctuation: "punctuation.special",

	Emphasis:    "comment.emphasis",
	Question:    "comment.question",
	Exclamation: "comment.exclamation",
	Deletion:    "comment.deletion",
	ToDo:        "comment.todo",
	Note:        "comment.note",
	Hack:        "comment.hack",
	Undone:      "comment.undone",
	Heading1:    "comment.heading1",
	Heading2:    "comment.heading2",
	Heading3:    "comment.heading3",
	Heading4:    "comment.heading4",
	Heading5:    "comment.heading5",
	Heading6:    "comment.heading6",
	Task1:       "comment.task1",
	Task2:       "comment.task2",
	Task3:       "comment.task3",
	Task4:       "comment.task4",
	Task5:       "comment.task5",
	Task6:       "comment.task6",
	Task7:       "comment.task7",
	Task8:       "comment.task8",
	Task9:       "comment.task9",

	Marker:  "marker.symbol",
	Marker1: "marker.symbol.1",
	Marker2: "marker.symbol.2",
	Marker3: "marker.symbol.3",
	Marker4: "marker.symbol.4",
}

var byName map[string]Tag

func init() {
	byName = make(map[string]Tag, len(names))
	for i := Tag(1); i < numTags; i++ {
		if names[i] == "" {
			panic("style: unnamed tag")
		}
		byName[names[i]] = i
	}
}

// Resolve returns the tag registered under name. Unknown names are absent,
// never an error.
func Resolve(name string) (Tag, bool) {
	t, ok := byName[name]
	return t, ok
}

// MustResolve is like Resolve but panics on unknown names. Intended for
// package-level tables.
func MustResolve(name string) Tag {
	t, ok := byName[name]
	if !ok {
		panic("style: unknown tag " + name)
	}
	return t
}

// Valid reports whether t is a registered tag.
func (t Tag) Valid() bool {
	return t > invalid && t < numTags
}

func (t Tag) String() string {
	if !t.Valid() {
		return "invalid"
	}
	return names[t]
}

// MarshalText renders the tag by name so spans serialize readably.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IsMarker reports whether t is one of the marker tags a symbol can be
// pinned to.
func (t Tag) IsMarker() bool {
	return t >= Marker && t <= Marker4
}

// All returns every registered tag in declaration order.
func All() []Tag {
	out := make([]Tag, 0, numTags-1)
	for i := Tag(1); i < numTags; i++ {
		out = append(out, i)
	}
	return out
}

// Names returns every registered tag name in declaration order.
func Names() []string {
	out := make([]string, 0, numTags-1)
	for i := Tag(1); i < numTags; i++ {
		out = append(out, names[i])
	}
	return out
}

// Markers returns the tags a symbol can be pinned to.
func Markers() []Tag {
	return []Tag{Marker, Marker1, Marker2, Marker3, Marker4}
}
