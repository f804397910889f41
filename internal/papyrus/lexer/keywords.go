package lexer

import "strings"

// KeywordKind identifies a reserved word. The parser compares kinds, never raw text.
type KeywordKind int

const (
	Auto KeywordKind = iota
	AutoReadOnly
	BetaOnly
	Bool
	Const
	CustomEvent
	CustomEventName
	DebugOnly
	Else
	ElseIf
	EndEvent
	EndFunction
	EndGroup
	EndIf
	EndProperty
	EndState
	EndStruct
	EndWhile
	Event
	Extends
	False
	Float
	Function
	Global
	Group
	If
	Import
	Int
	Length
	Native
	New
	None
	Property
	Return
	ScriptName
	ScriptEventName
	State
	String
	Struct
	StructVarName
	True
	Var
	While
)

var keywordNames = [...]string{
	Auto:            "Auto",
	AutoReadOnly:    "AutoReadOnly",
	BetaOnly:        "BetaOnly",
	Bool:            "Bool",
	Const:           "Const",
	CustomEvent:     "CustomEvent",
	CustomEventName: "CustomEventName",
	DebugOnly:       "DebugOnly",
	Else:            "Else",
	ElseIf:          "ElseIf",
	EndEvent:        "EndEvent",
	EndFunction:     "EndFunction",
	EndGroup:        "EndGroup",
	EndIf:           "EndIf",
	EndProperty:     "EndProperty",
	EndState:        "EndState",
	EndStruct:       "EndStruct",
	EndWhile:        "EndWhile",
	Event:           "Event",
	Extends:         "Extends",
	False:           "False",
	Float:           "Float",
	Function:        "Function",
	Global:          "Global",
	Group:           "Group",
	If:              "If",
	Import:          "Import",
	Int:             "Int",
	Length:          "Length",
	Native:          "Native",
	New:             "New",
	None:            "None",
	Property:        "Property",
	Return:          "Return",
	ScriptName:      "ScriptName",
	ScriptEventName: "ScriptEventName",
	State:           "State",
	String:          "String",
	Struct:          "Struct",
	StructVarName:   "StructVarName",
	True:            "True",
	Var:             "Var",
	While:           "While",
}

func (k KeywordKind) String() string {
	if k < 0 || int(k) >= len(keywordNames) {
		return "Keyword(?)"
	}

	return keywordNames[k]
}

// keywordLookup maps the lower-cased spelling of every keyword to its kind.
// Papyrus is case-insensitive, so the tokenizer folds case before the lookup.
var keywordLookup = func() map[string]KeywordKind {
	lookup := make(map[string]KeywordKind, len(keywordNames))
	for kind, name := range keywordNames {
		lookup[strings.ToLower(name)] = KeywordKind(kind)
	}
	return lookup
}()

// LookupKeyword reports whether word (in any letter case) is a reserved word.
func LookupKeyword(word string) (KeywordKind, bool) {
	kind, ok := keywordLookup[strings.ToLower(word)]
	return kind, ok
}

// castOperatorWord is lexed as an operator rather than an identifier.
const castOperatorWord = "as"
