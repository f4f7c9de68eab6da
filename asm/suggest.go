// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// suggestTree backs the "did you mean" diagnostics appended when a
// mnemonic, directive, or register name fails to resolve. It is
// built once from the static dictionaries, the same way the host's
// settings lookup builds a prefixtree.New[*settingsField]() over its
// field names.
var (
	opcodeSuggestTree    = newSuggestTree(opcodeNames)
	directiveSuggestTree = newSuggestTree(directiveNames)
	registerSuggestTree  = newSuggestTree(registerNames())
)

func newSuggestTree(names []string) *prefixtree.Tree[string] {
	t := prefixtree.New[string]()
	for _, n := range names {
		t.Add(strings.ToLower(n), n)
	}
	return t
}

// suggest returns a parenthesized "(did you mean "X"?)" hint for an
// unrecognized name, or "" if no unambiguous suggestion exists.
func suggest(tree *prefixtree.Tree[string], name string) string {
	match, err := tree.FindValue(strings.ToLower(name))
	if err != nil {
		return ""
	}
	return ` (did you mean "` + match + `"?)`
}
