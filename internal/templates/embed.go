package templates

import (
	"embed"
	"io/fs"
)

// builtinTemplates embeds the template declarations shipped with the binary.
// The structure is:
//   - builtin/*.yaml (YAML declaration files)
//   - builtin/*.hcl (HCL declaration files)
//
//go:embed builtin
var builtinTemplates embed.FS

// BuiltinRoot is the directory inside BuiltinFS holding the declarations.
const BuiltinRoot = "builtin"

// BuiltinFS returns the embedded filesystem containing built-in declarations.
func BuiltinFS() fs.FS {
	return builtinTemplates
}
