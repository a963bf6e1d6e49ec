// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

import "strings"

// ModuleExports is the name->value table a resolved import contributes.
type ModuleExports map[string]Value

// ModuleResolver is the module system's boundary with scheval (§1
// Non-goals: module/macro/bootstrap integration lives outside this
// core). A host implements it to answer "what does this import spec
// export"; scheval only binds the result into the importing environment
// and detects name conflicts across specs in the same import form.
type ModuleResolver interface {
	Resolve(spec ImportSpec) (ModuleExports, error)
}

// builtinLibraries answers the handful of (scheme ...) base-library
// imports without requiring a host resolver, since the primitive
// registry already lives in the global environment under those names.
// Anything else is delegated to e.Modules, or reported as unresolved.
var builtinLibraries = map[string]bool{
	"scheme base":      true,
	"scheme write":     true,
	"scheme read":      true,
	"scheme char":      true,
	"scheme cxr":       true,
	"scheme inexact":   true,
	"scheme lazy":      true,
	"scheme eval":      true,
	"scheme file":      true,
	"scheme process-context": true,
}

func importSpecKey(s ImportSpec) string {
	if s.Srfi > 0 {
		return "srfi"
	}
	return strings.Join(s.Parts, " ")
}

// performImport resolves every spec in x and binds its exports into env,
// rejecting a spec whose exports collide with a name already imported by
// an earlier spec in the same import form (the "conflict detection hook"
// named in §4.4 Import, §6).
func (e *Evaluator) performImport(x ImportExpr, env *Environment) error {
	seen := make(map[string]string) // exported name -> spec that first bound it
	for _, spec := range x.Specs {
		key := importSpecKey(spec)
		if builtinLibraries[key] {
			continue // already present via RegisterPrimitives
		}
		if e.Modules == nil {
			return newRuntimeError("import: no module resolver configured for %q", key)
		}
		exports, err := e.Modules.Resolve(spec)
		if err != nil {
			return err
		}
		for name, val := range exports {
			if owner, ok := seen[name]; ok && owner != key {
				return newRuntimeError("import: %q conflicts with %q on binding %q", key, owner, name)
			}
			seen[name] = key
			env.Define(name, val)
		}
	}
	return nil
}
