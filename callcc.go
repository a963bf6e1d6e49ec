// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// performWindTransition runs the after-thunks of every dynamic-wind
// point being exited and the before-thunks of every point being entered,
// innermost-exit-first and innermost-entry-last, when a captured
// continuation is invoked across dynamic-wind boundaries (§4.4 Call/cc,
// §4.8: "a non-local exit that crosses one or more dynamic-wind points
// runs their after/before thunks").
//
// Each thunk runs via a nested synchronous trampoline (callThunkSync)
// rather than by threading another continuation layer through the jump
// itself — simpler to reason about than a fully defunctionalized
// unwind/rewind chain, at the cost of host stack proportional to wind
// nesting depth, which in practice is shallow (DESIGN.md, callcc.go
// entry and "Open Question resolutions (continued)").
func (e *Evaluator) performWindTransition(target []DynamicPoint) error {
	current := e.Winds.Snapshot()
	leaving, entering := TransitionThunks(current, target)
	for _, thunk := range leaving {
		if _, err := e.callThunkSync(thunk); err != nil {
			return err
		}
	}
	common := 0
	for common < len(current) && common < len(target) && current[common].ID == target[common].ID {
		common++
	}
	active := append([]DynamicPoint(nil), target[:common]...)
	e.Winds.Restore(active)
	for i, thunk := range entering {
		if _, err := e.callThunkSync(thunk); err != nil {
			return err
		}
		active = append(active, target[common+i])
		e.Winds.Restore(active)
	}
	return nil
}
