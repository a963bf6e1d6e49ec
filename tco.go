// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheval

// TailContext tracks whether the expression currently being analyzed sits
// in tail position, which enclosing procedure (if any) it could be a
// self-recursive tail call to, and how deeply nested the analysis has
// recursed (§4.6.5).
type TailContext struct {
	InTail   bool
	FuncName string
	Depth    int
}

// notTail returns a copy of ctx with InTail cleared, for sub-positions
// R7RS defines as non-tail (the test of if, a let binding's init, ...).
func (ctx TailContext) notTail() TailContext {
	c := ctx
	c.InTail = false
	c.Depth++
	return c
}

// tail returns a copy of ctx with InTail preserved, for sub-positions
// R7RS defines as tail (an if branch, begin's last expression, ...).
func (ctx TailContext) tail() TailContext {
	c := ctx
	c.Depth++
	return c
}

// TailReport summarizes one AnalyzeTail walk: how many calls were found
// in tail position that directly recurse into FuncName (candidates for
// the "reuse the current continuation" optimization, §4.6.5) and how
// deep the expression tree went.
type TailReport struct {
	SelfTailCalls int
	MaxDepth      int
}

func mergeTailReports(reports ...TailReport) TailReport {
	var out TailReport
	for _, r := range reports {
		out.SelfTailCalls += r.SelfTailCalls
		if r.MaxDepth > out.MaxDepth {
			out.MaxDepth = r.MaxDepth
		}
	}
	return out
}

// AnalyzeTail walks x under ctx, propagating tail position into exactly
// the sub-expressions R7RS defines as tail (if branches, the last
// expression of begin/and/or, the last clause body of cond/case, the
// body of let/let*/letrec/lambda) and clearing it everywhere else (the
// test of if, binding right-hand sides, operator/argument positions of an
// application). A self-recursive tail call — an ApplicationExpr in tail
// position whose operator names ctx.FuncName — is counted; the CPS
// representation already reuses the current continuation for it (an
// Application continuation is built with the *same* parent, never a
// deeper one), so this analysis is diagnostic rather than a rewrite pass
// (§4.6.5: "implicit in the CPS representation's Application-with-empty-
// parent form").
func AnalyzeTail(x Expr, ctx TailContext) TailReport {
	report := TailReport{MaxDepth: ctx.Depth}
	switch n := x.(type) {
	case Literal, Variable, QuoteExpr, QuasiquoteExpr, ImportExpr:
		return report

	case VectorExpr:
		return mergeTailReports(report, analyzeTailList(n.Elements, ctx.notTail()))

	case IfExpr:
		reports := []TailReport{report, AnalyzeTail(n.Test, ctx.notTail()), AnalyzeTail(n.Then, ctx.tail())}
		if n.Else != nil {
			reports = append(reports, AnalyzeTail(n.Else, ctx.tail()))
		}
		return mergeTailReports(reports...)

	case LambdaExpr:
		inner := ctx.tail()
		inner.FuncName = n.Name
		return mergeTailReports(report, analyzeTailLast(n.Body, inner))

	case DefineExpr:
		return mergeTailReports(report, AnalyzeTail(n.ValueExpr, ctx.notTail()))

	case DefineFuncExpr:
		inner := ctx.tail()
		inner.FuncName = n.Name
		return mergeTailReports(report, analyzeTailLast(n.Body, inner))

	case SetExpr:
		return mergeTailReports(report, AnalyzeTail(n.ValueExpr, ctx.notTail()))

	case BeginExpr:
		return mergeTailReports(report, analyzeTailLast(n.Exprs, ctx.tail()))

	case AndExpr:
		return mergeTailReports(report, analyzeTailLast(n.Exprs, ctx.tail()))

	case OrExpr:
		return mergeTailReports(report, analyzeTailLast(n.Exprs, ctx.tail()))

	case CondExpr:
		reports := []TailReport{report}
		for _, c := range n.Clauses {
			if c.Test != nil {
				reports = append(reports, AnalyzeTail(c.Test, ctx.notTail()))
			}
			reports = append(reports, analyzeTailLast(c.Body, ctx.tail()))
		}
		return mergeTailReports(reports...)

	case CaseExpr:
		reports := []TailReport{report, AnalyzeTail(n.Key, ctx.notTail())}
		for _, c := range n.Clauses {
			reports = append(reports, analyzeTailLast(c.Body, ctx.tail()))
		}
		return mergeTailReports(reports...)

	case LetExpr:
		reports := []TailReport{report}
		for _, b := range n.Bindings {
			reports = append(reports, AnalyzeTail(b.Init, ctx.notTail()))
		}
		reports = append(reports, analyzeTailLast(n.Body, ctx.tail()))
		return mergeTailReports(reports...)

	case LetStarExpr:
		reports := []TailReport{report}
		for _, b := range n.Bindings {
			reports = append(reports, AnalyzeTail(b.Init, ctx.notTail()))
		}
		reports = append(reports, analyzeTailLast(n.Body, ctx.tail()))
		return mergeTailReports(reports...)

	case LetrecExpr:
		reports := []TailReport{report}
		for _, b := range n.Bindings {
			reports = append(reports, AnalyzeTail(b.Init, ctx.notTail()))
		}
		reports = append(reports, analyzeTailLast(n.Body, ctx.tail()))
		return mergeTailReports(reports...)

	case DoExpr:
		reports := []TailReport{report}
		for _, b := range n.Bindings {
			reports = append(reports, AnalyzeTail(b.Init, ctx.notTail()))
			if b.Step != nil {
				reports = append(reports, AnalyzeTail(b.Step, ctx.notTail()))
			}
		}
		reports = append(reports, AnalyzeTail(n.Test, ctx.notTail()))
		reports = append(reports, analyzeTailList(n.Body, ctx.notTail()))
		reports = append(reports, analyzeTailLast(n.Results, ctx.tail()))
		return mergeTailReports(reports...)

	case DelayExpr:
		return mergeTailReports(report, AnalyzeTail(n.Body, TailContext{Depth: ctx.Depth + 1}))

	case CallCCExpr:
		return mergeTailReports(report, AnalyzeTail(n.Proc, ctx.notTail()))

	case DynamicWindExpr:
		return mergeTailReports(report,
			AnalyzeTail(n.Before, ctx.notTail()),
			AnalyzeTail(n.Thunk, ctx.notTail()),
			AnalyzeTail(n.After, ctx.notTail()))

	case CallWithValuesExpr:
		return mergeTailReports(report, AnalyzeTail(n.Producer, ctx.notTail()), AnalyzeTail(n.Consumer, ctx.notTail()))

	case ValuesExpr:
		return mergeTailReports(report, analyzeTailList(n.Exprs, ctx.notTail()))

	case GuardExpr:
		reports := []TailReport{report}
		for _, c := range n.Clauses {
			if c.Test != nil {
				reports = append(reports, AnalyzeTail(c.Test, ctx.notTail()))
			}
			reports = append(reports, analyzeTailList(c.Body, ctx.notTail()))
		}
		reports = append(reports, analyzeTailList(n.Body, ctx.notTail()))
		return mergeTailReports(reports...)

	case RaiseExpr:
		return mergeTailReports(report, AnalyzeTail(n.Obj, ctx.notTail()))

	case WithExceptionHandlerExpr:
		return mergeTailReports(report, AnalyzeTail(n.Handler, ctx.notTail()), AnalyzeTail(n.Thunk, ctx.notTail()))

	case ApplicationExpr:
		if ctx.InTail && ctx.FuncName != "" {
			if v, ok := n.Operator.(Variable); ok && v.Name == ctx.FuncName {
				report.SelfTailCalls++
			}
		}
		reports := []TailReport{report, AnalyzeTail(n.Operator, ctx.notTail())}
		reports = append(reports, analyzeTailList(n.Args, ctx.notTail()))
		return mergeTailReports(reports...)

	default:
		return report
	}
}

func analyzeTailList(exprs []Expr, ctx TailContext) TailReport {
	reports := make([]TailReport, len(exprs))
	for i, x := range exprs {
		reports[i] = AnalyzeTail(x, ctx)
	}
	return mergeTailReports(reports...)
}

// analyzeTailLast evaluates every expression but the last under ctx with
// InTail cleared (for-effect positions) and the last under ctx unchanged
// (the tail position of the sequence).
func analyzeTailLast(exprs []Expr, ctx TailContext) TailReport {
	if len(exprs) == 0 {
		return TailReport{MaxDepth: ctx.Depth}
	}
	reports := make([]TailReport, 0, len(exprs))
	for _, x := range exprs[:len(exprs)-1] {
		reports = append(reports, AnalyzeTail(x, ctx.notTail()))
	}
	reports = append(reports, AnalyzeTail(exprs[len(exprs)-1], ctx))
	return mergeTailReports(reports...)
}
