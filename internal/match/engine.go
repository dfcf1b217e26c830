package match

// Result is the outcome of evaluating a pattern against a target. When Err
// is set the mask is all false and Ranges is empty.
type Result struct {
	Ranges []Range
	Mask   Mask
	Err    *PatternError
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Evaluate never fails; compile and scan errors degrade to an empty mask.
func (e *Engine) Evaluate(pattern, target string) Result {
	length := len([]rune(target))
	p, err := Compile(pattern, e.opts)
	if err != nil {
		return failed(length, err)
	}
	ranges, err := p.FindRanges(target)
	if err != nil {
		return failed(length, err)
	}
	return Result{
		Ranges: ranges,
		Mask:   maskFromRanges(length, ranges),
	}
}

func failed(length int, err error) Result {
	perr, ok := err.(*PatternError)
	if !ok {
		perr = &PatternError{Err: err}
	}
	return Result{
		Ranges: []Range{},
		Mask:   EmptyMask(length),
		Err:    perr,
	}
}
