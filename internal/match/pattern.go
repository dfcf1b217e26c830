package match

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

const (
	DefaultTimeout          = 250 * time.Millisecond
	DefaultMaxPatternLength = 200
)

// PatternError reports a pattern that could not be compiled or evaluated.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Pattern is a compiled pattern with global-match semantics. A Pattern
// must not be scanned from several goroutines at once.
type Pattern struct {
	source string
	re     *regexp2.Regexp
	sticky bool
	budget time.Duration
}

// Options bounds compilation and evaluation of a pattern. Timeout caps the
// total time spent scanning one target, not each individual match.
type Options struct {
	Timeout          time.Duration
	MaxPatternLength int
}

func DefaultOptions() Options {
	return Options{
		Timeout:          DefaultTimeout,
		MaxPatternLength: DefaultMaxPatternLength,
	}
}

// Compile accepts either a bare pattern or the delimited form /body/flags.
// The g flag is implied; i, m, s, u and y are honored.
func Compile(raw string, opts Options) (*Pattern, error) {
	body, flags := splitDelimited(raw)
	if opts.MaxPatternLength > 0 && len(body) > opts.MaxPatternLength {
		return nil, &PatternError{Pattern: raw, Err: fmt.Errorf("pattern exceeds %d characters", opts.MaxPatternLength)}
	}
	regexOpts, sticky, err := parseFlags(flags)
	if err != nil {
		return nil, &PatternError{Pattern: raw, Err: err}
	}
	re, err := regexp2.Compile(body, regexOpts)
	if err != nil {
		return nil, &PatternError{Pattern: raw, Err: err}
	}
	if opts.Timeout > 0 {
		re.MatchTimeout = opts.Timeout
	}
	return &Pattern{source: raw, re: re, sticky: sticky, budget: opts.Timeout}, nil
}

func (p *Pattern) String() string {
	return p.source
}

func splitDelimited(raw string) (string, string) {
	pattern := strings.TrimSpace(raw)
	if strings.HasPrefix(pattern, "/") {
		if last := strings.LastIndex(pattern, "/"); last > 0 {
			return pattern[1:last], pattern[last+1:]
		}
	}
	return pattern, ""
}

func parseFlags(flags string) (regexp2.RegexOptions, bool, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	sticky := false
	seen := make(map[rune]struct{}, len(flags))
	for _, flag := range flags {
		if _, dup := seen[flag]; dup {
			return 0, false, fmt.Errorf("duplicate flag %q", flag)
		}
		seen[flag] = struct{}{}
		switch flag {
		case 'g':
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
			opts |= regexp2.Unicode
		case 'y':
			sticky = true
		default:
			return 0, false, fmt.Errorf("unsupported flag %q", flag)
		}
	}
	return opts, sticky, nil
}

var errScanTimeout = errors.New("pattern evaluation timed out")
