package upscayl

import (
	"errors"
)

// TokenKind distinguishes literal arguments from the two per-directory
// substitution slots.
type TokenKind int

const (
	TokenLiteral TokenKind = iota
	TokenInputSlot
	TokenOutputSlot
)

// Token is one argument position in a command template: either a literal
// string passed through verbatim, or a slot filled with the input or output
// directory at resolve time.
type Token struct {
	Kind TokenKind
	Text string
}

// Literal returns a pass-through token.
func Literal(text string) Token { return Token{Kind: TokenLiteral, Text: text} }

// InputSlot returns the token replaced by the input directory.
func InputSlot() Token { return Token{Kind: TokenInputSlot} }

// OutputSlot returns the token replaced by the output directory.
func OutputSlot() Token { return Token{Kind: TokenOutputSlot} }

// Template is the ordered argument list for one tool invocation, with the
// input and output directory positions left as slots. One template is built
// per batch and resolved once per directory.
type Template []Token

var (
	ErrInputSlot  = errors.New("template must contain exactly one input slot")
	ErrOutputSlot = errors.New("template must contain exactly one output slot")
)

// Validate checks that the template carries exactly one input slot and
// exactly one output slot.
func (t Template) Validate() error {
	ins, outs := 0, 0
	for _, tok := range t {
		switch tok.Kind {
		case TokenInputSlot:
			ins++
		case TokenOutputSlot:
			outs++
		}
	}
	if ins != 1 {
		return ErrInputSlot
	}
	if outs != 1 {
		return ErrOutputSlot
	}
	return nil
}

// Resolve fills the slots with the given directories and returns the
// concrete argument list. Literal tokens pass through unchanged, in order.
func (t Template) Resolve(inputDir, outputDir string) []string {
	args := make([]string, 0, len(t))
	for _, tok := range t {
		switch tok.Kind {
		case TokenInputSlot:
			args = append(args, inputDir)
		case TokenOutputSlot:
			args = append(args, outputDir)
		default:
			args = append(args, tok.Text)
		}
	}
	return args
}
