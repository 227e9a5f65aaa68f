package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
)

// HelpText lists the commands accepted at the selection prompt.
const HelpText = `
    <n1> <n2>:      open selection
    p <n1> <n2>:    print selection
    p:              print all ordinals
    d <n1> <n2>:    delete selection
    e <n1> <n2>:    edit selection
    q | ENTER:      quit
    h:              help
`

// State is the state of a Processor.
type State int

const (
	StateAwaitingInput State = iota
	StateDone
)

// Processor reads selection commands and dispatches at most one action.
// Help and invalid input keep it waiting; everything else finishes it.
type Processor struct {
	session    *Session
	dispatcher *Dispatcher
	in         *bufio.Reader
	out        io.Writer
	log        logger.Logger
	state      State
}

// ProcessorParams holds the collaborators of a Processor.
type ProcessorParams struct {
	Session    *Session
	Dispatcher *Dispatcher
	In         io.Reader
	Out        io.Writer
	Logger     logger.Logger
}

// NewProcessor creates a Processor in StateAwaitingInput.
func NewProcessor(params ProcessorParams) *Processor {
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Processor{
		session:    params.Session,
		dispatcher: params.Dispatcher,
		in:         bufio.NewReader(params.In),
		out:        params.Out,
		log:        log,
		state:      StateAwaitingInput,
	}
}

// State returns the current state.
func (p *Processor) State() State {
	return p.state
}

// Run prompts until an action has been taken or the user quits.
// It returns the error of the dispatched action, if any.
func (p *Processor) Run(ctx context.Context) error {
	for p.state != StateDone {
		if err := p.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step prompts for and handles a single line of input.
func (p *Processor) Step(ctx context.Context) error {
	if p.state == StateDone {
		return nil
	}

	fmt.Fprint(p.out, "> ")
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		p.state = StateDone
		return fmt.Errorf("read input: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		p.state = StateDone
		return nil
	}

	return p.handle(ctx, Tokenize(line))
}

func (p *Processor) handle(ctx context.Context, tokens []string) error {
	p.log.Debug("selection input", logger.String("tokens", strings.Join(tokens, " ")))

	if len(tokens) == 0 {
		p.state = StateDone
		return nil
	}

	var action Action
	var args []string
	switch first := tokens[0]; {
	case first == "q":
		p.state = StateDone
		return nil
	case first == "h":
		fmt.Fprint(p.out, HelpText)
		return nil
	case first == "p":
		action, args = ActionPrint, tokens[1:]
	case first == "d":
		action, args = ActionDelete, tokens[1:]
	case first == "e":
		action, args = ActionEdit, tokens[1:]
	case startsWithDigit(first):
		action, args = ActionOpen, tokens
	default:
		fmt.Fprintln(p.out, "Invalid input")
		fmt.Fprint(p.out, HelpText)
		return nil
	}

	ordinals, err := ParseOrdinals(args)
	if err != nil {
		fmt.Fprintf(p.out, "Invalid input, only numbers allowed: %s\n", strings.Join(args, " "))
		return nil
	}

	p.state = StateDone
	return p.dispatcher.Dispatch(ctx, action, p.session, ordinals)
}

// Tokenize lowercases a line, drops commas and splits it on whitespace.
func Tokenize(line string) []string {
	line = strings.ReplaceAll(strings.ToLower(line), ",", "")
	return strings.Fields(line)
}

// ParseOrdinals converts tokens to integers.
func ParseOrdinals(tokens []string) ([]int, error) {
	ordinals := make([]int, 0, len(tokens))
	for _, token := range tokens {
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", token, model.ErrInvalidInput)
		}
		ordinals = append(ordinals, n)
	}
	return ordinals, nil
}

func startsWithDigit(token string) bool {
	return token != "" && token[0] >= '0' && token[0] <= '9'
}
