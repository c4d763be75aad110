// Package menuq contains a CLI-driven engine that takes food orders typed in
// Vietnamese, answering each one until the customer quits.
package menuq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HienLe2004/menuq/internal/command"
	"github.com/HienLe2004/menuq/internal/grammar"
	"github.com/HienLe2004/menuq/internal/input"
	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/order"
	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/internal/report"
	"github.com/HienLe2004/menuq/internal/session"
	"github.com/dekarrin/rosed"
)

// DefaultCatalogPath is the catalog loaded when Options.CatalogPath is empty.
const DefaultCatalogPath = "data/menu.toml"

const consoleOutputWidth = 80

var commandHelp = [][2]string{
	{"<câu>", "Gọi món, hỏi giá, hỏi menu hoặc xem đơn, ví dụ \"cho tôi 2 phở bò\""},
	{"HELP", "Hiện bảng trợ giúp này (cũng: ?, trợ giúp)"},
	{"RESET", "Xóa toàn bộ đơn hàng hiện tại (cũng: làm lại)"},
	{"GRAMMAR", "In văn phạm dùng để phân tích câu (cũng: văn phạm)"},
	{"QUIT", "Thoát chương trình (cũng: exit, thoát, bye)"},
}

// Options configures a new Engine.
type Options struct {
	// CatalogPath is the TOML or JSON catalog to load. If empty,
	// DefaultCatalogPath is used.
	CatalogPath string

	// Strategy selects how utterances are read.
	Strategy pipeline.Strategy

	// ForceDirect disables readline even when attached to a terminal.
	ForceDirect bool

	// ParseBudget is the parser step budget; see parse.Parser.MaxSteps.
	ParseBudget int
}

// Engine contains the things needed to take orders from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	grammar     grammar.Grammar
	proc        pipeline.Processor
	sess        *session.Session
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// New creates a new engine ready to operate on the given input and output
// streams. It loads the catalog, builds the ordering grammar from it, and
// opens a buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. Readline is used for input only when both
// are the standard streams and opts.ForceDirect is not set.
func New(inputStream io.Reader, outputStream io.Writer, opts Options) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	if opts.CatalogPath == "" {
		opts.CatalogPath = DefaultCatalogPath
	}

	m, err := menu.Load(opts.CatalogPath)
	if err != nil {
		return nil, err
	}
	g, err := grammar.Build(m)
	if err != nil {
		return nil, fmt.Errorf("build grammar: %w", err)
	}
	interp, err := pipeline.NewInterpreter(opts.Strategy, m, g, opts.ParseBudget)
	if err != nil {
		return nil, fmt.Errorf("initializing interpreter: %w", err)
	}
	sess, err := session.New()
	if err != nil {
		return nil, fmt.Errorf("initializing session: %w", err)
	}

	eng := &Engine{
		grammar:     g,
		proc:        pipeline.Processor{Menu: m, Interpreter: interp},
		sess:        sess,
		out:         bufio.NewWriter(outputStream),
		forceDirect: opts.ForceDirect,
	}

	useReadline := !opts.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		eng.in, err = input.NewInteractiveReader(input.DefaultPrompt)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Grammar returns the ordering grammar built from the loaded catalog.
func (eng *Engine) Grammar() grammar.Grammar {
	return eng.grammar
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// Process runs a single utterance against the engine's cart.
func (eng *Engine) Process(text string) pipeline.Result {
	var res pipeline.Result
	eng.sess.Do(func(cart *order.Cart) {
		res = eng.proc.Process(cart, text)
	})
	return res
}

// RunBatch processes every non-blank line of r as an utterance against the
// engine's cart and writes the outputs of each to rep, after the report
// headers. Utterances that cannot be understood are reported like any other
// and do not stop the batch. It returns the number of utterances processed.
func (eng *Engine) RunBatch(r io.Reader, rep *report.Writer) (int, error) {
	if err := rep.WriteHeaders(); err != nil {
		return 0, err
	}

	count := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if err := rep.Write(eng.Process(line)); err != nil {
			return count, err
		}
		count++
	}
	if err := sc.Err(); err != nil {
		return count, fmt.Errorf("read batch input: %w", err)
	}

	return count, nil
}

// RunUntilQuit begins reading lines from the input stream and answering them
// until the QUIT command is received or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "=== HỆ THỐNG ĐẶT MÓN ĂN Q&A ===\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += fmt.Sprintf("Phân tích câu bằng: %s\n", eng.proc.Interpreter.Name())
	introMsg += "Nhập câu lệnh (hoặc 'thoát' để thoát, 'help' để xem trợ giúp):\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		var output string
		switch cmd.Verb {
		case command.Quit:
			eng.running = false
			continue
		case command.Help:
			output = helpText()
		case command.Reset:
			eng.sess.Reset()
			output = order.AnswerCleared
		case command.Grammar:
			output = strings.TrimSpace(eng.grammar.String())
		default:
			res := eng.Process(cmd.Text)
			output = wrapAnswers(res.Answers)
		}

		if err := eng.write(output + "\n"); err != nil {
			return err
		}
	}

	return eng.write("Tạm biệt!\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

func helpText() string {
	return rosed.
		Edit("").
		WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
		InsertDefinitionsTable(0, commandHelp, consoleOutputWidth).
		Insert(0, "Các lệnh có thể dùng:\n").
		String()
}

// wrapAnswers wraps each answer to the console width. Multi-line answers such
// as the cart listing keep their own line breaks.
func wrapAnswers(answers []string) string {
	wrapped := make([]string, len(answers))
	for i, ans := range answers {
		lines := strings.Split(ans, "\n")
		for j := range lines {
			if lines[j] != "" {
				lines[j] = rosed.Edit(lines[j]).Wrap(consoleOutputWidth).String()
			}
		}
		wrapped[i] = strings.Join(lines, "\n")
	}
	return strings.Join(wrapped, "\n")
}
