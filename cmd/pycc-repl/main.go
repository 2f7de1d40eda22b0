// Command pycc-repl is an interactive inspector over the compiler
// pipeline: it loads an astjson module, runs sema and codegen against it
// on command, and lets you poke at the resulting signatures, IR, and GC
// counters one command at a time. pycc itself is an ahead-of-time
// compiler with no interpreter, so unlike a language REPL this one never
// executes anything — it only shows what the pipeline would produce.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/astjson"
	"github.com/sunholo/pycc/internal/codegen"
	"github.com/sunholo/pycc/internal/runtime"
	"github.com/sunholo/pycc/internal/sema"
	"github.com/sunholo/pycc/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Version info, set by ldflags during release builds.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// session holds the last module loaded via :load, and the generated IR
// from the last :ir invocation, so follow-up commands don't need to
// re-specify a path.
type session struct {
	path     string
	module   *ast.Module
	analyzer *sema.Analyzer
	ir       string
}

func main() {
	s := &session{}
	start(os.Stdin, os.Stdout, s)
}

func start(in io.Reader, out io.Writer, s *session) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".pycc_repl_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(false)
	line.SetCompleter(func(l string) (c []string) {
		if strings.HasPrefix(l, ":") {
			for _, cmd := range []string{":load", ":ir", ":save-ir", ":sig", ":gc", ":funcs", ":help", ":quit"} {
				if strings.HasPrefix(cmd, l) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s %s\n", bold("pycc-repl"), bold(Version))
	if BuildTime != "unknown" {
		fmt.Fprintf(out, "built: %s\n", BuildTime)
	}
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit"))
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt(prompt(s))
		if err == io.EOF {
			fmt.Fprintln(out, green("\ngoodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", red("error:"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ":quit" || input == ":q" {
			fmt.Fprintln(out, green("goodbye"))
			break
		}
		dispatch(input, out, s)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func prompt(s *session) string {
	if s.module == nil {
		return "pycc> "
	}
	return fmt.Sprintf("pycc[%s]> ", filepath.Base(s.path))
}

func dispatch(input string, out io.Writer, s *session) {
	fields := strings.Fields(input)
	cmd := fields[0]
	switch cmd {
	case ":help":
		printHelp(out)
	case ":load":
		if len(fields) < 2 {
			fmt.Fprintf(out, "%s usage: :load <module.json>\n", red("error:"))
			return
		}
		cmdLoad(fields[1], out, s)
	case ":funcs":
		cmdFuncs(out, s)
	case ":sig":
		if len(fields) < 2 {
			fmt.Fprintf(out, "%s usage: :sig <function>\n", red("error:"))
			return
		}
		cmdSig(fields[1], out, s)
	case ":ir":
		cmdIR(out, s)
	case ":save-ir":
		if len(fields) < 2 {
			fmt.Fprintf(out, "%s usage: :save-ir <file>\n", red("error:"))
			return
		}
		cmdSaveIR(fields[1], out, s)
	case ":gc":
		cmdGC(out)
	default:
		fmt.Fprintf(out, "%s unknown command %q (try :help)\n", yellow("warning:"), cmd)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintf(out, "  %s <file>   load and type-check an astjson module\n", cyan(":load"))
	fmt.Fprintf(out, "  %s             list functions in the loaded module\n", cyan(":funcs"))
	fmt.Fprintf(out, "  %s <name>    show a loaded function's inferred signature\n", cyan(":sig"))
	fmt.Fprintf(out, "  %s              lower the loaded module to LLVM IR and print it\n", cyan(":ir"))
	fmt.Fprintf(out, "  %s <file>   write the last :ir output to file\n", cyan(":save-ir"))
	fmt.Fprintf(out, "  %s              print current GC counters and telemetry\n", cyan(":gc"))
	fmt.Fprintf(out, "  %s            exit\n", cyan(":quit"))
}

func cmdLoad(path string, out io.Writer, s *session) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", red("error:"), err)
		return
	}
	m, err := astjson.Decode(data)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", red("error:"), err)
		return
	}
	a := sema.NewAnalyzer()
	ok := a.AnalyzeModule(m)
	s.path, s.module, s.analyzer, s.ir = path, m, a, ""

	if !ok {
		for _, d := range a.Diags.Items() {
			fmt.Fprintf(out, "  %s:%d:%d: %s: %s\n", d.File, d.Line, d.Col, red(d.Code), d.Message)
		}
		fmt.Fprintf(out, "%s loaded %s with %d diagnostic(s)\n", yellow("warning:"), path, len(a.Diags.Items()))
		return
	}
	fmt.Fprintf(out, "%s loaded %s: %d function(s), no diagnostics\n", green("ok"), path, len(m.Funcs))
}

func cmdFuncs(out io.Writer, s *session) {
	if s.module == nil {
		fmt.Fprintf(out, "%s no module loaded, try :load <file>\n", yellow("warning:"))
		return
	}
	for _, fn := range s.module.Funcs {
		fmt.Fprintf(out, "  %s\n", fn.String())
	}
}

func cmdSig(name string, out io.Writer, s *session) {
	if s.analyzer == nil {
		fmt.Fprintf(out, "%s no module loaded, try :load <file>\n", yellow("warning:"))
		return
	}
	sig, ok := s.analyzer.Sigs.Lookup(name)
	if !ok {
		fmt.Fprintf(out, "%s no signature for %q\n", red("error:"), name)
		return
	}
	fmt.Fprintf(out, "  %s%s -> %s\n", name, paramList(sig), sig.ReturnKind)
}

func paramList(sig *types.Signature) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range sig.FullParams {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", p.Name, p.Kind)
	}
	sb.WriteByte(')')
	return sb.String()
}

func cmdIR(out io.Writer, s *session) {
	if s.module == nil {
		fmt.Fprintf(out, "%s no module loaded, try :load <file>\n", yellow("warning:"))
		return
	}
	ir, err := codegen.NewGenerator(s.analyzer).GenerateIR(s.module)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", red("error:"), err)
		return
	}
	s.ir = ir
	fmt.Fprintln(out, ir)
}

func cmdSaveIR(path string, out io.Writer, s *session) {
	if s.ir == "" {
		fmt.Fprintf(out, "%s no IR generated yet, run :ir first\n", yellow("warning:"))
		return
	}
	if err := os.WriteFile(path, []byte(s.ir), 0o644); err != nil {
		fmt.Fprintf(out, "%s %v\n", red("error:"), err)
		return
	}
	fmt.Fprintf(out, "%s wrote %s\n", green("ok"), path)
}

func cmdGC(out io.Writer) {
	stats := runtime.GCStats()
	tel := runtime.GCTelemetry()
	fmt.Fprintf(out, "  allocated=%d freed=%d collections=%d live=%d peak=%d\n",
		stats.NumAllocated, stats.NumFreed, stats.NumCollections, stats.BytesLive, stats.PeakBytesLive)
	fmt.Fprintf(out, "  alloc_rate=%.1fB/s pressure=%.2f\n", tel.AllocRateBytesPerSec, tel.Pressure)
}
