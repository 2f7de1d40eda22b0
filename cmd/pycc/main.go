// Command pycc is the compiler driver: it reads a JSON-encoded module
// (internal/astjson), runs it through sema, the optimizer pipeline, and
// codegen, then either prints the resulting LLVM IR or hands it to the
// external toolchain via internal/codegen.Driver (spec section 4.3.6).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/astjson"
	"github.com/sunholo/pycc/internal/codegen"
	"github.com/sunholo/pycc/internal/config"
	"github.com/sunholo/pycc/internal/optimizer"
	"github.com/sunholo/pycc/internal/runtime"
	"github.com/sunholo/pycc/internal/sema"
)

// Version info, set by ldflags during release builds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "pycc",
		Short: "Ahead-of-time compiler for a statically-typable Python subset",
		Long:  bold("pycc") + " lowers a typed Python subset to LLVM IR and drives clang/opt to produce an object file or native binary.",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "pycc.yaml", "path to the project's pycc.yaml")
	root.AddCommand(
		newVersionCmd(),
		newCheckCmd(),
		newEmitLLVMCmd(),
		newBuildCmd(),
		newOptStatsCmd(),
		newGCStatsCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pycc %s\n", bold(Version))
			if Commit != "unknown" {
				fmt.Printf("commit: %s\n", Commit)
			}
			if BuildTime != "unknown" {
				fmt.Printf("built:  %s\n", BuildTime)
			}
		},
	}
}

// loadConfig reads pycc.yaml if present, falling back to config.New's
// conservative defaults when no project file exists (config.Load itself
// returns an error for a missing file) or when the file fails to load.
func loadConfig() *config.Config {
	if _, err := os.Stat(configPath); err != nil {
		return config.New()
	}
	c, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s reading %s: %v (falling back to defaults)\n", yellow("warning:"), configPath, err)
		return config.New()
	}
	return c
}

// readModule decodes the astjson module at path and runs sema over it
// (spec section 4.1.5): codegen needs the analyzer's annotated tables
// alongside the module itself, so both travel together in codegenInput.
func readModule(path string) (*codegenInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := astjson.Decode(data)
	if err != nil {
		return nil, err
	}
	a := sema.NewAnalyzer()
	ok := a.AnalyzeModule(m)
	return &codegenInput{module: m, analyzer: a, ok: ok}, nil
}

type codegenInput struct {
	module   *ast.Module
	analyzer *sema.Analyzer
	ok       bool
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <module.json>",
		Short: "Type-check a module without emitting IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readModule(args[0])
			if err != nil {
				return err
			}
			if !in.ok {
				printDiagnostics(in.analyzer)
				os.Exit(1)
			}
			fmt.Printf("%s %s: no diagnostics\n", green("ok"), args[0])
			return nil
		},
	}
}

func newEmitLLVMCmd() *cobra.Command {
	var out string
	var optimize bool
	cmd := &cobra.Command{
		Use:   "emit-llvm <module.json>",
		Short: "Lower a module to LLVM IR text and print or write it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readModule(args[0])
			if err != nil {
				return err
			}
			if !in.ok {
				printDiagnostics(in.analyzer)
				os.Exit(1)
			}
			cfg := loadConfig()
			if optimize {
				runOptimizer(in.module, cfg)
			}
			ir, err := codegen.NewGenerator(in.analyzer).GenerateIR(in.module)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Print(ir)
				return nil
			}
			return os.WriteFile(out, []byte(ir), 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write IR to this file instead of stdout")
	cmd.Flags().BoolVar(&optimize, "optimize", true, "run the optimizer pipeline before emitting IR")
	return cmd
}

func newBuildCmd() *cobra.Command {
	var out string
	var stageName string
	cmd := &cobra.Command{
		Use:   "build <module.json>",
		Short: "Compile a module through to an object file or linked binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readModule(args[0])
			if err != nil {
				return err
			}
			if !in.ok {
				printDiagnostics(in.analyzer)
				os.Exit(1)
			}
			cfg := loadConfig()
			runOptimizer(in.module, cfg)

			ir, err := codegen.NewGenerator(in.analyzer).GenerateIR(in.module)
			if err != nil {
				return err
			}

			stage, err := parseStage(stageName)
			if err != nil {
				return err
			}
			if out == "" {
				out = defaultOutPath(cfg, stage)
			}
			driver := &codegen.Driver{ClangPath: cfg.Toolchain.ClangPath, OptPath: cfg.Toolchain.OptPath, PassPluginPath: cfg.Toolchain.PassPluginPath}
			diags, err := driver.Run(ir, out, stage)
			if len(diags.Items()) > 0 {
				codegen.PrintDiagnostics(diags.Items())
			}
			if err != nil {
				os.Exit(1)
			}
			fmt.Printf("%s wrote %s\n", green("ok"), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output artifact path")
	cmd.Flags().StringVar(&stageName, "stage", "binary", "ir|asm|obj|binary")
	return cmd
}

func parseStage(s string) (codegen.Stage, error) {
	switch s {
	case "ir":
		return codegen.StageIR, nil
	case "asm":
		return codegen.StageAssembly, nil
	case "obj":
		return codegen.StageObject, nil
	case "binary":
		return codegen.StageBinary, nil
	default:
		return 0, fmt.Errorf("unknown --stage %q (want ir|asm|obj|binary)", s)
	}
}

func defaultOutPath(cfg *config.Config, stage codegen.Stage) string {
	switch stage {
	case codegen.StageIR:
		return cfg.OutputDir + "/out.ll"
	case codegen.StageAssembly:
		return cfg.OutputDir + "/out.s"
	case codegen.StageObject:
		return cfg.OutputDir + "/out.o"
	default:
		return cfg.OutputDir + "/a.out"
	}
}

func runOptimizer(m *ast.Module, cfg *config.Config) {
	opt := optimizer.New()
	opt.RunToFixpoint(m, cfg.Optimizer.MaxRounds)
}

func newOptStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "opt-stats <module.json>",
		Short: "Run the optimizer to a fixed point and report per-pass change counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readModule(args[0])
			if err != nil {
				return err
			}
			if !in.ok {
				printDiagnostics(in.analyzer)
				os.Exit(1)
			}
			cfg := loadConfig()
			before := optimizer.Analyze(in.module)
			opt := optimizer.New()
			rounds := opt.RunToFixpoint(in.module, cfg.Optimizer.MaxRounds)
			after := optimizer.Analyze(in.module)

			fmt.Printf("%s %d statements, %d expressions before optimization\n", cyan("→"), before.StmtsVisited, before.ExprsVisited)
			for i, round := range rounds {
				for _, r := range round {
					if r.Changes > 0 {
						fmt.Printf("  round %d: %-16s %d change(s)\n", i+1, r.Pass, r.Changes)
					}
				}
			}
			fmt.Printf("%s %d statements, %d expressions after %d round(s)\n", green("ok"), after.StmtsVisited, after.ExprsVisited, len(rounds))
			return nil
		},
	}
}

func newGCStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gc-stats",
		Short: "Print the runtime's current GC counters and adaptive-collector telemetry",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			runtime.GCSetThreshold(cfg.GC.ThresholdBytes)
			runtime.GCSetConservative(cfg.GC.Conservative)
			runtime.GCSetBackground(cfg.GC.Background)
			runtime.GCSetBarrierMode(cfg.BarrierModeInt())

			stats := runtime.GCStats()
			tel := runtime.GCTelemetry()
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(struct {
				Stats     runtime.RuntimeStats `json:"stats"`
				Telemetry runtime.GcTelemetry  `json:"telemetry"`
			}{stats, tel})
		},
	}
}

func printDiagnostics(a *sema.Analyzer) {
	items := a.Diags.Items()
	fmt.Printf("%s %d diagnostic(s)\n", red("error:"), len(items))
	for _, d := range items {
		fmt.Printf("  %s:%d:%d: %s: %s\n", d.File, d.Line, d.Col, red(d.Code), d.Message)
	}
}
