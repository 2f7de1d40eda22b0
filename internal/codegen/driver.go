package codegen

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/sunholo/pycc/internal/diag"
)

// Stage names the terminal artifact a Driver run should produce (spec
// section 4.3.6 "Driver").
type Stage int

const (
	StageIR Stage = iota
	StageAssembly
	StageObject
	StageBinary
)

// Driver invokes an external LLVM toolchain against already-generated IR
// text to produce assembly, an object file, or a linked binary. It never
// touches the ast.Module itself; GenerateIR has already done that.
type Driver struct {
	// ClangPath is the clang binary to invoke. Defaults to "clang" on PATH.
	ClangPath string
	// OptPath is the opt binary used when PassPluginPath is set.
	OptPath string
	// PassPluginPath, when non-empty, runs an LLVM pass plugin over the IR
	// before compiling (e.g. a GC-barrier elision pass), mirroring the
	// original's PYCC_OPT_ELIDE_GCBARRIER / PYCC_LLVM_PASS_PLUGIN_PATH
	// environment toggles.
	PassPluginPath string
}

// NewDriver returns a Driver with clang/opt resolved from PATH.
func NewDriver() *Driver {
	return &Driver{ClangPath: "clang", OptPath: "opt"}
}

// Run writes ir to a temporary .ll file and drives the toolchain through
// however many stages are needed to reach target, writing the produced
// artifact to outPath. Each failing external command is reported as the
// matching TLC diagnostic rather than a bare error (spec section 7).
func (d *Driver) Run(ir string, outPath string, target Stage) (diag.Bag, error) {
	var diags diag.Bag

	llPath := outPath + ".ll"
	if err := os.WriteFile(llPath, []byte(ir), 0o644); err != nil {
		return diags, fmt.Errorf("codegen: writing IR file: %w", err)
	}
	if target == StageIR {
		if llPath != outPath {
			if err := os.Rename(llPath, outPath); err != nil {
				return diags, fmt.Errorf("codegen: finalizing IR output: %w", err)
			}
		}
		return diags, nil
	}

	current := llPath
	if d.PassPluginPath != "" {
		optOut := outPath + ".opt.ll"
		if err := d.runCommand(&diags, diag.TLC001, d.OptPath,
			[]string{"-load-pass-plugin=" + d.PassPluginPath, "-passes=gc-barrier-elide", "-S", "-o", optOut, current}); err != nil {
			return diags, err
		}
		current = optOut
	}

	switch target {
	case StageAssembly:
		if err := d.runCommand(&diags, diag.TLC002, d.ClangPath, []string{"-S", "-o", outPath, current}); err != nil {
			return diags, err
		}
	case StageObject:
		if err := d.runCommand(&diags, diag.TLC002, d.ClangPath, []string{"-c", "-o", outPath, current}); err != nil {
			return diags, err
		}
	case StageBinary:
		objPath := outPath + ".o"
		if err := d.runCommand(&diags, diag.TLC002, d.ClangPath, []string{"-c", "-o", objPath, current}); err != nil {
			return diags, err
		}
		if err := d.runCommand(&diags, diag.TLC003, d.ClangPath, []string{"-o", outPath, objPath}); err != nil {
			return diags, err
		}
	}
	return diags, nil
}

// runCommand executes name with args, appending a diagnostic under code
// when it exits non-zero. Stderr is captured so the diagnostic message
// carries the toolchain's own explanation.
func (d *Driver) runCommand(diags *diag.Bag, code, name string, args []string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("%s %v: %v: %s", filepath.Base(name), args, err, stderr.String())
		d := diag.New(code, "", 0, 0, msg)
		diags.Add(d)
		return fmt.Errorf("%s", d.String())
	}
	return nil
}

// PrintDiagnostics renders a Bag to stderr in the CLI's colorized style:
// red for the code, plain for the location and message.
func PrintDiagnostics(items []diag.Diagnostic) {
	red := color.New(color.FgRed, color.Bold)
	for _, it := range items {
		red.Fprint(os.Stderr, it.Code)
		fmt.Fprintf(os.Stderr, " %s:%d:%d: %s\n", it.File, it.Line, it.Col, it.Message)
	}
}
