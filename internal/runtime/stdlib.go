package runtime

import (
	"encoding/binary"
	"encoding/json"
	goruntime "runtime"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Stdlib shims: thin, opaque-object-returning implementations of the
// handful of Python standard-library surfaces sema fast-paths (spec
// section 4.1.1 Call rule 2, 4.3's "stdlib shims" C-ABI family). Each
// shim owns its own argument/return marshaling, matching the "the shim is
// an external collaborator" stance codegen's call lowering documents.

// StdlibSubprocessRun shells out to cmd and returns an Object encoding a
// CompletedProcess-like result: [0]=returncode (boxed int), [1]=stdout
// (String), [2]=stderr (String).
func StdlibSubprocessRun(cmd *StringObj) *Object {
	out, errOut, code := runShell(cmd.Data)
	o := ObjectNew(3)
	ObjectSet(o, 0, BoxInt(int64(code)))
	ObjectSet(o, 1, newStringObj(out))
	ObjectSet(o, 2, newStringObj(errOut))
	return o
}

func StdlibSubprocessCall(cmd *StringObj) int32 {
	_, _, code := runShell(cmd.Data)
	return int32(code)
}

// StdlibSubprocessCheckCall runs cmd and raises CalledProcessError on a
// non-zero exit, matching subprocess.check_call's contract.
func StdlibSubprocessCheckCall(cmd *StringObj) int32 {
	_, errOut, code := runShell(cmd.Data)
	if code != 0 {
		RTRaise("CalledProcessError", errOut)
	}
	return int32(code)
}

func runShell(cmd string) (stdout, stderr string, code int32) {
	c := exec.Command("sh", "-c", cmd)
	var outBuf, errBuf strings.Builder
	c.Stdout = &outBuf
	c.Stderr = &errBuf
	err := c.Run()
	stdout, stderr = outBuf.String(), errBuf.String()
	if err == nil {
		return stdout, stderr, 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return stdout, stderr, int32(ee.ExitCode())
	}
	return stdout, stderr, -1
}

func StdlibSysPlatform() *StringObj { return newStringObj(goPlatformName()) }

func goPlatformName() string {
	switch goruntime.GOOS {
	case "darwin":
		return "darwin"
	case "windows":
		return "win32"
	default:
		return "linux"
	}
}

func StdlibSysVersion() *StringObj { return newStringObj("pycc 1.0") }
func StdlibSysMaxsize() int64      { return math.MaxInt64 }

var lastExitCode int32

// StdlibSysExit records the requested exit code rather than terminating
// the host process, matching the original's "test-safe: records last
// code" comment; LastExitCode returns the recorded code.
func StdlibSysExit(code int32) { lastExitCode = code }
func LastExitCode() int32      { return lastExitCode }

func StdlibJSONDumpDict(d *Dict) *StringObj {
	data, err := json.Marshal(toJSONValue(d))
	if err != nil {
		return nil
	}
	return newStringObj(string(data))
}

func StdlibJSONDumpList(l *List) *StringObj {
	data, err := json.Marshal(toJSONValue(l))
	if err != nil {
		return nil
	}
	return newStringObj(string(data))
}

// toJSONValue converts a pycc heap object into a plain Go value
// encoding/json can marshal.
func toJSONValue(v any) any {
	switch o := v.(type) {
	case *Dict:
		m := make(map[string]any, len(o.entries))
		for _, e := range o.entries {
			key := toJSONValue(e.key)
			ks, _ := key.(string)
			m[ks] = toJSONValue(e.val)
		}
		return m
	case *List:
		out := make([]any, len(o.elems))
		for i, e := range o.elems {
			out[i] = toJSONValue(e)
		}
		return out
	case *StringObj:
		return o.Data
	case *BoxedInt:
		return o.Value
	case *BoxedFloat:
		return o.Value
	case *BoxedBool:
		return o.Value
	default:
		return nil
	}
}

// struct.{calcsize,pack,unpack} support a small subset of format codes,
// all native ("=") byte order and unpadded: b/B (1 byte), h/H (2), i/I/l/L
// (4), q/Q (8), f (4), d (8).
func structFieldSize(c byte) int {
	switch c {
	case 'b', 'B':
		return 1
	case 'h', 'H':
		return 2
	case 'i', 'I', 'l', 'L', 'f':
		return 4
	case 'q', 'Q', 'd':
		return 8
	default:
		return 0
	}
}

func StdlibStructCalcsize(format *StringObj) int64 {
	var total int
	for i := 0; i < len(format.Data); i++ {
		c := format.Data[i]
		if c == '=' || c == '<' || c == '>' || c == '!' || c == '@' {
			continue
		}
		total += structFieldSize(c)
	}
	return int64(total)
}

func StdlibStructPack(format *StringObj, values *List) *BytesObj {
	var out []byte
	vi := 0
	for i := 0; i < len(format.Data); i++ {
		c := format.Data[i]
		if c == '=' || c == '<' || c == '>' || c == '!' || c == '@' {
			continue
		}
		size := structFieldSize(c)
		if size == 0 || vi >= len(values.elems) {
			continue
		}
		out = append(out, packOne(c, size, values.elems[vi])...)
		vi++
	}
	return newBytesObj(out)
}

func packOne(c byte, size int, v any) []byte {
	buf := make([]byte, size)
	switch c {
	case 'f':
		bits := math.Float32bits(float32(numericValue(v)))
		binary.LittleEndian.PutUint32(buf, bits)
	case 'd':
		bits := math.Float64bits(numericValue(v))
		binary.LittleEndian.PutUint64(buf, bits)
	default:
		u := uint64(int64(numericValue(v)))
		switch size {
		case 1:
			buf[0] = byte(u)
		case 2:
			binary.LittleEndian.PutUint16(buf, uint16(u))
		case 4:
			binary.LittleEndian.PutUint32(buf, uint32(u))
		case 8:
			binary.LittleEndian.PutUint64(buf, u)
		}
	}
	return buf
}

func numericValue(v any) float64 {
	switch b := v.(type) {
	case *BoxedInt:
		return float64(b.Value)
	case *BoxedFloat:
		return b.Value
	default:
		return 0
	}
}

func StdlibStructUnpack(format *StringObj, data *BytesObj) *List {
	out := ListNew()
	off := 0
	for i := 0; i < len(format.Data); i++ {
		c := format.Data[i]
		if c == '=' || c == '<' || c == '>' || c == '!' || c == '@' {
			continue
		}
		size := structFieldSize(c)
		if size == 0 || off+size > len(data.Data) {
			continue
		}
		chunk := data.Data[off : off+size]
		off += size
		var boxed any
		switch c {
		case 'f':
			boxed = BoxFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(chunk))))
		case 'd':
			boxed = BoxFloat(math.Float64frombits(binary.LittleEndian.Uint64(chunk)))
		default:
			var u uint64
			switch size {
			case 1:
				u = uint64(chunk[0])
			case 2:
				u = uint64(binary.LittleEndian.Uint16(chunk))
			case 4:
				u = uint64(binary.LittleEndian.Uint32(chunk))
			case 8:
				u = binary.LittleEndian.Uint64(chunk)
			}
			boxed = BoxInt(int64(u))
		}
		slot := ListPushSlot(out)
		*slot = boxed
	}
	return out
}

// ArgParser is the opaque handle argparse.ArgumentParser() constructs;
// argparse_add_argument accumulates option specs, and
// StdlibArgparseParseArgs walks a tokenized argument list against them.
type ArgParser struct {
	hdr  *ObjectHeader
	opts []argSpec
}

type argSpec struct {
	names  []string
	action string // "store_true", "store", "store_int"
}

func ArgparseArgumentParser() *ArgParser {
	p := &ArgParser{}
	p.hdr = std.alloc(TagObject, 0, p)
	return p
}

func ArgparseAddArgument(p *ArgParser, name, action string) {
	p.opts = append(p.opts, argSpec{names: strings.Split(name, "|"), action: action})
}

func (s argSpec) canonical() string {
	longest := s.names[0]
	for _, n := range s.names {
		if len(n) > len(longest) {
			longest = n
		}
	}
	return strings.TrimLeft(longest, "-")
}

func (s argSpec) matches(arg string) bool {
	for _, n := range s.names {
		if n == arg {
			return true
		}
	}
	return false
}

// StdlibArgparseParseArgs tokenizes args against p's registered options,
// returning a Dict of canonical-name -> parsed value (bool/int/str boxed
// values), matching argparse_parse_args's documented contract.
func StdlibArgparseParseArgs(p *ArgParser, args *List) *Dict {
	result := DictNew()
	i := 0
	for i < len(args.elems) {
		tok, _ := args.elems[i].(*StringObj)
		i++
		if tok == nil {
			continue
		}
		var matched *argSpec
		for j := range p.opts {
			if p.opts[j].matches(tok.Data) {
				matched = &p.opts[j]
				break
			}
		}
		if matched == nil {
			continue
		}
		key := newStringObj(matched.canonical())
		switch matched.action {
		case "store_true":
			DictSet(&result, key, BoxBool(true))
		case "store_int":
			if i < len(args.elems) {
				v, _ := args.elems[i].(*StringObj)
				i++
				n, _ := strconv.ParseInt(v.Data, 10, 64)
				DictSet(&result, key, BoxInt(n))
			}
		default: // "store"
			if i < len(args.elems) {
				v, _ := args.elems[i].(*StringObj)
				i++
				DictSet(&result, key, v)
			}
		}
	}
	return result
}
