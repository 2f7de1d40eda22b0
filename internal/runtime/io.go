package runtime

import (
	"os"
	"time"
)

func IOWriteStdout(data []byte) { os.Stdout.Write(data) }
func IOWriteStderr(data []byte) { os.Stderr.Write(data) }

// IOReadFile returns the file's contents as a StringObj. If the file
// could not be read it raises OSError through RTRaise and returns nil, so
// generated code checks rt_has_exception after the call.
func IOReadFile(path string) *StringObj {
	data, err := os.ReadFile(path)
	if err != nil {
		RTRaise("OSError", err.Error())
		return nil
	}
	return newStringObj(string(data))
}

func IOWriteFile(path string, s *StringObj) bool {
	if err := os.WriteFile(path, []byte(s.Data), 0o644); err != nil {
		RTRaise("OSError", err.Error())
		return false
	}
	return true
}

func OSGetenv(name string) *StringObj {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	return newStringObj(v)
}

func OSTimeMs() float64 { return float64(time.Now().UnixNano()) / 1e6 }

func OSGetcwd() *StringObj {
	wd, err := os.Getwd()
	if err != nil {
		RTRaise("OSError", err.Error())
		return newStringObj("")
	}
	return newStringObj(wd)
}

func OSMkdir(path string) bool {
	if err := os.Mkdir(path, 0o755); err != nil {
		RTRaise("OSError", err.Error())
		return false
	}
	return true
}

func OSRemove(path string) bool {
	if err := os.Remove(path); err != nil {
		RTRaise("OSError", err.Error())
		return false
	}
	return true
}

func OSRename(src, dst string) bool {
	if err := os.Rename(src, dst); err != nil {
		RTRaise("OSError", err.Error())
		return false
	}
	return true
}
