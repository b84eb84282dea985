package main

import (
	"os"
	"path/filepath"

	"github.com/kiz-lang/kiz/compiler"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/parser"
)

// fileLoader implements vm.Loader by reading, parsing, and compiling a
// .kiz file from disk, setting Code.SourceDir so nested `import`
// statements resolve sibling paths relative to the importing file
// rather than the process's working directory.
type fileLoader struct{}

func (fileLoader) Load(absPath string) (*object.Code, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	prog, err := parser.ParseString(string(data))
	if err != nil {
		return nil, err
	}
	code, err := compiler.CompileModule(prog)
	if err != nil {
		return nil, err
	}
	code.SourceDir = filepath.Dir(absPath)
	code.Name = absPath
	return code, nil
}
