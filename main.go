package main

import (
	"fmt"
	"os"
	"sync"

	"rvslc/src/backend"
	"rvslc/src/backend/llvmgen"
	"rvslc/src/frontend"
	"rvslc/src/lower"
	"rvslc/src/util"
)

// run reads source code and drives it through every compiler stage in
// turn. Behaviour is governed entirely by opt.
func run(opt util.Options) error {
	src, err := util.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}

	tu, err := frontend.Parse(src)
	if err != nil {
		return fmt.Errorf("parse error: %s", err)
	}

	go util.ListenLabel()
	defer util.CloseLabel()

	prog, err := lower.Lower(tu)
	if err != nil {
		return fmt.Errorf("semantic error: %s", err)
	}

	if opt.Verbose {
		fmt.Printf("lowered %d global(s) and %d function(s)\n",
			len(prog.Globals()), len(prog.Functions()))
	}

	switch opt.Mode {
	case "koopa":
		w := util.NewWriter()
		w.WriteString(prog.String())
		w.Flush()
		w.Close()
		return nil
	case "perf":
		return fmt.Errorf("performance-tuned codegen is not supported by this compiler")
	case "riscv":
		if opt.LLVM {
			return llvmgen.GenLLVM(opt, prog)
		}
		if err := backend.GenerateAssembler(opt, prog); err != nil {
			return fmt.Errorf("code generation error: %s", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown mode: %s", opt.Mode)
	}
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Printf("command line argument error: %s\n", err)
		os.Exit(1)
	}

	wg := sync.WaitGroup{}
	if len(opt.Out) > 0 {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer func(f *os.File) {
			if err := f.Close(); err != nil {
				fmt.Println(err)
			}
		}(f)
		util.ListenWrite(opt, f, &wg)
	} else {
		util.ListenWrite(opt, nil, &wg)
	}
	defer util.Close()

	if err := run(opt); err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}

	wg.Wait()
}
