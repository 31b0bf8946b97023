package compiler

import "github.com/xirelogy/go-scm/internal/bytecode"

type Chunk = bytecode.Chunk
type Module = bytecode.Module
type Op = bytecode.Op
