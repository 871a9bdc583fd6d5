// Package compiler walks an internal/ast tree and emits internal/code
// bytecode, resolving identifiers through internal/symtable and pooling
// literal values into a constants table the VM indexes by OpConstant.
package compiler

import (
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/ast"
	"github.com/binoyjayan/p2sh-go/internal/code"
	"github.com/binoyjayan/p2sh-go/internal/property"
	"github.com/binoyjayan/p2sh-go/internal/symtable"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

// emittedInstruction records an opcode and where it starts, so the compiler
// can look back and patch or peephole-rewrite the most recently emitted
// instruction (e.g. turning a trailing Pop after an expression-statement
// into a ReturnValue at the end of a function body).
type emittedInstruction struct {
	Opcode   code.Opcode
	Position int
}

// scope holds the in-progress instruction buffer for one function body (or
// the implicit top-level function), plus the last two emitted instructions.
type scope struct {
	instructions []byte
	lines        []int
	last         emittedInstruction
	previous     emittedInstruction
}

// loopContext tracks a single enclosing loop/while so that break/continue
// (possibly labeled) can be compiled as forward/backward jumps patched once
// the loop's extent is known.
type loopContext struct {
	label         string
	continueTarget int
	breakJumps    []int
}

// Bytecode is the compiler's final output for a compiled program or
// function: its instructions and the constants pool they index into.
type Bytecode struct {
	Instructions code.Instructions
	Constants    []value.Value
}

// Compiler compiles a single program, including its nested functions, into
// bytecode. Each function body gets its own instruction scope and enclosed
// symbol table via enterScope/leaveScope on the same Compiler, sharing one
// constants pool, so nested functions are compiled in one depth-first walk.
type Compiler struct {
	constants *[]value.Value
	symtable  *symtable.Table

	scopes    []*scope
	loopStack []*loopContext
}

// New creates a Compiler for a top-level program, with a fresh global
// symbol table pre-populated with builtins by the caller (see
// internal/builtins).
func New(symtab *symtable.Table) *Compiler {
	constants := make([]value.Value, 0)
	c := &Compiler{constants: &constants, symtable: symtab}
	c.scopes = []*scope{{}}
	return c
}

// NewWithConstants creates a Compiler like New, but seeds its constants pool
// with an existing one instead of starting empty. The REPL uses this to
// compile one line at a time, each against a fresh instruction buffer (so a
// later line's jump targets never collide with an earlier line's) while
// constant indices still extend the same growing pool.
func NewWithConstants(symtab *symtable.Table, constants []value.Value) *Compiler {
	pool := make([]value.Value, len(constants))
	copy(pool, constants)
	c := &Compiler{constants: &pool, symtable: symtab}
	c.scopes = []*scope{{}}
	return c
}

func (c *Compiler) currentScope() *scope { return c.scopes[len(c.scopes)-1] }

// Compile walks node and emits its instructions into the current scope.
func (c *Compiler) Compile(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Program:
		for _, s := range n.Statements {
			if err := c.Compile(s); err != nil {
				return err
			}
		}
	case *ast.ExpressionStatement:
		if n.Expr == nil {
			return nil
		}
		if err := c.Compile(n.Expr); err != nil {
			return err
		}
		c.emit(code.Pop, n.Line())
	case *ast.LetStatement:
		sym := c.symtable.Define(n.Name.Value)
		if err := c.Compile(n.Value); err != nil {
			return err
		}
		c.emitDefine(sym, n.Line())
	case *ast.ReturnStatement:
		if n.Value == nil {
			c.emit(code.Return, n.Line())
			return nil
		}
		if err := c.Compile(n.Value); err != nil {
			return err
		}
		c.emit(code.ReturnValue, n.Line())
	case *ast.BlockStatement:
		c.symtable.PushBlock()
		for _, s := range n.Statements {
			if err := c.Compile(s); err != nil {
				return err
			}
		}
		c.symtable.PopBlock()
	case *ast.BreakStatement:
		return c.compileBreak(n)
	case *ast.ContinueStatement:
		return c.compileContinue(n)

	case *ast.IntegerLiteral:
		c.emit(code.Constant, n.Line(), c.addConstant(value.Int(n.Value)))
	case *ast.FloatLiteral:
		c.emit(code.Constant, n.Line(), c.addConstant(value.Float(n.Value)))
	case *ast.StringLiteral:
		c.emit(code.Constant, n.Line(), c.addConstant(value.String(n.Value)))
	case *ast.CharLiteral:
		c.emit(code.Constant, n.Line(), c.addConstant(value.Char(n.Value)))
	case *ast.BoolLiteral:
		if n.Value {
			c.emit(code.True, n.Line())
		} else {
			c.emit(code.False, n.Line())
		}
	case *ast.NullLiteral:
		c.emit(code.Null, n.Line())

	case *ast.Identifier:
		sym, ok := c.symtable.Resolve(n.Value)
		if !ok {
			return fmt.Errorf("line %d: undefined variable %s", n.Line(), n.Value)
		}
		c.loadSymbol(sym, n.Line())

	case *ast.ArrayLiteral:
		for _, e := range n.Elements {
			if err := c.Compile(e); err != nil {
				return err
			}
		}
		c.emit(code.Array, n.Line(), len(n.Elements))

	case *ast.MapLiteral:
		for i := range n.Keys {
			if err := c.Compile(n.Keys[i]); err != nil {
				return err
			}
			if err := c.Compile(n.Values[i]); err != nil {
				return err
			}
		}
		c.emit(code.Map, n.Line(), len(n.Keys))

	case *ast.PrefixExpression:
		if err := c.Compile(n.Right); err != nil {
			return err
		}
		switch n.Operator {
		case "-":
			c.emit(code.Minus, n.Line())
		case "!":
			c.emit(code.Bang, n.Line())
		case "~":
			c.emit(code.Not, n.Line())
		default:
			return fmt.Errorf("line %d: unknown prefix operator %s", n.Line(), n.Operator)
		}

	case *ast.InfixExpression:
		return c.compileInfix(n)

	case *ast.AssignExpression:
		return c.compileAssign(n)

	case *ast.IfExpression:
		return c.compileIf(n)

	case *ast.WhileExpression:
		return c.compileWhile(n)

	case *ast.LoopExpression:
		return c.compileLoop(n)

	case *ast.FunctionLiteral:
		return c.compileFunction(n)

	case *ast.CallExpression:
		if err := c.Compile(n.Function); err != nil {
			return err
		}
		for _, a := range n.Arguments {
			if err := c.Compile(a); err != nil {
				return err
			}
		}
		c.emit(code.Call, n.Line(), len(n.Arguments))

	case *ast.IndexExpression:
		if err := c.Compile(n.Left); err != nil {
			return err
		}
		if err := c.Compile(n.Index); err != nil {
			return err
		}
		c.emit(code.GetIndex, n.Line())

	case *ast.DotExpression:
		if err := c.Compile(n.Left); err != nil {
			return err
		}
		id, ok := property.PropertyID(n.Property)
		if !ok {
			return fmt.Errorf("line %d: unknown property %q", n.Line(), n.Property)
		}
		c.emit(code.GetProp, n.Line(), id)

	default:
		return fmt.Errorf("compiler: unhandled node type %T", node)
	}
	return nil
}

func (c *Compiler) compileInfix(n *ast.InfixExpression) error {
	if n.Operator == "&&" {
		return c.compileLogicalAnd(n)
	}
	if n.Operator == "||" {
		return c.compileLogicalOr(n)
	}

	// `<` and `<=` have no dedicated opcode: they are compiled as `>`/`>=`
	// with operands swapped, so the compile order (not just the emitted
	// opcode) must be reversed here, before either operand is compiled.
	left, right := n.Left, n.Right
	if n.Operator == "<" || n.Operator == "<=" {
		left, right = right, left
	}
	if err := c.Compile(left); err != nil {
		return err
	}
	if err := c.Compile(right); err != nil {
		return err
	}

	switch n.Operator {
	case "+":
		c.emit(code.Add, n.Line())
	case "-":
		c.emit(code.Sub, n.Line())
	case "*":
		c.emit(code.Mul, n.Line())
	case "/":
		c.emit(code.Div, n.Line())
	case "%":
		c.emit(code.Mod, n.Line())
	case "&":
		c.emit(code.And, n.Line())
	case "|":
		c.emit(code.Or, n.Line())
	case "^":
		c.emit(code.Xor, n.Line())
	case "<<":
		c.emit(code.ShiftLeft, n.Line())
	case ">>":
		c.emit(code.ShiftRight, n.Line())
	case "==":
		c.emit(code.Equal, n.Line())
	case "!=":
		c.emit(code.NotEqual, n.Line())
	case ">":
		c.emit(code.Greater, n.Line())
	case ">=":
		c.emit(code.GreaterEq, n.Line())
	case "<":
		c.emit(code.Greater, n.Line())
	case "<=":
		c.emit(code.GreaterEq, n.Line())
	default:
		return fmt.Errorf("line %d: unknown infix operator %s", n.Line(), n.Operator)
	}
	return nil
}

func (c *Compiler) compileLogicalAnd(n *ast.InfixExpression) error {
	if err := c.Compile(n.Left); err != nil {
		return err
	}
	jumpFalsePos := c.emit(code.JumpIfFalseNoPop, n.Line(), 0xFFFF)
	c.emit(code.Pop, n.Line())
	if err := c.Compile(n.Right); err != nil {
		return err
	}
	c.patchJump(jumpFalsePos, c.currentPos())
	return nil
}

func (c *Compiler) compileLogicalOr(n *ast.InfixExpression) error {
	if err := c.Compile(n.Left); err != nil {
		return err
	}
	jumpFalsePos := c.emit(code.JumpIfFalseNoPop, n.Line(), 0xFFFF)
	jumpEndPos := c.emit(code.Jump, n.Line(), 0xFFFF)
	c.patchJump(jumpFalsePos, c.currentPos())
	c.emit(code.Pop, n.Line())
	if err := c.Compile(n.Right); err != nil {
		return err
	}
	c.patchJump(jumpEndPos, c.currentPos())
	return nil
}

func (c *Compiler) compileAssign(n *ast.AssignExpression) error {
	switch target := n.Target.(type) {
	case *ast.Identifier:
		if err := c.Compile(n.Value); err != nil {
			return err
		}
		sym, ok := c.symtable.Resolve(target.Value)
		if !ok {
			return fmt.Errorf("line %d: undefined variable %s", n.Line(), target.Value)
		}
		c.emitSet(sym, n.Line())
	case *ast.IndexExpression:
		// Right-hand side evaluates first: SetIndex expects stack order
		// value, container, index, value pushed first.
		if err := c.Compile(n.Value); err != nil {
			return err
		}
		if err := c.Compile(target.Left); err != nil {
			return err
		}
		if err := c.Compile(target.Index); err != nil {
			return err
		}
		c.emit(code.SetIndex, n.Line())
	case *ast.DotExpression:
		if err := c.Compile(n.Value); err != nil {
			return err
		}
		if err := c.Compile(target.Left); err != nil {
			return err
		}
		id, ok := property.PropertyID(target.Property)
		if !ok {
			return fmt.Errorf("line %d: unknown property %q", n.Line(), target.Property)
		}
		c.emit(code.SetProp, n.Line(), id)
	default:
		return fmt.Errorf("line %d: invalid assignment target", n.Line())
	}
	return nil
}

func (c *Compiler) compileIf(n *ast.IfExpression) error {
	if err := c.Compile(n.Condition); err != nil {
		return err
	}
	jumpElsePos := c.emit(code.JumpIfFalse, n.Line(), 0xFFFF)
	if err := c.Compile(n.Consequence); err != nil {
		return err
	}
	if c.lastInstructionIs(code.Pop) {
		c.removeLastPop()
	} else {
		c.emit(code.Null, n.Line())
	}

	if n.Alternative == nil {
		jumpEndPos := c.emit(code.Jump, n.Line(), 0xFFFF)
		c.patchJump(jumpElsePos, c.currentPos())
		c.emit(code.Null, n.Line())
		c.patchJump(jumpEndPos, c.currentPos())
		return nil
	}

	jumpEndPos := c.emit(code.Jump, n.Line(), 0xFFFF)
	c.patchJump(jumpElsePos, c.currentPos())
	if err := c.Compile(n.Alternative); err != nil {
		return err
	}
	if c.lastInstructionIs(code.Pop) {
		c.removeLastPop()
	} else {
		c.emit(code.Null, n.Line())
	}
	c.patchJump(jumpEndPos, c.currentPos())
	return nil
}

func (c *Compiler) compileWhile(n *ast.WhileExpression) error {
	condPos := c.currentPos()
	if err := c.Compile(n.Condition); err != nil {
		return err
	}
	exitJump := c.emit(code.JumpIfFalse, n.Line(), 0xFFFF)

	loop := &loopContext{label: n.Label, continueTarget: condPos}
	c.loopStack = append(c.loopStack, loop)
	if err := c.Compile(n.Body); err != nil {
		return err
	}
	c.loopStack = c.loopStack[:len(c.loopStack)-1]

	c.emit(code.Jump, n.Line(), condPos)
	exitPos := c.currentPos()
	c.patchJump(exitJump, exitPos)
	for _, pos := range loop.breakJumps {
		c.patchJump(pos, exitPos)
	}
	c.emit(code.Null, n.Line())
	return nil
}

func (c *Compiler) compileLoop(n *ast.LoopExpression) error {
	startPos := c.currentPos()

	loop := &loopContext{label: n.Label, continueTarget: startPos}
	c.loopStack = append(c.loopStack, loop)
	if err := c.Compile(n.Body); err != nil {
		return err
	}
	c.loopStack = c.loopStack[:len(c.loopStack)-1]

	c.emit(code.Jump, n.Line(), startPos)
	exitPos := c.currentPos()
	for _, pos := range loop.breakJumps {
		c.patchJump(pos, exitPos)
	}
	c.emit(code.Null, n.Line())
	return nil
}

func (c *Compiler) findLoop(label string) (*loopContext, error) {
	if label == "" {
		if len(c.loopStack) == 0 {
			return nil, fmt.Errorf("break/continue outside of a loop")
		}
		return c.loopStack[len(c.loopStack)-1], nil
	}
	for i := len(c.loopStack) - 1; i >= 0; i-- {
		if c.loopStack[i].label == label {
			return c.loopStack[i], nil
		}
	}
	return nil, fmt.Errorf("no enclosing loop labeled %q", label)
}

func (c *Compiler) compileBreak(n *ast.BreakStatement) error {
	loop, err := c.findLoop(n.Label)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line(), err)
	}
	pos := c.emit(code.Jump, n.Line(), 0xFFFF)
	loop.breakJumps = append(loop.breakJumps, pos)
	return nil
}

func (c *Compiler) compileContinue(n *ast.ContinueStatement) error {
	loop, err := c.findLoop(n.Label)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line(), err)
	}
	c.emit(code.Jump, n.Line(), loop.continueTarget)
	return nil
}

func (c *Compiler) compileFunction(n *ast.FunctionLiteral) error {
	c.enterScope()

	if n.Name != "" {
		c.symtable.DefineFunctionName(n.Name)
	}
	for _, p := range n.Parameters {
		c.symtable.Define(p.Value)
	}

	if err := c.Compile(n.Body); err != nil {
		return err
	}
	c.replaceLastPopWithReturn()
	if !c.lastInstructionIs(code.ReturnValue) && !c.lastInstructionIs(code.Return) {
		c.emit(code.Return, n.Line())
	}

	freeSymbols := c.symtable.FreeSymbols
	numLocals := c.symtable.NumDefinitions()
	instructions := c.leaveScope()

	for _, sym := range freeSymbols {
		c.loadSymbol(sym, n.Line())
	}

	compiledFn := &value.CompiledFunction{
		Instructions:  instructions,
		NumLocals:     numLocals,
		NumParameters: len(n.Parameters),
		NumFree:       len(freeSymbols),
		Name:          n.Name,
	}
	constIdx := c.addConstant(compiledFn)
	c.emit(code.Closure, n.Line(), constIdx, len(freeSymbols))
	return nil
}

func (c *Compiler) enterScope() {
	c.scopes = append(c.scopes, &scope{})
	c.symtable = symtable.NewEnclosed(c.symtable)
}

func (c *Compiler) leaveScope() code.Instructions {
	s := c.currentScope()
	ins := code.NewInstructions(s.instructions, s.lines)
	c.scopes = c.scopes[:len(c.scopes)-1]
	c.symtable = c.symtable.Outer()
	return ins
}

func (c *Compiler) replaceLastPopWithReturn() {
	s := c.currentScope()
	if s.last.Opcode != code.Pop {
		return
	}
	newIns := code.Make(code.ReturnValue)
	c.replaceInstruction(s.last.Position, newIns)
	s.last.Opcode = code.ReturnValue
}

// removeLastPop truncates the trailing Pop instruction, used by compileIf
// to let an if/else branch's final expression value fall through onto the
// stack as the whole if-expression's result instead of being discarded.
func (c *Compiler) removeLastPop() {
	s := c.currentScope()
	s.instructions = s.instructions[:s.last.Position]
	s.lines = s.lines[:s.last.Position]
	s.last = s.previous
}

func (c *Compiler) replaceInstruction(pos int, newIns []byte) {
	s := c.currentScope()
	copy(s.instructions[pos:], newIns)
}

func (c *Compiler) lastInstructionIs(op code.Opcode) bool {
	s := c.currentScope()
	if len(s.instructions) == 0 {
		return false
	}
	return s.last.Opcode == op
}

func (c *Compiler) emitDefine(sym *symtable.Symbol, line int) {
	switch sym.Scope {
	case symtable.GlobalScope:
		c.emit(code.DefineGlobal, line, sym.Index)
	default:
		c.emit(code.DefineLocal, line, sym.Index)
	}
}

func (c *Compiler) emitSet(sym *symtable.Symbol, line int) {
	switch sym.Scope {
	case symtable.GlobalScope:
		c.emit(code.SetGlobal, line, sym.Index)
	case symtable.FreeScope:
		c.emit(code.SetFree, line, sym.Index)
	default:
		c.emit(code.SetLocal, line, sym.Index)
	}
}

func (c *Compiler) loadSymbol(sym *symtable.Symbol, line int) {
	switch sym.Scope {
	case symtable.GlobalScope:
		c.emit(code.GetGlobal, line, sym.Index)
	case symtable.LocalScope:
		c.emit(code.GetLocal, line, sym.Index)
	case symtable.FreeScope:
		c.emit(code.GetFree, line, sym.Index)
	case symtable.BuiltinFunctionScope:
		c.emit(code.GetBuiltinFn, line, sym.Index)
	case symtable.BuiltinVariableScope:
		c.emit(code.GetBuiltinVar, line, sym.Index)
	case symtable.FunctionScope:
		c.emit(code.CurrClosure, line)
	}
}

func (c *Compiler) addConstant(v value.Value) int {
	*c.constants = append(*c.constants, v)
	return len(*c.constants) - 1
}

func (c *Compiler) currentPos() int { return len(c.currentScope().instructions) }

func (c *Compiler) emit(op code.Opcode, line int, operands ...int) int {
	ins := code.Make(op, operands...)
	s := c.currentScope()
	pos := len(s.instructions)
	s.instructions = append(s.instructions, ins...)
	for range ins {
		s.lines = append(s.lines, line)
	}
	s.previous = s.last
	s.last = emittedInstruction{Opcode: op, Position: pos}
	return pos
}

// patchJump overwrites the 2-byte operand of the jump instruction at pos
// with target, used once the jump's destination becomes known.
func (c *Compiler) patchJump(pos, target int) {
	s := c.currentScope()
	newIns := code.Make(code.Opcode(s.instructions[pos]), target)
	c.replaceInstruction(pos, newIns)
}

// Bytecode returns the compiled top-level program.
func (c *Compiler) Bytecode() *Bytecode {
	s := c.currentScope()
	return &Bytecode{
		Instructions: code.NewInstructions(s.instructions, s.lines),
		Constants:    *c.constants,
	}
}
