// Package pscript implements a small PostScript-flavoured stack language.
// A program is a whitespace-separated sequence of tokens:
//   - Integers (`42`, `-7`), reals (`3.5`, `1e3`) and booleans push
//     themselves.
//   - `(text)` pushes a mutable string; there is no escaping or nesting.
//   - `/name` pushes a name literal; a bare `name` is executed.
//   - `{ ... }` pushes a procedure without running it.
//
// Executable names are dispatched to a primitive first and otherwise looked
// up on the dictionary stack. A procedure found that way is called; any
// other value is pushed. Comments run from `%` to the end of the line.
//
// Name resolution inside procedures is either dynamic, against the live
// dictionary stack at call time, or lexical, against a snapshot taken when
// the procedure was bound with def. The mode is fixed per Interpreter.
package pscript
