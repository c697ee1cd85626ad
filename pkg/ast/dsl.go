package ast

// Shorthand constructors for building trees by hand. They panic on
// construction errors, so they are meant for fixtures and tests; the parser
// uses the New* constructors directly.

func must[T Node](n T, err error) T {
	if err != nil {
		panic(err)
	}
	return n
}

// Leaf helpers.

func ID(name string) *Variable { return NewVariable(name) }

func Let(name string) *Declare { return NewDeclare(name) }

func Num(lexeme string) *Literal { return must(NewLiteral(TypeNumber, lexeme)) }

func Str(value string) *Literal { return must(NewLiteral(TypeString, value)) }

func Bool(value bool) *Literal {
	if value {
		return must(NewLiteral(TypeBool, "true"))
	}
	return must(NewLiteral(TypeBool, "false"))
}

func Null() *Literal { return must(NewLiteral(TypeNull, "null")) }

func Undefined() *Literal { return must(NewLiteral(TypeVoid, "undefined")) }

func Obj(entries ...ObjectEntry) *ObjectLiteral { return must(NewObjectLiteral(entries...)) }

func Entry(key string, value Node) ObjectEntry { return ObjectEntry{Key: key, Value: value} }

func Arr(elements ...Node) *ArrayLiteral { return NewArrayLiteral(elements...) }

// Access and assignment.

func Prop(target Node, name string) *Member { return must(NewProperty(target, name)) }

func Idx(target, index Node) *Member { return must(NewIndex(target, index)) }

func Set(lhs, rhs Node) *Assign { return must(NewAssign(lhs, rhs)) }

// Define is `let name = value`.
func Define(name string, value Node) *Assign { return Set(Let(name), value) }

// Operators.

func Un(op string, operand Node) *Math1 { return must(NewMath1(operand, op)) }

func Bin(op string, left, right Node) *Math2 { return must(NewMath2(left, right, op)) }

func Cmp(op string, left, right Node) *Comparison { return must(NewComparison(left, right, op)) }

func Not(operand Node) *Bool1 { return must(NewBool1(operand)) }

func And(left, right Node) *Bool2 { return must(NewBool2(left, right, OpAnd)) }

func Or(left, right Node) *Bool2 { return must(NewBool2(left, right, OpOr)) }

func BitNot(operand Node) *Bitwise1 { return must(NewBitwise1(operand, OpBitNot)) }

func Bits(op string, left, right Node) *Bitwise2 { return must(NewBitwise2(left, right, op)) }

func ToBool(operand Node) *Cast { return must(NewBoolCast(operand)) }

func ToNum(operand Node) *Cast { return must(NewNumberCast(operand)) }

func ToStr(operand Node) *Cast { return must(NewStringCast(operand)) }

// Statements.

func Seq(children ...Node) *Block { return NewBlock(false, children...) }

func Scope(children ...Node) *Block { return NewBlock(true, children...) }

func Comma(exprs ...Node) *Sequence { return must(NewSequence(exprs...)) }

func IfElse(cond, then, els Node) *If { return must(NewIf(cond, then, els)) }

func Loop(cond, body Node) *While { return must(NewWhile(cond, body)) }

func ForLoop(init, test, update, body Node) *For { return must(NewFor(init, test, update, body)) }

func Each(iterator, collection, body Node) *ForIn { return must(NewForIn(iterator, collection, body)) }

func Stop() *Break { return NewBreak() }

// Builtins.

func Out(args ...Node) *Print { return must(NewPrint(args...)) }

func Del(operand Node) *Delete { return must(NewDelete(operand)) }

func TypeName(operand Node) *TypeOf { return must(NewTypeOf(operand)) }

func Discard(operand Node) *Void { return must(NewVoid(operand)) }

func JoinWith(array, sep Node) *Join { return must(NewJoin(array, sep)) }

func PushOnto(array, value Node) *Push { return must(NewPush(array, value)) }

func PopFrom(array Node) *Pop { return must(NewPop(array)) }
