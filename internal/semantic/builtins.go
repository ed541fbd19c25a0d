package semantic

// builtinNames is the module-level namespace CPython 3.12 exposes through
// the builtins module. Name resolution that walks past the module scope
// lands here before reporting a name as undefined.
var builtinNames = map[string]struct{}{}

func init() {
	for _, name := range []string{
		// constants
		"True", "False", "None", "NotImplemented", "Ellipsis",
		"__debug__", "__name__", "__doc__", "__file__", "__spec__",
		"__loader__", "__package__", "__builtins__", "__import__",

		// types and constructors
		"bool", "bytearray", "bytes", "complex", "dict", "float",
		"frozenset", "int", "list", "memoryview", "object", "range",
		"set", "slice", "str", "tuple", "type",

		// functions
		"abs", "aiter", "anext", "all", "any", "ascii", "bin",
		"breakpoint", "callable", "chr", "classmethod", "compile",
		"delattr", "dir", "divmod", "enumerate", "eval", "exec",
		"filter", "format", "getattr", "globals", "hasattr", "hash",
		"help", "hex", "id", "input", "isinstance", "issubclass",
		"iter", "len", "locals", "map", "max", "min", "next", "oct",
		"open", "ord", "pow", "print", "property", "repr", "reversed",
		"round", "setattr", "sorted", "staticmethod", "sum", "super",
		"vars", "zip",

		// exceptions
		"ArithmeticError", "AssertionError", "AttributeError",
		"BaseException", "BaseExceptionGroup", "BlockingIOError",
		"BrokenPipeError", "BufferError", "BytesWarning",
		"ChildProcessError", "ConnectionAbortedError",
		"ConnectionError", "ConnectionRefusedError",
		"ConnectionResetError", "DeprecationWarning", "EOFError",
		"EncodingWarning", "EnvironmentError", "Exception",
		"ExceptionGroup", "FileExistsError", "FileNotFoundError",
		"FloatingPointError", "FutureWarning", "GeneratorExit",
		"IOError", "ImportError", "ImportWarning", "IndentationError",
		"IndexError", "InterruptedError", "IsADirectoryError",
		"KeyError", "KeyboardInterrupt", "LookupError", "MemoryError",
		"ModuleNotFoundError", "NameError", "NotADirectoryError",
		"NotImplementedError", "OSError", "OverflowError",
		"PendingDeprecationWarning", "PermissionError",
		"ProcessLookupError", "RecursionError", "ReferenceError",
		"ResourceWarning", "RuntimeError", "RuntimeWarning",
		"StopAsyncIteration", "StopIteration", "SyntaxError",
		"SyntaxWarning", "SystemError", "SystemExit", "TabError",
		"TimeoutError", "TypeError", "UnboundLocalError",
		"UnicodeDecodeError", "UnicodeEncodeError", "UnicodeError",
		"UnicodeTranslateError", "UnicodeWarning", "UserWarning",
		"ValueError", "Warning", "ZeroDivisionError",
	} {
		builtinNames[name] = struct{}{}
	}
}

// IsBuiltin reports whether a name resolves in the builtins namespace.
func IsBuiltin(name string) bool {
	_, ok := builtinNames[name]
	return ok
}
