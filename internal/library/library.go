// Package library models the external "library database" input named in
// spec.md §6: type sizes, function contracts (noreturn, allocator/
// deallocator pairing, argument nullability) and container shapes that
// the normalization pipeline and checkers consult but do not compute
// themselves. A closed, built-once registry of per-module function
// contracts, generalized from standard-library module descriptions to
// C/C++ library headers.
package library

// TypeSize records the size in bytes and signedness of a library-defined
// type (e.g. size_t); alignment is not stored and the sizes do not vary
// with the active Platform. It is consumed by the
// platform-type-mapping pass (spec.md §4.3 step 27).
type TypeSize struct {
	Name      string
	SizeBytes int
	Signed    bool
}

// FunctionContract describes what a checker (or the core's
// checkLibraryNoReturn information diagnostic) may assume about a
// library function without seeing its source.
type FunctionContract struct {
	Name         string
	NoReturn     bool
	Allocator    bool // e.g. malloc
	Deallocator  string // paired dealloc function name, e.g. "free"
	NonNullArgs  []int  // 1-based argument indices that must not be null
	UseRetval    bool   // nodiscard-equivalent
	ContainerKey ContainerShape
}

// ContainerShape describes a standard container's iterator/size/key
// shape, used by value-flow-adjacent checks (spec.md §2 item 6) without
// requiring the core to parse <vector>/<map> headers itself.
type ContainerShape struct {
	IsContainer bool
	HasSize     bool
	YieldsItemType string
}

// Database is the in-memory form of the library configuration the core
// receives as an external input (spec.md §6, "(4) a library database").
type Database struct {
	Functions map[string]FunctionContract
	Types     map[string]TypeSize
}

// NewDatabase returns an empty database; callers populate it by loading
// one or more library definition files upstream of the core.
func NewDatabase() *Database {
	return &Database{
		Functions: make(map[string]FunctionContract),
		Types:     make(map[string]TypeSize),
	}
}

// Std returns a minimal built-in database covering the handful of
// functions the normalization pipeline itself reasons about (debug-
// intrinsic folding, checkLibraryNoReturn), independent of any project-
// supplied library file.
func Std() *Database {
	db := NewDatabase()
	for _, f := range []FunctionContract{
		{Name: "exit", NoReturn: true},
		{Name: "abort", NoReturn: true},
		{Name: "longjmp", NoReturn: true},
		{Name: "malloc", Allocator: true, Deallocator: "free"},
		{Name: "calloc", Allocator: true, Deallocator: "free"},
		{Name: "realloc", Allocator: true, Deallocator: "free"},
		{Name: "free", NonNullArgs: nil},
		{Name: "strcmp", NonNullArgs: []int{1, 2}},
		{Name: "strcpy", NonNullArgs: []int{1, 2}},
		{Name: "memcpy", NonNullArgs: []int{1, 2}},
	} {
		db.Functions[f.Name] = f
	}
	for _, t := range []TypeSize{
		{Name: "size_t", SizeBytes: 8, Signed: false},
		{Name: "ssize_t", SizeBytes: 8, Signed: true},
		{Name: "ptrdiff_t", SizeBytes: 8, Signed: true},
		{Name: "int8_t", SizeBytes: 1, Signed: true},
		{Name: "uint8_t", SizeBytes: 1, Signed: false},
		{Name: "int16_t", SizeBytes: 2, Signed: true},
		{Name: "uint16_t", SizeBytes: 2, Signed: false},
		{Name: "int32_t", SizeBytes: 4, Signed: true},
		{Name: "uint32_t", SizeBytes: 4, Signed: false},
		{Name: "int64_t", SizeBytes: 8, Signed: true},
		{Name: "uint64_t", SizeBytes: 8, Signed: false},
	} {
		db.Types[t.Name] = t
	}
	return db
}

// IsNoReturn reports whether name is a known noreturn function, the
// predicate the checkLibraryNoReturn information diagnostic consults
// (spec.md §7).
func (db *Database) IsNoReturn(name string) bool {
	f, ok := db.Functions[name]
	return ok && f.NoReturn
}

// PlatformType resolves a library-defined type name to its size
// metadata, or false if the database has no entry for it.
func (db *Database) PlatformType(name string) (TypeSize, bool) {
	t, ok := db.Types[name]
	return t, ok
}
