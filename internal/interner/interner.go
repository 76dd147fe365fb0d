// Package interner implements the process-wide identifier interner
// (spec §3 "hash_ull"): a bidirectional map between identifier strings and
// dense u64 IDs, assigned in first-sight order.
//
// Hash 0 is reserved for the anonymous-lambda name, matching the source
// runtime's reservation of hash zero.
package interner

import "sync"

const AnonymousHash uint64 = 0

// Interner assigns a monotonically increasing id to every distinct string
// it sees and exposes both directions in O(1) amortized.
type Interner struct {
	mu     sync.RWMutex
	toHash map[string]uint64
	toName []string // index i holds the name for hash i
}

// New constructs an Interner with hash 0 pre-reserved for the anonymous
// lambda name and the well-known reserved identifiers pre-interned so the
// evaluator can refer to them by constant.
func New() *Interner {
	it := &Interner{
		toHash: make(map[string]uint64),
		toName: make([]string, 0, len(reserved)+1),
	}
	it.intern("") // hash 0: anonymous lambda
	for _, name := range reserved {
		it.intern(name)
	}
	return it
}

// reserved lists identifiers the evaluator refers to by pre-known hash:
// operator hook method names and other built-in member names.
var reserved = []string{
	"add", "sub", "mul", "div", "fdiv", "mod", "pow",
	"b_and", "b_or", "b_xor", "b_sh_l", "b_sh_r", "b_not", "not",
	"less", "more", "eless", "emore", "equals", "nequals",
	"get", "set", "call", "range_inc", "range_exc",
	"length", "hash", "cct", "del",
	"this", "init", "deleter", "_args",
}

// Hash IDs for the reserved names, matching the iota-like order above plus
// the anonymous-lambda reservation at index 0.
const (
	HashAdd uint64 = iota + 1
	HashSub
	HashMul
	HashDiv
	HashFDiv
	HashMod
	HashPow
	HashBAnd
	HashBOr
	HashBXor
	HashBShL
	HashBShR
	HashBNot
	HashNot
	HashLess
	HashMore
	HashELess
	HashEMore
	HashEquals
	HashNEquals
	HashGet
	HashSet
	HashCall
	HashRangeInc
	HashRangeExc
	HashLength
	HashHash
	HashCct
	HashDel
	HashThis
	HashInit
	HashDeleter
	HashArgs
)

func (it *Interner) intern(name string) uint64 {
	if h, ok := it.toHash[name]; ok {
		return h
	}
	h := uint64(len(it.toName))
	it.toHash[name] = h
	it.toName = append(it.toName, name)
	return h
}

// Intern returns the id for name, assigning a fresh one if this is the
// first time the interner has seen it.
func (it *Interner) Intern(name string) uint64 {
	it.mu.RLock()
	if h, ok := it.toHash[name]; ok {
		it.mu.RUnlock()
		return h
	}
	it.mu.RUnlock()

	it.mu.Lock()
	defer it.mu.Unlock()
	return it.intern(name)
}

// Lookup returns the name previously interned under hash, if any.
func (it *Interner) Lookup(hash uint64) (string, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	if hash >= uint64(len(it.toName)) {
		return "", false
	}
	return it.toName[hash], true
}

// MustLookup is Lookup without the ok flag, returning "<unknown>" when
// the hash was never interned (should not happen in a well-formed run).
func (it *Interner) MustLookup(hash uint64) string {
	if name, ok := it.Lookup(hash); ok {
		return name
	}
	return "<unknown>"
}

// global is the default process-wide interner instance. The lexer, parser
// and evaluator constructors take no interner argument; a single shared
// instance is kept here so independently-constructed pieces
// (tests, REPL iterations, `parse()` calls) agree on hash values within one
// process, matching the source runtime's single global table.
var global = New()

// Global returns the process-wide interner.
func Global() *Interner { return global }
