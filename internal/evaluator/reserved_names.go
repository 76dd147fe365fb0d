package evaluator

import "github.com/wisp-lang/wisp/internal/interner"

// Reserved operator-hook and built-in member names (spec.md §3 "reserved
// identifier paths ... all cases use the interner IDs, not string
// comparison"). Scope lookup itself stays string-keyed (see scope.go's
// vars field doc), matching the source runtime's sym_map_t; what the
// interner fixes here is the *identity* of each reserved name, so every
// site that dispatches on one of these derives its string from the
// pre-interned hash rather than typing the literal a second time.
var (
	nameAdd      = interner.Global().MustLookup(interner.HashAdd)
	nameSub      = interner.Global().MustLookup(interner.HashSub)
	nameMul      = interner.Global().MustLookup(interner.HashMul)
	nameDiv      = interner.Global().MustLookup(interner.HashDiv)
	nameFDiv     = interner.Global().MustLookup(interner.HashFDiv)
	nameMod      = interner.Global().MustLookup(interner.HashMod)
	namePow      = interner.Global().MustLookup(interner.HashPow)
	nameBAnd     = interner.Global().MustLookup(interner.HashBAnd)
	nameBOr      = interner.Global().MustLookup(interner.HashBOr)
	nameBXor     = interner.Global().MustLookup(interner.HashBXor)
	nameBShL     = interner.Global().MustLookup(interner.HashBShL)
	nameBShR     = interner.Global().MustLookup(interner.HashBShR)
	nameBNot     = interner.Global().MustLookup(interner.HashBNot)
	nameNot      = interner.Global().MustLookup(interner.HashNot)
	nameLess     = interner.Global().MustLookup(interner.HashLess)
	nameMore     = interner.Global().MustLookup(interner.HashMore)
	nameELess    = interner.Global().MustLookup(interner.HashELess)
	nameEMore    = interner.Global().MustLookup(interner.HashEMore)
	nameEquals   = interner.Global().MustLookup(interner.HashEquals)
	nameNEquals  = interner.Global().MustLookup(interner.HashNEquals)
	nameRangeInc = interner.Global().MustLookup(interner.HashRangeInc)
	nameRangeExc = interner.Global().MustLookup(interner.HashRangeExc)
	nameCct      = interner.Global().MustLookup(interner.HashCct)
	nameLength   = interner.Global().MustLookup(interner.HashLength)
	nameInit     = interner.Global().MustLookup(interner.HashInit)
	nameDeleter  = interner.Global().MustLookup(interner.HashDeleter)
	nameGet      = interner.Global().MustLookup(interner.HashGet)
	nameSet      = interner.Global().MustLookup(interner.HashSet)
	nameCall     = interner.Global().MustLookup(interner.HashCall)
	nameDel      = interner.Global().MustLookup(interner.HashDel)
	nameThis     = interner.Global().MustLookup(interner.HashThis)
	nameArgs     = interner.Global().MustLookup(interner.HashArgs)
)
