package checker

import "github.com/sharpts/sharpts/internal/types"

// registerBuiltinGlobals seeds env with the handful of builtin classes the
// runtime's internal/builtins package registers at the value level (Map,
// Set, Date, RegExp) so `new Map()`, a `Map<string, number>` type
// annotation, and `.get`/`.has`/`.test`/... member access all resolve
// through the same Class/Instance machinery a user-declared class uses,
// instead of falling back to `any` the way an unregistered global name
// would. Promise is deliberately not here: its checked shape is the
// dedicated types.Promise wrapper (see checkPromiseConstructor), not a
// nominal Class.
func registerBuiltinGlobals(env *types.Env) {
	env.Classes["Map"] = newMapClass()
	env.Classes["Set"] = newSetClass()
	env.Classes["Date"] = newDateClass()
	env.Classes["RegExp"] = newRegExpClass()
}

func fn(params []types.Param, ret types.Type) types.Type {
	return &types.FuncType{Params: params, Return: ret, MinArity: len(params)}
}

func param(name string, t types.Type) types.Param {
	return types.Param{Name: name, Type: t}
}

func method(name string, t types.Type) types.Member {
	return types.Member{Name: name, Type: t}
}

func newMapClass() *types.Class {
	k := &types.TypeParameter{Name: "K"}
	v := &types.TypeParameter{Name: "V"}
	cls := &types.Class{Name: "Map", TypeParams: []*types.TypeParameter{k, v}}
	self := &types.Instance{Class: cls}
	pair := &types.Tuple{
		Elements:      []types.TupleElement{{Type: k}, {Type: v}},
		RequiredCount: 2,
	}
	cls.Fields = []types.Member{
		{Name: "size", Type: types.TNumber, Readonly: true},
	}
	cls.Methods = []types.Member{
		method("get", fn([]types.Param{param("key", k)}, types.NewUnion(v, types.TUndefined))),
		method("set", fn([]types.Param{param("key", k), param("value", v)}, self)),
		method("has", fn([]types.Param{param("key", k)}, types.TBoolean)),
		method("delete", fn([]types.Param{param("key", k)}, types.TBoolean)),
		method("clear", fn(nil, types.TUndefined)),
		method("forEach", fn([]types.Param{param("fn", fn([]types.Param{param("value", v), param("key", k), param("map", self)}, types.TUndefined))}, types.TUndefined)),
		method("keys", fn(nil, &types.Array{Element: k})),
		method("values", fn(nil, &types.Array{Element: v})),
		method("entries", fn(nil, &types.Array{Element: pair})),
	}
	return cls
}

func newSetClass() *types.Class {
	t := &types.TypeParameter{Name: "T"}
	cls := &types.Class{Name: "Set", TypeParams: []*types.TypeParameter{t}}
	self := &types.Instance{Class: cls}
	pair := &types.Tuple{
		Elements:      []types.TupleElement{{Type: t}, {Type: t}},
		RequiredCount: 2,
	}
	cls.Fields = []types.Member{
		{Name: "size", Type: types.TNumber, Readonly: true},
	}
	cls.Methods = []types.Member{
		method("add", fn([]types.Param{param("value", t)}, self)),
		method("has", fn([]types.Param{param("value", t)}, types.TBoolean)),
		method("delete", fn([]types.Param{param("value", t)}, types.TBoolean)),
		method("clear", fn(nil, types.TUndefined)),
		method("forEach", fn([]types.Param{param("fn", fn([]types.Param{param("value", t), param("value2", t), param("set", self)}, types.TUndefined))}, types.TUndefined)),
		method("keys", fn(nil, &types.Array{Element: t})),
		method("values", fn(nil, &types.Array{Element: t})),
		method("entries", fn(nil, &types.Array{Element: pair})),
	}
	return cls
}

func newDateClass() *types.Class {
	cls := &types.Class{Name: "Date"}
	numGetter := func(name string) types.Member { return method(name, fn(nil, types.TNumber)) }
	cls.Methods = []types.Member{
		numGetter("getTime"),
		numGetter("valueOf"),
		numGetter("getFullYear"),
		numGetter("getMonth"),
		numGetter("getDate"),
		numGetter("getDay"),
		numGetter("getHours"),
		numGetter("getMinutes"),
		numGetter("getSeconds"),
		numGetter("getMilliseconds"),
		method("toISOString", fn(nil, types.TString)),
		method("toString", fn(nil, types.TString)),
		method("toDateString", fn(nil, types.TString)),
	}
	return cls
}

func newRegExpClass() *types.Class {
	cls := &types.Class{Name: "RegExp"}
	cls.Fields = []types.Member{
		{Name: "source", Type: types.TString, Readonly: true},
		{Name: "flags", Type: types.TString, Readonly: true},
		{Name: "global", Type: types.TBoolean, Readonly: true},
	}
	cls.Methods = []types.Member{
		method("test", fn([]types.Param{param("s", types.TString)}, types.TBoolean)),
		method("exec", fn([]types.Param{param("s", types.TString)}, types.NewUnion(&types.Array{Element: types.TString}, types.TNull))),
		method("toString", fn(nil, types.TString)),
	}
	return cls
}
