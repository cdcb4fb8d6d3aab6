package gen

import (
	"go/token"
	"go/types"

	"github.com/syssam/mapbuilder/compiler/load"
)

var (
	shopPkg = types.NewPackage("example.com/shop", "shop")
	timePkg = types.NewPackage("time", "time")
	userPkg = types.NewPackage("example.com/shop/internal/user", "user")

	pairType  = newGeneric(shopPkg, "Pair", "K", "V")
	timeType  = newNamed(timePkg, "Time", types.NewStruct(nil, nil))
	tokenType = newNamed(userPkg, "token", types.Typ[types.String])
)

func newNamed(pkg *types.Package, name string, underlying types.Type) *types.Named {
	obj := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(obj, underlying, nil)
	pkg.Scope().Insert(obj)
	return named
}

// newGeneric declares `type name[params any] struct{}` in pkg.
func newGeneric(pkg *types.Package, name string, params ...string) *types.Named {
	obj := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(obj, nil, nil)
	tparams := make([]*types.TypeParam, len(params))
	for i, p := range params {
		tparams[i] = types.NewTypeParam(types.NewTypeName(token.NoPos, pkg, p, nil), types.NewInterfaceType(nil, nil))
	}
	named.SetTypeParams(tparams)
	named.SetUnderlying(types.NewStruct(nil, nil))
	pkg.Scope().Insert(obj)
	return named
}

func instantiate(generic *types.Named, args ...types.Type) types.Type {
	t, err := types.Instantiate(nil, generic, args, false)
	if err != nil {
		panic(err)
	}
	return t
}

func typeParam(name string) *types.TypeParam {
	return types.NewTypeParam(types.NewTypeName(token.NoPos, shopPkg, name, nil), types.NewInterfaceType(nil, nil))
}

func basic(k types.BasicKind) types.Type {
	return types.Typ[k]
}

func newField(name, key string, typ types.Type) *load.Field {
	_, ptr := typ.(*types.Pointer)
	return &load.Field{Name: name, Key: key, Type: typ, Nullable: ptr}
}

func newRecord(name string, fields ...*load.Field) *load.Record {
	return &load.Record{
		Name:     name,
		PkgPath:  shopPkg.Path(),
		PkgName:  shopPkg.Name(),
		Dir:      "/src/shop",
		Pos:      token.Position{Filename: "/src/shop/" + load.Snake(name) + ".go", Line: 3, Column: 6},
		IsStruct: true,
		Fields:   fields,
	}
}

// userRecord mirrors:
//
//	type User struct {
//		ID       int64
//		FullName string
//		Email    *string
//		Active   bool `mapbuilder:",default"`
//		Pairs    []Pair[string, int]
//		Scores   map[string]int
//		Created  time.Time
//	}
func userRecord() *load.Record {
	active := newField("Active", "active", basic(types.Bool))
	active.HasDefault = true
	return newRecord("User",
		newField("ID", "id", basic(types.Int64)),
		newField("FullName", "full_name", basic(types.String)),
		newField("Email", "email", types.NewPointer(basic(types.String))),
		active,
		newField("Pairs", "pairs", types.NewSlice(instantiate(pairType, basic(types.String), basic(types.Int)))),
		newField("Scores", "scores", types.NewMap(basic(types.String), basic(types.Int))),
		newField("Created", "created", timeType),
	)
}
