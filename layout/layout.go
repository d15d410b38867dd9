// Package layout turns a checked class hierarchy into object layouts and
// dispatch-table order, and renders them as LLVM type definitions.
package layout

import (
	"cool-compiler/semant"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// Field is one attribute slot of an object.
type Field struct {
	Name  string
	Type  string
	Owner string
}

// Slot is one entry of a dispatch table.
type Slot struct {
	Method string
	Owner  string
}

type Class struct {
	Name   string
	Parent string
	Fields []Field
	Slots  []Slot
}

// Compute lays out every class of g, parents before children. Inherited
// fields come first, in the parent's order. Attributes the checker
// discards (named self, or redefining an inherited one) get no field.
func Compute(g *semant.ClassGraph) []*Class {
	var out []*Class
	byName := make(map[string]*Class)

	g.Walk(func(n *semant.ClassNode) {
		c := &Class{Name: n.Name}
		taken := make(map[string]bool)
		if p := g.Parent(n.Name); p != nil {
			c.Parent = p.Name
			c.Fields = append(c.Fields, byName[p.Name].Fields...)
			for _, f := range c.Fields {
				taken[f.Name] = true
			}
		}

		for _, attr := range n.Decl.Attributes() {
			name := attr.Name.Value
			if name == "self" || taken[name] {
				continue
			}
			taken[name] = true
			c.Fields = append(c.Fields, Field{Name: name, Type: attr.Type.Value, Owner: n.Name})
		}

		for _, sig := range g.Methods(n.Name) {
			c.Slots = append(c.Slots, Slot{Method: sig.Name, Owner: sig.Owner})
		}

		byName[n.Name] = c
		out = append(out, c)
	})
	return out
}

func convertType(coolType string) types.Type {
	switch coolType {
	case semant.IntClass:
		return types.I32
	case semant.BoolClass:
		return types.I1
	default:
		return types.NewPointer(types.I8)
	}
}

// Emit declares, for each class, its object struct (dispatch pointer
// followed by the fields), its dispatch-table struct and a private
// constant holding its name.
func Emit(classes []*Class) *ir.Module {
	m := ir.NewModule()
	for _, c := range classes {
		fields := []types.Type{types.NewPointer(types.I8)}
		for _, f := range c.Fields {
			fields = append(fields, convertType(f.Type))
		}
		m.NewTypeDef(c.Name, types.NewStruct(fields...))

		slots := make([]types.Type, len(c.Slots))
		for i := range slots {
			slots[i] = types.NewPointer(types.I8)
		}
		m.NewTypeDef(c.Name+"_dispatch", types.NewStruct(slots...))

		name := m.NewGlobalDef(c.Name+"_name", constant.NewCharArrayFromString(c.Name+"\x00"))
		name.Immutable = true
		name.Linkage = enum.LinkagePrivate
	}
	return m
}
