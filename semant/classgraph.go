package semant

import (
	"cool-compiler/ast"
	"cool-compiler/diagnostics"
	"strings"
)

const noParent = -1

// Param is one formal of a method signature after validation.
type Param struct {
	Name string
	Type string
}

// Signature is a validated method: unknown type names have already been
// replaced by Object and reserved names by placeholders.
type Signature struct {
	Name       string
	Params     []Param
	ReturnType string
	Owner      string
	Decl       *ast.Method
}

func (s *Signature) Arity() int {
	return len(s.Params)
}

// sameShape reports whether o may override s: equal arity, equal formal
// types position by position and an equal return type.
func (s *Signature) sameShape(o *Signature) bool {
	if s.ReturnType != o.ReturnType || len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i].Type != o.Params[i].Type {
			return false
		}
	}
	return true
}

// ClassNode is one class in the hierarchy. Parent and children are arena
// indices into the owning graph.
type ClassNode struct {
	Name    string
	Decl    *ast.Class
	Builtin bool

	// Euler tour timestamps; zero until the graph is built.
	InTime  int
	OutTime int
	Depth   int

	parent   int
	children []int

	// own holds the validated methods declared by this class, keyed by
	// name, in declaration order. Written once by feature resolution.
	own      map[string]*Signature
	ownOrder []string
}

func (n *ClassNode) visited() bool {
	return n.InTime != 0
}

// Builder is a class graph under construction. It only accepts classes;
// queries become available once Build returns a ClassGraph.
type Builder struct {
	reporter diagnostics.Reporter
	nodes    []*ClassNode
	index    map[string]int
	built    bool
}

// NewBuilder returns a builder that already holds the basic classes.
func NewBuilder(reporter diagnostics.Reporter) *Builder {
	b := &Builder{
		reporter: reporter,
		index:    make(map[string]int),
	}
	for _, decl := range builtinDecls() {
		b.add(decl, true)
	}
	return b
}

func (b *Builder) add(decl *ast.Class, builtin bool) {
	b.index[decl.Name.Value] = len(b.nodes)
	b.nodes = append(b.nodes, &ClassNode{
		Name:    decl.Name.Value,
		Decl:    decl,
		Builtin: builtin,
		parent:  noParent,
	})
}

// AddClass registers decl. It reports and skips a class whose name is
// taken or whose parent may not be inherited from. Parents are linked by
// Build, so classes may be added in any order.
func (b *Builder) AddClass(decl *ast.Class) bool {
	if b.built {
		panic("semant: AddClass after Build")
	}

	name := decl.Name.Value
	if name == SelfType {
		b.reporter.Report(diagnostics.At(decl.Pos(), diagnostics.Structural,
			"Redefinition of basic class %s.", name))
		return false
	}
	if i, exists := b.index[name]; exists {
		if b.nodes[i].Builtin {
			b.reporter.Report(diagnostics.At(decl.Pos(), diagnostics.Structural,
				"Redefinition of basic class %s.", name))
		} else {
			b.reporter.Report(diagnostics.At(decl.Pos(), diagnostics.Structural,
				"Class %s was previously defined.", name))
		}
		return false
	}
	if parent := decl.ParentName(); uninheritable[parent] {
		b.reporter.Report(diagnostics.At(decl.Pos(), diagnostics.Structural,
			"Class %s cannot inherit class %s.", name, parent))
		return false
	}

	b.add(decl, false)
	return true
}

// Build links every class to its parent and numbers the hierarchy. The
// returned graph is always fully connected and acyclic: classes with an
// unknown parent, and one class from every inheritance cycle, are moved
// under Object. ok is false when a cycle was found, in which case the
// graph must not be type checked.
func (b *Builder) Build() (*ClassGraph, bool) {
	b.built = true
	g := &ClassGraph{nodes: b.nodes, index: b.index, root: b.index[ObjectClass]}

	for i, n := range g.nodes {
		if i == g.root {
			continue
		}
		parentName := n.Decl.ParentName()
		p, ok := g.index[parentName]
		if !ok {
			b.reporter.Report(diagnostics.At(n.Decl.Pos(), diagnostics.Structural,
				"Class %s inherits from an undefined class %s.", n.Name, parentName))
			p = g.root
		}
		g.link(i, p)
	}

	g.tour()

	ok := true
	reported := make(map[int]bool)
	for i, n := range g.nodes {
		if n.visited() || reported[i] {
			continue
		}
		cycle := g.cycleFrom(i, reported)
		if cycle == nil {
			// hangs below a cycle; handled once that cycle is broken
			continue
		}
		ok = false

		first := cycle[0]
		for _, m := range cycle {
			reported[m] = true
			if m < first {
				first = m
			}
		}
		b.reportCycle(g, cycle, first)
		g.relink(first, g.root)
	}

	if !ok {
		g.tour()
	}
	return g, ok
}

func (b *Builder) reportCycle(g *ClassGraph, cycle []int, first int) {
	// start the listing at the earliest declared member
	start := 0
	for k, m := range cycle {
		if m == first {
			start = k
		}
	}
	names := make([]string, 0, len(cycle)+1)
	for k := range cycle {
		names = append(names, g.nodes[cycle[(start+k)%len(cycle)]].Name)
	}
	names = append(names, names[0])

	n := g.nodes[first]
	b.reporter.Report(diagnostics.At(n.Decl.Pos(), diagnostics.Structural,
		"Class %s, or an ancestor of %s, is involved in an inheritance cycle: %s.",
		n.Name, n.Name, strings.Join(names, " -> ")))
}

// ClassGraph is a built, acyclic class hierarchy rooted at Object.
type ClassGraph struct {
	nodes []*ClassNode
	index map[string]int
	root  int
}

func (g *ClassGraph) link(child, parent int) {
	g.nodes[child].parent = parent
	g.nodes[parent].children = append(g.nodes[parent].children, child)
}

func (g *ClassGraph) relink(child, parent int) {
	old := g.nodes[child].parent
	if old != noParent {
		kids := g.nodes[old].children
		for k, c := range kids {
			if c == child {
				g.nodes[old].children = append(kids[:k:k], kids[k+1:]...)
				break
			}
		}
	}
	g.link(child, parent)
}

// tour assigns Euler tour timestamps from the root. Nodes that cannot be
// reached keep InTime zero.
func (g *ClassGraph) tour() {
	for _, n := range g.nodes {
		n.InTime, n.OutTime, n.Depth = 0, 0, 0
	}
	timer := 1
	g.traverse(
		func(n *ClassNode) {
			n.InTime = timer
			timer++
			if p := n.parent; p != noParent && g.nodes[p].visited() {
				n.Depth = g.nodes[p].Depth + 1
			}
		},
		func(n *ClassNode) {
			n.OutTime = timer
			timer++
		},
	)
}

// cycleFrom follows parent links from start and returns the members of
// the cycle it runs into, or nil when the walk reaches a visited node or
// one whose cycle was already reported.
func (g *ClassGraph) cycleFrom(start int, reported map[int]bool) []int {
	pos := make(map[int]int)
	var path []int
	for cur := start; cur != noParent; cur = g.nodes[cur].parent {
		if g.nodes[cur].visited() || reported[cur] {
			return nil
		}
		if k, seen := pos[cur]; seen {
			return path[k:]
		}
		pos[cur] = len(path)
		path = append(path, cur)
	}
	return nil
}

type frame struct {
	node int
	next int
}

// traverse visits the tree below the root depth first without recursion,
// calling pre on entry and post on exit. Either may be nil.
func (g *ClassGraph) traverse(pre, post func(*ClassNode)) {
	stack := []frame{{node: g.root}}
	if pre != nil {
		pre(g.nodes[g.root])
	}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := g.nodes[top.node]
		if top.next < len(n.children) {
			child := n.children[top.next]
			top.next++
			if pre != nil {
				pre(g.nodes[child])
			}
			stack = append(stack, frame{node: child})
			continue
		}
		if post != nil {
			post(n)
		}
		stack = stack[:len(stack)-1]
	}
}

func (g *ClassGraph) lookup(name string) (*ClassNode, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

func (g *ClassGraph) HasClass(name string) bool {
	_, ok := g.index[name]
	return ok
}

func (g *ClassGraph) IsBasicClass(name string) bool {
	n, ok := g.lookup(name)
	return ok && n.Builtin
}

// Node returns the named class, or nil.
func (g *ClassGraph) Node(name string) *ClassNode {
	n, _ := g.lookup(name)
	return n
}

func (g *ClassGraph) Root() *ClassNode {
	return g.nodes[g.root]
}

// Parent returns the parent of the named class, or nil for Object and
// unknown names.
func (g *ClassGraph) Parent(name string) *ClassNode {
	n, ok := g.lookup(name)
	if !ok || n.parent == noParent {
		return nil
	}
	return g.nodes[n.parent]
}

func (g *ClassGraph) Children(name string) []*ClassNode {
	n, ok := g.lookup(name)
	if !ok {
		return nil
	}
	out := make([]*ClassNode, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, g.nodes[c])
	}
	return out
}

// IsAncestor reports whether anc is nd or one of its ancestors.
func (g *ClassGraph) IsAncestor(anc, nd string) bool {
	a, ok := g.lookup(anc)
	if !ok {
		return false
	}
	n, ok := g.lookup(nd)
	if !ok {
		return false
	}
	return a.InTime <= n.InTime && n.OutTime <= a.OutTime
}

// Conforms reports whether a value of type x may be used where y is
// expected.
func (g *ClassGraph) Conforms(x, y string) bool {
	return g.IsAncestor(y, x)
}

// LeastCommonAncestor is the join of a and b in the hierarchy. Unknown
// names join to Object.
func (g *ClassGraph) LeastCommonAncestor(a, b string) string {
	n, ok := g.lookup(a)
	if !ok || !g.HasClass(b) {
		return ObjectClass
	}
	for !g.IsAncestor(n.Name, b) {
		n = g.nodes[n.parent]
	}
	return n.Name
}

// ResolvedMethod finds name on class or the nearest ancestor defining it.
func (g *ClassGraph) ResolvedMethod(class, name string) *Signature {
	n, ok := g.lookup(class)
	for ok {
		if sig, found := n.own[name]; found {
			return sig
		}
		if n.parent == noParent {
			break
		}
		n = g.nodes[n.parent]
	}
	return nil
}

// Methods returns the resolved method table of class in dispatch slot
// order: inherited slots first, an override taking over the slot of the
// method it replaces, new methods appended in declaration order.
func (g *ClassGraph) Methods(class string) []*Signature {
	n, ok := g.lookup(class)
	if !ok {
		return nil
	}

	var chain []*ClassNode
	for {
		chain = append(chain, n)
		if n.parent == noParent {
			break
		}
		n = g.nodes[n.parent]
	}

	var table []*Signature
	slot := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, name := range chain[i].ownOrder {
			sig := chain[i].own[name]
			if k, exists := slot[name]; exists {
				table[k] = sig
				continue
			}
			slot[name] = len(table)
			table = append(table, sig)
		}
	}
	return table
}

// Walk calls fn for every class in pre-order, parents before children.
func (g *ClassGraph) Walk(fn func(*ClassNode)) {
	g.traverse(fn, nil)
}

// Classes returns every class name in pre-order.
func (g *ClassGraph) Classes() []string {
	names := make([]string, 0, len(g.nodes))
	g.Walk(func(n *ClassNode) {
		names = append(names, n.Name)
	})
	return names
}

func (g *ClassGraph) setMethods(n *ClassNode, order []*Signature) {
	n.own = make(map[string]*Signature, len(order))
	n.ownOrder = n.ownOrder[:0]
	for _, sig := range order {
		n.own[sig.Name] = sig
		n.ownOrder = append(n.ownOrder, sig.Name)
	}
}
