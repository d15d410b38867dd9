package semant

// ScopeTable is a stack of frames mapping identifiers to declared types.
// Inner frames shadow outer ones.
type ScopeTable struct {
	frames []map[string]string
}

func NewScopeTable() *ScopeTable {
	return &ScopeTable{}
}

func (s *ScopeTable) EnterScope() {
	s.frames = append(s.frames, make(map[string]string))
}

// ExitScope pops the innermost frame. Popping with no frame open is a bug
// in the caller and panics.
func (s *ScopeTable) ExitScope() {
	if len(s.frames) == 0 {
		panic("semant: ExitScope without a matching EnterScope")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Insert binds name in the innermost frame, replacing a binding made in
// that same frame.
func (s *ScopeTable) Insert(name, typ string) {
	if len(s.frames) == 0 {
		panic("semant: Insert with no open scope")
	}
	s.frames[len(s.frames)-1][name] = typ
}

func (s *ScopeTable) LookupLocal(name string) (string, bool) {
	if len(s.frames) == 0 {
		return "", false
	}
	typ, ok := s.frames[len(s.frames)-1][name]
	return typ, ok
}

func (s *ScopeTable) LookupGlobal(name string) (string, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if typ, ok := s.frames[i][name]; ok {
			return typ, true
		}
	}
	return "", false
}

func (s *ScopeTable) Depth() int {
	return len(s.frames)
}
