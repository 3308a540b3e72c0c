package symtab

// Saver owns the pair of tables the assembler command surface exposes:
// a working table rebuilt on every assembly attempt, and the saved
// table promoted from the working one only on success. Both tables
// are process-wide singletons per §3/§9: "thread a single core context
// through command handlers rather than reach into module-level
// variables" -- Saver is that context's symbol-table slice.
type Saver struct {
	working *Table
	saved   *Table
}

// NewSaver returns a Saver with empty working and saved tables.
func NewSaver() *Saver {
	return &Saver{working: New(), saved: New()}
}

// NewWorking discards the current working table and starts a fresh,
// empty one -- called at the start of every "assemble" command.
func (s *Saver) NewWorking() {
	s.working = New()
}

// Working returns the table being built by the in-progress assembly.
func (s *Saver) Working() *Table {
	return s.working
}

// Save promotes the working table to the saved table, called once
// pass 1 and pass 2 both succeed.
func (s *Saver) Save() {
	s.saved = s.working.Clone()
}

// Saved returns the frozen snapshot from the last successful assembly.
func (s *Saver) Saved() *Table {
	return s.saved
}
