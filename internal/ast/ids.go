package ast

type (
	// Top-level node identities. ExprID and StmtID are the stable keys the
	// semantic index records per-node flow facts under.
	ModuleID uint32
	StmtID   uint32
	ExprID   uint32
	// Sub-entities.
	PayloadID uint32
	ParamID   uint32
	PatternID uint32
)

const (
	NoModuleID  ModuleID  = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoPayloadID PayloadID = 0
	NoParamID   ParamID   = 0
	NoPatternID PatternID = 0
)

func (id ModuleID) IsValid() bool  { return id != NoModuleID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id ParamID) IsValid() bool   { return id != NoParamID }
func (id PatternID) IsValid() bool { return id != NoPatternID }
