package model

import "github.com/shopspring/decimal"

// PlanningHorizon is the closed date interval a Problem is solved over.
type PlanningHorizon struct {
	DateRange
}

// NewPlanningHorizon builds a horizon from start/end dates.
func NewPlanningHorizon(start, end Date) PlanningHorizon {
	return PlanningHorizon{DateRange{Start: start, End: end}}
}

// Algorithm selects which solver kernel handles a Problem.
type Algorithm string

const (
	AlgorithmILP Algorithm = "ILP"
	AlgorithmSA  Algorithm = "SA"
	AlgorithmGA  Algorithm = "GA"
)

// CoolingSchedule selects the SA temperature decay function.
type CoolingSchedule string

const (
	CoolingExponential  CoolingSchedule = "exponential"
	CoolingLinear       CoolingSchedule = "linear"
	CoolingLogarithmic  CoolingSchedule = "logarithmic"
)

// ILPConfig configures the exact solver (C3).
type ILPConfig struct {
	TimeLimitSeconds    int
	RelGap              float64
	MinUtilFactor       float64
	MonthlyOvertimeCap  float64
	YearlyOvertimeCap   float64
}

// DefaultILPConfig returns the documented default tuning.
func DefaultILPConfig() ILPConfig {
	return ILPConfig{
		TimeLimitSeconds:   3600,
		RelGap:             0.0,
		MinUtilFactor:      0.9,
		MonthlyOvertimeCap: 0.05,
		YearlyOvertimeCap:  0.0,
	}
}

// SAConfig configures the simulated-annealing solver (C4).
type SAConfig struct {
	InitialTemp float64
	FinalTemp   float64
	MaxIters    int
	Cooling     CoolingSchedule
}

// DefaultSAConfig returns the documented default tuning.
func DefaultSAConfig() SAConfig {
	return SAConfig{InitialTemp: 2000, FinalTemp: 1, MaxIters: 2000, Cooling: CoolingExponential}
}

// GAConfig configures the genetic-algorithm solver (C5).
type GAConfig struct {
	Population    int
	Generations   int
	MutationRate  float64
	CrossoverRate float64
	Elitism       int
}

// DefaultGAConfig returns the documented default tuning.
func DefaultGAConfig() GAConfig {
	return GAConfig{Population: 50, Generations: 100, MutationRate: 0.2, CrossoverRate: 0.8, Elitism: 2}
}

// Config bundles every solver's configuration plus the AllowMinStaffRescale
// flag. No solver reads AllowMinStaffRescale: SA/GA construction staffs each
// slot with as many eligible employees as exist whatever its value, the ILP
// absorbs any shortfall in slack, and no solver reports NoFeasibleSchedule
// for unmet min_staff.
type Config struct {
	ILP                    ILPConfig
	SA                     SAConfig
	GA                     GAConfig
	AllowMinStaffRescale   bool
}

// DefaultConfig returns every solver's documented defaults.
func DefaultConfig() Config {
	return Config{ILP: DefaultILPConfig(), SA: DefaultSAConfig(), GA: DefaultGAConfig()}
}

// CancelSignal is a caller-owned cancellation primitive. SA polls
// Cancelled() every 100 iterations and GA every 10 generations; the ILP
// solver does not poll it. Solvers must not hold a reference to it past
// Solve returning.
type CancelSignal interface {
	Cancelled() bool
}

// cancelFunc adapts a plain function to CancelSignal.
type cancelFunc func() bool

func (f cancelFunc) Cancelled() bool { return f() }

// CancelFunc wraps a function as a CancelSignal.
func CancelFunc(f func() bool) CancelSignal { return cancelFunc(f) }

// Problem is the input to Solve: the workforce, shift catalogue, horizon,
// and policy. It exclusively owns its entities; a Schedule produced from it
// holds only ids, never references back into the Problem.
type Problem struct {
	Employees []Employee
	Shifts    []ShiftTemplate
	Horizon   PlanningHorizon
	Policy    CompanyPolicy
	Algorithm Algorithm
	Config    Config
	Seed      *uint64
	Cancel    CancelSignal

	employeeByID map[EmployeeID]*Employee
	shiftByID    map[ShiftID]*ShiftTemplate
}

// Index builds the id-lookup maps. Must be called once after construction
// and before any solver consults EmployeeByID/ShiftByID; the façade does
// this as part of validation.
func (p *Problem) Index() {
	p.employeeByID = make(map[EmployeeID]*Employee, len(p.Employees))
	for i := range p.Employees {
		p.employeeByID[p.Employees[i].ID] = &p.Employees[i]
	}
	p.shiftByID = make(map[ShiftID]*ShiftTemplate, len(p.Shifts))
	for i := range p.Shifts {
		p.shiftByID[p.Shifts[i].ID] = &p.Shifts[i]
	}
}

// EmployeeByID looks up an employee; ok is false for an unknown id.
func (p *Problem) EmployeeByID(id EmployeeID) (*Employee, bool) {
	e, ok := p.employeeByID[id]
	return e, ok
}

// ShiftByID looks up a shift template; ok is false for an unknown id.
func (p *Problem) ShiftByID(id ShiftID) (*ShiftTemplate, bool) {
	s, ok := p.shiftByID[id]
	return s, ok
}

// ScheduleEntry assigns one employee to one shift on one date.
type ScheduleEntry struct {
	EmployeeID EmployeeID
	Date       Date
	ShiftID    ShiftID
}

// Schedule is a multiset of entries. It holds only ids; callers resolve
// entities through the Problem that produced it.
type Schedule struct {
	Entries []ScheduleEntry
}

// Status reports how a solve concluded.
type Status string

const (
	StatusOptimal     Status = "Optimal"
	StatusFeasible    Status = "Feasible"
	StatusInfeasible  Status = "Infeasible"
	StatusTimeLimit   Status = "TimeLimit"
	StatusCancelled   Status = "Cancelled"
	StatusError       Status = "Error"
)

// SolveResult is the uniform output of every solver.
type SolveResult struct {
	Schedule     Schedule
	Status       Status
	Objective    decimal.Decimal
	Gap          *decimal.Decimal // ILP only
	Diagnostics  map[string]any
}
