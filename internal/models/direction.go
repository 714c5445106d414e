package models

// Direction tells whether money moves into or out of an account.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionInflow || d == DirectionOutflow
}

// Sign returns +1 for inflow and -1 for outflow, the factor a
// transaction amount contributes to its account balance.
func (d Direction) Sign() int64 {
	if d == DirectionOutflow {
		return -1
	}
	return 1
}
