package model

// Condition grades the physical state of the item being priced.
type Condition string

const (
	ConditionA     Condition = "A"
	ConditionB     Condition = "B"
	ConditionC     Condition = "C"
	ConditionParts Condition = "Parts"
)

var conditionMultipliers = map[Condition]float64{
	ConditionA:     1.00,
	ConditionB:     0.85,
	ConditionC:     0.70,
	ConditionParts: 0.50,
}

// ParseCondition maps a grade code to a Condition. Codes match exactly
// ("A", "B", "C", "Parts"); anything else, "b" included, is ConditionA.
func ParseCondition(raw string) Condition {
	if c := Condition(raw); c.Valid() {
		return c
	}
	return ConditionA
}

// Multiplier returns the price multiplier for the grade. Unknown grades price as A.
func (c Condition) Multiplier() float64 {
	if m, ok := conditionMultipliers[c]; ok {
		return m
	}
	return 1.0
}

// Valid reports whether c is one of the four known grades.
func (c Condition) Valid() bool {
	_, ok := conditionMultipliers[c]
	return ok
}
