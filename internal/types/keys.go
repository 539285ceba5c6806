package types

const (
	// ModuleName is the error codespace and event namespace of the dice app.
	ModuleName = "dice"

	// ProgramID seeds derived custody addresses.
	ProgramID = "dice"

	// TreasurySeed is the fixed derivation seed of the house treasury.
	TreasurySeed = "treasury"

	// BaseUnitsPerUnit is the number of base units in one whole unit.
	BaseUnitsPerUnit uint64 = 1_000_000_000
)
